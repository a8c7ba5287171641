package repositories

import (
	outboxpkg "github.com/bionicotaku/lingo-utils/outbox"
	outboxcfg "github.com/bionicotaku/lingo-utils/outbox/config"
	"github.com/bionicotaku/lingo-utils/outbox/store"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/jackc/pgx/v5/pgxpool"
)

// InboxRepository 包装 inbox_events 存储，供转码回执消费者做事件去重。
type InboxRepository struct {
	inner *store.Repository
}

// NewInboxRepository 按目录库 schema 初始化 inbox 存储。
func NewInboxRepository(db *pgxpool.Pool, logger log.Logger, cfg outboxcfg.Config) *InboxRepository {
	inner, err := outboxpkg.NewRepository(db, logger, outboxpkg.RepositoryOptions{Schema: cfg.Schema})
	if err != nil {
		log.NewHelper(logger).Errorw("msg", "init inbox repository failed", "error", err)
		inner = store.NewRepository(db, logger)
	}
	return &InboxRepository{inner: inner}
}

// Store 暴露底层存储，消费者 Runner 据此写入与确认去重记录。
func (r *InboxRepository) Store() *store.Repository {
	return r.inner
}
