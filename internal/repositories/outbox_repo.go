package repositories

import (
	"context"
	"fmt"
	"time"

	outboxpkg "github.com/bionicotaku/lingo-utils/outbox"
	outboxcfg "github.com/bionicotaku/lingo-utils/outbox/config"
	"github.com/bionicotaku/lingo-utils/outbox/store"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OutboxMessage 描述需要写入 outbox_events 的事件数据。
type OutboxMessage struct {
	EventID       uuid.UUID
	AggregateType string
	AggregateID   uuid.UUID
	EventType     string
	Payload       []byte
	Headers       []byte
	AvailableAt   time.Time
}

// OutboxRepository 提供写入 Outbox 表的能力，确保与 TxManager Session 协作。
// 发布侧的扫描/重试由 lingo-utils outbox publisher 基于 Shared() 仓储完成。
type OutboxRepository struct {
	pool     *pgxpool.Pool
	delegate *store.Repository
	log      *log.Helper
}

// NewOutboxRepository 构造 Repository。
func NewOutboxRepository(db *pgxpool.Pool, logger log.Logger, cfg outboxcfg.Config) *OutboxRepository {
	storeRepo, err := outboxpkg.NewRepository(db, logger, outboxpkg.RepositoryOptions{Schema: cfg.Schema})
	if err != nil {
		log.NewHelper(logger).Errorw("msg", "init outbox repository failed", "error", err)
		storeRepo = store.NewRepository(db, logger)
	}
	return &OutboxRepository{
		pool:     db,
		delegate: storeRepo,
		log:      log.NewHelper(logger),
	}
}

// Enqueue 在指定事务内插入 Outbox 事件。
func (r *OutboxRepository) Enqueue(ctx context.Context, sess txmanager.Session, msg OutboxMessage) error {
	// 统一 AvailableAt 为 UTC，缺省时自动填当前时间，方便调度器排序。
	availableAt := msg.AvailableAt.UTC()
	if availableAt.IsZero() {
		availableAt = time.Now().UTC()
	}

	query := `
		INSERT INTO catalog.outbox_events (
			event_id, aggregate_type, aggregate_id, event_type, payload, headers, available_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (event_id) DO NOTHING
	`

	if _, err := querier(r.pool, sess).Exec(ctx, query,
		msg.EventID, msg.AggregateType, msg.AggregateID, msg.EventType, msg.Payload, msg.Headers, availableAt,
	); err != nil {
		r.log.WithContext(ctx).Errorf("insert outbox event failed: event_id=%s err=%v", msg.EventID, err)
		return fmt.Errorf("insert outbox event: %w", err)
	}

	r.log.WithContext(ctx).Debugf("outbox event enqueued: aggregate=%s id=%s", msg.AggregateType, msg.AggregateID)
	return nil
}

// Shared 暴露底层 store 仓储，供发布任务复用扫描与标记逻辑。
func (r *OutboxRepository) Shared() *store.Repository {
	return r.delegate
}
