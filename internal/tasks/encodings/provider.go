package encodings

import (
	"github.com/miravio/services-catalog/internal/clients/bunny"
	"github.com/miravio/services-catalog/internal/infrastructure/configloader"
	"github.com/miravio/services-catalog/internal/repositories"

	"github.com/bionicotaku/lingo-utils/gcpubsub"
	outboxcfg "github.com/bionicotaku/lingo-utils/outbox/config"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
)

// ProvideRunner 装配转码回调 Runner。依赖缺失时返回 nil，由调用方决定是否降级运行。
func ProvideRunner(
	assetRepo *repositories.AssetRepository,
	inboxRepo *repositories.InboxRepository,
	outboxRepo *repositories.OutboxRepository,
	stream *bunny.Client,
	tx txmanager.Manager,
	sub configloader.EncodingSubscriber,
	outboxCfg outboxcfg.Config,
	logger log.Logger,
) *Runner {
	realSub := gcpubsub.Subscriber(sub)
	if assetRepo == nil || inboxRepo == nil || outboxRepo == nil || realSub == nil || logger == nil {
		return nil
	}

	runner, err := NewRunner(RunnerParams{
		Subscriber: realSub,
		InboxRepo:  inboxRepo,
		AssetRepo:  assetRepo,
		OutboxRepo: outboxRepo,
		Stream:     stream,
		TxManager:  tx,
		Logger:     logger,
		Config:     outboxCfg.Inbox,
	})
	if err != nil {
		log.NewHelper(logger).Errorw("msg", "init encodings runner failed", "error", err)
		return nil
	}
	return runner
}
