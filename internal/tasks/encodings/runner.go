package encodings

import (
	"context"
	"fmt"

	"github.com/miravio/services-catalog/internal/clients/bunny"
	"github.com/miravio/services-catalog/internal/repositories"

	"github.com/bionicotaku/lingo-utils/gcpubsub"
	"github.com/bionicotaku/lingo-utils/outbox/config"
	"github.com/bionicotaku/lingo-utils/outbox/inbox"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
)

// Runner 负责消费转码回调事件。
type Runner struct {
	delegate *inbox.Runner[Event]
}

// RunnerParams 注入构建 Runner 所需的依赖。
type RunnerParams struct {
	Subscriber gcpubsub.Subscriber
	InboxRepo  *repositories.InboxRepository
	AssetRepo  *repositories.AssetRepository
	OutboxRepo *repositories.OutboxRepository
	Stream     *bunny.Client
	TxManager  txmanager.Manager
	Logger     log.Logger
	Config     config.InboxConfig
}

// NewRunner 构造转码回调 Runner。Stream 允许为空，仅影响就绪态的元数据补全。
func NewRunner(params RunnerParams) (*Runner, error) {
	if params.Subscriber == nil {
		return nil, fmt.Errorf("encodings: subscriber is required")
	}
	if params.InboxRepo == nil {
		return nil, fmt.Errorf("encodings: inbox repository is required")
	}
	if params.AssetRepo == nil {
		return nil, fmt.Errorf("encodings: asset repository is required")
	}
	if params.OutboxRepo == nil {
		return nil, fmt.Errorf("encodings: outbox repository is required")
	}
	if params.TxManager == nil {
		return nil, fmt.Errorf("encodings: transaction manager is required")
	}

	var stream streamClient
	if params.Stream != nil {
		stream = params.Stream
	}
	handler := NewHandler(params.AssetRepo, params.OutboxRepo, stream, params.Logger)
	decoder := newDecoder()

	delegate, err := inbox.NewRunner[Event](inbox.RunnerParams[Event]{
		Store:      params.InboxRepo.Store(),
		Subscriber: params.Subscriber,
		TxManager:  params.TxManager,
		Decoder:    decoder,
		Handler:    handler,
		Config:     params.Config,
		Logger:     params.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &Runner{delegate: delegate}, nil
}

// Run 启动消费循环。
func (r *Runner) Run(ctx context.Context) error {
	if r == nil || r.delegate == nil {
		return nil
	}
	return r.delegate.Run(ctx)
}
