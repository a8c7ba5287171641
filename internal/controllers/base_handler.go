package controllers

import (
	"context"
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/miravio/services-catalog/internal/metadata"

	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// HandlerType 表示 Handler 的语义类别，用于选择超时策略。
type HandlerType int

const (
	// HandlerTypeDefault 表示未显式区分的 Handler。
	HandlerTypeDefault HandlerType = iota
	// HandlerTypeCommand 表示写模型命令 Handler。
	HandlerTypeCommand
	// HandlerTypeQuery 表示读模型查询 Handler。
	HandlerTypeQuery
	// HandlerTypeIngest 表示入库流水线 Handler，覆盖上传与转码轮询的长耗时。
	HandlerTypeIngest
)

// HandlerTimeouts 聚合不同类型 Handler 的超时策略。
type HandlerTimeouts struct {
	Default time.Duration
	Command time.Duration
	Query   time.Duration
	Ingest  time.Duration
}

const (
	fallbackDefaultTimeout = 5 * time.Second
	fallbackQueryTimeout   = 3 * time.Second
	fallbackIngestTimeout  = 10 * time.Minute
	headerUserID           = "x-md-global-user-id"
	headerIdempotencyKey   = "x-md-idempotency-key"
)

// BaseHandler 提供公共的超时、Metadata 解析能力，供具体 Handler 内嵌复用。
type BaseHandler struct {
	timeouts HandlerTimeouts
}

// NewBaseHandler 构造基础 Handler，并为缺省值填充合理的回退策略。
func NewBaseHandler(timeouts HandlerTimeouts) *BaseHandler {
	if timeouts.Default <= 0 {
		if timeouts.Command > 0 {
			timeouts.Default = timeouts.Command
		} else if timeouts.Query > 0 {
			timeouts.Default = timeouts.Query
		} else {
			timeouts.Default = fallbackDefaultTimeout
		}
	}
	if timeouts.Command <= 0 {
		timeouts.Command = timeouts.Default
	}
	if timeouts.Query <= 0 {
		if timeouts.Default > 0 {
			timeouts.Query = timeouts.Default
		} else {
			timeouts.Query = fallbackQueryTimeout
		}
	}
	if timeouts.Ingest <= 0 {
		timeouts.Ingest = fallbackIngestTimeout
	}
	return &BaseHandler{timeouts: timeouts}
}

// WithTimeout 根据 Handler 类型包装上下文，返回绑定超时的新 Context 与取消函数。
func (h *BaseHandler) WithTimeout(ctx context.Context, kind HandlerType) (context.Context, context.CancelFunc) {
	if h == nil {
		return context.WithTimeout(ctx, fallbackDefaultTimeout)
	}
	var timeout time.Duration
	switch kind {
	case HandlerTypeCommand:
		timeout = h.timeouts.Command
	case HandlerTypeQuery:
		timeout = h.timeouts.Query
	case HandlerTypeIngest:
		timeout = h.timeouts.Ingest
	default:
		timeout = h.timeouts.Default
	}
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// wrapRoute 为手写路由设置 Operation 并接入服务端中间件链，
// 使 recovery、logging、metrics 等中间件对 REST 路由同样生效。
func wrapRoute(operation string, h khttp.HandlerFunc) khttp.HandlerFunc {
	return func(ctx khttp.Context) error {
		khttp.SetOperation(ctx, operation)
		next := ctx.Middleware(func(context.Context, interface{}) (interface{}, error) {
			return nil, h(ctx)
		})
		_, err := next(ctx, nil)
		return err
	}
}

// ExtractMetadata 解析网关透传的幂等键与操作者标识。
func (h *BaseHandler) ExtractMetadata(header stdhttp.Header) metadata.HandlerMetadata {
	if len(header) == 0 {
		return metadata.HandlerMetadata{}
	}
	return metadata.HandlerMetadata{
		IdempotencyKey: strings.TrimSpace(header.Get(headerIdempotencyKey)),
		UserID:         strings.TrimSpace(header.Get(headerUserID)),
	}
}
