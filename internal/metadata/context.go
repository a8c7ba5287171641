// Package metadata 在 Context 中传递网关透传的请求元信息。
package metadata

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// HandlerMetadata 汇总网关注入的请求头：幂等键与操作者标识。
type HandlerMetadata struct {
	IdempotencyKey string
	UserID         string
}

// IsZero 判断是否没有任何可传递的元信息。
func (m HandlerMetadata) IsZero() bool {
	return m.IdempotencyKey == "" && m.UserID == ""
}

// UserUUID 尝试把操作者标识解析为 UUID。
func (m HandlerMetadata) UserUUID() (uuid.UUID, bool) {
	trimmed := strings.TrimSpace(m.UserID)
	if trimmed == "" {
		return uuid.Nil, false
	}
	value, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, false
	}
	return value, true
}

type metaKey struct{}

// Inject 把元信息写入 Context，空元信息不产生新 Context。
func Inject(ctx context.Context, meta HandlerMetadata) context.Context {
	if meta.IsZero() {
		return ctx
	}
	return context.WithValue(ctx, metaKey{}, meta)
}

// FromContext 读取上游注入的元信息。
func FromContext(ctx context.Context) (HandlerMetadata, bool) {
	if ctx == nil {
		return HandlerMetadata{}, false
	}
	meta, ok := ctx.Value(metaKey{}).(HandlerMetadata)
	return meta, ok
}

// Operator 返回当前请求的操作者标识，缺失时返回 "unknown"，便于审计日志。
func Operator(ctx context.Context) string {
	meta, ok := FromContext(ctx)
	if !ok || strings.TrimSpace(meta.UserID) == "" {
		return "unknown"
	}
	return strings.TrimSpace(meta.UserID)
}
