// Package logger 构建带链路标注的结构化日志器。
package logger

import (
	"context"

	"github.com/miravio/services-catalog/internal/infrastructure/configloader"

	gclog "github.com/bionicotaku/lingo-utils/gclog"
	"github.com/go-kratos/kratos/v2/log"
	"go.opentelemetry.io/otel/trace"
)

// NewLogger builds a Kratos-compatible logger with trace/span enrichment.
func NewLogger(meta configloader.ServiceMetadata) (log.Logger, error) {
	baseLogger, err := gclog.NewLogger(
		gclog.WithService(meta.Name),
		gclog.WithVersion(meta.Version),
		gclog.WithEnvironment(meta.Environment),
		gclog.WithStaticLabels(map[string]string{"service.id": meta.InstanceID}),
		gclog.EnableSourceLocation(),
	)
	if err != nil {
		return nil, err
	}
	return log.With(
		baseLogger,
		"trace_id", log.Valuer(func(ctx context.Context) interface{} {
			sc := trace.SpanContextFromContext(ctx)
			if sc.HasTraceID() {
				return sc.TraceID().String()
			}
			return ""
		}),
		"span_id", log.Valuer(func(ctx context.Context) interface{} {
			sc := trace.SpanContextFromContext(ctx)
			if sc.HasSpanID() {
				return sc.SpanID().String()
			}
			return ""
		}),
	), nil
}
