package server

import (
	stdhttp "net/http"
	"time"

	"github.com/miravio/services-catalog/internal/controllers"
	"github.com/miravio/services-catalog/internal/infrastructure/configloader"

	obsTrace "github.com/bionicotaku/lingo-utils/observability/tracing"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/middleware/logging"
	"github.com/go-kratos/kratos/v2/middleware/metadata"
	kmetrics "github.com/go-kratos/kratos/v2/middleware/metrics"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHTTPServer 构造管理后台的 HTTP 服务，挂载全部 REST 路由与运维端点。
func NewHTTPServer(cfg configloader.ServerConfig, registry *controllers.Registry, telemetry *Telemetry, logger log.Logger) *http.Server {
	ms := []middleware.Middleware{
		obsTrace.Server(),
		recovery.Recovery(),
		metadata.Server(
			metadata.WithPropagatedPrefix("x-md-"),
		),
	}
	if telemetry != nil {
		ms = append(ms, kmetrics.Server(
			kmetrics.WithRequests(telemetry.RequestCounter),
			kmetrics.WithSeconds(telemetry.SecondsHistogram),
		))
	}
	ms = append(ms,
		authServer(cfg.JWT, logger),
		logging.Server(logger),
	)

	opts := []http.ServerOption{http.Middleware(ms...)}
	if cfg.HTTP.Network != "" {
		opts = append(opts, http.Network(cfg.HTTP.Network))
	}
	if cfg.HTTP.Addr != "" {
		opts = append(opts, http.Address(cfg.HTTP.Addr))
	}
	// 传 0 关闭 kratos 默认的 1s 请求超时：入库流水线请求需要长连接，
	// 各 Handler 自带分级超时策略。
	opts = append(opts, http.Timeout(serverTimeout(cfg.HTTP.Timeout)))

	srv := http.NewServer(opts...)

	srv.Handle("/healthz", stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		w.WriteHeader(stdhttp.StatusOK)
	}))

	srv.Handle("/readyz", stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		// 预留 readiness 校验钩子：若未来需要检查数据库等依赖，可在此处扩展。
		w.WriteHeader(stdhttp.StatusOK)
	}))

	if telemetry != nil && telemetry.PrometheusRegistry != nil {
		srv.Handle("/metrics", promhttp.HandlerFor(telemetry.PrometheusRegistry, promhttp.HandlerOpts{}))
	}

	registry.Register(srv.Route("/api/v1"))
	return srv
}

func serverTimeout(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0
	}
	return d
}
