package controllers

import (
	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/google/wire"
)

// ProviderSet exposes controller/handler constructors for DI.
var ProviderSet = wire.NewSet(
	ProvideBaseHandler,
	NewAssetHandler,
	NewIngestHandler,
	NewSeriesHandler,
	NewMovieHandler,
	NewTrailerHandler,
	NewAdHandler,
	NewCategoryHandler,
	NewPlanHandler,
	NewReminderHandler,
	NewAdminUserHandler,
	NewRegistry,
)

// ProvideBaseHandler 以默认超时策略构造基础 Handler。
func ProvideBaseHandler() *BaseHandler {
	return NewBaseHandler(HandlerTimeouts{})
}

// Registry 聚合全部 HTTP Handler，供传输层统一挂载。
type Registry struct {
	handlers []interface{ Register(*khttp.Router) }
}

// NewRegistry 构造 Handler 注册表。
func NewRegistry(
	assets *AssetHandler,
	ingest *IngestHandler,
	series *SeriesHandler,
	movies *MovieHandler,
	trailers *TrailerHandler,
	ads *AdHandler,
	categories *CategoryHandler,
	plans *PlanHandler,
	reminders *ReminderHandler,
	adminUsers *AdminUserHandler,
) *Registry {
	return &Registry{handlers: []interface{ Register(*khttp.Router) }{
		assets,
		ingest,
		series,
		movies,
		trailers,
		ads,
		categories,
		plans,
		reminders,
		adminUsers,
	}}
}

// Register 将全部 Handler 挂载到指定路由组。
func (r *Registry) Register(router *khttp.Router) {
	if r == nil {
		return
	}
	for _, h := range r.handlers {
		h.Register(router)
	}
}
