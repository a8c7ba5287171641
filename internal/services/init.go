// Package services contains application use case orchestration.
package services

import (
	"github.com/miravio/services-catalog/internal/clients/bunny"
	"github.com/miravio/services-catalog/internal/repositories"

	"github.com/google/wire"
)

// ProviderSet is services providers.
// wire.Bind 把仓储具体类型绑定到各服务声明的接口上。
var ProviderSet = wire.NewSet(
	NewAssetCommandService,
	NewAssetQueryService,
	NewIngestService,
	NewVisibilityService,
	NewSeriesService,
	NewMovieService,
	NewTrailerService,
	NewAdService,
	NewCategoryService,
	NewPlanService,
	NewReminderService,
	NewAdminUserService,

	wire.Bind(new(AssetCommandRepo), new(*repositories.AssetRepository)),
	wire.Bind(new(AssetQueryRepo), new(*repositories.AssetRepository)),
	wire.Bind(new(VisibilityAssetRepo), new(*repositories.AssetRepository)),
	wire.Bind(new(IngestJobRepo), new(*repositories.IngestJobRepository)),
	wire.Bind(new(SeriesRepo), new(*repositories.SeriesRepository)),
	wire.Bind(new(VisibilitySeriesRepo), new(*repositories.SeriesRepository)),
	wire.Bind(new(MovieRepo), new(*repositories.MovieRepository)),
	wire.Bind(new(VisibilityMovieRepo), new(*repositories.MovieRepository)),
	wire.Bind(new(TrailerRepo), new(*repositories.TrailerRepository)),
	wire.Bind(new(AdRepo), new(*repositories.AdRepository)),
	wire.Bind(new(CategoryRepo), new(*repositories.CategoryRepository)),
	wire.Bind(new(PlanRepo), new(*repositories.PlanRepository)),
	wire.Bind(new(ReminderRepo), new(*repositories.ReminderRepository)),
	wire.Bind(new(AdminUserRepo), new(*repositories.AdminUserRepository)),
	wire.Bind(new(OutboxWriter), new(*repositories.OutboxRepository)),
	wire.Bind(new(StreamClient), new(*bunny.Client)),
)
