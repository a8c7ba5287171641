package controllers

import (
	catalogv1 "github.com/miravio/services-catalog/api/catalog/v1"
	"github.com/miravio/services-catalog/internal/controllers/dto"
	"github.com/miravio/services-catalog/internal/metadata"
	"github.com/miravio/services-catalog/internal/services"
	"github.com/miravio/services-catalog/internal/views"

	"github.com/go-kratos/kratos/v2/errors"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// SeriesHandler 处理系列、季、单集的编排与可见性 HTTP 请求。
type SeriesHandler struct {
	*BaseHandler
	svc        *services.SeriesService
	visibility *services.VisibilityService
}

// NewSeriesHandler 构造系列 Handler。
func NewSeriesHandler(svc *services.SeriesService, visibility *services.VisibilityService, base *BaseHandler) *SeriesHandler {
	if base == nil {
		base = NewBaseHandler(HandlerTimeouts{})
	}
	return &SeriesHandler{BaseHandler: base, svc: svc, visibility: visibility}
}

// Register 挂载系列、季、单集路由。
func (h *SeriesHandler) Register(r *khttp.Router) {
	r.POST("/series", wrapRoute("/catalog.v1.SeriesService/CreateSeries", h.createSeries))
	r.GET("/series", wrapRoute("/catalog.v1.SeriesService/ListSeries", h.listSeries))
	r.GET("/series/{series_id}", wrapRoute("/catalog.v1.SeriesService/GetSeries", h.getSeries))
	r.PATCH("/series/{series_id}", wrapRoute("/catalog.v1.SeriesService/UpdateSeries", h.updateSeries))
	r.DELETE("/series/{series_id}", wrapRoute("/catalog.v1.SeriesService/DeleteSeries", h.deleteSeries))
	r.POST("/series/{series_id}/publish", wrapRoute("/catalog.v1.SeriesService/PublishSeries", h.publishSeries))
	r.POST("/series/{series_id}/archive", wrapRoute("/catalog.v1.SeriesService/ArchiveSeries", h.archiveSeries))
	r.POST("/series/{series_id}/seasons", wrapRoute("/catalog.v1.SeriesService/CreateSeason", h.createSeason))
	r.GET("/series/{series_id}/seasons", wrapRoute("/catalog.v1.SeriesService/ListSeasons", h.listSeasons))
	r.DELETE("/seasons/{season_id}", wrapRoute("/catalog.v1.SeriesService/DeleteSeason", h.deleteSeason))
	r.POST("/seasons/{season_id}/episodes", wrapRoute("/catalog.v1.SeriesService/CreateEpisode", h.createEpisode))
	r.GET("/seasons/{season_id}/episodes", wrapRoute("/catalog.v1.SeriesService/ListEpisodes", h.listEpisodes))
	r.PATCH("/episodes/{episode_id}", wrapRoute("/catalog.v1.SeriesService/UpdateEpisode", h.updateEpisode))
	r.DELETE("/episodes/{episode_id}", wrapRoute("/catalog.v1.SeriesService/DeleteEpisode", h.deleteEpisode))
}

func (h *SeriesHandler) createSeries(ctx khttp.Context) error {
	var req dto.CreateSeriesRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "invalid request body")
	}
	input, err := req.ToInput()
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	meta := h.ExtractMetadata(ctx.Header())
	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()
	timeoutCtx = metadata.Inject(timeoutCtx, meta)

	created, err := h.svc.CreateSeries(timeoutCtx, input)
	if err != nil {
		return err
	}
	return ctx.Result(201, views.NewSeriesResponse(created))
}

func (h *SeriesHandler) listSeries(ctx khttp.Context) error {
	page := dto.ParsePageQuery(ctx.Query())

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeQuery)
	defer cancel()

	series, err := h.svc.ListSeries(timeoutCtx, page.Limit, page.Offset)
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewSeriesListResponse(series))
}

func (h *SeriesHandler) getSeries(ctx khttp.Context) error {
	seriesID, err := dto.ParseUUID("series_id", ctx.Vars().Get("series_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeQuery)
	defer cancel()

	detail, err := h.svc.GetSeries(timeoutCtx, seriesID)
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewSeriesResponse(detail))
}

func (h *SeriesHandler) updateSeries(ctx khttp.Context) error {
	seriesID, err := dto.ParseUUID("series_id", ctx.Vars().Get("series_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}
	var req dto.UpdateSeriesRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "invalid request body")
	}
	input, err := req.ToInput(seriesID)
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	meta := h.ExtractMetadata(ctx.Header())
	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()
	timeoutCtx = metadata.Inject(timeoutCtx, meta)

	updated, err := h.svc.UpdateSeries(timeoutCtx, input)
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewSeriesResponse(updated))
}

func (h *SeriesHandler) deleteSeries(ctx khttp.Context) error {
	seriesID, err := dto.ParseUUID("series_id", ctx.Vars().Get("series_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()

	if err := h.svc.DeleteSeries(timeoutCtx, seriesID); err != nil {
		return err
	}
	return ctx.Result(204, nil)
}

func (h *SeriesHandler) publishSeries(ctx khttp.Context) error {
	seriesID, err := dto.ParseUUID("series_id", ctx.Vars().Get("series_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	meta := h.ExtractMetadata(ctx.Header())
	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()
	timeoutCtx = metadata.Inject(timeoutCtx, meta)

	detail, err := h.visibility.PublishSeries(timeoutCtx, seriesID)
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewSeriesResponse(detail))
}

func (h *SeriesHandler) archiveSeries(ctx khttp.Context) error {
	seriesID, err := dto.ParseUUID("series_id", ctx.Vars().Get("series_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	meta := h.ExtractMetadata(ctx.Header())
	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()
	timeoutCtx = metadata.Inject(timeoutCtx, meta)

	detail, err := h.visibility.ArchiveSeries(timeoutCtx, seriesID)
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewSeriesResponse(detail))
}

func (h *SeriesHandler) createSeason(ctx khttp.Context) error {
	seriesID, err := dto.ParseUUID("series_id", ctx.Vars().Get("series_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}
	var req dto.CreateSeasonRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "invalid request body")
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()

	season, err := h.svc.CreateSeason(timeoutCtx, seriesID, req.SeasonNumber, req.Title)
	if err != nil {
		return err
	}
	return ctx.Result(201, views.NewSeasonResponse(season))
}

func (h *SeriesHandler) listSeasons(ctx khttp.Context) error {
	seriesID, err := dto.ParseUUID("series_id", ctx.Vars().Get("series_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeQuery)
	defer cancel()

	seasons, err := h.svc.ListSeasons(timeoutCtx, seriesID)
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewSeasonListResponse(seasons))
}

func (h *SeriesHandler) deleteSeason(ctx khttp.Context) error {
	seasonID, err := dto.ParseUUID("season_id", ctx.Vars().Get("season_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()

	if err := h.svc.DeleteSeason(timeoutCtx, seasonID); err != nil {
		return err
	}
	return ctx.Result(204, nil)
}

func (h *SeriesHandler) createEpisode(ctx khttp.Context) error {
	seasonID, err := dto.ParseUUID("season_id", ctx.Vars().Get("season_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}
	var req dto.CreateEpisodeRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "invalid request body")
	}
	input, err := req.ToInput(seasonID)
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	meta := h.ExtractMetadata(ctx.Header())
	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()
	timeoutCtx = metadata.Inject(timeoutCtx, meta)

	episode, err := h.svc.CreateEpisode(timeoutCtx, input)
	if err != nil {
		return err
	}
	return ctx.Result(201, views.NewEpisodeResponse(episode))
}

func (h *SeriesHandler) listEpisodes(ctx khttp.Context) error {
	seasonID, err := dto.ParseUUID("season_id", ctx.Vars().Get("season_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeQuery)
	defer cancel()

	episodes, err := h.svc.ListEpisodes(timeoutCtx, seasonID)
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewEpisodeListResponse(episodes))
}

func (h *SeriesHandler) updateEpisode(ctx khttp.Context) error {
	episodeID, err := dto.ParseUUID("episode_id", ctx.Vars().Get("episode_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}
	var req dto.UpdateEpisodeRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "invalid request body")
	}
	input, err := req.ToInput(episodeID)
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	meta := h.ExtractMetadata(ctx.Header())
	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()
	timeoutCtx = metadata.Inject(timeoutCtx, meta)

	episode, err := h.svc.UpdateEpisode(timeoutCtx, input)
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewEpisodeResponse(episode))
}

func (h *SeriesHandler) deleteEpisode(ctx khttp.Context) error {
	episodeID, err := dto.ParseUUID("episode_id", ctx.Vars().Get("episode_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()

	if err := h.svc.DeleteEpisode(timeoutCtx, episodeID); err != nil {
		return err
	}
	return ctx.Result(204, nil)
}
