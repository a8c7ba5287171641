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

// MovieHandler 处理电影编排与可见性 HTTP 请求。
type MovieHandler struct {
	*BaseHandler
	svc        *services.MovieService
	visibility *services.VisibilityService
}

// NewMovieHandler 构造电影 Handler。
func NewMovieHandler(svc *services.MovieService, visibility *services.VisibilityService, base *BaseHandler) *MovieHandler {
	if base == nil {
		base = NewBaseHandler(HandlerTimeouts{})
	}
	return &MovieHandler{BaseHandler: base, svc: svc, visibility: visibility}
}

// Register 挂载电影路由。
func (h *MovieHandler) Register(r *khttp.Router) {
	r.POST("/movies", wrapRoute("/catalog.v1.MovieService/CreateMovie", h.createMovie))
	r.GET("/movies", wrapRoute("/catalog.v1.MovieService/ListMovies", h.listMovies))
	r.GET("/movies/{movie_id}", wrapRoute("/catalog.v1.MovieService/GetMovie", h.getMovie))
	r.PATCH("/movies/{movie_id}", wrapRoute("/catalog.v1.MovieService/UpdateMovie", h.updateMovie))
	r.DELETE("/movies/{movie_id}", wrapRoute("/catalog.v1.MovieService/DeleteMovie", h.deleteMovie))
	r.POST("/movies/{movie_id}/publish", wrapRoute("/catalog.v1.MovieService/PublishMovie", h.publishMovie))
	r.POST("/movies/{movie_id}/archive", wrapRoute("/catalog.v1.MovieService/ArchiveMovie", h.archiveMovie))
}

func (h *MovieHandler) createMovie(ctx khttp.Context) error {
	var req dto.CreateMovieRequest
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

	created, err := h.svc.CreateMovie(timeoutCtx, input)
	if err != nil {
		return err
	}
	return ctx.Result(201, views.NewMovieResponse(created))
}

func (h *MovieHandler) listMovies(ctx khttp.Context) error {
	page := dto.ParsePageQuery(ctx.Query())

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeQuery)
	defer cancel()

	movies, err := h.svc.ListMovies(timeoutCtx, page.Limit, page.Offset)
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewMovieListResponse(movies))
}

func (h *MovieHandler) getMovie(ctx khttp.Context) error {
	movieID, err := dto.ParseUUID("movie_id", ctx.Vars().Get("movie_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeQuery)
	defer cancel()

	detail, err := h.svc.GetMovie(timeoutCtx, movieID)
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewMovieResponse(detail))
}

func (h *MovieHandler) updateMovie(ctx khttp.Context) error {
	movieID, err := dto.ParseUUID("movie_id", ctx.Vars().Get("movie_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}
	var req dto.UpdateMovieRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "invalid request body")
	}
	input, err := req.ToInput(movieID)
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	meta := h.ExtractMetadata(ctx.Header())
	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()
	timeoutCtx = metadata.Inject(timeoutCtx, meta)

	updated, err := h.svc.UpdateMovie(timeoutCtx, input)
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewMovieResponse(updated))
}

func (h *MovieHandler) deleteMovie(ctx khttp.Context) error {
	movieID, err := dto.ParseUUID("movie_id", ctx.Vars().Get("movie_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()

	if err := h.svc.DeleteMovie(timeoutCtx, movieID); err != nil {
		return err
	}
	return ctx.Result(204, nil)
}

func (h *MovieHandler) publishMovie(ctx khttp.Context) error {
	movieID, err := dto.ParseUUID("movie_id", ctx.Vars().Get("movie_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	meta := h.ExtractMetadata(ctx.Header())
	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()
	timeoutCtx = metadata.Inject(timeoutCtx, meta)

	detail, err := h.visibility.PublishMovie(timeoutCtx, movieID)
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewMovieResponse(detail))
}

func (h *MovieHandler) archiveMovie(ctx khttp.Context) error {
	movieID, err := dto.ParseUUID("movie_id", ctx.Vars().Get("movie_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	meta := h.ExtractMetadata(ctx.Header())
	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()
	timeoutCtx = metadata.Inject(timeoutCtx, meta)

	detail, err := h.visibility.ArchiveMovie(timeoutCtx, movieID)
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewMovieResponse(detail))
}
