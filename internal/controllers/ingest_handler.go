package controllers

import (
	"mime/multipart"

	catalogv1 "github.com/miravio/services-catalog/api/catalog/v1"
	"github.com/miravio/services-catalog/internal/controllers/dto"
	"github.com/miravio/services-catalog/internal/metadata"
	"github.com/miravio/services-catalog/internal/services"
	"github.com/miravio/services-catalog/internal/views"

	"github.com/go-kratos/kratos/v2/errors"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// 表单内存上限，超出部分由 net/http 落盘到临时文件。
const multipartMemoryLimit = 32 << 20

// IngestHandler 处理视频入库流水线相关的 HTTP 请求：
// 二进制上传、缩略图替换与进度查询。
type IngestHandler struct {
	*BaseHandler
	svc *services.IngestService
}

// NewIngestHandler 构造入库 Handler。
func NewIngestHandler(svc *services.IngestService, base *BaseHandler) *IngestHandler {
	if base == nil {
		base = NewBaseHandler(HandlerTimeouts{})
	}
	return &IngestHandler{BaseHandler: base, svc: svc}
}

// Register 挂载入库路由。
func (h *IngestHandler) Register(r *khttp.Router) {
	r.POST("/assets/{asset_id}/ingest", wrapRoute("/catalog.v1.IngestService/Ingest", h.ingest))
	r.POST("/assets/{asset_id}/thumbnail", wrapRoute("/catalog.v1.IngestService/UploadThumbnail", h.uploadThumbnail))
	r.GET("/assets/{asset_id}/progress", wrapRoute("/catalog.v1.IngestService/Progress", h.progress))
}

// ingest 接收 multipart 表单：file 为必填视频二进制，thumbnail 为可选封面。
// 请求保持阻塞直到流水线完成或转码轮询超时（软超时返回 200 并带告警）。
func (h *IngestHandler) ingest(ctx khttp.Context) error {
	assetID, err := dto.ParseUUID("asset_id", ctx.Vars().Get("asset_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	req := ctx.Request()
	if err := req.ParseMultipartForm(multipartMemoryLimit); err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "multipart form required")
	}

	file, fileHeader, err := req.FormFile("file")
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "file part is required")
	}
	defer file.Close()

	input := services.IngestInput{
		AssetID:     assetID,
		Filename:    fileHeader.Filename,
		ContentType: partContentType(fileHeader),
		SizeBytes:   fileHeader.Size,
		Body:        file,
	}

	thumbFile, thumbHeader, err := req.FormFile("thumbnail")
	if err == nil {
		defer thumbFile.Close()
		input.Thumbnail = &services.ThumbnailInput{
			Filename:    thumbHeader.Filename,
			ContentType: partContentType(thumbHeader),
			SizeBytes:   thumbHeader.Size,
			Body:        thumbFile,
		}
	}

	meta := h.ExtractMetadata(ctx.Header())
	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeIngest)
	defer cancel()
	timeoutCtx = metadata.Inject(timeoutCtx, meta)

	result, err := h.svc.Ingest(timeoutCtx, input)
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewIngestResponse(result.Asset, result.Job, result.TimedOut))
}

// uploadThumbnail 替换已入库资产的封面图。
func (h *IngestHandler) uploadThumbnail(ctx khttp.Context) error {
	assetID, err := dto.ParseUUID("asset_id", ctx.Vars().Get("asset_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	req := ctx.Request()
	if err := req.ParseMultipartForm(multipartMemoryLimit); err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "multipart form required")
	}

	file, header, err := req.FormFile("thumbnail")
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "thumbnail part is required")
	}
	defer file.Close()

	meta := h.ExtractMetadata(ctx.Header())
	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()
	timeoutCtx = metadata.Inject(timeoutCtx, meta)

	detail, err := h.svc.UploadThumbnail(timeoutCtx, assetID, services.ThumbnailInput{
		Filename:    header.Filename,
		ContentType: partContentType(header),
		SizeBytes:   header.Size,
		Body:        file,
	})
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewAssetResponse(detail))
}

// progress 查询流水线当前阶段与进度百分比。
func (h *IngestHandler) progress(ctx khttp.Context) error {
	assetID, err := dto.ParseUUID("asset_id", ctx.Vars().Get("asset_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeQuery)
	defer cancel()

	progress, err := h.svc.Progress(timeoutCtx, assetID)
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewProgressResponse(progress))
}

func partContentType(header *multipart.FileHeader) string {
	if header == nil {
		return ""
	}
	return header.Header.Get("Content-Type")
}
