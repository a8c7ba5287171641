// Package bunny 封装 Bunny Stream 视频 CDN 的 HTTP API 客户端。
// 覆盖创建远端视频、二进制上传、转码状态查询、缩略图上传与删除。
package bunny

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"
)

const (
	defaultBaseURL = "https://video.bunnycdn.com"
	defaultTimeout = 30 * time.Second

	headerAccessKey = "AccessKey"
)

// 转码状态码，与 CDN 返回的 status 字段对应。
const (
	EncodeStatusQueued     = 0 // 已入队等待转码
	EncodeStatusProcessing = 1 // 转码进行中
	EncodeStatusFailed     = 2 // 转码失败
	EncodeStatusFinished   = 3 // 转码完成
	EncodeStatusResolution = 4 // 分辨率处理完成（同样视为就绪）
)

var (
	// ErrMissingVideoID 表示创建响应中无法提取远端视频 ID。
	ErrMissingVideoID = errors.New("bunny: response did not contain a video id")
	// ErrUploadTransport 表示二进制上传阶段的传输失败。
	ErrUploadTransport = errors.New("bunny: upload transport failed")
)

// StatusError 携带非 2xx 响应的状态码与响应体摘要。
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bunny: unexpected status %d: %s", e.Code, e.Body)
}

// Config 描述访问 Bunny Stream 所需的凭证与端点。
type Config struct {
	APIKey      string        // 媒体库 AccessKey（必填，不做任何回退）
	LibraryID   string        // 媒体库 ID
	BaseURL     string        // API 端点，默认 video.bunnycdn.com
	CDNHostname string        // 直链播放域名（如 vz-xxx.b-cdn.net）
	Timeout     time.Duration // 非上传请求的超时
}

// Video 是 CDN 视频对象的规范化表示。
// 所有响应形态（字段命名差异、嵌套 data）在客户端边界归一为该结构。
type Video struct {
	VideoID              string
	LibraryID            string
	Title                string
	EncodeStatus         int
	EncodeProgress       int32
	LengthSeconds        int64
	StorageSizeBytes     int64
	ThumbnailFileName    string
	AvailableResolutions []string
}

// Client 是 Bunny Stream API 的 HTTP 客户端。
type Client struct {
	cfg    Config
	client *http.Client
	log    *log.Helper
}

// NewClient 构造 Bunny Stream 客户端。
// APIKey 缺失时直接报错：不回退到 LibraryID 之类的值，凭证问题必须在启动时暴露。
func NewClient(cfg Config, logger log.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("bunny: api key is required")
	}
	if strings.TrimSpace(cfg.LibraryID) == "" {
		return nil, errors.New("bunny: library id is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg: cfg,
		// 上传请求可能远超默认超时，由调用方通过 ctx 控制生命周期。
		client: &http.Client{},
		log:    log.NewHelper(logger),
	}, nil
}

// CreateVideo 在媒体库中注册一个远端视频，返回规范化后的视频对象。
func (c *Client) CreateVideo(ctx context.Context, title string) (*Video, error) {
	payload, err := json.Marshal(map[string]string{"title": title})
	if err != nil {
		return nil, fmt.Errorf("bunny: marshal create payload: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, c.videosURL(""), bytes.NewReader(payload), "application/json")
	if err != nil {
		return nil, err
	}

	video, err := normalizeVideo(body)
	if err != nil {
		return nil, err
	}
	if video.LibraryID == "" {
		video.LibraryID = c.cfg.LibraryID
	}
	c.log.WithContext(ctx).Infof("bunny: created remote video id=%s library=%s", video.VideoID, video.LibraryID)
	return video, nil
}

// UploadVideo 以 PUT 方式流式上传视频二进制。
// progress 回调按传输字节数触发，size 未知时传 0（回调仅报告已传字节）。
func (c *Client) UploadVideo(ctx context.Context, videoID string, r io.Reader, size int64, progress func(sent, total int64)) error {
	if strings.TrimSpace(videoID) == "" {
		return ErrMissingVideoID
	}

	reader := newCountingReader(r, size, progress)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.videosURL(videoID), reader)
	if err != nil {
		return fmt.Errorf("bunny: build upload request: %w", err)
	}
	req.Header.Set(headerAccessKey, c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/octet-stream")
	if size > 0 {
		req.ContentLength = size
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUploadTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt := readExcerpt(resp.Body)
		c.log.WithContext(ctx).Errorf("bunny: upload rejected video_id=%s status=%d body=%s", videoID, resp.StatusCode, excerpt)
		return fmt.Errorf("%w: status %d", ErrUploadTransport, resp.StatusCode)
	}
	return nil
}

// GetVideo 查询远端视频的转码状态与播放属性。
func (c *Client) GetVideo(ctx context.Context, videoID string) (*Video, error) {
	if strings.TrimSpace(videoID) == "" {
		return nil, ErrMissingVideoID
	}
	body, err := c.do(ctx, http.MethodGet, c.videosURL(videoID), nil, "")
	if err != nil {
		return nil, err
	}
	video, err := normalizeVideo(body)
	if err != nil {
		return nil, err
	}
	if video.LibraryID == "" {
		video.LibraryID = c.cfg.LibraryID
	}
	return video, nil
}

// SetThumbnail 以 multipart 表单上传缩略图并绑定到远端视频。
func (c *Client) SetThumbnail(ctx context.Context, videoID, filename string, r io.Reader) error {
	if strings.TrimSpace(videoID) == "" {
		return ErrMissingVideoID
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("thumbnail", filename)
	if err != nil {
		return fmt.Errorf("bunny: build thumbnail form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("bunny: read thumbnail: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("bunny: finalize thumbnail form: %w", err)
	}

	if _, err := c.do(ctx, http.MethodPost, c.videosURL(videoID)+"/thumbnail", &buf, writer.FormDataContentType()); err != nil {
		return err
	}
	return nil
}

// DeleteVideo 删除远端视频及其衍生文件。
func (c *Client) DeleteVideo(ctx context.Context, videoID string) error {
	if strings.TrimSpace(videoID) == "" {
		return ErrMissingVideoID
	}
	_, err := c.do(ctx, http.MethodDelete, c.videosURL(videoID), nil, "")
	return err
}

// EmbedURL 构造 iframe 播放页地址。
func (c *Client) EmbedURL(videoID string) string {
	return fmt.Sprintf("https://iframe.mediadelivery.net/embed/%s/%s", c.cfg.LibraryID, videoID)
}

// DirectPlayURLs 按可用分辨率构造 MP4 直链，供不支持 iframe 的场景回退播放。
func (c *Client) DirectPlayURLs(videoID string, resolutions []string) map[string]string {
	if c.cfg.CDNHostname == "" || len(resolutions) == 0 {
		return nil
	}
	urls := make(map[string]string, len(resolutions))
	for _, res := range resolutions {
		res = strings.TrimSpace(res)
		if res == "" {
			continue
		}
		urls[res] = fmt.Sprintf("https://%s/%s/play_%s.mp4", c.cfg.CDNHostname, videoID, res)
	}
	return urls
}

// ThumbnailURL 构造缩略图访问地址。
func (c *Client) ThumbnailURL(videoID, fileName string) string {
	if c.cfg.CDNHostname == "" || fileName == "" {
		return ""
	}
	return fmt.Sprintf("https://%s/%s/%s", c.cfg.CDNHostname, videoID, fileName)
}

func (c *Client) videosURL(videoID string) string {
	base := fmt.Sprintf("%s/library/%s/videos", c.cfg.BaseURL, c.cfg.LibraryID)
	if videoID == "" {
		return base
	}
	return base + "/" + videoID
}

// do 执行带 AccessKey 鉴权的请求并返回响应体，非 2xx 时返回 StatusError。
func (c *Client) do(ctx context.Context, method, url string, body io.Reader, contentType string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("bunny: build request: %w", err)
	}
	req.Header.Set(headerAccessKey, c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bunny: %s %s: %w", method, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("bunny: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(truncateBody(data))}
	}
	return data, nil
}

func readExcerpt(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, 512))
	return string(data)
}

func truncateBody(data []byte) []byte {
	if len(data) > 512 {
		return data[:512]
	}
	return data
}
