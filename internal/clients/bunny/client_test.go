package bunny

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(Config{
		APIKey:      "test-key",
		LibraryID:   "42",
		BaseURL:     baseURL,
		CDNHostname: "vz-test.b-cdn.net",
		Timeout:     2 * time.Second,
	}, log.NewStdLogger(io.Discard))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	logger := log.NewStdLogger(io.Discard)
	if _, err := NewClient(Config{LibraryID: "42"}, logger); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewClient(Config{APIKey: "key"}, logger); err == nil {
		t.Fatal("expected error for missing library id")
	}
}

func TestNormalizeVideo_IDVariants(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"guid", `{"guid":"abc-123","status":1}`, "abc-123"},
		{"videoId", `{"videoId":"v-1"}`, "v-1"},
		{"video_id", `{"video_id":"v-2"}`, "v-2"},
		{"id", `{"id":"v-3"}`, "v-3"},
		{"underscore_id", `{"_id":"v-4"}`, "v-4"},
		{"nested data", `{"data":{"guid":"nested-1","status":3}}`, "nested-1"},
		{"nested video_id", `{"data":{"video_id":"nested-2"}}`, "nested-2"},
		{"guid wins over id", `{"guid":"primary","id":"secondary"}`, "primary"},
		{"literal zero id", `{"id":"0"}`, "0"},
		{"zero guid wins over later id", `{"guid":"0","id":"v-5"}`, "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			video, err := normalizeVideo([]byte(tc.body))
			if err != nil {
				t.Fatalf("normalizeVideo: %v", err)
			}
			if video.VideoID != tc.want {
				t.Fatalf("video id: got %q want %q", video.VideoID, tc.want)
			}
		})
	}
}

func TestNormalizeVideo_MissingID(t *testing.T) {
	for _, body := range []string{`{}`, `{"title":"no id"}`, `{"guid":"  "}`, `{"data":{"title":"still no id"}}`} {
		if _, err := normalizeVideo([]byte(body)); !errors.Is(err, ErrMissingVideoID) {
			t.Fatalf("body %s: expected ErrMissingVideoID, got %v", body, err)
		}
	}
}

func TestNormalizeVideo_Fields(t *testing.T) {
	body := `{
		"guid": "abc",
		"videoLibraryId": 42,
		"title": "Pilot",
		"status": 4,
		"encodeProgress": 87,
		"length": 1500,
		"storageSize": 104857600,
		"thumbnailFileName": "thumbnail.jpg",
		"availableResolutions": "360p, 720p,1080p,"
	}`
	video, err := normalizeVideo([]byte(body))
	if err != nil {
		t.Fatalf("normalizeVideo: %v", err)
	}
	if video.LibraryID != "42" {
		t.Fatalf("library id: got %q", video.LibraryID)
	}
	if !video.IsReady() {
		t.Fatal("status 4 should be ready")
	}
	if video.EncodeProgress != 87 {
		t.Fatalf("encode progress: got %d", video.EncodeProgress)
	}
	if len(video.AvailableResolutions) != 3 || video.AvailableResolutions[2] != "1080p" {
		t.Fatalf("resolutions: got %v", video.AvailableResolutions)
	}
}

func TestNormalizeVideo_ClampsProgress(t *testing.T) {
	video, err := normalizeVideo([]byte(`{"guid":"abc","encodeProgress":150}`))
	if err != nil {
		t.Fatalf("normalizeVideo: %v", err)
	}
	if video.EncodeProgress != 100 {
		t.Fatalf("expected clamp to 100, got %d", video.EncodeProgress)
	}
}

func TestCreateVideo(t *testing.T) {
	var gotPath, gotKey string
	var gotPayload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("AccessKey")
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		_, _ = w.Write([]byte(`{"guid":"new-video","videoLibraryId":42,"title":"Pilot"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	video, err := client.CreateVideo(context.Background(), "Pilot")
	if err != nil {
		t.Fatalf("CreateVideo: %v", err)
	}
	if gotPath != "/library/42/videos" {
		t.Fatalf("path: got %s", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("access key header: got %q", gotKey)
	}
	if gotPayload["title"] != "Pilot" {
		t.Fatalf("payload title: got %q", gotPayload["title"])
	}
	if video.VideoID != "new-video" {
		t.Fatalf("video id: got %q", video.VideoID)
	}
}

func TestCreateVideo_MissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	if _, err := client.CreateVideo(context.Background(), "Pilot"); !errors.Is(err, ErrMissingVideoID) {
		t.Fatalf("expected ErrMissingVideoID, got %v", err)
	}
}

func TestCreateVideo_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"invalid key"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.CreateVideo(context.Background(), "Pilot")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Code != http.StatusForbidden {
		t.Fatalf("status code: got %d", statusErr.Code)
	}
}

func TestUploadVideo(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 4096)
	var received []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method: got %s", r.Method)
		}
		received, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	var lastSent, lastTotal int64
	err := client.UploadVideo(context.Background(), "vid-1", bytes.NewReader(payload), int64(len(payload)), func(sent, total int64) {
		if sent < lastSent {
			t.Errorf("progress went backwards: %d < %d", sent, lastSent)
		}
		lastSent, lastTotal = sent, total
	})
	if err != nil {
		t.Fatalf("UploadVideo: %v", err)
	}
	if len(received) != len(payload) {
		t.Fatalf("received %d bytes, want %d", len(received), len(payload))
	}
	if lastSent != int64(len(payload)) || lastTotal != int64(len(payload)) {
		t.Fatalf("final progress: sent=%d total=%d", lastSent, lastTotal)
	}
}

func TestUploadVideo_RejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	err := client.UploadVideo(context.Background(), "vid-1", strings.NewReader("data"), 4, nil)
	if !errors.Is(err, ErrUploadTransport) {
		t.Fatalf("expected ErrUploadTransport, got %v", err)
	}
}

func TestUploadVideo_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // 连接拒绝

	client := newTestClient(t, srv.URL)
	err := client.UploadVideo(context.Background(), "vid-1", strings.NewReader("data"), 4, nil)
	if !errors.Is(err, ErrUploadTransport) {
		t.Fatalf("expected ErrUploadTransport, got %v", err)
	}
}

func TestUploadVideo_EmptyID(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:0")
	if err := client.UploadVideo(context.Background(), "  ", strings.NewReader("data"), 4, nil); !errors.Is(err, ErrMissingVideoID) {
		t.Fatalf("expected ErrMissingVideoID, got %v", err)
	}
}

func TestSetThumbnail(t *testing.T) {
	var gotFilename string
	var gotContent []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/videos/vid-1/thumbnail") {
			t.Errorf("path: got %s", r.URL.Path)
		}
		file, header, err := r.FormFile("thumbnail")
		if err != nil {
			t.Errorf("form file: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer func() { _ = file.Close() }()
		gotFilename = header.Filename
		gotContent, _ = io.ReadAll(file)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	if err := client.SetThumbnail(context.Background(), "vid-1", "cover.jpg", strings.NewReader("jpegdata")); err != nil {
		t.Fatalf("SetThumbnail: %v", err)
	}
	if gotFilename != "cover.jpg" {
		t.Fatalf("filename: got %q", gotFilename)
	}
	if string(gotContent) != "jpegdata" {
		t.Fatalf("content: got %q", gotContent)
	}
}

func TestPlaybackHelpers(t *testing.T) {
	client := newTestClient(t, "http://example.invalid")

	if got := client.EmbedURL("vid-1"); got != "https://iframe.mediadelivery.net/embed/42/vid-1" {
		t.Fatalf("embed url: got %s", got)
	}

	urls := client.DirectPlayURLs("vid-1", []string{"720p", " 1080p ", ""})
	if len(urls) != 2 {
		t.Fatalf("direct play urls: got %v", urls)
	}
	if urls["720p"] != "https://vz-test.b-cdn.net/vid-1/play_720p.mp4" {
		t.Fatalf("720p url: got %s", urls["720p"])
	}

	if got := client.ThumbnailURL("vid-1", "thumbnail.jpg"); got != "https://vz-test.b-cdn.net/vid-1/thumbnail.jpg" {
		t.Fatalf("thumbnail url: got %s", got)
	}
	if got := client.ThumbnailURL("vid-1", ""); got != "" {
		t.Fatalf("empty filename should produce empty url, got %s", got)
	}
}
