package events_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/miravio/services-catalog/internal/models/events"
	"github.com/miravio/services-catalog/internal/models/po"

	"github.com/google/uuid"
)

func TestNewAssetCreatedEvent(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	asset := &po.VideoAsset{
		AssetID: uuid.New(),
		Kind:    po.AssetKindEpisode,
		Title:   "Pilot",
		Status:  po.AssetStatusPendingUpload,
	}
	evtID := uuid.New()

	evt, err := events.NewAssetCreatedEvent(asset, evtID, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if evt.Kind != events.KindAssetCreated {
		t.Fatalf("unexpected event kind: %v", evt.Kind)
	}
	if evt.Kind.String() != "asset.created" {
		t.Fatalf("kind name: %s", evt.Kind.String())
	}
	if evt.AggregateID != asset.AssetID {
		t.Fatalf("aggregate mismatch")
	}
	if evt.AggregateType != events.AggregateTypeAsset {
		t.Fatalf("aggregate type: %s", evt.AggregateType)
	}
	if !evt.OccurredAt.Equal(now) {
		t.Fatalf("occurred_at mismatch: got %s want %s", evt.OccurredAt, now)
	}
	if evt.Version == 0 {
		t.Fatalf("expected version to be set")
	}
	payload, ok := evt.Payload.(events.AssetCreated)
	if !ok {
		t.Fatalf("payload type mismatch: %T", evt.Payload)
	}
	if payload.Title != asset.Title || payload.Kind != string(asset.Kind) {
		t.Fatalf("payload mismatch: %+v", payload)
	}
}

func TestNewAssetCreatedEvent_Validation(t *testing.T) {
	if _, err := events.NewAssetCreatedEvent(nil, uuid.New(), time.Now()); !errors.Is(err, events.ErrNilAsset) {
		t.Fatalf("expected ErrNilAsset, got %v", err)
	}
	if _, err := events.NewAssetCreatedEvent(&po.VideoAsset{AssetID: uuid.New()}, uuid.Nil, time.Now()); !errors.Is(err, events.ErrInvalidEventID) {
		t.Fatalf("expected ErrInvalidEventID, got %v", err)
	}
}

func TestNewAssetStatusChangedEvent(t *testing.T) {
	remote := "remote-1"
	playback := "https://iframe.test/embed/42/remote-1"
	asset := &po.VideoAsset{
		AssetID:        uuid.New(),
		Status:         po.AssetStatusReady,
		RemoteVideoID:  &remote,
		PlaybackURL:    &playback,
		EncodeProgress: 100,
	}

	evt, err := events.NewAssetStatusChangedEvent(asset, uuid.New(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if evt.Kind.String() != "asset.status_changed" {
		t.Fatalf("kind name: %s", evt.Kind.String())
	}
	payload, ok := evt.Payload.(events.AssetStatusChanged)
	if !ok {
		t.Fatalf("payload type mismatch: %T", evt.Payload)
	}
	if payload.Status != "ready" || payload.EncodeProgress != 100 {
		t.Fatalf("payload mismatch: %+v", payload)
	}
	if payload.RemoteVideoID == nil || *payload.RemoteVideoID != remote {
		t.Fatalf("remote video id: %v", payload.RemoteVideoID)
	}
}

func TestNewAssetDeletedEvent(t *testing.T) {
	assetID := uuid.New()
	reason := "cleanup"
	evt, err := events.NewAssetDeletedEvent(assetID, uuid.New(), time.Now(), &reason)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	payload, ok := evt.Payload.(events.AssetDeleted)
	if !ok {
		t.Fatalf("payload type mismatch: %T", evt.Payload)
	}
	if payload.AssetID != assetID || payload.Reason == nil || *payload.Reason != reason {
		t.Fatalf("payload mismatch: %+v", payload)
	}
	if payload.DeletedAt == nil {
		t.Fatal("deleted_at should be set")
	}
}

func TestNewTitleVisibilityEvent(t *testing.T) {
	titleID := uuid.New()

	published, err := events.NewTitleVisibilityEvent("series", titleID, po.VisibilityPublished, uuid.New(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if published.Kind != events.KindTitlePublished {
		t.Fatalf("kind: %v", published.Kind)
	}

	archived, err := events.NewTitleVisibilityEvent("movie", titleID, po.VisibilityArchived, uuid.New(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if archived.Kind != events.KindTitleArchived {
		t.Fatalf("kind: %v", archived.Kind)
	}
	payload, ok := archived.Payload.(events.TitleVisibilityChanged)
	if !ok {
		t.Fatalf("payload type mismatch: %T", archived.Payload)
	}
	if payload.TitleType != "movie" || payload.Visibility != "archived" {
		t.Fatalf("payload mismatch: %+v", payload)
	}
}

func TestBuildAttributes(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	asset := &po.VideoAsset{AssetID: uuid.New(), Status: po.AssetStatusReady}
	evt, err := events.NewAssetStatusChangedEvent(asset, uuid.New(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	attrs := events.BuildAttributes(evt, "", "trace-123")
	if attrs["event_type"] != "asset.status_changed" {
		t.Fatalf("event_type: %s", attrs["event_type"])
	}
	if attrs["schema_version"] != events.SchemaVersionV1 {
		t.Fatalf("schema_version: %s", attrs["schema_version"])
	}
	if attrs["occurred_at"] != now.Format(time.RFC3339) {
		t.Fatalf("occurred_at: %s", attrs["occurred_at"])
	}
	if attrs["trace_id"] != "trace-123" {
		t.Fatalf("trace_id: %s", attrs["trace_id"])
	}

	payload, err := events.MarshalPayload(evt)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("payload is not valid json: %v", err)
	}
	if decoded["status"] != "ready" {
		t.Fatalf("payload status: %v", decoded["status"])
	}
}

func TestVersionFromTime(t *testing.T) {
	earlier := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	later := earlier.Add(time.Millisecond)
	if events.VersionFromTime(earlier) >= events.VersionFromTime(later) {
		t.Fatal("version should increase with time")
	}
	if events.VersionFromTime(time.Time{}) != 0 {
		t.Fatal("zero time should map to version 0")
	}
}
