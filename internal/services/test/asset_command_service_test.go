package services_test

import (
	"context"
	"io"
	"testing"
	"time"

	catalogv1 "github.com/miravio/services-catalog/api/catalog/v1"
	"github.com/miravio/services-catalog/internal/models/po"
	"github.com/miravio/services-catalog/internal/repositories"
	"github.com/miravio/services-catalog/internal/services"

	"github.com/bionicotaku/lingo-utils/txmanager"
	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type assetRepoStub struct {
	asset   *po.VideoAsset
	created *po.VideoAsset
	err     error
}

func (s *assetRepoStub) Create(_ context.Context, _ txmanager.Session, asset *po.VideoAsset) (*po.VideoAsset, error) {
	if s.err != nil {
		return nil, s.err
	}
	asset.CreatedAt = time.Now()
	asset.UpdatedAt = asset.CreatedAt
	s.created = asset
	return asset, nil
}

func (s *assetRepoStub) Update(_ context.Context, _ txmanager.Session, input repositories.UpdateAssetInput) (*po.VideoAsset, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.asset == nil || s.asset.AssetID != input.AssetID {
		return nil, repositories.ErrAssetNotFound
	}
	if input.Title != nil {
		s.asset.Title = *input.Title
	}
	s.asset.UpdatedAt = time.Now()
	return s.asset, nil
}

func (s *assetRepoStub) FindByID(_ context.Context, _ txmanager.Session, assetID uuid.UUID) (*po.VideoAsset, error) {
	if s.asset == nil || s.asset.AssetID != assetID {
		return nil, repositories.ErrAssetNotFound
	}
	return s.asset, nil
}

func (s *assetRepoStub) Delete(_ context.Context, _ txmanager.Session, assetID uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	if s.asset == nil || s.asset.AssetID != assetID {
		return repositories.ErrAssetNotFound
	}
	s.asset = nil
	return nil
}

type outboxRepoStub struct {
	messages []repositories.OutboxMessage
	err      error
}

func (s *outboxRepoStub) Enqueue(_ context.Context, _ txmanager.Session, msg repositories.OutboxMessage) error {
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, msg)
	return nil
}

type noopTxManager struct{}

type noopSession struct{}

func (noopSession) Tx() pgx.Tx               { return nil }
func (noopSession) Context() context.Context { return context.Background() }

func (noopTxManager) WithinTx(ctx context.Context, _ txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error {
	return fn(ctx, noopSession{})
}

func (noopTxManager) WithinReadOnlyTx(ctx context.Context, _ txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error {
	return fn(ctx, noopSession{})
}

func newAssetCommandService(repo *assetRepoStub, outbox *outboxRepoStub) *services.AssetCommandService {
	return services.NewAssetCommandService(repo, outbox, noopTxManager{}, log.NewStdLogger(io.Discard))
}

func TestCreateAsset(t *testing.T) {
	repo := &assetRepoStub{}
	outbox := &outboxRepoStub{}
	svc := newAssetCommandService(repo, outbox)

	detail, err := svc.CreateAsset(context.Background(), services.CreateAssetInput{
		Kind:  po.AssetKindMovie,
		Title: "  Feature Film  ",
	})
	if err != nil {
		t.Fatalf("CreateAsset: %v", err)
	}
	if detail.Title != "Feature Film" {
		t.Fatalf("title should be trimmed: got %q", detail.Title)
	}
	if detail.Status != string(po.AssetStatusPendingUpload) {
		t.Fatalf("status: got %s", detail.Status)
	}
	if len(outbox.messages) != 1 {
		t.Fatalf("outbox messages: got %d", len(outbox.messages))
	}
	msg := outbox.messages[0]
	if msg.EventType != "asset.created" {
		t.Fatalf("event type: got %s", msg.EventType)
	}
	if msg.AggregateID != repo.created.AssetID {
		t.Fatal("aggregate id mismatch")
	}
}

func TestCreateAsset_Validation(t *testing.T) {
	svc := newAssetCommandService(&assetRepoStub{}, &outboxRepoStub{})

	if _, err := svc.CreateAsset(context.Background(), services.CreateAssetInput{Kind: "banner", Title: "x"}); !kerrors.IsBadRequest(err) {
		t.Fatalf("expected BadRequest for invalid kind, got %v", err)
	}
	if _, err := svc.CreateAsset(context.Background(), services.CreateAssetInput{Kind: po.AssetKindEpisode, Title: "   "}); !kerrors.IsBadRequest(err) {
		t.Fatalf("expected BadRequest for blank title, got %v", err)
	}
}

func TestUpdateAsset(t *testing.T) {
	existing := &po.VideoAsset{AssetID: uuid.New(), Kind: po.AssetKindEpisode, Title: "Old", Status: po.AssetStatusReady}
	repo := &assetRepoStub{asset: existing}
	outbox := &outboxRepoStub{}
	svc := newAssetCommandService(repo, outbox)

	title := "New Title"
	detail, err := svc.UpdateAsset(context.Background(), services.UpdateAssetInput{AssetID: existing.AssetID, Title: &title})
	if err != nil {
		t.Fatalf("UpdateAsset: %v", err)
	}
	if detail.Title != "New Title" {
		t.Fatalf("title: got %q", detail.Title)
	}
	if len(outbox.messages) != 1 || outbox.messages[0].EventType != "asset.status_changed" {
		t.Fatalf("outbox: %+v", outbox.messages)
	}
}

func TestUpdateAsset_NotFound(t *testing.T) {
	svc := newAssetCommandService(&assetRepoStub{}, &outboxRepoStub{})
	title := "x"
	_, err := svc.UpdateAsset(context.Background(), services.UpdateAssetInput{AssetID: uuid.New(), Title: &title})
	if !kerrors.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if kerrors.FromError(err).Reason != catalogv1.ErrorReason_ERROR_REASON_ASSET_NOT_FOUND.String() {
		t.Fatalf("reason: got %s", kerrors.FromError(err).Reason)
	}
}

func TestUpdateAsset_RequiresFields(t *testing.T) {
	svc := newAssetCommandService(&assetRepoStub{}, &outboxRepoStub{})
	if _, err := svc.UpdateAsset(context.Background(), services.UpdateAssetInput{AssetID: uuid.New()}); !kerrors.IsBadRequest(err) {
		t.Fatalf("expected BadRequest, got %v", err)
	}
}

func TestDeleteAsset(t *testing.T) {
	existing := &po.VideoAsset{AssetID: uuid.New(), Kind: po.AssetKindAd, Title: "Spot"}
	repo := &assetRepoStub{asset: existing}
	outbox := &outboxRepoStub{}
	svc := newAssetCommandService(repo, outbox)

	reason := "replaced by new creative"
	if err := svc.DeleteAsset(context.Background(), services.DeleteAssetInput{AssetID: existing.AssetID, Reason: &reason}); err != nil {
		t.Fatalf("DeleteAsset: %v", err)
	}
	if repo.asset != nil {
		t.Fatal("asset should be deleted")
	}
	if len(outbox.messages) != 1 || outbox.messages[0].EventType != "asset.deleted" {
		t.Fatalf("outbox: %+v", outbox.messages)
	}
}

func TestDeleteAsset_NotFound(t *testing.T) {
	svc := newAssetCommandService(&assetRepoStub{}, &outboxRepoStub{})
	err := svc.DeleteAsset(context.Background(), services.DeleteAssetInput{AssetID: uuid.New()})
	if !kerrors.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
