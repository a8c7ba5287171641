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
)

type trailerRepoStub struct {
	trailer *po.Trailer
}

func (s *trailerRepoStub) Create(_ context.Context, _ txmanager.Session, t *po.Trailer) (*po.Trailer, error) {
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	s.trailer = t
	return t, nil
}

func (s *trailerRepoStub) Update(_ context.Context, _ txmanager.Session, input repositories.UpdateTrailerInput) (*po.Trailer, error) {
	if s.trailer == nil || s.trailer.TrailerID != input.TrailerID {
		return nil, repositories.ErrTrailerNotFound
	}
	if input.Title != nil {
		s.trailer.Title = *input.Title
	}
	if input.AssetID != nil {
		s.trailer.AssetID = input.AssetID
	}
	s.trailer.UpdatedAt = time.Now()
	copied := *s.trailer
	return &copied, nil
}

func (s *trailerRepoStub) FindByID(_ context.Context, _ txmanager.Session, trailerID uuid.UUID) (*po.Trailer, error) {
	if s.trailer == nil || s.trailer.TrailerID != trailerID {
		return nil, repositories.ErrTrailerNotFound
	}
	copied := *s.trailer
	return &copied, nil
}

func (s *trailerRepoStub) ListByOwner(_ context.Context, ownerType po.TrailerOwnerType, ownerID uuid.UUID) ([]*po.Trailer, error) {
	if s.trailer == nil || s.trailer.OwnerType != ownerType || s.trailer.OwnerID != ownerID {
		return nil, nil
	}
	copied := *s.trailer
	return []*po.Trailer{&copied}, nil
}

func (s *trailerRepoStub) Delete(_ context.Context, _ txmanager.Session, trailerID uuid.UUID) error {
	if s.trailer == nil || s.trailer.TrailerID != trailerID {
		return repositories.ErrTrailerNotFound
	}
	s.trailer = nil
	return nil
}

func seededTrailer() (*trailerRepoStub, *po.Trailer) {
	assetID := uuid.New()
	trailer := &po.Trailer{
		TrailerID: uuid.New(),
		OwnerType: po.TrailerOwnerSeries,
		OwnerID:   uuid.New(),
		AssetID:   &assetID,
		Title:     "Season Teaser",
	}
	return &trailerRepoStub{trailer: trailer}, trailer
}

func TestUpdateTrailer_KeepsAssetWhenOmitted(t *testing.T) {
	repo, trailer := seededTrailer()
	svc := services.NewTrailerService(repo, log.NewStdLogger(io.Discard))
	originalAsset := *trailer.AssetID

	title := "Season Teaser (Final Cut)"
	updated, err := svc.UpdateTrailer(context.Background(), services.UpdateTrailerInput{
		TrailerID: trailer.TrailerID,
		Title:     &title,
	})
	if err != nil {
		t.Fatalf("UpdateTrailer: %v", err)
	}
	if updated.Title != title {
		t.Fatalf("title: got %q", updated.Title)
	}
	if updated.AssetID == nil || *updated.AssetID != originalAsset {
		t.Fatalf("asset id should be unchanged, got %v", updated.AssetID)
	}
	if updated.OwnerType != po.TrailerOwnerSeries {
		t.Fatalf("owner type should be unchanged, got %s", updated.OwnerType)
	}
}

func TestUpdateTrailer_ReplacesAsset(t *testing.T) {
	repo, trailer := seededTrailer()
	svc := services.NewTrailerService(repo, log.NewStdLogger(io.Discard))

	newAsset := uuid.New()
	updated, err := svc.UpdateTrailer(context.Background(), services.UpdateTrailerInput{
		TrailerID: trailer.TrailerID,
		AssetID:   &newAsset,
	})
	if err != nil {
		t.Fatalf("UpdateTrailer: %v", err)
	}
	if updated.AssetID == nil || *updated.AssetID != newAsset {
		t.Fatalf("asset id: got %v want %s", updated.AssetID, newAsset)
	}
	if updated.Title != "Season Teaser" {
		t.Fatalf("title should be unchanged, got %q", updated.Title)
	}
}

func TestUpdateTrailer_BlankTitle(t *testing.T) {
	repo, trailer := seededTrailer()
	svc := services.NewTrailerService(repo, log.NewStdLogger(io.Discard))

	blank := "   "
	_, err := svc.UpdateTrailer(context.Background(), services.UpdateTrailerInput{
		TrailerID: trailer.TrailerID,
		Title:     &blank,
	})
	if !kerrors.IsBadRequest(err) {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestUpdateTrailer_NotFound(t *testing.T) {
	repo, _ := seededTrailer()
	svc := services.NewTrailerService(repo, log.NewStdLogger(io.Discard))

	title := "x"
	_, err := svc.UpdateTrailer(context.Background(), services.UpdateTrailerInput{
		TrailerID: uuid.New(),
		Title:     &title,
	})
	if !kerrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if kerrors.FromError(err).Reason != catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String() {
		t.Fatalf("reason: %s", kerrors.FromError(err).Reason)
	}
}

func TestGetTrailer(t *testing.T) {
	repo, trailer := seededTrailer()
	svc := services.NewTrailerService(repo, log.NewStdLogger(io.Discard))

	got, err := svc.GetTrailer(context.Background(), trailer.TrailerID)
	if err != nil {
		t.Fatalf("GetTrailer: %v", err)
	}
	if got.TrailerID != trailer.TrailerID || got.Title != trailer.Title {
		t.Fatalf("trailer mismatch: %+v", got)
	}
}

func TestGetTrailer_NotFound(t *testing.T) {
	repo, _ := seededTrailer()
	svc := services.NewTrailerService(repo, log.NewStdLogger(io.Discard))

	if _, err := svc.GetTrailer(context.Background(), uuid.New()); !kerrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
