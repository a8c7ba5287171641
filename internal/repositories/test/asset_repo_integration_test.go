package repositories_test

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/miravio/services-catalog/internal/models/po"
	"github.com/miravio/services-catalog/internal/repositories"

	"github.com/docker/go-connections/nat"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestAssetRepositoryIntegration(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dsn, terminate := startPostgres(t, ctx)
	defer terminate()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	applyMigrations(t, ctx, pool)

	repo := repositories.NewAssetRepository(pool, log.NewStdLogger(io.Discard))

	asset := &po.VideoAsset{
		AssetID: uuid.New(),
		Kind:    po.AssetKindEpisode,
		Title:   "Pilot",
		Status:  po.AssetStatusPendingUpload,
	}

	created, err := repo.Create(ctx, nil, asset)
	require.NoError(t, err)
	require.False(t, created.CreatedAt.IsZero())
	require.False(t, created.UpdatedAt.IsZero())

	remoteID := "bunny-vid-1"
	libraryID := "42"
	status := po.AssetStatusUploading
	updated, err := repo.Update(ctx, nil, repositories.UpdateAssetInput{
		AssetID:       asset.AssetID,
		Status:        &status,
		RemoteVideoID: &remoteID,
		LibraryID:     &libraryID,
	})
	require.NoError(t, err)
	require.Equal(t, po.AssetStatusUploading, updated.Status)
	require.NotNil(t, updated.RemoteVideoID)
	require.Equal(t, remoteID, *updated.RemoteVideoID)
	// 部分更新不得覆盖未提供的字段
	require.Equal(t, "Pilot", updated.Title)

	playback := "https://iframe.mediadelivery.net/embed/42/bunny-vid-1"
	duration := int64(1320)
	progress := int32(100)
	ready := po.AssetStatusReady
	enriched, err := repo.Update(ctx, nil, repositories.UpdateAssetInput{
		AssetID:         asset.AssetID,
		Status:          &ready,
		PlaybackURL:     &playback,
		DirectPlayURLs:  map[string]string{"720p": "https://cdn.test/bunny-vid-1/play_720p.mp4"},
		DurationSeconds: &duration,
		EncodeProgress:  &progress,
	})
	require.NoError(t, err)
	require.Equal(t, po.AssetStatusReady, enriched.Status)
	require.EqualValues(t, 100, enriched.EncodeProgress)
	require.Equal(t, "https://cdn.test/bunny-vid-1/play_720p.mp4", enriched.DirectPlayURLs["720p"])

	staleMsg := "encode polling timed out; awaiting cdn callback"
	withError, err := repo.Update(ctx, nil, repositories.UpdateAssetInput{
		AssetID:      asset.AssetID,
		ErrorMessage: &staleMsg,
	})
	require.NoError(t, err)
	require.NotNil(t, withError.ErrorMessage)

	// COALESCE 写不进 NULL，清空依赖显式开关
	cleared, err := repo.Update(ctx, nil, repositories.UpdateAssetInput{
		AssetID:           asset.AssetID,
		ClearErrorMessage: true,
	})
	require.NoError(t, err)
	require.Nil(t, cleared.ErrorMessage)
	require.Equal(t, po.AssetStatusReady, cleared.Status)

	byRemote, err := repo.FindByRemoteVideoID(ctx, nil, remoteID)
	require.NoError(t, err)
	require.Equal(t, asset.AssetID, byRemote.AssetID)

	byID, err := repo.FindByID(ctx, nil, asset.AssetID)
	require.NoError(t, err)
	require.Equal(t, remoteID, *byID.RemoteVideoID)
	require.NotNil(t, byID.DurationSeconds)
	require.EqualValues(t, 1320, *byID.DurationSeconds)

	listed, err := repo.ListByStatus(ctx, po.AssetStatusReady, 10)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, asset.AssetID, listed[0].AssetID)

	require.NoError(t, repo.Delete(ctx, nil, asset.AssetID))
	_, err = repo.FindByID(ctx, nil, asset.AssetID)
	require.ErrorIs(t, err, repositories.ErrAssetNotFound)
	require.ErrorIs(t, repo.Delete(ctx, nil, asset.AssetID), repositories.ErrAssetNotFound)
}

func TestIngestJobRepositoryIntegration(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dsn, terminate := startPostgres(t, ctx)
	defer terminate()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	applyMigrations(t, ctx, pool)

	logger := log.NewStdLogger(io.Discard)
	assets := repositories.NewAssetRepository(pool, logger)
	jobs := repositories.NewIngestJobRepository(pool, logger)

	asset := &po.VideoAsset{
		AssetID: uuid.New(),
		Kind:    po.AssetKindMovie,
		Title:   "Feature",
		Status:  po.AssetStatusUploading,
	}
	_, err = assets.Create(ctx, nil, asset)
	require.NoError(t, err)

	job := &po.IngestJob{
		JobID:   uuid.New(),
		AssetID: asset.AssetID,
		Phase:   po.IngestPhaseGeneratingURL,
		Percent: 0,
	}
	_, err = jobs.Create(ctx, nil, job)
	require.NoError(t, err)

	msg := "uploading binary"
	advanced, err := jobs.UpdateProgress(ctx, nil, job.JobID, po.IngestPhaseUploading, 40, &msg)
	require.NoError(t, err)
	require.Equal(t, po.IngestPhaseUploading, advanced.Phase)
	require.EqualValues(t, 40, advanced.Percent)

	// 迟到的低进度写入不得回退展示值
	stale, err := jobs.UpdateProgress(ctx, nil, job.JobID, po.IngestPhaseUploading, 20, nil)
	require.NoError(t, err)
	require.EqualValues(t, 40, stale.Percent)
	require.NotNil(t, stale.Message)
	require.Equal(t, msg, *stale.Message)

	done, err := jobs.UpdateProgress(ctx, nil, job.JobID, po.IngestPhaseComplete, 100, nil)
	require.NoError(t, err)
	require.Equal(t, po.IngestPhaseComplete, done.Phase)
	require.EqualValues(t, 100, done.Percent)

	latest, err := jobs.FindLatestByAsset(ctx, asset.AssetID)
	require.NoError(t, err)
	require.Equal(t, job.JobID, latest.JobID)

	_, err = jobs.UpdateProgress(ctx, nil, uuid.New(), po.IngestPhaseError, 0, nil)
	require.ErrorIs(t, err, repositories.ErrIngestJobNotFound)

	// 删除资产时流水线记录应级联删除
	require.NoError(t, assets.Delete(ctx, nil, asset.AssetID))
	_, err = jobs.FindByID(ctx, nil, job.JobID)
	require.ErrorIs(t, err, repositories.ErrIngestJobNotFound)
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_DB":       "catalog",
		},
		WaitingFor: wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
			return fmt.Sprintf("postgres://postgres:postgres@%s:%s/catalog?sslmode=disable", host, port.Port())
		}).WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("skip repository integration test: cannot start postgres container: %v", err)
	}

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://postgres:postgres@%s:%s/catalog?sslmode=disable", host, port.Port())
	cleanup := func() {
		termCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = container.Terminate(termCtx)
	}
	return dsn, cleanup
}

func applyMigrations(t *testing.T, ctx context.Context, pool *pgxpool.Pool) {
	t.Helper()

	migrationsDir := filepath.Join("..", "..", "..", "migrations")
	files, err := os.ReadDir(migrationsDir)
	require.NoError(t, err)

	paths := make([]string, 0, len(files))
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".sql" {
			continue
		}
		paths = append(paths, filepath.Join(migrationsDir, f.Name()))
	}
	sort.Strings(paths)

	for _, path := range paths {
		sqlBytes, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		_, execErr := pool.Exec(ctx, string(sqlBytes))
		require.NoErrorf(t, execErr, "apply migration %s", filepath.Base(path))
	}
}
