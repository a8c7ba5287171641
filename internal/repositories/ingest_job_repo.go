package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/miravio/services-catalog/internal/models/po"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IngestJobRepository 负责 catalog.ingest_jobs 表的读写。
type IngestJobRepository struct {
	pool *pgxpool.Pool
	log  *log.Helper
}

// NewIngestJobRepository 构造流水线进度仓储。
func NewIngestJobRepository(pool *pgxpool.Pool, logger log.Logger) *IngestJobRepository {
	return &IngestJobRepository{
		pool: pool,
		log:  log.NewHelper(logger),
	}
}

// Create 创建新流水线记录。
func (r *IngestJobRepository) Create(ctx context.Context, sess txmanager.Session, job *po.IngestJob) (*po.IngestJob, error) {
	query := `
		INSERT INTO catalog.ingest_jobs (job_id, asset_id, phase, percent, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := querier(r.pool, sess).QueryRow(ctx, query,
		job.JobID,
		job.AssetID,
		job.Phase,
		job.Percent,
		job.Message,
	).Scan(&job.CreatedAt, &job.UpdatedAt)

	if err != nil {
		r.log.WithContext(ctx).Errorf("Create ingest job failed: %v", err)
		return nil, fmt.Errorf("insert ingest job: %w", err)
	}
	return job, nil
}

// UpdateProgress 推进流水线进度。
// GREATEST 保证 percent 单调不减：迟到的低进度写入不会回退展示值。
func (r *IngestJobRepository) UpdateProgress(ctx context.Context, sess txmanager.Session, jobID uuid.UUID, phase po.IngestPhase, percent int32, message *string) (*po.IngestJob, error) {
	query := `
		UPDATE catalog.ingest_jobs
		SET
			phase      = $2,
			percent    = GREATEST(percent, $3),
			message    = COALESCE($4, message),
			updated_at = now()
		WHERE job_id = $1
		RETURNING job_id, asset_id, phase, percent, message, created_at, updated_at
	`

	var job po.IngestJob
	err := querier(r.pool, sess).QueryRow(ctx, query, jobID, phase, percent, message).Scan(
		&job.JobID, &job.AssetID, &job.Phase, &job.Percent, &job.Message, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIngestJobNotFound
		}
		r.log.WithContext(ctx).Errorf("UpdateProgress failed: %v", err)
		return nil, fmt.Errorf("update ingest job: %w", err)
	}
	return &job, nil
}

// FindByID 根据 job_id 查询流水线记录。
func (r *IngestJobRepository) FindByID(ctx context.Context, sess txmanager.Session, jobID uuid.UUID) (*po.IngestJob, error) {
	query := `
		SELECT job_id, asset_id, phase, percent, message, created_at, updated_at
		FROM catalog.ingest_jobs
		WHERE job_id = $1
	`

	var job po.IngestJob
	err := querier(r.pool, sess).QueryRow(ctx, query, jobID).Scan(
		&job.JobID, &job.AssetID, &job.Phase, &job.Percent, &job.Message, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIngestJobNotFound
		}
		r.log.WithContext(ctx).Errorf("FindByID ingest job failed: %v", err)
		return nil, fmt.Errorf("query ingest job: %w", err)
	}
	return &job, nil
}

// FindLatestByAsset 查询资产最近一次流水线记录，供进度接口展示。
func (r *IngestJobRepository) FindLatestByAsset(ctx context.Context, assetID uuid.UUID) (*po.IngestJob, error) {
	query := `
		SELECT job_id, asset_id, phase, percent, message, created_at, updated_at
		FROM catalog.ingest_jobs
		WHERE asset_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var job po.IngestJob
	err := r.pool.QueryRow(ctx, query, assetID).Scan(
		&job.JobID, &job.AssetID, &job.Phase, &job.Percent, &job.Message, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIngestJobNotFound
		}
		return nil, fmt.Errorf("query latest ingest job: %w", err)
	}
	return &job, nil
}
