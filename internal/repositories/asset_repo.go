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

// AssetRepository 负责 catalog.video_assets 表的读写。
type AssetRepository struct {
	pool *pgxpool.Pool
	log  *log.Helper
}

// NewAssetRepository 构造资产仓储。
func NewAssetRepository(pool *pgxpool.Pool, logger log.Logger) *AssetRepository {
	return &AssetRepository{
		pool: pool,
		log:  log.NewHelper(logger),
	}
}

const assetColumns = `
	asset_id, kind, title, status, created_at, updated_at,
	remote_video_id, library_id,
	playback_url, direct_play_urls, thumbnail_url,
	duration_seconds, size_bytes, encode_progress,
	error_message
`

// Create 创建新资产记录。
// 使用 INSERT ... RETURNING 获取数据库生成的时间戳。
func (r *AssetRepository) Create(ctx context.Context, sess txmanager.Session, a *po.VideoAsset) (*po.VideoAsset, error) {
	query := `
		INSERT INTO catalog.video_assets (
			asset_id, kind, title, status, encode_progress
		)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := querier(r.pool, sess).QueryRow(ctx, query,
		a.AssetID,
		a.Kind,
		a.Title,
		a.Status,
		a.EncodeProgress,
	).Scan(&a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		r.log.WithContext(ctx).Errorf("Create asset failed: %v", err)
		return nil, fmt.Errorf("insert video asset: %w", err)
	}

	r.log.WithContext(ctx).Infof("Created video asset: asset_id=%s kind=%s", a.AssetID, a.Kind)
	return a, nil
}

// UpdateAssetInput 描述资产的部分更新字段，nil 字段保持原值。
type UpdateAssetInput struct {
	AssetID         uuid.UUID
	Title           *string
	Status          *po.AssetStatus
	RemoteVideoID   *string
	LibraryID       *string
	PlaybackURL     *string
	DirectPlayURLs  map[string]string
	ThumbnailURL    *string
	DurationSeconds *int64
	SizeBytes       *int64
	EncodeProgress  *int32
	ErrorMessage    *string
	// ClearErrorMessage 显式清空 error_message。COALESCE 无法写入 NULL，
	// 回调补完超时资产时需要借助该开关清掉过期的提示文案。
	ClearErrorMessage bool
}

// Update 部分更新资产记录并返回最新实体。
// COALESCE 保证未提供的字段保持原值。
func (r *AssetRepository) Update(ctx context.Context, sess txmanager.Session, input UpdateAssetInput) (*po.VideoAsset, error) {
	urls, err := marshalStringMap(input.DirectPlayURLs)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE catalog.video_assets
		SET
			title            = COALESCE($2, title),
			status           = COALESCE($3, status),
			remote_video_id  = COALESCE($4, remote_video_id),
			library_id       = COALESCE($5, library_id),
			playback_url     = COALESCE($6, playback_url),
			direct_play_urls = COALESCE($7, direct_play_urls),
			thumbnail_url    = COALESCE($8, thumbnail_url),
			duration_seconds = COALESCE($9, duration_seconds),
			size_bytes       = COALESCE($10, size_bytes),
			encode_progress  = COALESCE($11, encode_progress),
			error_message    = CASE WHEN $13 THEN NULL ELSE COALESCE($12, error_message) END,
			updated_at       = now()
		WHERE asset_id = $1
		RETURNING ` + assetColumns

	row := querier(r.pool, sess).QueryRow(ctx, query,
		input.AssetID,
		input.Title,
		input.Status,
		input.RemoteVideoID,
		input.LibraryID,
		input.PlaybackURL,
		urls,
		input.ThumbnailURL,
		input.DurationSeconds,
		input.SizeBytes,
		input.EncodeProgress,
		input.ErrorMessage,
		input.ClearErrorMessage,
	)

	asset, err := scanAsset(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAssetNotFound
		}
		r.log.WithContext(ctx).Errorf("Update asset failed: %v", err)
		return nil, fmt.Errorf("update video asset: %w", err)
	}
	return asset, nil
}

// FindByID 根据 asset_id 查询资产记录。
// 查询不到时返回 ErrAssetNotFound。
func (r *AssetRepository) FindByID(ctx context.Context, sess txmanager.Session, assetID uuid.UUID) (*po.VideoAsset, error) {
	query := `SELECT ` + assetColumns + ` FROM catalog.video_assets WHERE asset_id = $1`

	asset, err := scanAsset(querier(r.pool, sess).QueryRow(ctx, query, assetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAssetNotFound
		}
		r.log.WithContext(ctx).Errorf("FindByID asset failed: %v", err)
		return nil, fmt.Errorf("query asset by id: %w", err)
	}
	return asset, nil
}

// FindByRemoteVideoID 根据 CDN 视频 GUID 查询资产，供回调任务定位记录。
func (r *AssetRepository) FindByRemoteVideoID(ctx context.Context, sess txmanager.Session, remoteID string) (*po.VideoAsset, error) {
	query := `SELECT ` + assetColumns + ` FROM catalog.video_assets WHERE remote_video_id = $1`

	asset, err := scanAsset(querier(r.pool, sess).QueryRow(ctx, query, remoteID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAssetNotFound
		}
		r.log.WithContext(ctx).Errorf("FindByRemoteVideoID failed: %v", err)
		return nil, fmt.Errorf("query asset by remote id: %w", err)
	}
	return asset, nil
}

// ListByStatus 根据状态查询资产列表（用于监控未完成队列）。
// 按创建时间正序排列（先进先出）。
func (r *AssetRepository) ListByStatus(ctx context.Context, status po.AssetStatus, limit int) ([]*po.VideoAsset, error) {
	if limit <= 0 {
		limit = 100 // 默认限制
	}

	query := `
		SELECT ` + assetColumns + `
		FROM catalog.video_assets
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, status, limit)
	if err != nil {
		r.log.WithContext(ctx).Errorf("ListByStatus failed: %v", err)
		return nil, fmt.Errorf("query assets by status: %w", err)
	}
	defer rows.Close()

	var assets []*po.VideoAsset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset row: %w", err)
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate asset rows: %w", err)
	}
	return assets, nil
}

// Delete 删除资产记录。
func (r *AssetRepository) Delete(ctx context.Context, sess txmanager.Session, assetID uuid.UUID) error {
	tag, err := querier(r.pool, sess).Exec(ctx, `DELETE FROM catalog.video_assets WHERE asset_id = $1`, assetID)
	if err != nil {
		r.log.WithContext(ctx).Errorf("Delete asset failed: %v", err)
		return fmt.Errorf("delete video asset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAssetNotFound
	}
	return nil
}

func scanAsset(row pgx.Row) (*po.VideoAsset, error) {
	var (
		a       po.VideoAsset
		rawURLs []byte
	)
	err := row.Scan(
		&a.AssetID, &a.Kind, &a.Title, &a.Status, &a.CreatedAt, &a.UpdatedAt,
		&a.RemoteVideoID, &a.LibraryID,
		&a.PlaybackURL, &rawURLs, &a.ThumbnailURL,
		&a.DurationSeconds, &a.SizeBytes, &a.EncodeProgress,
		&a.ErrorMessage,
	)
	if err != nil {
		return nil, err
	}
	urls, err := unmarshalStringMap(rawURLs)
	if err != nil {
		return nil, err
	}
	a.DirectPlayURLs = urls
	return &a, nil
}
