package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/miravio/services-catalog/internal/models/po"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeriesRepository 负责 catalog.series / seasons / episodes 三张表的读写。
type SeriesRepository struct {
	pool *pgxpool.Pool
	log  *log.Helper
}

// NewSeriesRepository 构造剧集仓储。
func NewSeriesRepository(pool *pgxpool.Pool, logger log.Logger) *SeriesRepository {
	return &SeriesRepository{
		pool: pool,
		log:  log.NewHelper(logger),
	}
}

const seriesColumns = `
	series_id, title, description, cover_url, category_id,
	visibility, release_at, created_at, updated_at
`

// CreateSeries 创建剧集系列。
func (r *SeriesRepository) CreateSeries(ctx context.Context, sess txmanager.Session, s *po.Series) (*po.Series, error) {
	query := `
		INSERT INTO catalog.series (series_id, title, description, cover_url, category_id, visibility, release_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := querier(r.pool, sess).QueryRow(ctx, query,
		s.SeriesID, s.Title, s.Description, s.CoverURL, s.CategoryID, s.Visibility, s.ReleaseAt,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		r.log.WithContext(ctx).Errorf("CreateSeries failed: %v", err)
		return nil, fmt.Errorf("insert series: %w", err)
	}
	return s, nil
}

// UpdateSeriesInput 描述系列的部分更新字段。
type UpdateSeriesInput struct {
	SeriesID    uuid.UUID
	Title       *string
	Description *string
	CoverURL    *string
	CategoryID  *uuid.UUID
	Visibility  *po.Visibility
	ReleaseAt   *time.Time
}

// UpdateSeries 部分更新系列并返回最新实体。
func (r *SeriesRepository) UpdateSeries(ctx context.Context, sess txmanager.Session, input UpdateSeriesInput) (*po.Series, error) {
	query := `
		UPDATE catalog.series
		SET
			title       = COALESCE($2, title),
			description = COALESCE($3, description),
			cover_url   = COALESCE($4, cover_url),
			category_id = COALESCE($5, category_id),
			visibility  = COALESCE($6, visibility),
			release_at  = COALESCE($7, release_at),
			updated_at  = now()
		WHERE series_id = $1
		RETURNING ` + seriesColumns

	var s po.Series
	err := querier(r.pool, sess).QueryRow(ctx, query,
		input.SeriesID, input.Title, input.Description, input.CoverURL, input.CategoryID, input.Visibility, input.ReleaseAt,
	).Scan(
		&s.SeriesID, &s.Title, &s.Description, &s.CoverURL, &s.CategoryID,
		&s.Visibility, &s.ReleaseAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSeriesNotFound
		}
		r.log.WithContext(ctx).Errorf("UpdateSeries failed: %v", err)
		return nil, fmt.Errorf("update series: %w", err)
	}
	return &s, nil
}

// FindSeriesByID 根据 series_id 查询。
func (r *SeriesRepository) FindSeriesByID(ctx context.Context, sess txmanager.Session, seriesID uuid.UUID) (*po.Series, error) {
	query := `SELECT ` + seriesColumns + ` FROM catalog.series WHERE series_id = $1`

	var s po.Series
	err := querier(r.pool, sess).QueryRow(ctx, query, seriesID).Scan(
		&s.SeriesID, &s.Title, &s.Description, &s.CoverURL, &s.CategoryID,
		&s.Visibility, &s.ReleaseAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSeriesNotFound
		}
		return nil, fmt.Errorf("query series: %w", err)
	}
	return &s, nil
}

// ListSeries 按创建时间倒序分页返回系列。
func (r *SeriesRepository) ListSeries(ctx context.Context, limit, offset int) ([]*po.Series, error) {
	if limit <= 0 {
		limit = 50 // 默认限制
	}

	query := `SELECT ` + seriesColumns + ` FROM catalog.series ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.WithContext(ctx).Errorf("ListSeries failed: %v", err)
		return nil, fmt.Errorf("query series list: %w", err)
	}
	defer rows.Close()

	var out []*po.Series
	for rows.Next() {
		var s po.Series
		if err := rows.Scan(
			&s.SeriesID, &s.Title, &s.Description, &s.CoverURL, &s.CategoryID,
			&s.Visibility, &s.ReleaseAt, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan series row: %w", err)
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate series rows: %w", err)
	}
	return out, nil
}

// DeleteSeries 删除系列（级联删除季与集由外键约束保证）。
func (r *SeriesRepository) DeleteSeries(ctx context.Context, sess txmanager.Session, seriesID uuid.UUID) error {
	tag, err := querier(r.pool, sess).Exec(ctx, `DELETE FROM catalog.series WHERE series_id = $1`, seriesID)
	if err != nil {
		return fmt.Errorf("delete series: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSeriesNotFound
	}
	return nil
}

// CreateSeason 在系列下创建季。
func (r *SeriesRepository) CreateSeason(ctx context.Context, sess txmanager.Session, s *po.Season) (*po.Season, error) {
	query := `
		INSERT INTO catalog.seasons (season_id, series_id, season_number, title)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := querier(r.pool, sess).QueryRow(ctx, query, s.SeasonID, s.SeriesID, s.SeasonNumber, s.Title).
		Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		r.log.WithContext(ctx).Errorf("CreateSeason failed: %v", err)
		return nil, fmt.Errorf("insert season: %w", err)
	}
	return s, nil
}

// FindSeasonByID 根据 season_id 查询。
func (r *SeriesRepository) FindSeasonByID(ctx context.Context, sess txmanager.Session, seasonID uuid.UUID) (*po.Season, error) {
	query := `
		SELECT season_id, series_id, season_number, title, created_at, updated_at
		FROM catalog.seasons
		WHERE season_id = $1
	`

	var s po.Season
	err := querier(r.pool, sess).QueryRow(ctx, query, seasonID).Scan(
		&s.SeasonID, &s.SeriesID, &s.SeasonNumber, &s.Title, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSeasonNotFound
		}
		return nil, fmt.Errorf("query season: %w", err)
	}
	return &s, nil
}

// ListSeasons 返回系列下的全部季，按季号正序。
func (r *SeriesRepository) ListSeasons(ctx context.Context, seriesID uuid.UUID) ([]*po.Season, error) {
	query := `
		SELECT season_id, series_id, season_number, title, created_at, updated_at
		FROM catalog.seasons
		WHERE series_id = $1
		ORDER BY season_number ASC
	`

	rows, err := r.pool.Query(ctx, query, seriesID)
	if err != nil {
		return nil, fmt.Errorf("query seasons: %w", err)
	}
	defer rows.Close()

	var out []*po.Season
	for rows.Next() {
		var s po.Season
		if err := rows.Scan(&s.SeasonID, &s.SeriesID, &s.SeasonNumber, &s.Title, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan season row: %w", err)
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate season rows: %w", err)
	}
	return out, nil
}

// DeleteSeason 删除季。
func (r *SeriesRepository) DeleteSeason(ctx context.Context, sess txmanager.Session, seasonID uuid.UUID) error {
	tag, err := querier(r.pool, sess).Exec(ctx, `DELETE FROM catalog.seasons WHERE season_id = $1`, seasonID)
	if err != nil {
		return fmt.Errorf("delete season: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSeasonNotFound
	}
	return nil
}

// CreateEpisode 在季下创建单集。
func (r *SeriesRepository) CreateEpisode(ctx context.Context, sess txmanager.Session, e *po.Episode) (*po.Episode, error) {
	query := `
		INSERT INTO catalog.episodes (episode_id, season_id, asset_id, episode_number, title, description, is_free)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := querier(r.pool, sess).QueryRow(ctx, query,
		e.EpisodeID, e.SeasonID, e.AssetID, e.EpisodeNumber, e.Title, e.Description, e.IsFree,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		r.log.WithContext(ctx).Errorf("CreateEpisode failed: %v", err)
		return nil, fmt.Errorf("insert episode: %w", err)
	}
	return e, nil
}

// UpdateEpisodeInput 描述单集的部分更新字段。
type UpdateEpisodeInput struct {
	EpisodeID     uuid.UUID
	AssetID       *uuid.UUID
	EpisodeNumber *int32
	Title         *string
	Description   *string
	IsFree        *bool
}

// UpdateEpisode 部分更新单集并返回最新实体。
// AssetID 未提供时保持原引用不变：换视频必须显式传入新资产。
func (r *SeriesRepository) UpdateEpisode(ctx context.Context, sess txmanager.Session, input UpdateEpisodeInput) (*po.Episode, error) {
	query := `
		UPDATE catalog.episodes
		SET
			asset_id       = COALESCE($2, asset_id),
			episode_number = COALESCE($3, episode_number),
			title          = COALESCE($4, title),
			description    = COALESCE($5, description),
			is_free        = COALESCE($6, is_free),
			updated_at     = now()
		WHERE episode_id = $1
		RETURNING episode_id, season_id, asset_id, episode_number, title, description, is_free, created_at, updated_at
	`

	var e po.Episode
	err := querier(r.pool, sess).QueryRow(ctx, query,
		input.EpisodeID, input.AssetID, input.EpisodeNumber, input.Title, input.Description, input.IsFree,
	).Scan(
		&e.EpisodeID, &e.SeasonID, &e.AssetID, &e.EpisodeNumber, &e.Title, &e.Description, &e.IsFree, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEpisodeNotFound
		}
		r.log.WithContext(ctx).Errorf("UpdateEpisode failed: %v", err)
		return nil, fmt.Errorf("update episode: %w", err)
	}
	return &e, nil
}

// FindEpisodeByID 根据 episode_id 查询。
func (r *SeriesRepository) FindEpisodeByID(ctx context.Context, sess txmanager.Session, episodeID uuid.UUID) (*po.Episode, error) {
	query := `
		SELECT episode_id, season_id, asset_id, episode_number, title, description, is_free, created_at, updated_at
		FROM catalog.episodes
		WHERE episode_id = $1
	`

	var e po.Episode
	err := querier(r.pool, sess).QueryRow(ctx, query, episodeID).Scan(
		&e.EpisodeID, &e.SeasonID, &e.AssetID, &e.EpisodeNumber, &e.Title, &e.Description, &e.IsFree, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEpisodeNotFound
		}
		return nil, fmt.Errorf("query episode: %w", err)
	}
	return &e, nil
}

// ListEpisodes 返回季下的全部单集，按集号正序。
func (r *SeriesRepository) ListEpisodes(ctx context.Context, seasonID uuid.UUID) ([]*po.Episode, error) {
	query := `
		SELECT episode_id, season_id, asset_id, episode_number, title, description, is_free, created_at, updated_at
		FROM catalog.episodes
		WHERE season_id = $1
		ORDER BY episode_number ASC
	`

	rows, err := r.pool.Query(ctx, query, seasonID)
	if err != nil {
		return nil, fmt.Errorf("query episodes: %w", err)
	}
	defer rows.Close()

	var out []*po.Episode
	for rows.Next() {
		var e po.Episode
		if err := rows.Scan(
			&e.EpisodeID, &e.SeasonID, &e.AssetID, &e.EpisodeNumber, &e.Title, &e.Description, &e.IsFree, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan episode row: %w", err)
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate episode rows: %w", err)
	}
	return out, nil
}

// DeleteEpisode 删除单集。
func (r *SeriesRepository) DeleteEpisode(ctx context.Context, sess txmanager.Session, episodeID uuid.UUID) error {
	tag, err := querier(r.pool, sess).Exec(ctx, `DELETE FROM catalog.episodes WHERE episode_id = $1`, episodeID)
	if err != nil {
		return fmt.Errorf("delete episode: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEpisodeNotFound
	}
	return nil
}
