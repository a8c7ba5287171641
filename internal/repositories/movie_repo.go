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

// MovieRepository 负责 catalog.movies 表的读写。
type MovieRepository struct {
	pool *pgxpool.Pool
	log  *log.Helper
}

// NewMovieRepository 构造电影仓储。
func NewMovieRepository(pool *pgxpool.Pool, logger log.Logger) *MovieRepository {
	return &MovieRepository{
		pool: pool,
		log:  log.NewHelper(logger),
	}
}

const movieColumns = `
	movie_id, title, description, cover_url, category_id, asset_id,
	visibility, release_at, created_at, updated_at
`

// Create 创建电影记录。
func (r *MovieRepository) Create(ctx context.Context, sess txmanager.Session, m *po.Movie) (*po.Movie, error) {
	query := `
		INSERT INTO catalog.movies (movie_id, title, description, cover_url, category_id, asset_id, visibility, release_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := querier(r.pool, sess).QueryRow(ctx, query,
		m.MovieID, m.Title, m.Description, m.CoverURL, m.CategoryID, m.AssetID, m.Visibility, m.ReleaseAt,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		r.log.WithContext(ctx).Errorf("Create movie failed: %v", err)
		return nil, fmt.Errorf("insert movie: %w", err)
	}
	return m, nil
}

// UpdateMovieInput 描述电影的部分更新字段。
type UpdateMovieInput struct {
	MovieID     uuid.UUID
	Title       *string
	Description *string
	CoverURL    *string
	CategoryID  *uuid.UUID
	AssetID     *uuid.UUID
	Visibility  *po.Visibility
	ReleaseAt   *time.Time
}

// Update 部分更新电影并返回最新实体。
func (r *MovieRepository) Update(ctx context.Context, sess txmanager.Session, input UpdateMovieInput) (*po.Movie, error) {
	query := `
		UPDATE catalog.movies
		SET
			title       = COALESCE($2, title),
			description = COALESCE($3, description),
			cover_url   = COALESCE($4, cover_url),
			category_id = COALESCE($5, category_id),
			asset_id    = COALESCE($6, asset_id),
			visibility  = COALESCE($7, visibility),
			release_at  = COALESCE($8, release_at),
			updated_at  = now()
		WHERE movie_id = $1
		RETURNING ` + movieColumns

	var m po.Movie
	err := querier(r.pool, sess).QueryRow(ctx, query,
		input.MovieID, input.Title, input.Description, input.CoverURL, input.CategoryID, input.AssetID, input.Visibility, input.ReleaseAt,
	).Scan(
		&m.MovieID, &m.Title, &m.Description, &m.CoverURL, &m.CategoryID, &m.AssetID,
		&m.Visibility, &m.ReleaseAt, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		r.log.WithContext(ctx).Errorf("Update movie failed: %v", err)
		return nil, fmt.Errorf("update movie: %w", err)
	}
	return &m, nil
}

// FindByID 根据 movie_id 查询。
func (r *MovieRepository) FindByID(ctx context.Context, sess txmanager.Session, movieID uuid.UUID) (*po.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM catalog.movies WHERE movie_id = $1`

	var m po.Movie
	err := querier(r.pool, sess).QueryRow(ctx, query, movieID).Scan(
		&m.MovieID, &m.Title, &m.Description, &m.CoverURL, &m.CategoryID, &m.AssetID,
		&m.Visibility, &m.ReleaseAt, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("query movie: %w", err)
	}
	return &m, nil
}

// List 按创建时间倒序分页返回电影。
func (r *MovieRepository) List(ctx context.Context, limit, offset int) ([]*po.Movie, error) {
	if limit <= 0 {
		limit = 50 // 默认限制
	}

	query := `SELECT ` + movieColumns + ` FROM catalog.movies ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.WithContext(ctx).Errorf("List movies failed: %v", err)
		return nil, fmt.Errorf("query movie list: %w", err)
	}
	defer rows.Close()

	var out []*po.Movie
	for rows.Next() {
		var m po.Movie
		if err := rows.Scan(
			&m.MovieID, &m.Title, &m.Description, &m.CoverURL, &m.CategoryID, &m.AssetID,
			&m.Visibility, &m.ReleaseAt, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan movie row: %w", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movie rows: %w", err)
	}
	return out, nil
}

// Delete 删除电影记录。
func (r *MovieRepository) Delete(ctx context.Context, sess txmanager.Session, movieID uuid.UUID) error {
	tag, err := querier(r.pool, sess).Exec(ctx, `DELETE FROM catalog.movies WHERE movie_id = $1`, movieID)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMovieNotFound
	}
	return nil
}
