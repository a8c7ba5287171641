package vo

import (
	"time"

	"github.com/miravio/services-catalog/internal/models/po"

	"github.com/google/uuid"
)

// SeriesDetail 封装剧集系列视图。
type SeriesDetail struct {
	SeriesID    uuid.UUID  `json:"series_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	CoverURL    *string    `json:"cover_url"`
	CategoryID  *uuid.UUID `json:"category_id"`
	Visibility  string     `json:"visibility"`
	ReleaseAt   *time.Time `json:"release_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewSeriesDetail 从持久化实体构造系列 VO。
func NewSeriesDetail(s *po.Series) *SeriesDetail {
	if s == nil {
		return nil
	}
	return &SeriesDetail{
		SeriesID:    s.SeriesID,
		Title:       s.Title,
		Description: s.Description,
		CoverURL:    s.CoverURL,
		CategoryID:  s.CategoryID,
		Visibility:  string(s.Visibility),
		ReleaseAt:   s.ReleaseAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// EpisodeDetail 封装单集视图。
type EpisodeDetail struct {
	EpisodeID     uuid.UUID  `json:"episode_id"`
	SeasonID      uuid.UUID  `json:"season_id"`
	AssetID       *uuid.UUID `json:"asset_id"`
	EpisodeNumber int32      `json:"episode_number"`
	Title         string     `json:"title"`
	Description   *string    `json:"description"`
	IsFree        bool       `json:"is_free"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewEpisodeDetail 从持久化实体构造单集 VO。
func NewEpisodeDetail(e *po.Episode) *EpisodeDetail {
	if e == nil {
		return nil
	}
	return &EpisodeDetail{
		EpisodeID:     e.EpisodeID,
		SeasonID:      e.SeasonID,
		AssetID:       e.AssetID,
		EpisodeNumber: e.EpisodeNumber,
		Title:         e.Title,
		Description:   e.Description,
		IsFree:        e.IsFree,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// MovieDetail 封装电影视图。
type MovieDetail struct {
	MovieID     uuid.UUID  `json:"movie_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	CoverURL    *string    `json:"cover_url"`
	CategoryID  *uuid.UUID `json:"category_id"`
	AssetID     *uuid.UUID `json:"asset_id"`
	Visibility  string     `json:"visibility"`
	ReleaseAt   *time.Time `json:"release_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewMovieDetail 从持久化实体构造电影 VO。
func NewMovieDetail(m *po.Movie) *MovieDetail {
	if m == nil {
		return nil
	}
	return &MovieDetail{
		MovieID:     m.MovieID,
		Title:       m.Title,
		Description: m.Description,
		CoverURL:    m.CoverURL,
		CategoryID:  m.CategoryID,
		AssetID:     m.AssetID,
		Visibility:  string(m.Visibility),
		ReleaseAt:   m.ReleaseAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
