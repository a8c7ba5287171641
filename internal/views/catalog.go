package views

import (
	"time"

	"github.com/miravio/services-catalog/internal/models/po"
	"github.com/miravio/services-catalog/internal/models/vo"

	"github.com/google/uuid"
)

// SeriesResponse 包装单个系列详情。
type SeriesResponse struct {
	Series *vo.SeriesDetail `json:"series"`
}

// SeriesListResponse 包装系列列表。
type SeriesListResponse struct {
	Series []*vo.SeriesDetail `json:"series"`
}

// SeasonView 是季的 JSON 视图。
type SeasonView struct {
	SeasonID     uuid.UUID `json:"season_id"`
	SeriesID     uuid.UUID `json:"series_id"`
	SeasonNumber int32     `json:"season_number"`
	Title        *string   `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SeasonResponse 包装单个季。
type SeasonResponse struct {
	Season *SeasonView `json:"season"`
}

// SeasonListResponse 包装季列表。
type SeasonListResponse struct {
	Seasons []*SeasonView `json:"seasons"`
}

// EpisodeResponse 包装单集详情。
type EpisodeResponse struct {
	Episode *vo.EpisodeDetail `json:"episode"`
}

// EpisodeListResponse 包装单集列表。
type EpisodeListResponse struct {
	Episodes []*vo.EpisodeDetail `json:"episodes"`
}

// MovieResponse 包装单部电影详情。
type MovieResponse struct {
	Movie *vo.MovieDetail `json:"movie"`
}

// MovieListResponse 包装电影列表。
type MovieListResponse struct {
	Movies []*vo.MovieDetail `json:"movies"`
}

// NewSeriesResponse 构造系列详情响应。
func NewSeriesResponse(detail *vo.SeriesDetail) *SeriesResponse {
	return &SeriesResponse{Series: detail}
}

// NewSeriesListResponse 构造系列列表响应。
func NewSeriesListResponse(details []*vo.SeriesDetail) *SeriesListResponse {
	if details == nil {
		details = []*vo.SeriesDetail{}
	}
	return &SeriesListResponse{Series: details}
}

// NewSeasonView 从持久化实体构造季视图。
func NewSeasonView(s *po.Season) *SeasonView {
	if s == nil {
		return nil
	}
	return &SeasonView{
		SeasonID:     s.SeasonID,
		SeriesID:     s.SeriesID,
		SeasonNumber: s.SeasonNumber,
		Title:        s.Title,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// NewSeasonResponse 构造单个季响应。
func NewSeasonResponse(s *po.Season) *SeasonResponse {
	return &SeasonResponse{Season: NewSeasonView(s)}
}

// NewSeasonListResponse 构造季列表响应。
func NewSeasonListResponse(seasons []*po.Season) *SeasonListResponse {
	out := make([]*SeasonView, 0, len(seasons))
	for _, s := range seasons {
		out = append(out, NewSeasonView(s))
	}
	return &SeasonListResponse{Seasons: out}
}

// NewEpisodeResponse 构造单集响应。
func NewEpisodeResponse(detail *vo.EpisodeDetail) *EpisodeResponse {
	return &EpisodeResponse{Episode: detail}
}

// NewEpisodeListResponse 构造单集列表响应。
func NewEpisodeListResponse(details []*vo.EpisodeDetail) *EpisodeListResponse {
	if details == nil {
		details = []*vo.EpisodeDetail{}
	}
	return &EpisodeListResponse{Episodes: details}
}

// NewMovieResponse 构造电影详情响应。
func NewMovieResponse(detail *vo.MovieDetail) *MovieResponse {
	return &MovieResponse{Movie: detail}
}

// NewMovieListResponse 构造电影列表响应。
func NewMovieListResponse(details []*vo.MovieDetail) *MovieListResponse {
	if details == nil {
		details = []*vo.MovieDetail{}
	}
	return &MovieListResponse{Movies: details}
}
