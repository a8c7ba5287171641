package dto

import (
	"github.com/miravio/services-catalog/internal/services"

	"github.com/google/uuid"
)

// CreateSeriesRequest 是创建系列的请求载荷。
// CategoryID 与 ReleaseAt 以字符串传输，转换阶段完成解析。
type CreateSeriesRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	CoverURL    *string `json:"cover_url"`
	CategoryID  *string `json:"category_id"`
	ReleaseAt   *string `json:"release_at"`
}

// ToInput 转换为服务层输入。
func (r CreateSeriesRequest) ToInput() (services.CreateSeriesInput, error) {
	categoryID, err := optionalUUID("category_id", r.CategoryID)
	if err != nil {
		return services.CreateSeriesInput{}, err
	}
	releaseAt, err := optionalTime("release_at", r.ReleaseAt)
	if err != nil {
		return services.CreateSeriesInput{}, err
	}
	return services.CreateSeriesInput{
		Title:       r.Title,
		Description: r.Description,
		CoverURL:    r.CoverURL,
		CategoryID:  categoryID,
		ReleaseAt:   releaseAt,
	}, nil
}

// UpdateSeriesRequest 是更新系列的请求载荷。
type UpdateSeriesRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	CoverURL    *string `json:"cover_url"`
	CategoryID  *string `json:"category_id"`
	ReleaseAt   *string `json:"release_at"`
}

// ToInput 转换为服务层输入。
func (r UpdateSeriesRequest) ToInput(seriesID uuid.UUID) (services.UpdateSeriesInput, error) {
	categoryID, err := optionalUUID("category_id", r.CategoryID)
	if err != nil {
		return services.UpdateSeriesInput{}, err
	}
	releaseAt, err := optionalTime("release_at", r.ReleaseAt)
	if err != nil {
		return services.UpdateSeriesInput{}, err
	}
	return services.UpdateSeriesInput{
		SeriesID:    seriesID,
		Title:       r.Title,
		Description: r.Description,
		CoverURL:    r.CoverURL,
		CategoryID:  categoryID,
		ReleaseAt:   releaseAt,
	}, nil
}

// CreateSeasonRequest 是创建季的请求载荷。
type CreateSeasonRequest struct {
	SeasonNumber int32   `json:"season_number"`
	Title        *string `json:"title"`
}

// CreateEpisodeRequest 是创建单集的请求载荷。
type CreateEpisodeRequest struct {
	AssetID       *string `json:"asset_id"`
	EpisodeNumber int32   `json:"episode_number"`
	Title         string  `json:"title"`
	Description   *string `json:"description"`
	IsFree        bool    `json:"is_free"`
}

// ToInput 转换为服务层输入。
func (r CreateEpisodeRequest) ToInput(seasonID uuid.UUID) (services.CreateEpisodeInput, error) {
	assetID, err := optionalUUID("asset_id", r.AssetID)
	if err != nil {
		return services.CreateEpisodeInput{}, err
	}
	return services.CreateEpisodeInput{
		SeasonID:      seasonID,
		AssetID:       assetID,
		EpisodeNumber: r.EpisodeNumber,
		Title:         r.Title,
		Description:   r.Description,
		IsFree:        r.IsFree,
	}, nil
}

// UpdateEpisodeRequest 是更新单集的请求载荷。
type UpdateEpisodeRequest struct {
	AssetID       *string `json:"asset_id"`
	EpisodeNumber *int32  `json:"episode_number"`
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	IsFree        *bool   `json:"is_free"`
}

// ToInput 转换为服务层输入。
func (r UpdateEpisodeRequest) ToInput(episodeID uuid.UUID) (services.UpdateEpisodeInput, error) {
	assetID, err := optionalUUID("asset_id", r.AssetID)
	if err != nil {
		return services.UpdateEpisodeInput{}, err
	}
	return services.UpdateEpisodeInput{
		EpisodeID:     episodeID,
		AssetID:       assetID,
		EpisodeNumber: r.EpisodeNumber,
		Title:         r.Title,
		Description:   r.Description,
		IsFree:        r.IsFree,
	}, nil
}

// CreateMovieRequest 是创建电影的请求载荷。
type CreateMovieRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	CoverURL    *string `json:"cover_url"`
	CategoryID  *string `json:"category_id"`
	AssetID     *string `json:"asset_id"`
	ReleaseAt   *string `json:"release_at"`
}

// ToInput 转换为服务层输入。
func (r CreateMovieRequest) ToInput() (services.CreateMovieInput, error) {
	categoryID, err := optionalUUID("category_id", r.CategoryID)
	if err != nil {
		return services.CreateMovieInput{}, err
	}
	assetID, err := optionalUUID("asset_id", r.AssetID)
	if err != nil {
		return services.CreateMovieInput{}, err
	}
	releaseAt, err := optionalTime("release_at", r.ReleaseAt)
	if err != nil {
		return services.CreateMovieInput{}, err
	}
	return services.CreateMovieInput{
		Title:       r.Title,
		Description: r.Description,
		CoverURL:    r.CoverURL,
		CategoryID:  categoryID,
		AssetID:     assetID,
		ReleaseAt:   releaseAt,
	}, nil
}

// UpdateMovieRequest 是更新电影的请求载荷。
type UpdateMovieRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	CoverURL    *string `json:"cover_url"`
	CategoryID  *string `json:"category_id"`
	AssetID     *string `json:"asset_id"`
	ReleaseAt   *string `json:"release_at"`
}

// ToInput 转换为服务层输入。
func (r UpdateMovieRequest) ToInput(movieID uuid.UUID) (services.UpdateMovieInput, error) {
	categoryID, err := optionalUUID("category_id", r.CategoryID)
	if err != nil {
		return services.UpdateMovieInput{}, err
	}
	assetID, err := optionalUUID("asset_id", r.AssetID)
	if err != nil {
		return services.UpdateMovieInput{}, err
	}
	releaseAt, err := optionalTime("release_at", r.ReleaseAt)
	if err != nil {
		return services.UpdateMovieInput{}, err
	}
	return services.UpdateMovieInput{
		MovieID:     movieID,
		Title:       r.Title,
		Description: r.Description,
		CoverURL:    r.CoverURL,
		CategoryID:  categoryID,
		AssetID:     assetID,
		ReleaseAt:   releaseAt,
	}, nil
}
