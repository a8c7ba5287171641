package po

import (
	"time"

	"github.com/google/uuid"
)

// Visibility 表示目录条目的对外可见状态。
type Visibility string

// 可见性常量定义
const (
	VisibilityDraft     Visibility = "draft"     // 草稿，不对外
	VisibilityPublished Visibility = "published" // 已上架
	VisibilityArchived  Visibility = "archived"  // 已归档下架
)

// Series 表示 catalog.series 表的数据库实体（短剧/剧集系列）。
type Series struct {
	SeriesID    uuid.UUID  `db:"series_id"`
	Title       string     `db:"title"`
	Description *string    `db:"description"`
	CoverURL    *string    `db:"cover_url"`
	CategoryID  *uuid.UUID `db:"category_id"`
	Visibility  Visibility `db:"visibility"`
	ReleaseAt   *time.Time `db:"release_at"` // 预告上线时间（提醒推送依据）
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// Season 表示 catalog.seasons 表的数据库实体。
type Season struct {
	SeasonID     uuid.UUID `db:"season_id"`
	SeriesID     uuid.UUID `db:"series_id"`
	SeasonNumber int32     `db:"season_number"`
	Title        *string   `db:"title"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Episode 表示 catalog.episodes 表的数据库实体。
// 每集关联一条 VideoAsset；资产未 ready 前剧集不可发布。
type Episode struct {
	EpisodeID     uuid.UUID  `db:"episode_id"`
	SeasonID      uuid.UUID  `db:"season_id"`
	AssetID       *uuid.UUID `db:"asset_id"`
	EpisodeNumber int32      `db:"episode_number"`
	Title         string     `db:"title"`
	Description   *string    `db:"description"`
	IsFree        bool       `db:"is_free"` // 免费试看集
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

// Movie 表示 catalog.movies 表的数据库实体。
type Movie struct {
	MovieID     uuid.UUID  `db:"movie_id"`
	Title       string     `db:"title"`
	Description *string    `db:"description"`
	CoverURL    *string    `db:"cover_url"`
	CategoryID  *uuid.UUID `db:"category_id"`
	AssetID     *uuid.UUID `db:"asset_id"`
	Visibility  Visibility `db:"visibility"`
	ReleaseAt   *time.Time `db:"release_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// TrailerOwnerType 表示预告片归属的条目类型。
type TrailerOwnerType string

// 预告片归属类型常量定义
const (
	TrailerOwnerSeries TrailerOwnerType = "series"
	TrailerOwnerMovie  TrailerOwnerType = "movie"
)

// Trailer 表示 catalog.trailers 表的数据库实体。
type Trailer struct {
	TrailerID uuid.UUID        `db:"trailer_id"`
	OwnerType TrailerOwnerType `db:"owner_type"`
	OwnerID   uuid.UUID        `db:"owner_id"`
	AssetID   *uuid.UUID       `db:"asset_id"`
	Title     string           `db:"title"`
	CreatedAt time.Time        `db:"created_at"`
	UpdatedAt time.Time        `db:"updated_at"`
}

// AdCreative 表示 catalog.ad_creatives 表的数据库实体（投放素材）。
type AdCreative struct {
	AdID      uuid.UUID  `db:"ad_id"`
	Title     string     `db:"title"`
	Placement string     `db:"placement"` // 投放位（如 preroll / banner）
	CTAURL    *string    `db:"cta_url"`
	AssetID   *uuid.UUID `db:"asset_id"`
	Active    bool       `db:"active"`
	StartsAt  *time.Time `db:"starts_at"`
	EndsAt    *time.Time `db:"ends_at"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

// Category 表示 catalog.categories 表的数据库实体。
type Category struct {
	CategoryID uuid.UUID `db:"category_id"`
	Name       string    `db:"name"`
	Slug       string    `db:"slug"`
	SortOrder  int32     `db:"sort_order"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// Plan 表示 catalog.plans 表的数据库实体（订阅套餐）。
type Plan struct {
	PlanID       uuid.UUID `db:"plan_id"`
	Name         string    `db:"name"`
	PriceCents   int64     `db:"price_cents"`
	Currency     string    `db:"currency"`
	IntervalDays int32     `db:"interval_days"`
	Perks        []string  `db:"perks"` // PostgreSQL text[]
	Active       bool      `db:"active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// ReminderChannel 表示提醒触达渠道。
type ReminderChannel string

// 提醒渠道常量定义
const (
	ReminderChannelPush  ReminderChannel = "push"
	ReminderChannelEmail ReminderChannel = "email"
)

// Reminder 表示 catalog.reminders 表的数据库实体（上线提醒排期）。
type Reminder struct {
	ReminderID uuid.UUID       `db:"reminder_id"`
	TitleType  string          `db:"title_type"` // series / movie
	TitleID    uuid.UUID       `db:"title_id"`
	Channel    ReminderChannel `db:"channel"`
	SendAt     time.Time       `db:"send_at"`
	Sent       bool            `db:"sent"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

// AdminRole 表示后台账号角色。
type AdminRole string

// 后台角色常量定义
const (
	AdminRoleOwner    AdminRole = "owner"
	AdminRoleEditor   AdminRole = "editor"
	AdminRoleOperator AdminRole = "operator"
)

// AdminUser 表示 catalog.admin_users 表的数据库实体。
// PageAccess 控制后台各页面的访问范围，由服务端在鉴权后下发。
type AdminUser struct {
	UserID      uuid.UUID `db:"user_id"`
	Email       string    `db:"email"`
	DisplayName string    `db:"display_name"`
	Role        AdminRole `db:"role"`
	PageAccess  []string  `db:"page_access"` // PostgreSQL text[]
	Disabled    bool      `db:"disabled"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
