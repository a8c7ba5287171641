package views

import (
	"time"

	"github.com/miravio/services-catalog/internal/models/po"

	"github.com/google/uuid"
)

// TrailerView 是预告片的 JSON 视图。
type TrailerView struct {
	TrailerID uuid.UUID  `json:"trailer_id"`
	OwnerType string     `json:"owner_type"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	AssetID   *uuid.UUID `json:"asset_id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TrailerResponse 包装单个预告片。
type TrailerResponse struct {
	Trailer *TrailerView `json:"trailer"`
}

// TrailerListResponse 包装预告片列表。
type TrailerListResponse struct {
	Trailers []*TrailerView `json:"trailers"`
}

// AdView 是广告素材的 JSON 视图。
type AdView struct {
	AdID      uuid.UUID  `json:"ad_id"`
	Title     string     `json:"title"`
	Placement string     `json:"placement"`
	CTAURL    *string    `json:"cta_url"`
	AssetID   *uuid.UUID `json:"asset_id"`
	Active    bool       `json:"active"`
	StartsAt  *time.Time `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// AdResponse 包装单个广告素材。
type AdResponse struct {
	Ad *AdView `json:"ad"`
}

// AdListResponse 包装广告素材列表。
type AdListResponse struct {
	Ads []*AdView `json:"ads"`
}

// CategoryView 是分类的 JSON 视图。
type CategoryView struct {
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	SortOrder  int32     `json:"sort_order"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CategoryResponse 包装单个分类。
type CategoryResponse struct {
	Category *CategoryView `json:"category"`
}

// CategoryListResponse 包装分类列表。
type CategoryListResponse struct {
	Categories []*CategoryView `json:"categories"`
}

// PlanView 是订阅套餐的 JSON 视图。
type PlanView struct {
	PlanID       uuid.UUID `json:"plan_id"`
	Name         string    `json:"name"`
	PriceCents   int64     `json:"price_cents"`
	Currency     string    `json:"currency"`
	IntervalDays int32     `json:"interval_days"`
	Perks        []string  `json:"perks"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PlanResponse 包装单个套餐。
type PlanResponse struct {
	Plan *PlanView `json:"plan"`
}

// PlanListResponse 包装套餐列表。
type PlanListResponse struct {
	Plans []*PlanView `json:"plans"`
}

// ReminderView 是上线提醒的 JSON 视图。
type ReminderView struct {
	ReminderID uuid.UUID `json:"reminder_id"`
	TitleType  string    `json:"title_type"`
	TitleID    uuid.UUID `json:"title_id"`
	Channel    string    `json:"channel"`
	SendAt     time.Time `json:"send_at"`
	Sent       bool      `json:"sent"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReminderResponse 包装单个提醒。
type ReminderResponse struct {
	Reminder *ReminderView `json:"reminder"`
}

// ReminderListResponse 包装提醒列表。
type ReminderListResponse struct {
	Reminders []*ReminderView `json:"reminders"`
}

// AdminUserView 是后台账号的 JSON 视图。
type AdminUserView struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	PageAccess  []string  `json:"page_access"`
	Disabled    bool      `json:"disabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AdminUserResponse 包装单个后台账号。
type AdminUserResponse struct {
	User *AdminUserView `json:"user"`
}

// AdminUserListResponse 包装后台账号列表。
type AdminUserListResponse struct {
	Users []*AdminUserView `json:"users"`
}

// NewTrailerView 从持久化实体构造预告片视图。
func NewTrailerView(t *po.Trailer) *TrailerView {
	if t == nil {
		return nil
	}
	return &TrailerView{
		TrailerID: t.TrailerID,
		OwnerType: string(t.OwnerType),
		OwnerID:   t.OwnerID,
		AssetID:   t.AssetID,
		Title:     t.Title,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// NewTrailerResponse 构造预告片响应。
func NewTrailerResponse(t *po.Trailer) *TrailerResponse {
	return &TrailerResponse{Trailer: NewTrailerView(t)}
}

// NewTrailerListResponse 构造预告片列表响应。
func NewTrailerListResponse(trailers []*po.Trailer) *TrailerListResponse {
	out := make([]*TrailerView, 0, len(trailers))
	for _, t := range trailers {
		out = append(out, NewTrailerView(t))
	}
	return &TrailerListResponse{Trailers: out}
}

// NewAdView 从持久化实体构造广告视图。
func NewAdView(a *po.AdCreative) *AdView {
	if a == nil {
		return nil
	}
	return &AdView{
		AdID:      a.AdID,
		Title:     a.Title,
		Placement: a.Placement,
		CTAURL:    a.CTAURL,
		AssetID:   a.AssetID,
		Active:    a.Active,
		StartsAt:  a.StartsAt,
		EndsAt:    a.EndsAt,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// NewAdResponse 构造广告响应。
func NewAdResponse(a *po.AdCreative) *AdResponse {
	return &AdResponse{Ad: NewAdView(a)}
}

// NewAdListResponse 构造广告列表响应。
func NewAdListResponse(ads []*po.AdCreative) *AdListResponse {
	out := make([]*AdView, 0, len(ads))
	for _, a := range ads {
		out = append(out, NewAdView(a))
	}
	return &AdListResponse{Ads: out}
}

// NewCategoryView 从持久化实体构造分类视图。
func NewCategoryView(c *po.Category) *CategoryView {
	if c == nil {
		return nil
	}
	return &CategoryView{
		CategoryID: c.CategoryID,
		Name:       c.Name,
		Slug:       c.Slug,
		SortOrder:  c.SortOrder,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// NewCategoryResponse 构造分类响应。
func NewCategoryResponse(c *po.Category) *CategoryResponse {
	return &CategoryResponse{Category: NewCategoryView(c)}
}

// NewCategoryListResponse 构造分类列表响应。
func NewCategoryListResponse(categories []*po.Category) *CategoryListResponse {
	out := make([]*CategoryView, 0, len(categories))
	for _, c := range categories {
		out = append(out, NewCategoryView(c))
	}
	return &CategoryListResponse{Categories: out}
}

// NewPlanView 从持久化实体构造套餐视图。
func NewPlanView(p *po.Plan) *PlanView {
	if p == nil {
		return nil
	}
	return &PlanView{
		PlanID:       p.PlanID,
		Name:         p.Name,
		PriceCents:   p.PriceCents,
		Currency:     p.Currency,
		IntervalDays: p.IntervalDays,
		Perks:        append([]string(nil), p.Perks...),
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// NewPlanResponse 构造套餐响应。
func NewPlanResponse(p *po.Plan) *PlanResponse {
	return &PlanResponse{Plan: NewPlanView(p)}
}

// NewPlanListResponse 构造套餐列表响应。
func NewPlanListResponse(plans []*po.Plan) *PlanListResponse {
	out := make([]*PlanView, 0, len(plans))
	for _, p := range plans {
		out = append(out, NewPlanView(p))
	}
	return &PlanListResponse{Plans: out}
}

// NewReminderView 从持久化实体构造提醒视图。
func NewReminderView(r *po.Reminder) *ReminderView {
	if r == nil {
		return nil
	}
	return &ReminderView{
		ReminderID: r.ReminderID,
		TitleType:  r.TitleType,
		TitleID:    r.TitleID,
		Channel:    string(r.Channel),
		SendAt:     r.SendAt,
		Sent:       r.Sent,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// NewReminderResponse 构造提醒响应。
func NewReminderResponse(r *po.Reminder) *ReminderResponse {
	return &ReminderResponse{Reminder: NewReminderView(r)}
}

// NewReminderListResponse 构造提醒列表响应。
func NewReminderListResponse(reminders []*po.Reminder) *ReminderListResponse {
	out := make([]*ReminderView, 0, len(reminders))
	for _, r := range reminders {
		out = append(out, NewReminderView(r))
	}
	return &ReminderListResponse{Reminders: out}
}

// NewAdminUserView 从持久化实体构造后台账号视图。
func NewAdminUserView(u *po.AdminUser) *AdminUserView {
	if u == nil {
		return nil
	}
	return &AdminUserView{
		UserID:      u.UserID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		PageAccess:  append([]string(nil), u.PageAccess...),
		Disabled:    u.Disabled,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// NewAdminUserResponse 构造后台账号响应。
func NewAdminUserResponse(u *po.AdminUser) *AdminUserResponse {
	return &AdminUserResponse{User: NewAdminUserView(u)}
}

// NewAdminUserListResponse 构造后台账号列表响应。
func NewAdminUserListResponse(users []*po.AdminUser) *AdminUserListResponse {
	out := make([]*AdminUserView, 0, len(users))
	for _, u := range users {
		out = append(out, NewAdminUserView(u))
	}
	return &AdminUserListResponse{Users: out}
}
