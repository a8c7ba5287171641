package dto

import (
	"fmt"
	"time"

	"github.com/miravio/services-catalog/internal/models/po"
	"github.com/miravio/services-catalog/internal/repositories"
	"github.com/miravio/services-catalog/internal/services"

	"github.com/google/uuid"
)

// CreateTrailerRequest 是挂载预告片的请求载荷。
type CreateTrailerRequest struct {
	OwnerType string  `json:"owner_type"`
	OwnerID   string  `json:"owner_id"`
	AssetID   *string `json:"asset_id"`
	Title     string  `json:"title"`
}

// ToInput 转换为服务层输入。
func (r CreateTrailerRequest) ToInput() (services.CreateTrailerInput, error) {
	ownerID, err := ParseUUID("owner_id", r.OwnerID)
	if err != nil {
		return services.CreateTrailerInput{}, err
	}
	assetID, err := optionalUUID("asset_id", r.AssetID)
	if err != nil {
		return services.CreateTrailerInput{}, err
	}
	return services.CreateTrailerInput{
		OwnerType: po.TrailerOwnerType(r.OwnerType),
		OwnerID:   ownerID,
		AssetID:   assetID,
		Title:     r.Title,
	}, nil
}

// UpdateTrailerRequest 是更新预告片的请求载荷，归属不可变更。
type UpdateTrailerRequest struct {
	Title   *string `json:"title"`
	AssetID *string `json:"asset_id"`
}

// ToInput 转换为服务层输入。
func (r UpdateTrailerRequest) ToInput(trailerID uuid.UUID) (services.UpdateTrailerInput, error) {
	assetID, err := optionalUUID("asset_id", r.AssetID)
	if err != nil {
		return services.UpdateTrailerInput{}, err
	}
	return services.UpdateTrailerInput{
		TrailerID: trailerID,
		Title:     r.Title,
		AssetID:   assetID,
	}, nil
}

// CreateAdRequest 是创建广告素材的请求载荷。
type CreateAdRequest struct {
	Title     string  `json:"title"`
	Placement string  `json:"placement"`
	CTAURL    *string `json:"cta_url"`
	AssetID   *string `json:"asset_id"`
	Active    bool    `json:"active"`
	StartsAt  *string `json:"starts_at"`
	EndsAt    *string `json:"ends_at"`
}

// ToInput 转换为服务层输入。
func (r CreateAdRequest) ToInput() (services.CreateAdInput, error) {
	assetID, err := optionalUUID("asset_id", r.AssetID)
	if err != nil {
		return services.CreateAdInput{}, err
	}
	startsAt, err := optionalTime("starts_at", r.StartsAt)
	if err != nil {
		return services.CreateAdInput{}, err
	}
	endsAt, err := optionalTime("ends_at", r.EndsAt)
	if err != nil {
		return services.CreateAdInput{}, err
	}
	return services.CreateAdInput{
		Title:     r.Title,
		Placement: r.Placement,
		CTAURL:    r.CTAURL,
		AssetID:   assetID,
		Active:    r.Active,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
	}, nil
}

// UpdateAdRequest 是更新广告素材的请求载荷。
type UpdateAdRequest struct {
	Title     *string `json:"title"`
	Placement *string `json:"placement"`
	CTAURL    *string `json:"cta_url"`
	AssetID   *string `json:"asset_id"`
	Active    *bool   `json:"active"`
	StartsAt  *string `json:"starts_at"`
	EndsAt    *string `json:"ends_at"`
}

// ToInput 转换为服务层输入。
func (r UpdateAdRequest) ToInput(adID uuid.UUID) (services.UpdateAdInput, error) {
	assetID, err := optionalUUID("asset_id", r.AssetID)
	if err != nil {
		return services.UpdateAdInput{}, err
	}
	startsAt, err := optionalTime("starts_at", r.StartsAt)
	if err != nil {
		return services.UpdateAdInput{}, err
	}
	endsAt, err := optionalTime("ends_at", r.EndsAt)
	if err != nil {
		return services.UpdateAdInput{}, err
	}
	return services.UpdateAdInput{
		AdID:      adID,
		Title:     r.Title,
		Placement: r.Placement,
		CTAURL:    r.CTAURL,
		AssetID:   assetID,
		Active:    r.Active,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
	}, nil
}

// CreateCategoryRequest 是创建分类的请求载荷。
type CreateCategoryRequest struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	SortOrder int32  `json:"sort_order"`
}

// UpdateCategoryRequest 是更新分类的请求载荷。
type UpdateCategoryRequest struct {
	Name      *string `json:"name"`
	Slug      *string `json:"slug"`
	SortOrder *int32  `json:"sort_order"`
}

// ToInput 转换为仓储层输入。
func (r UpdateCategoryRequest) ToInput(categoryID uuid.UUID) repositories.UpdateCategoryInput {
	return repositories.UpdateCategoryInput{
		CategoryID: categoryID,
		Name:       r.Name,
		Slug:       r.Slug,
		SortOrder:  r.SortOrder,
	}
}

// CreatePlanRequest 是创建订阅套餐的请求载荷。
type CreatePlanRequest struct {
	Name         string   `json:"name"`
	PriceCents   int64    `json:"price_cents"`
	Currency     string   `json:"currency"`
	IntervalDays int32    `json:"interval_days"`
	Perks        []string `json:"perks"`
	Active       bool     `json:"active"`
}

// ToInput 转换为服务层输入。
func (r CreatePlanRequest) ToInput() services.CreatePlanInput {
	return services.CreatePlanInput{
		Name:         r.Name,
		PriceCents:   r.PriceCents,
		Currency:     r.Currency,
		IntervalDays: r.IntervalDays,
		Perks:        r.Perks,
		Active:       r.Active,
	}
}

// UpdatePlanRequest 是更新订阅套餐的请求载荷。
type UpdatePlanRequest struct {
	Name         *string  `json:"name"`
	PriceCents   *int64   `json:"price_cents"`
	Currency     *string  `json:"currency"`
	IntervalDays *int32   `json:"interval_days"`
	Perks        []string `json:"perks"`
	Active       *bool    `json:"active"`
}

// ToInput 转换为仓储层输入。
func (r UpdatePlanRequest) ToInput(planID uuid.UUID) repositories.UpdatePlanInput {
	return repositories.UpdatePlanInput{
		PlanID:       planID,
		Name:         r.Name,
		PriceCents:   r.PriceCents,
		Currency:     r.Currency,
		IntervalDays: r.IntervalDays,
		Perks:        r.Perks,
		Active:       r.Active,
	}
}

// ScheduleReminderRequest 是创建上线提醒的请求载荷。
type ScheduleReminderRequest struct {
	TitleType string `json:"title_type"`
	TitleID   string `json:"title_id"`
	Channel   string `json:"channel"`
	SendAt    string `json:"send_at"`
}

// ToInput 转换为服务层输入。
func (r ScheduleReminderRequest) ToInput() (services.ScheduleReminderInput, error) {
	titleID, err := ParseUUID("title_id", r.TitleID)
	if err != nil {
		return services.ScheduleReminderInput{}, err
	}
	sendAt, err := time.Parse(time.RFC3339, r.SendAt)
	if err != nil {
		return services.ScheduleReminderInput{}, fmt.Errorf("send_at must be RFC3339 formatted")
	}
	return services.ScheduleReminderInput{
		TitleType: r.TitleType,
		TitleID:   titleID,
		Channel:   po.ReminderChannel(r.Channel),
		SendAt:    sendAt,
	}, nil
}

// CreateAdminUserRequest 是创建后台账号的请求载荷。
type CreateAdminUserRequest struct {
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name"`
	Role        string   `json:"role"`
	PageAccess  []string `json:"page_access"`
}

// ToInput 转换为服务层输入。
func (r CreateAdminUserRequest) ToInput() services.CreateAdminUserInput {
	return services.CreateAdminUserInput{
		Email:       r.Email,
		DisplayName: r.DisplayName,
		Role:        po.AdminRole(r.Role),
		PageAccess:  r.PageAccess,
	}
}

// UpdateAdminUserRequest 是更新后台账号的请求载荷。
type UpdateAdminUserRequest struct {
	DisplayName *string  `json:"display_name"`
	Role        *string  `json:"role"`
	PageAccess  []string `json:"page_access"`
	Disabled    *bool    `json:"disabled"`
}

// ToInput 转换为仓储层输入。
func (r UpdateAdminUserRequest) ToInput(userID uuid.UUID) repositories.UpdateAdminUserInput {
	input := repositories.UpdateAdminUserInput{
		UserID:      userID,
		DisplayName: r.DisplayName,
		PageAccess:  r.PageAccess,
		Disabled:    r.Disabled,
	}
	if r.Role != nil {
		role := po.AdminRole(*r.Role)
		input.Role = &role
	}
	return input
}
