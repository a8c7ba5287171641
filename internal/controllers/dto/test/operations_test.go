package dto_test

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/miravio/services-catalog/internal/controllers/dto"
	"github.com/miravio/services-catalog/internal/models/po"

	"github.com/google/uuid"
)

func TestParsePageQuery(t *testing.T) {
	cases := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 50, 0},
		{"explicit", "limit=20&offset=40", 20, 40},
		{"capped", "limit=9999", 200, 0},
		{"ignores garbage", "limit=abc&offset=-5", 50, 0},
		{"zero limit falls back", "limit=0", 50, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tc.query)
			got := dto.ParsePageQuery(values)
			if got.Limit != tc.wantLimit || got.Offset != tc.wantOffset {
				t.Fatalf("got %+v, want limit=%d offset=%d", got, tc.wantLimit, tc.wantOffset)
			}
		})
	}
}

func TestParseUUID(t *testing.T) {
	id := uuid.New()
	got, err := dto.ParseUUID("asset_id", "  "+id.String()+"  ")
	if err != nil {
		t.Fatalf("ParseUUID: %v", err)
	}
	if got != id {
		t.Fatalf("got %s want %s", got, id)
	}

	if _, err := dto.ParseUUID("asset_id", "not-a-uuid"); err == nil {
		t.Fatal("expected error for invalid uuid")
	} else if !strings.Contains(err.Error(), "asset_id") {
		t.Fatalf("error should name the field: %v", err)
	}
}

func TestCreateTrailerRequest_ToInput(t *testing.T) {
	ownerID := uuid.New()
	assetID := uuid.New().String()
	req := dto.CreateTrailerRequest{
		OwnerType: "series",
		OwnerID:   ownerID.String(),
		AssetID:   &assetID,
		Title:     "Season Teaser",
	}

	input, err := req.ToInput()
	if err != nil {
		t.Fatalf("ToInput: %v", err)
	}
	if input.OwnerType != po.TrailerOwnerSeries || input.OwnerID != ownerID {
		t.Fatalf("input mismatch: %+v", input)
	}
	if input.AssetID == nil || input.AssetID.String() != assetID {
		t.Fatalf("asset id: %v", input.AssetID)
	}
}

func TestCreateTrailerRequest_InvalidOwnerID(t *testing.T) {
	req := dto.CreateTrailerRequest{OwnerType: "series", OwnerID: "nope", Title: "x"}
	if _, err := req.ToInput(); err == nil {
		t.Fatal("expected error for invalid owner_id")
	}
}

func TestUpdateTrailerRequest_ToInput(t *testing.T) {
	trailerID := uuid.New()
	title := "Season Teaser (Final Cut)"
	assetID := uuid.New().String()
	req := dto.UpdateTrailerRequest{Title: &title, AssetID: &assetID}

	input, err := req.ToInput(trailerID)
	if err != nil {
		t.Fatalf("ToInput: %v", err)
	}
	if input.TrailerID != trailerID {
		t.Fatalf("trailer id: %s", input.TrailerID)
	}
	if input.Title == nil || *input.Title != title {
		t.Fatalf("title: %v", input.Title)
	}
	if input.AssetID == nil || input.AssetID.String() != assetID {
		t.Fatalf("asset id: %v", input.AssetID)
	}
}

func TestUpdateTrailerRequest_BlankAssetID(t *testing.T) {
	blank := "  "
	req := dto.UpdateTrailerRequest{AssetID: &blank}
	input, err := req.ToInput(uuid.New())
	if err != nil {
		t.Fatalf("ToInput: %v", err)
	}
	if input.AssetID != nil {
		t.Fatal("blank asset id should be treated as absent")
	}
	if input.Title != nil {
		t.Fatal("title should stay nil when omitted")
	}
}

func TestCreateAdRequest_ToInput(t *testing.T) {
	starts := "2026-09-01T00:00:00Z"
	ends := "2026-09-30T23:59:59Z"
	req := dto.CreateAdRequest{
		Title:     "Autumn Promo",
		Placement: "preroll",
		Active:    true,
		StartsAt:  &starts,
		EndsAt:    &ends,
	}

	input, err := req.ToInput()
	if err != nil {
		t.Fatalf("ToInput: %v", err)
	}
	if input.StartsAt == nil || !input.StartsAt.Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("starts_at: %v", input.StartsAt)
	}
	if input.EndsAt == nil {
		t.Fatal("ends_at should be set")
	}
	if input.AssetID != nil {
		t.Fatal("asset id should stay nil when omitted")
	}
}

func TestCreateAdRequest_BadTime(t *testing.T) {
	bad := "yesterday"
	req := dto.CreateAdRequest{Title: "x", Placement: "banner", StartsAt: &bad}
	if _, err := req.ToInput(); err == nil {
		t.Fatal("expected error for invalid starts_at")
	} else if !strings.Contains(err.Error(), "starts_at") {
		t.Fatalf("error should name the field: %v", err)
	}
}

func TestUpdateAdRequest_EmptyOptionalUUID(t *testing.T) {
	blank := "  "
	req := dto.UpdateAdRequest{AssetID: &blank}
	input, err := req.ToInput(uuid.New())
	if err != nil {
		t.Fatalf("ToInput: %v", err)
	}
	if input.AssetID != nil {
		t.Fatal("blank asset id should be treated as absent")
	}
}

func TestScheduleReminderRequest_ToInput(t *testing.T) {
	titleID := uuid.New()
	req := dto.ScheduleReminderRequest{
		TitleType: "movie",
		TitleID:   titleID.String(),
		Channel:   "push",
		SendAt:    "2026-09-15T18:00:00Z",
	}

	input, err := req.ToInput()
	if err != nil {
		t.Fatalf("ToInput: %v", err)
	}
	if input.TitleID != titleID || input.Channel != po.ReminderChannelPush {
		t.Fatalf("input mismatch: %+v", input)
	}
	if input.SendAt.IsZero() {
		t.Fatal("send_at should be parsed")
	}
}

func TestScheduleReminderRequest_BadSendAt(t *testing.T) {
	req := dto.ScheduleReminderRequest{
		TitleType: "movie",
		TitleID:   uuid.New().String(),
		Channel:   "push",
		SendAt:    "2026/09/15",
	}
	if _, err := req.ToInput(); err == nil {
		t.Fatal("expected error for non-RFC3339 send_at")
	}
}

func TestUpdateAdminUserRequest_RoleConversion(t *testing.T) {
	role := "editor"
	req := dto.UpdateAdminUserRequest{Role: &role}
	input := req.ToInput(uuid.New())
	if input.Role == nil || *input.Role != po.AdminRoleEditor {
		t.Fatalf("role: %v", input.Role)
	}

	noRole := dto.UpdateAdminUserRequest{}
	if noRole.ToInput(uuid.New()).Role != nil {
		t.Fatal("role should stay nil when omitted")
	}
}
