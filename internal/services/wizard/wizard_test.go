package wizard

import (
	"context"
	"errors"
	"testing"

	"github.com/pixelfest/eventdeck-go/internal/database/models"
	"github.com/pixelfest/eventdeck-go/internal/services/testutil"
)

func TestParseGroupBy(t *testing.T) {
	tests := []struct {
		value string
		want  GroupBy
	}{
		{"studio", GroupByStudio},
		{"platform", GroupByPlatform},
		{"none", GroupByNone},
		{"", GroupByNone},
		{"bogus", GroupByNone},
	}
	for _, tt := range tests {
		if got := ParseGroupBy(tt.value); got != tt.want {
			t.Errorf("ParseGroupBy(%q) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestSelectionRoundTrip(t *testing.T) {
	selection := Selection{
		GroupBy: GroupByPlatform,
		Apps: []SelectedApp{
			{AppID: "app-1", AppPlatformID: "ap-1"},
			{AppID: "app-2"},
		},
	}

	payload, err := selection.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, err := DecodeSelection(payload)
	if err != nil {
		t.Fatalf("DecodeSelection failed: %v", err)
	}

	if decoded.GroupBy != GroupByPlatform || len(decoded.Apps) != 2 {
		t.Errorf("Decoded = %+v", decoded)
	}
	if decoded.Apps[0].AppPlatformID != "ap-1" || decoded.Apps[1].AppPlatformID != "" {
		t.Errorf("Decoded apps = %+v", decoded.Apps)
	}
}

func TestDecodeSelection_Invalid(t *testing.T) {
	if _, err := DecodeSelection("{not json"); err == nil {
		t.Fatal("Expected an error for a malformed payload")
	}
}

func TestValidateSubmission_NothingChecked(t *testing.T) {
	err := ValidateSubmission([]SubmittedApp{
		{Releases: []SubmittedRelease{{AppPlatformID: "ap-1", Checked: false}}},
	})
	if err == nil {
		t.Fatal("Expected a validation error")
	}
	if got := err.Fields["appPlatforms"]; got != "No platforms selected" {
		t.Errorf("appPlatforms error = %q", got)
	}
}

func TestValidateSubmission_InvalidStatus(t *testing.T) {
	err := ValidateSubmission([]SubmittedApp{
		{Releases: []SubmittedRelease{
			{AppPlatformID: "ap-1", Checked: true, Status: models.StatusOKConfirmed},
		}},
		{Releases: []SubmittedRelease{
			{AppPlatformID: "ap-2", Checked: false},
			{AppPlatformID: "ap-3", Checked: true, Status: "Bogus"},
		}},
	})
	if err == nil {
		t.Fatal("Expected a validation error")
	}
	if got := err.Fields["apps[1].appPlatforms[1].status"]; got != "Invalid status" {
		t.Errorf("Field errors = %+v", err.Fields)
	}
	if len(err.Fields) != 1 {
		t.Errorf("Unexpected extra field errors: %+v", err.Fields)
	}
}

func TestValidateSubmission_Valid(t *testing.T) {
	err := ValidateSubmission([]SubmittedApp{
		{Releases: []SubmittedRelease{
			{AppPlatformID: "ap-1", Checked: true, Status: models.StatusInvited},
		}},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %+v", err.Fields)
	}
}

// seedWizardFixture creates an event plus one studio with one app on two
// platforms and returns the pieces the tests need.
func seedWizardFixture(t *testing.T, db *testutil.TestDB) (event models.Event, releases []models.AppPlatform) {
	t.Helper()
	ctx := context.Background()

	studio := models.Studio{Name: testutil.UniqueName("studio")}
	if err := db.StudioRepo.Create(ctx, &studio, nil); err != nil {
		t.Fatalf("Failed to create studio: %v", err)
	}

	steam := models.Platform{Name: testutil.UniqueName("steam"), Type: models.PlatformTypeSteam}
	itch := models.Platform{Name: testutil.UniqueName("itch"), Type: models.PlatformTypeGeneric}
	for _, platform := range []*models.Platform{&steam, &itch} {
		if err := db.PlatformRepo.Create(ctx, platform); err != nil {
			t.Fatalf("Failed to create platform: %v", err)
		}
	}

	app := models.App{Name: testutil.UniqueName("app"), Type: models.AppTypeGame, StudioID: studio.ID}
	releases = []models.AppPlatform{
		{PlatformID: steam.ID},
		{PlatformID: itch.ID},
	}
	if err := db.AppRepo.Create(ctx, &app, releases); err != nil {
		t.Fatalf("Failed to create app: %v", err)
	}

	event = models.Event{Name: testutil.UniqueName("event")}
	if err := db.EventRepo.Create(ctx, &event); err != nil {
		t.Fatalf("Failed to create event: %v", err)
	}
	return event, releases
}

func TestSave_CreatesCheckedReleases(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	event, releases := seedWizardFixture(t, db)
	service := NewService(db.EventRepo, db.StudioRepo)

	err := service.Save(ctx, event.ID, []SubmittedApp{
		{Releases: []SubmittedRelease{
			{AppPlatformID: releases[0].ID, Checked: true, Status: models.StatusOKConfirmed, Comment: "headline slot"},
			{AppPlatformID: releases[1].ID, Checked: false},
		}},
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	records, err := db.EventRepo.FindEventAppPlatforms(ctx, event.ID)
	if err != nil {
		t.Fatalf("FindEventAppPlatforms failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 participation record, got %d", len(records))
	}
	if records[0].AppPlatformID != releases[0].ID || records[0].Status != models.StatusOKConfirmed {
		t.Errorf("Record = %+v", records[0])
	}
	if records[0].Comment == nil || *records[0].Comment != "headline slot" {
		t.Errorf("Comment = %v", records[0].Comment)
	}
}

func TestSave_ResubmissionIsNoOp(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	event, releases := seedWizardFixture(t, db)
	service := NewService(db.EventRepo, db.StudioRepo)

	submission := []SubmittedApp{
		{Releases: []SubmittedRelease{
			{AppPlatformID: releases[0].ID, Checked: true, Status: models.StatusInvited},
		}},
	}
	if err := service.Save(ctx, event.ID, submission); err != nil {
		t.Fatalf("First save failed: %v", err)
	}
	if err := service.Save(ctx, event.ID, submission); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	records, err := db.EventRepo.FindEventAppPlatforms(ctx, event.ID)
	if err != nil {
		t.Fatalf("FindEventAppPlatforms failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected duplicates to be skipped, got %d records", len(records))
	}
}

func TestSave_ValidationBlocksWrites(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	event, releases := seedWizardFixture(t, db)
	service := NewService(db.EventRepo, db.StudioRepo)

	err := service.Save(ctx, event.ID, []SubmittedApp{
		{Releases: []SubmittedRelease{
			{AppPlatformID: releases[0].ID, Checked: true, Status: "Bogus"},
		}},
	})
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Expected a ValidationError, got %v", err)
	}

	records, err := db.EventRepo.FindEventAppPlatforms(ctx, event.ID)
	if err != nil {
		t.Fatalf("FindEventAppPlatforms failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Rejected submission must not write, got %d records", len(records))
	}
}

func TestGroupedEligibleApps_ByPlatform(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	event, releases := seedWizardFixture(t, db)
	service := NewService(db.EventRepo, db.StudioRepo)

	groups, err := service.GroupedEligibleApps(ctx, event.ID, GroupByPlatform)
	if err != nil {
		t.Fatalf("GroupedEligibleApps failed: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("Expected 2 platform groups, got %d", len(groups))
	}
	for _, group := range groups {
		if len(group.Apps) != 1 {
			t.Errorf("Group %s has %d apps", group.Name, len(group.Apps))
		}
		if group.Apps[0].AppPlatformID == "" {
			t.Error("Platform grouping must carry the concrete release ID")
		}
	}

	// Once a release is in the event it stops being eligible.
	if err := db.EventRepo.AddAppPlatforms(ctx, []models.EventAppPlatform{
		{EventID: event.ID, AppPlatformID: releases[0].ID, Status: models.StatusInvited},
	}); err != nil {
		t.Fatalf("AddAppPlatforms failed: %v", err)
	}
	groups, err = service.GroupedEligibleApps(ctx, event.ID, GroupByPlatform)
	if err != nil {
		t.Fatalf("GroupedEligibleApps failed: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("Expected 1 remaining group, got %d", len(groups))
	}
}
