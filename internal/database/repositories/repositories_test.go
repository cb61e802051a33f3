package repositories_test

import (
	"context"
	"testing"

	"github.com/pixelfest/eventdeck-go/internal/database/models"
	"github.com/pixelfest/eventdeck-go/internal/services/testutil"
)

func TestUserRepository_CreateAndVerifyLogin(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	email := testutil.UniqueEmail("login")
	user := models.User{Name: "Test User", Email: email, Role: models.UserRoleUser}
	if err := db.UserRepo.Create(ctx, &user, "hunter2hunter2"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if user.ID == "" {
		t.Fatal("Expected a generated ID")
	}

	verified, err := db.UserRepo.VerifyLogin(ctx, email, "hunter2hunter2")
	if err != nil {
		t.Fatalf("VerifyLogin failed: %v", err)
	}
	if verified == nil || verified.ID != user.ID {
		t.Errorf("VerifyLogin = %+v", verified)
	}

	wrong, err := db.UserRepo.VerifyLogin(ctx, email, "wrong-password")
	if err != nil {
		t.Fatalf("VerifyLogin failed: %v", err)
	}
	if wrong != nil {
		t.Error("Wrong password must not verify")
	}

	unknown, err := db.UserRepo.VerifyLogin(ctx, testutil.UniqueEmail("missing"), "whatever")
	if err != nil {
		t.Fatalf("VerifyLogin failed: %v", err)
	}
	if unknown != nil {
		t.Error("Unknown email must not verify")
	}
}

func TestUserRepository_UniqueEmail(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	email := testutil.UniqueEmail("dup")
	first := models.User{Name: "First", Email: email}
	if err := db.UserRepo.Create(ctx, &first, "password-one"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second := models.User{Name: "Second", Email: email}
	if err := db.UserRepo.Create(ctx, &second, "password-two"); err == nil {
		t.Fatal("Expected a unique constraint violation")
	}
}

func TestUserRepository_DeleteRemovesPassword(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	user := models.User{Name: "Doomed", Email: testutil.UniqueEmail("doomed")}
	if err := db.UserRepo.Create(ctx, &user, "password-123"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := db.UserRepo.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	found, err := db.UserRepo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found != nil {
		t.Error("Expected the user to be gone")
	}

	var passwordCount int64
	if err := db.DB.Model(&models.Password{}).Where("user_id = ?", user.ID).Count(&passwordCount).Error; err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if passwordCount != 0 {
		t.Error("Expected the password row to be gone")
	}
}

func TestStudioRepository_CreateWithLinksAndDelete(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	studio := models.Studio{Name: testutil.UniqueName("studio")}
	links := []models.StudioLink{
		{URL: "https://example.com", Title: "Website", Type: models.UrlTypeWebsite},
		{URL: "https://example.com/press", Title: "Press kit", Type: models.UrlTypePressKit},
	}
	if err := db.StudioRepo.Create(ctx, &studio, links); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	found, err := db.StudioRepo.FindByID(ctx, studio.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found == nil || len(found.Links) != 2 {
		t.Fatalf("FindByID = %+v", found)
	}

	user := models.User{Name: "Member", Email: testutil.UniqueEmail("member")}
	if err := db.UserRepo.Create(ctx, &user, "password-123"); err != nil {
		t.Fatalf("Create user failed: %v", err)
	}
	member := models.StudioMember{StudioID: studio.ID, UserID: user.ID}
	if err := db.StudioRepo.AddMember(ctx, &member, true); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	found, err = db.StudioRepo.FindByID(ctx, studio.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.MainContactID == nil || *found.MainContactID != member.ID {
		t.Errorf("MainContactID = %v, want %s", found.MainContactID, member.ID)
	}

	if err := db.StudioRepo.Delete(ctx, studio.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	var linkCount int64
	if err := db.DB.Model(&models.StudioLink{}).Where("studio_id = ?", studio.ID).Count(&linkCount).Error; err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if linkCount != 0 {
		t.Error("Expected studio links to be gone")
	}
	var memberCount int64
	if err := db.DB.Model(&models.StudioMember{}).Where("studio_id = ?", studio.ID).Count(&memberCount).Error; err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if memberCount != 0 {
		t.Error("Expected studio members to be gone")
	}
}

func seedStudioAndPlatform(t *testing.T, db *testutil.TestDB) (models.Studio, models.Platform) {
	t.Helper()
	ctx := context.Background()

	studio := models.Studio{Name: testutil.UniqueName("studio")}
	if err := db.StudioRepo.Create(ctx, &studio, nil); err != nil {
		t.Fatalf("Create studio failed: %v", err)
	}
	platform := models.Platform{Name: testutil.UniqueName("platform")}
	if err := db.PlatformRepo.Create(ctx, &platform); err != nil {
		t.Fatalf("Create platform failed: %v", err)
	}
	return studio, platform
}

func TestAppRepository_CreateTransactionRollsBack(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	studio, platform := seedStudioAndPlatform(t, db)

	// Two releases on the same platform violate the unique pair and must
	// roll back the app row created earlier in the transaction.
	app := models.App{Name: testutil.UniqueName("app"), StudioID: studio.ID}
	releases := []models.AppPlatform{
		{PlatformID: platform.ID},
		{PlatformID: platform.ID},
	}
	if err := db.AppRepo.Create(ctx, &app, releases); err == nil {
		t.Fatal("Expected a unique constraint violation")
	}

	var appCount int64
	if err := db.DB.Model(&models.App{}).Where("id = ?", app.ID).Count(&appCount).Error; err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if appCount != 0 {
		t.Error("Expected the app row to be rolled back")
	}
}

func TestAppRepository_UniqueAppPlatformPair(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	studio, platform := seedStudioAndPlatform(t, db)
	app := models.App{Name: testutil.UniqueName("app"), StudioID: studio.ID}
	if err := db.AppRepo.Create(ctx, &app, []models.AppPlatform{{PlatformID: platform.ID}}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	duplicate := models.AppPlatform{AppID: app.ID, PlatformID: platform.ID}
	if err := db.AppRepo.AddPlatform(ctx, &duplicate); err == nil {
		t.Fatal("Expected a unique constraint violation for the duplicate pair")
	}
}

func TestAppRepository_DeleteCascades(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	studio, platform := seedStudioAndPlatform(t, db)
	app := models.App{Name: testutil.UniqueName("app"), StudioID: studio.ID}
	releases := []models.AppPlatform{{
		PlatformID: platform.ID,
		Links:      []models.AppPlatformLink{{URL: "https://example.com", Title: "Store"}},
	}}
	if err := db.AppRepo.Create(ctx, &app, releases); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	event := models.Event{Name: testutil.UniqueName("event")}
	if err := db.EventRepo.Create(ctx, &event); err != nil {
		t.Fatalf("Create event failed: %v", err)
	}
	if err := db.EventRepo.AddAppPlatform(ctx, &models.EventAppPlatform{
		EventID:       event.ID,
		AppPlatformID: releases[0].ID,
		Status:        models.StatusInvited,
	}); err != nil {
		t.Fatalf("AddAppPlatform failed: %v", err)
	}

	if err := db.AppRepo.Delete(ctx, app.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	for _, check := range []struct {
		name  string
		model interface{}
		query string
		arg   string
	}{
		{"releases", &models.AppPlatform{}, "app_id = ?", app.ID},
		{"links", &models.AppPlatformLink{}, "app_platform_id = ?", releases[0].ID},
		{"participation", &models.EventAppPlatform{}, "app_platform_id = ?", releases[0].ID},
	} {
		var count int64
		if err := db.DB.Model(check.model).Where(check.query, check.arg).Count(&count).Error; err != nil {
			t.Fatalf("Count %s failed: %v", check.name, err)
		}
		if count != 0 {
			t.Errorf("Expected %s to be gone, found %d", check.name, count)
		}
	}
}

func TestEventRepository_ParticipationOrderingAndUnique(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	studio, platform := seedStudioAndPlatform(t, db)

	// Created in reverse name order to prove the scan sorts by app name.
	zebra := models.App{Name: "Zebra Run", StudioID: studio.ID}
	zebraReleases := []models.AppPlatform{{PlatformID: platform.ID}}
	if err := db.AppRepo.Create(ctx, &zebra, zebraReleases); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	apple := models.App{Name: "Apple Orchard", StudioID: studio.ID}
	appleReleases := []models.AppPlatform{{PlatformID: platform.ID}}
	if err := db.AppRepo.Create(ctx, &apple, appleReleases); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	event := models.Event{Name: testutil.UniqueName("event")}
	if err := db.EventRepo.Create(ctx, &event); err != nil {
		t.Fatalf("Create event failed: %v", err)
	}
	if err := db.EventRepo.AddAppPlatforms(ctx, []models.EventAppPlatform{
		{EventID: event.ID, AppPlatformID: zebraReleases[0].ID, Status: models.StatusInvited},
		{EventID: event.ID, AppPlatformID: appleReleases[0].ID, Status: models.StatusOKConfirmed},
	}); err != nil {
		t.Fatalf("AddAppPlatforms failed: %v", err)
	}

	records, err := db.EventRepo.FindEventAppPlatforms(ctx, event.ID)
	if err != nil {
		t.Fatalf("FindEventAppPlatforms failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].AppPlatform == nil || records[0].AppPlatform.App == nil {
		t.Fatal("Expected app preloaded")
	}
	if records[0].AppPlatform.App.Name != "Apple Orchard" {
		t.Errorf("First record app = %s, want Apple Orchard", records[0].AppPlatform.App.Name)
	}

	// A second insert of the same pair is skipped, not an error.
	if err := db.EventRepo.AddAppPlatforms(ctx, []models.EventAppPlatform{
		{EventID: event.ID, AppPlatformID: appleReleases[0].ID, Status: models.StatusDeclined},
	}); err != nil {
		t.Fatalf("AddAppPlatforms failed: %v", err)
	}
	records, err = db.EventRepo.FindEventAppPlatforms(ctx, event.ID)
	if err != nil {
		t.Fatalf("FindEventAppPlatforms failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Expected duplicate to be skipped, got %d records", len(records))
	}
}

func TestEventRepository_EligibleAppPlatforms(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	studio, platform := seedStudioAndPlatform(t, db)
	second := models.Platform{Name: testutil.UniqueName("platform")}
	if err := db.PlatformRepo.Create(ctx, &second); err != nil {
		t.Fatalf("Create platform failed: %v", err)
	}

	app := models.App{Name: testutil.UniqueName("app"), StudioID: studio.ID}
	releases := []models.AppPlatform{
		{PlatformID: platform.ID},
		{PlatformID: second.ID},
	}
	if err := db.AppRepo.Create(ctx, &app, releases); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	event := models.Event{Name: testutil.UniqueName("event")}
	if err := db.EventRepo.Create(ctx, &event); err != nil {
		t.Fatalf("Create event failed: %v", err)
	}
	if err := db.EventRepo.AddAppPlatform(ctx, &models.EventAppPlatform{
		EventID:       event.ID,
		AppPlatformID: releases[0].ID,
		Status:        models.StatusInvited,
	}); err != nil {
		t.Fatalf("AddAppPlatform failed: %v", err)
	}

	eligible, err := db.EventRepo.FindEligibleAppPlatforms(ctx, event.ID, []string{app.ID}, nil)
	if err != nil {
		t.Fatalf("FindEligibleAppPlatforms failed: %v", err)
	}
	if len(eligible) != 1 || eligible[0].ID != releases[1].ID {
		t.Errorf("Eligible = %+v", eligible)
	}
}

func TestEventRepository_Coordinators(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	event := models.Event{Name: testutil.UniqueName("event")}
	if err := db.EventRepo.Create(ctx, &event); err != nil {
		t.Fatalf("Create event failed: %v", err)
	}
	user := models.User{Name: "Coordinator", Email: testutil.UniqueEmail("coord")}
	if err := db.UserRepo.Create(ctx, &user, "password-123"); err != nil {
		t.Fatalf("Create user failed: %v", err)
	}

	if err := db.EventRepo.AddCoordinator(ctx, event.ID, user.ID); err != nil {
		t.Fatalf("AddCoordinator failed: %v", err)
	}
	// Adding the same pair again is a silent no-op.
	if err := db.EventRepo.AddCoordinator(ctx, event.ID, user.ID); err != nil {
		t.Fatalf("AddCoordinator failed: %v", err)
	}

	found, err := db.EventRepo.FindByID(ctx, event.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if len(found.Coordinators) != 1 {
		t.Fatalf("Expected 1 coordinator, got %d", len(found.Coordinators))
	}

	remaining, err := db.UserRepo.FindNotCoordinatingEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("FindNotCoordinatingEvent failed: %v", err)
	}
	for _, candidate := range remaining {
		if candidate.ID == user.ID {
			t.Error("Coordinator must not be listed as eligible")
		}
	}

	if err := db.EventRepo.RemoveCoordinator(ctx, found.Coordinators[0].ID); err != nil {
		t.Fatalf("RemoveCoordinator failed: %v", err)
	}
	found, err = db.EventRepo.FindByID(ctx, event.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if len(found.Coordinators) != 0 {
		t.Errorf("Expected no coordinators, got %d", len(found.Coordinators))
	}
}
