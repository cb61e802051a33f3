// Package seed populates an empty database with a development dataset:
// the default admin account, the stock platforms and a small set of
// studios, apps and events.
package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pixelfest/eventdeck-go/internal/database/models"
	"github.com/pixelfest/eventdeck-go/internal/database/repositories"
)

// DefaultAdminEmail is the seeded admin login.
const DefaultAdminEmail = "admin@example.com"

// DefaultAdminPassword is the seeded admin password, for development only.
const DefaultAdminPassword = "password"

// stockPlatforms is the fixed platform list; Steam first because the
// export tooling depends on it.
var stockPlatforms = []models.Platform{
	{Name: "Steam", Type: models.PlatformTypeSteam, URL: strPtr("https://store.steampowered.com/")},
	{Name: "itch.io", Type: models.PlatformTypeGeneric},
	{Name: "Xbox Series X", Type: models.PlatformTypeGeneric},
	{Name: "PlayStation 5", Type: models.PlatformTypeGeneric},
	{Name: "Google Play", Type: models.PlatformTypeGeneric},
	{Name: "iOS App Store", Type: models.PlatformTypeGeneric},
}

// Seeder creates the development dataset.
type Seeder struct {
	users     *repositories.UserRepository
	studios   *repositories.StudioRepository
	platforms *repositories.PlatformRepository
	apps      *repositories.AppRepository
	events    *repositories.EventRepository
}

// NewSeeder creates a new Seeder.
func NewSeeder(
	users *repositories.UserRepository,
	studios *repositories.StudioRepository,
	platforms *repositories.PlatformRepository,
	apps *repositories.AppRepository,
	events *repositories.EventRepository,
) *Seeder {
	return &Seeder{users: users, studios: studios, platforms: platforms, apps: apps, events: events}
}

// RunIfEmpty seeds the database when no users exist yet. Safe to call on
// every startup.
func (s *Seeder) RunIfEmpty(ctx context.Context) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	log.Println("Empty database, seeding development data...")

	admin := models.User{
		Name:  "Admin",
		Email: DefaultAdminEmail,
		Role:  models.UserRoleAdmin,
	}
	if err := s.users.Create(ctx, &admin, DefaultAdminPassword); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	platforms := make([]models.Platform, len(stockPlatforms))
	copy(platforms, stockPlatforms)
	for i := range platforms {
		if err := s.platforms.Create(ctx, &platforms[i]); err != nil {
			return fmt.Errorf("failed to seed platform %s: %w", platforms[i].Name, err)
		}
	}

	studio := models.Studio{Name: "Pixelsmith Interactive"}
	if err := s.studios.Create(ctx, &studio, []models.StudioLink{
		{URL: "https://pixelsmith.example.com", Title: "Website", Type: models.UrlTypeWebsite},
	}); err != nil {
		return fmt.Errorf("failed to seed studio: %w", err)
	}
	member := models.StudioMember{StudioID: studio.ID, UserID: admin.ID, Position: strPtr("Owner")}
	if err := s.studios.AddMember(ctx, &member, true); err != nil {
		return fmt.Errorf("failed to seed studio member: %w", err)
	}

	app := models.App{Name: "Voxel Harbor", Type: models.AppTypeGame, StudioID: studio.ID}
	releases := []models.AppPlatform{
		{
			PlatformID:   platforms[0].ID,
			ReleaseState: models.ReleaseStateReleased,
			Links: []models.AppPlatformLink{
				{
					URL:   "https://store.steampowered.com/app/480/voxel-harbor",
					Title: "Store page",
					Type:  models.UrlTypeStorePage,
				},
			},
		},
		{
			PlatformID:   platforms[1].ID,
			ReleaseState: models.ReleaseStateBeta,
		},
	}
	if err := s.apps.Create(ctx, &app, releases); err != nil {
		return fmt.Errorf("failed to seed app: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Hour)
	event := models.Event{
		Name:        "Harbor Days Festival",
		RunningFrom: now,
		RunningTo:   now.Add(7 * 24 * time.Hour),
		Visibility:  models.EventVisibilityPublic,
	}
	if err := s.events.Create(ctx, &event); err != nil {
		return fmt.Errorf("failed to seed event: %w", err)
	}
	if err := s.events.AddCoordinator(ctx, event.ID, admin.ID); err != nil {
		return fmt.Errorf("failed to seed event coordinator: %w", err)
	}
	if err := s.events.AddAppPlatforms(ctx, []models.EventAppPlatform{
		{EventID: event.ID, AppPlatformID: releases[0].ID, Status: models.StatusOKConfirmed},
	}); err != nil {
		return fmt.Errorf("failed to seed event participation: %w", err)
	}

	log.Printf("Seed complete. Admin login: %s / %s", DefaultAdminEmail, DefaultAdminPassword)
	return nil
}

func strPtr(s string) *string { return &s }
