package transfer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelfest/eventdeck-go/internal/database/models"
	"github.com/pixelfest/eventdeck-go/internal/services/testutil"
)

// seedCatalog creates one platform, one studio with a link, one app with
// one release and one event with one participation.
func seedCatalog(t *testing.T, db *testutil.TestDB) {
	t.Helper()
	ctx := context.Background()

	platform := models.Platform{Name: "Steam", Type: models.PlatformTypeSteam}
	require.NoError(t, db.PlatformRepo.Create(ctx, &platform))

	studio := models.Studio{Name: "Pixelsmith"}
	require.NoError(t, db.StudioRepo.Create(ctx, &studio, []models.StudioLink{
		{URL: "https://pixelsmith.example", Title: "Website", Type: models.UrlTypeWebsite},
	}))

	app := models.App{Name: "Voxel Harbor", Type: models.AppTypeGame, StudioID: studio.ID}
	releases := []models.AppPlatform{{
		PlatformID:   platform.ID,
		ReleaseState: models.ReleaseStateBeta,
		IsFreeToPlay: true,
		Links: []models.AppPlatformLink{
			{URL: "https://store.steampowered.com/app/1/voxel-harbor/", Title: "Store page", Type: models.UrlTypeStorePage},
		},
	}}
	require.NoError(t, db.AppRepo.Create(ctx, &app, releases))

	event := models.Event{
		Name:        "Harbor Days",
		RunningFrom: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		RunningTo:   time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		Visibility:  models.EventVisibilityPublic,
	}
	require.NoError(t, db.EventRepo.Create(ctx, &event))
	require.NoError(t, db.EventRepo.AddAppPlatforms(ctx, []models.EventAppPlatform{
		{EventID: event.ID, AppPlatformID: releases[0].ID, Status: models.StatusOKConfirmed},
	}))
}

func TestExport(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	seedCatalog(t, db)

	exporter := NewExporter(db.PlatformRepo, db.StudioRepo, db.AppRepo, db.EventRepo)
	exported, stats, err := exporter.Export(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "1.0", exported.Version)
	require.NotNil(t, exported.Metadata)
	assert.NotEmpty(t, exported.Metadata.ExportedAt)

	assert.Equal(t, 1, stats.PlatformsCount)
	assert.Equal(t, 1, stats.StudiosCount)
	assert.Equal(t, 1, stats.AppsCount)
	assert.Equal(t, 1, stats.ReleasesCount)
	assert.Equal(t, 1, stats.EventsCount)
	assert.Equal(t, 1, stats.ParticipationsCount)

	require.Len(t, exported.Studios, 1)
	assert.Len(t, exported.Studios[0].Links, 1)

	require.Len(t, exported.Apps, 1)
	app := exported.Apps[0]
	assert.Equal(t, exported.Studios[0].RefID, app.StudioRefID)

	require.Len(t, app.Releases, 1)
	release := app.Releases[0]
	assert.Equal(t, exported.Platforms[0].RefID, release.PlatformRefID)
	assert.Equal(t, models.ReleaseStateBeta, release.ReleaseState)
	assert.True(t, release.IsFreeToPlay)
	assert.Len(t, release.Links, 1)

	require.Len(t, exported.Events, 1)
	event := exported.Events[0]
	assert.Equal(t, "2026-09-01", event.RunningFrom)
	assert.Equal(t, "2026-09-10", event.RunningTo)
	require.Len(t, event.Participations, 1)
	assert.Equal(t, release.RefID, event.Participations[0].ReleaseRefID)
}

func TestRoundTrip(t *testing.T) {
	source, cleanupSource := testutil.SetupTestDB(t)
	defer cleanupSource()
	seedCatalog(t, source)
	ctx := context.Background()

	exported, _, err := NewExporter(source.PlatformRepo, source.StudioRepo, source.AppRepo, source.EventRepo).Export(ctx)
	require.NoError(t, err)
	payload, err := exported.ToJSON()
	require.NoError(t, err)

	target, cleanupTarget := testutil.SetupTestDB(t)
	defer cleanupTarget()
	importer := NewImporter(target.PlatformRepo, target.StudioRepo, target.AppRepo, target.EventRepo)
	stats, warnings, err := importer.Import(ctx, payload, ImportOptions{ConflictStrategy: ConflictSkip})
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, 1, stats.PlatformsCreated)
	assert.Equal(t, 1, stats.StudiosCreated)
	assert.Equal(t, 1, stats.AppsCreated)
	assert.Equal(t, 1, stats.ReleasesCreated)
	assert.Equal(t, 1, stats.EventsCreated)
	assert.Equal(t, 1, stats.ParticipationsCreated)

	// The imported event carries its participation.
	events, err := target.EventRepo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Harbor Days", events[0].Name)

	records, err := target.EventRepo.FindEventAppPlatforms(ctx, events[0].ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.StatusOKConfirmed, records[0].Status)
	require.NotNil(t, records[0].AppPlatform)
	require.NotNil(t, records[0].AppPlatform.App)
	assert.Equal(t, "Voxel Harbor", records[0].AppPlatform.App.Name)
}

func TestImport_SkipReusesExisting(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	seedCatalog(t, db)
	ctx := context.Background()

	exported, _, err := NewExporter(db.PlatformRepo, db.StudioRepo, db.AppRepo, db.EventRepo).Export(ctx)
	require.NoError(t, err)
	payload, err := exported.ToJSON()
	require.NoError(t, err)

	// Importing into the same database again creates nothing new.
	importer := NewImporter(db.PlatformRepo, db.StudioRepo, db.AppRepo, db.EventRepo)
	stats, _, err := importer.Import(ctx, payload, ImportOptions{ConflictStrategy: ConflictSkip})
	require.NoError(t, err)

	assert.Zero(t, stats.PlatformsCreated)
	assert.Zero(t, stats.StudiosCreated)
	assert.Zero(t, stats.AppsCreated)
	assert.Zero(t, stats.EventsCreated)

	count, err := db.AppRepo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestImport_RenameCreatesCopies(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	seedCatalog(t, db)
	ctx := context.Background()

	exported, _, err := NewExporter(db.PlatformRepo, db.StudioRepo, db.AppRepo, db.EventRepo).Export(ctx)
	require.NoError(t, err)
	payload, err := exported.ToJSON()
	require.NoError(t, err)

	importer := NewImporter(db.PlatformRepo, db.StudioRepo, db.AppRepo, db.EventRepo)
	stats, _, err := importer.Import(ctx, payload, ImportOptions{ConflictStrategy: ConflictRename})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.StudiosCreated)
	assert.Equal(t, 1, stats.AppsCreated)
	assert.Equal(t, 1, stats.EventsCreated)

	studios, err := db.StudioRepo.FindAll(ctx)
	require.NoError(t, err)
	var names []string
	for _, studio := range studios {
		names = append(names, studio.Name)
	}
	assert.Contains(t, names, "Pixelsmith (imported)")
}

func TestImport_WarnsAndNormalizes(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	payload := `{
		"version": "1.0",
		"platforms": [{"refId": "p1", "name": "Odd Store", "type": "Bogus"}],
		"studios": [{"refId": "s1", "name": "Solo Dev"}],
		"apps": [
			{"refId": "a1", "name": "Good Game", "type": "Game", "studioRefId": "s1",
			 "releases": [{"refId": "r1", "platformRefId": "p1", "releaseState": "Bogus"}]},
			{"refId": "a2", "name": "Orphan", "type": "Game", "studioRefId": "missing", "releases": []}
		],
		"events": [
			{"refId": "e1", "name": "Broken Fest", "runningFrom": "not-a-date", "runningTo": "2026-01-02",
			 "visibility": "Public", "participations": []},
			{"refId": "e2", "name": "Good Fest", "runningFrom": "2026-01-01", "runningTo": "2026-01-02",
			 "visibility": "Public",
			 "participations": [
				{"releaseRefId": "r1", "status": "OK_Confirmed"},
				{"releaseRefId": "r1", "status": "Bogus"}
			 ]}
		]
	}`

	importer := NewImporter(db.PlatformRepo, db.StudioRepo, db.AppRepo, db.EventRepo)
	stats, warnings, err := importer.Import(ctx, payload, ImportOptions{ConflictStrategy: ConflictSkip})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.PlatformsCreated)
	assert.Equal(t, 1, stats.AppsCreated)
	assert.Equal(t, 1, stats.EventsCreated)
	assert.Equal(t, 1, stats.ParticipationsCreated)

	joined := ""
	for _, warning := range warnings {
		joined += warning + "\n"
	}
	assert.Contains(t, joined, "unknown type")
	assert.Contains(t, joined, "unknown release state")
	assert.Contains(t, joined, "unknown studio")
	assert.Contains(t, joined, "invalid start date")
	assert.Contains(t, joined, "unknown status")

	// Normalized values landed in the database.
	platforms, err := db.PlatformRepo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, platforms, 1)
	assert.Equal(t, models.PlatformTypeGeneric, platforms[0].Type)
}

func TestImport_MalformedJSON(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	importer := NewImporter(db.PlatformRepo, db.StudioRepo, db.AppRepo, db.EventRepo)
	_, _, err := importer.Import(context.Background(), "{not json", ImportOptions{ConflictStrategy: ConflictSkip})
	require.Error(t, err)
}
