package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/pixelfest/eventdeck-go/internal/database/models"
	"github.com/pixelfest/eventdeck-go/internal/database/repositories"
)

// ConflictStrategy determines how to handle name conflicts on import.
type ConflictStrategy string

const (
	ConflictSkip   ConflictStrategy = "SKIP"
	ConflictRename ConflictStrategy = "RENAME"
)

// ValidConflictStrategy reports whether s is a known strategy.
func ValidConflictStrategy(s string) bool {
	return ConflictStrategy(s) == ConflictSkip || ConflictStrategy(s) == ConflictRename
}

// ImportOptions configures the import behavior.
type ImportOptions struct {
	ConflictStrategy ConflictStrategy
}

// ImportStats contains statistics about an import.
type ImportStats struct {
	PlatformsCreated      int
	StudiosCreated        int
	AppsCreated           int
	ReleasesCreated       int
	EventsCreated         int
	ParticipationsCreated int
}

// Importer restores catalog exports.
type Importer struct {
	platforms *repositories.PlatformRepository
	studios   *repositories.StudioRepository
	apps      *repositories.AppRepository
	events    *repositories.EventRepository
}

// NewImporter creates a new Importer.
func NewImporter(
	platforms *repositories.PlatformRepository,
	studios *repositories.StudioRepository,
	apps *repositories.AppRepository,
	events *repositories.EventRepository,
) *Importer {
	return &Importer{
		platforms: platforms,
		studios:   studios,
		apps:      apps,
		events:    events,
	}
}

const renameSuffix = " (imported)"

// Import imports a catalog from JSON. Name conflicts with existing
// records are resolved per the options; anything the import cannot
// place is reported as a warning rather than failing the whole run.
func (s *Importer) Import(ctx context.Context, jsonContent string, options ImportOptions) (*ImportStats, []string, error) {
	exported, err := ParseExportedCatalog(jsonContent)
	if err != nil {
		return nil, nil, err
	}

	stats := &ImportStats{}
	var warnings []string
	if exported.Version != "" && exported.Version != exportFormatVersion {
		warnings = append(warnings, fmt.Sprintf("Export format version %q differs from %q, importing anyway", exported.Version, exportFormatVersion))
	}

	platformRefs, warnings, err := s.importPlatforms(ctx, exported.Platforms, options, stats, warnings)
	if err != nil {
		return stats, warnings, err
	}
	studioRefs, warnings, err := s.importStudios(ctx, exported.Studios, options, stats, warnings)
	if err != nil {
		return stats, warnings, err
	}
	releaseRefs, warnings, err := s.importApps(ctx, exported.Apps, options, studioRefs, platformRefs, stats, warnings)
	if err != nil {
		return stats, warnings, err
	}
	warnings, err = s.importEvents(ctx, exported.Events, options, releaseRefs, stats, warnings)
	return stats, warnings, err
}

// importPlatforms maps platform refIDs to database IDs, creating
// platforms that do not exist yet.
func (s *Importer) importPlatforms(ctx context.Context, exported []ExportedPlatform, options ImportOptions, stats *ImportStats, warnings []string) (map[string]string, []string, error) {
	existing, err := s.platforms.FindAll(ctx)
	if err != nil {
		return nil, warnings, err
	}
	byName := make(map[string]string, len(existing))
	for _, platform := range existing {
		byName[platform.Name] = platform.ID
	}

	refs := make(map[string]string, len(exported))
	for _, entry := range exported {
		name := entry.Name
		if existingID, ok := byName[name]; ok {
			if options.ConflictStrategy == ConflictSkip {
				refs[entry.RefID] = existingID
				continue
			}
			name += renameSuffix
			if _, taken := byName[name]; taken {
				warnings = append(warnings, fmt.Sprintf("Platform %q already exists, skipped", entry.Name))
				refs[entry.RefID] = existingID
				continue
			}
		}

		platformType := entry.Type
		if !models.ValidPlatformType(platformType) {
			warnings = append(warnings, fmt.Sprintf("Platform %q has unknown type %q, using %s", entry.Name, entry.Type, models.PlatformTypeGeneric))
			platformType = models.PlatformTypeGeneric
		}
		platform := models.Platform{
			Name:    name,
			Type:    platformType,
			URL:     entry.URL,
			Comment: entry.Comment,
		}
		if err := s.platforms.Create(ctx, &platform); err != nil {
			return nil, warnings, err
		}
		byName[name] = platform.ID
		refs[entry.RefID] = platform.ID
		stats.PlatformsCreated++
	}
	return refs, warnings, nil
}

func (s *Importer) importStudios(ctx context.Context, exported []ExportedStudio, options ImportOptions, stats *ImportStats, warnings []string) (map[string]string, []string, error) {
	existing, err := s.studios.FindAll(ctx)
	if err != nil {
		return nil, warnings, err
	}
	byName := make(map[string]string, len(existing))
	for _, studio := range existing {
		byName[studio.Name] = studio.ID
	}

	refs := make(map[string]string, len(exported))
	for _, entry := range exported {
		name := entry.Name
		if existingID, ok := byName[name]; ok {
			if options.ConflictStrategy == ConflictSkip {
				refs[entry.RefID] = existingID
				continue
			}
			name += renameSuffix
			if _, taken := byName[name]; taken {
				warnings = append(warnings, fmt.Sprintf("Studio %q already exists, skipped", entry.Name))
				refs[entry.RefID] = existingID
				continue
			}
		}

		studio := models.Studio{Name: name, Comment: entry.Comment}
		links := make([]models.StudioLink, 0, len(entry.Links))
		for _, link := range entry.Links {
			links = append(links, models.StudioLink{
				URL:     link.URL,
				Title:   link.Title,
				Type:    normalizedLinkType(link.Type),
				Comment: link.Comment,
			})
		}
		if err := s.studios.Create(ctx, &studio, links); err != nil {
			return nil, warnings, err
		}
		byName[name] = studio.ID
		refs[entry.RefID] = studio.ID
		stats.StudiosCreated++
	}
	return refs, warnings, nil
}

// importApps creates apps with their releases. The returned map takes
// release refIDs to database IDs so event participations can follow.
func (s *Importer) importApps(ctx context.Context, exported []ExportedApp, options ImportOptions, studioRefs, platformRefs map[string]string, stats *ImportStats, warnings []string) (map[string]string, []string, error) {
	existing, err := s.apps.FindAll(ctx)
	if err != nil {
		return nil, warnings, err
	}
	type appKey struct{ studioID, name string }
	byKey := make(map[appKey]bool, len(existing))
	for _, app := range existing {
		byKey[appKey{app.StudioID, app.Name}] = true
	}

	releaseRefs := make(map[string]string)
	for _, entry := range exported {
		studioID, ok := studioRefs[entry.StudioRefID]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("App %q references unknown studio, skipped", entry.Name))
			continue
		}

		name := entry.Name
		if byKey[appKey{studioID, name}] {
			if options.ConflictStrategy == ConflictSkip {
				warnings = append(warnings, fmt.Sprintf("App %q already exists in its studio, skipped", entry.Name))
				continue
			}
			name += renameSuffix
			if byKey[appKey{studioID, name}] {
				warnings = append(warnings, fmt.Sprintf("App %q already exists in its studio, skipped", entry.Name))
				continue
			}
		}

		appType := entry.Type
		if !models.ValidAppType(appType) {
			warnings = append(warnings, fmt.Sprintf("App %q has unknown type %q, using %s", entry.Name, entry.Type, models.AppTypeGame))
			appType = models.AppTypeGame
		}

		var releases []models.AppPlatform
		var releaseEntryRefs []string
		for _, release := range entry.Releases {
			platformID, ok := platformRefs[release.PlatformRefID]
			if !ok {
				warnings = append(warnings, fmt.Sprintf("App %q has a release on an unknown platform, skipped", entry.Name))
				continue
			}
			releaseState := release.ReleaseState
			if !models.ValidReleaseState(releaseState) {
				warnings = append(warnings, fmt.Sprintf("App %q has unknown release state %q, using %s", entry.Name, release.ReleaseState, models.ReleaseStateReleased))
				releaseState = models.ReleaseStateReleased
			}
			links := make([]models.AppPlatformLink, 0, len(release.Links))
			for _, link := range release.Links {
				links = append(links, models.AppPlatformLink{
					URL:     link.URL,
					Title:   link.Title,
					Type:    normalizedLinkType(link.Type),
					Comment: link.Comment,
				})
			}
			releases = append(releases, models.AppPlatform{
				PlatformID:    platformID,
				ReleaseState:  releaseState,
				IsEarlyAccess: release.IsEarlyAccess,
				IsFreeToPlay:  release.IsFreeToPlay,
				Comment:       release.Comment,
				Links:         links,
			})
			releaseEntryRefs = append(releaseEntryRefs, release.RefID)
		}

		app := models.App{Name: name, Type: appType, StudioID: studioID, Comment: entry.Comment}
		if err := s.apps.Create(ctx, &app, releases); err != nil {
			return nil, warnings, err
		}
		byKey[appKey{studioID, name}] = true
		// Create fills the release IDs in place.
		for i, refID := range releaseEntryRefs {
			releaseRefs[refID] = releases[i].ID
		}
		stats.AppsCreated++
		stats.ReleasesCreated += len(releases)
	}
	return releaseRefs, warnings, nil
}

func (s *Importer) importEvents(ctx context.Context, exported []ExportedEvent, options ImportOptions, releaseRefs map[string]string, stats *ImportStats, warnings []string) ([]string, error) {
	existing, err := s.events.FindAll(ctx)
	if err != nil {
		return warnings, err
	}
	byName := make(map[string]bool, len(existing))
	for _, event := range existing {
		byName[event.Name] = true
	}

	for _, entry := range exported {
		name := entry.Name
		if byName[name] {
			if options.ConflictStrategy == ConflictSkip {
				warnings = append(warnings, fmt.Sprintf("Event %q already exists, skipped", entry.Name))
				continue
			}
			name += renameSuffix
			if byName[name] {
				warnings = append(warnings, fmt.Sprintf("Event %q already exists, skipped", entry.Name))
				continue
			}
		}

		runningFrom, err := time.Parse(dateLayout, entry.RunningFrom)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Event %q has an invalid start date, skipped", entry.Name))
			continue
		}
		runningTo, err := time.Parse(dateLayout, entry.RunningTo)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Event %q has an invalid end date, skipped", entry.Name))
			continue
		}
		visibility := entry.Visibility
		if !models.ValidVisibility(visibility) {
			warnings = append(warnings, fmt.Sprintf("Event %q has unknown visibility %q, using %s", entry.Name, entry.Visibility, models.EventVisibilityPrivate))
			visibility = models.EventVisibilityPrivate
		}

		event := models.Event{
			Name:        name,
			RunningFrom: runningFrom,
			RunningTo:   runningTo,
			Visibility:  visibility,
		}
		if err := s.events.Create(ctx, &event); err != nil {
			return warnings, err
		}
		byName[name] = true
		stats.EventsCreated++

		var records []models.EventAppPlatform
		for _, participation := range entry.Participations {
			releaseID, ok := releaseRefs[participation.ReleaseRefID]
			if !ok {
				warnings = append(warnings, fmt.Sprintf("Event %q references a release that was not imported, skipped", entry.Name))
				continue
			}
			if !models.ValidStatus(participation.Status) {
				warnings = append(warnings, fmt.Sprintf("Event %q has unknown status %q, skipped", entry.Name, participation.Status))
				continue
			}
			records = append(records, models.EventAppPlatform{
				EventID:       event.ID,
				AppPlatformID: releaseID,
				Status:        participation.Status,
				Comment:       participation.Comment,
			})
		}
		if len(records) > 0 {
			if err := s.events.AddAppPlatforms(ctx, records); err != nil {
				return warnings, err
			}
			stats.ParticipationsCreated += len(records)
		}
	}
	return warnings, nil
}

func normalizedLinkType(t string) string {
	if models.ValidUrlType(t) {
		return t
	}
	return models.UrlTypeOther
}
