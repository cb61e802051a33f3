// Package transfer provides catalog export and import functionality.
// Exports carry the full platform, studio, app and event catalog as
// JSON so an instance can be backed up or moved. User accounts and
// passwords are never part of an export.
package transfer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pixelfest/eventdeck-go/internal/database/repositories"
)

// ExportedCatalog represents a full catalog export.
type ExportedCatalog struct {
	Version   string             `json:"version"`
	Metadata  *ExportMetadata    `json:"metadata,omitempty"`
	Platforms []ExportedPlatform `json:"platforms"`
	Studios   []ExportedStudio   `json:"studios"`
	Apps      []ExportedApp      `json:"apps"`
	Events    []ExportedEvent    `json:"events"`
}

// ExportMetadata contains export metadata.
type ExportMetadata struct {
	ExportedAt  string  `json:"exportedAt"`
	Description *string `json:"description,omitempty"`
}

// ExportedPlatform represents an exported platform.
type ExportedPlatform struct {
	RefID   string  `json:"refId"`
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	URL     *string `json:"url,omitempty"`
	Comment *string `json:"comment,omitempty"`
}

// ExportedStudio represents an exported studio. Members are user
// references and are intentionally not exported.
type ExportedStudio struct {
	RefID   string         `json:"refId"`
	Name    string         `json:"name"`
	Comment *string        `json:"comment,omitempty"`
	Links   []ExportedLink `json:"links,omitempty"`
}

// ExportedLink is a URL attached to a studio or release.
type ExportedLink struct {
	URL     string  `json:"url"`
	Title   string  `json:"title"`
	Type    string  `json:"type"`
	Comment *string `json:"comment,omitempty"`
}

// ExportedApp represents an exported app with its releases.
type ExportedApp struct {
	RefID       string            `json:"refId"`
	Name        string            `json:"name"`
	Type        string            `json:"type"`
	StudioRefID string            `json:"studioRefId"`
	Comment     *string           `json:"comment,omitempty"`
	Releases    []ExportedRelease `json:"releases"`
}

// ExportedRelease represents one app's release on one platform.
type ExportedRelease struct {
	RefID         string         `json:"refId"`
	PlatformRefID string         `json:"platformRefId"`
	ReleaseState  string         `json:"releaseState"`
	IsEarlyAccess bool           `json:"isEarlyAccess"`
	IsFreeToPlay  bool           `json:"isFreeToPlay"`
	Comment       *string        `json:"comment,omitempty"`
	Links         []ExportedLink `json:"links,omitempty"`
}

// ExportedEvent represents an exported event with its participation
// records. Coordinators are user references and are not exported.
type ExportedEvent struct {
	RefID          string                  `json:"refId"`
	Name           string                  `json:"name"`
	RunningFrom    string                  `json:"runningFrom"`
	RunningTo      string                  `json:"runningTo"`
	Visibility     string                  `json:"visibility"`
	Participations []ExportedParticipation `json:"participations"`
}

// ExportedParticipation records one release's participation in the event.
type ExportedParticipation struct {
	ReleaseRefID string  `json:"releaseRefId"`
	Status       string  `json:"status"`
	Comment      *string `json:"comment,omitempty"`
}

// ExportStats contains statistics about an export.
type ExportStats struct {
	PlatformsCount      int
	StudiosCount        int
	AppsCount           int
	ReleasesCount       int
	EventsCount         int
	ParticipationsCount int
}

const exportFormatVersion = "1.0"

const dateLayout = "2006-01-02"

// Exporter builds catalog exports.
type Exporter struct {
	platforms *repositories.PlatformRepository
	studios   *repositories.StudioRepository
	apps      *repositories.AppRepository
	events    *repositories.EventRepository
}

// NewExporter creates a new Exporter.
func NewExporter(
	platforms *repositories.PlatformRepository,
	studios *repositories.StudioRepository,
	apps *repositories.AppRepository,
	events *repositories.EventRepository,
) *Exporter {
	return &Exporter{
		platforms: platforms,
		studios:   studios,
		apps:      apps,
		events:    events,
	}
}

// Export exports the whole catalog to an ExportedCatalog.
func (e *Exporter) Export(ctx context.Context) (*ExportedCatalog, *ExportStats, error) {
	exported := &ExportedCatalog{
		Version: exportFormatVersion,
		Metadata: &ExportMetadata{
			ExportedAt: time.Now().UTC().Format(time.RFC3339),
		},
		Platforms: []ExportedPlatform{},
		Studios:   []ExportedStudio{},
		Apps:      []ExportedApp{},
		Events:    []ExportedEvent{},
	}
	stats := &ExportStats{}

	platforms, err := e.platforms.FindAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	for _, platform := range platforms {
		exported.Platforms = append(exported.Platforms, ExportedPlatform{
			RefID:   platform.ID,
			Name:    platform.Name,
			Type:    platform.Type,
			URL:     platform.URL,
			Comment: platform.Comment,
		})
		stats.PlatformsCount++
	}

	studios, err := e.studios.FindAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	for _, summary := range studios {
		// Reload with links preloaded.
		studio, err := e.studios.FindByID(ctx, summary.ID)
		if err != nil {
			return nil, nil, err
		}
		if studio == nil {
			continue
		}
		exportedStudio := ExportedStudio{
			RefID:   studio.ID,
			Name:    studio.Name,
			Comment: studio.Comment,
		}
		for _, link := range studio.Links {
			exportedStudio.Links = append(exportedStudio.Links, ExportedLink{
				URL:     link.URL,
				Title:   link.Title,
				Type:    link.Type,
				Comment: link.Comment,
			})
		}
		exported.Studios = append(exported.Studios, exportedStudio)
		stats.StudiosCount++
	}

	apps, err := e.apps.FindAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	for _, summary := range apps {
		app, err := e.apps.FindByID(ctx, summary.ID)
		if err != nil {
			return nil, nil, err
		}
		if app == nil {
			continue
		}
		exportedApp := ExportedApp{
			RefID:       app.ID,
			Name:        app.Name,
			Type:        app.Type,
			StudioRefID: app.StudioID,
			Comment:     app.Comment,
			Releases:    []ExportedRelease{},
		}
		for _, release := range app.AppPlatforms {
			exportedRelease := ExportedRelease{
				RefID:         release.ID,
				PlatformRefID: release.PlatformID,
				ReleaseState:  release.ReleaseState,
				IsEarlyAccess: release.IsEarlyAccess,
				IsFreeToPlay:  release.IsFreeToPlay,
				Comment:       release.Comment,
			}
			for _, link := range release.Links {
				exportedRelease.Links = append(exportedRelease.Links, ExportedLink{
					URL:     link.URL,
					Title:   link.Title,
					Type:    link.Type,
					Comment: link.Comment,
				})
			}
			exportedApp.Releases = append(exportedApp.Releases, exportedRelease)
			stats.ReleasesCount++
		}
		exported.Apps = append(exported.Apps, exportedApp)
		stats.AppsCount++
	}

	events, err := e.events.FindAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	for _, event := range events {
		exportedEvent := ExportedEvent{
			RefID:          event.ID,
			Name:           event.Name,
			RunningFrom:    event.RunningFrom.Format(dateLayout),
			RunningTo:      event.RunningTo.Format(dateLayout),
			Visibility:     event.Visibility,
			Participations: []ExportedParticipation{},
		}
		records, err := e.events.FindEventAppPlatforms(ctx, event.ID)
		if err != nil {
			return nil, nil, err
		}
		for _, record := range records {
			exportedEvent.Participations = append(exportedEvent.Participations, ExportedParticipation{
				ReleaseRefID: record.AppPlatformID,
				Status:       record.Status,
				Comment:      record.Comment,
			})
			stats.ParticipationsCount++
		}
		exported.Events = append(exported.Events, exportedEvent)
		stats.EventsCount++
	}

	return exported, stats, nil
}

// ToJSON converts an exported catalog to a JSON string.
func (e *ExportedCatalog) ToJSON() (string, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ParseExportedCatalog parses JSON into an ExportedCatalog.
func ParseExportedCatalog(jsonContent string) (*ExportedCatalog, error) {
	var exported ExportedCatalog
	if err := json.Unmarshal([]byte(jsonContent), &exported); err != nil {
		return nil, err
	}
	return &exported, nil
}
