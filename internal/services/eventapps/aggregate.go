package eventapps

import (
	"context"
	"fmt"

	"github.com/pixelfest/eventdeck-go/internal/database/models"
	"github.com/pixelfest/eventdeck-go/internal/database/repositories"
)

// Participation is the event-specific slice of one participation record.
type Participation struct {
	ID      string
	Status  string
	Comment *string
}

// Release is one app-platform release decorated with its participation in
// the aggregated event.
type Release struct {
	models.AppPlatform
	Participation Participation
}

// AppData is one app in the event together with its participating
// releases, in scan order.
type AppData struct {
	models.App
	Releases []Release
}

// Aggregation is the derived per-event view: apps in first-appearance
// order (which is app-name order, because the scan is pre-sorted), and
// platforms deduplicated in first-discovery order.
type Aggregation struct {
	Apps      []AppData
	Platforms []models.Platform

	appIndex map[string]int
}

// AppByID returns the aggregated app with the given ID, or nil.
func (a *Aggregation) AppByID(id string) *AppData {
	if a.appIndex == nil {
		return nil
	}
	index, ok := a.appIndex[id]
	if !ok {
		return nil
	}
	return &a.Apps[index]
}

// AppIDs returns the aggregated app IDs in order.
func (a *Aggregation) AppIDs() []string {
	ids := make([]string, len(a.Apps))
	for i := range a.Apps {
		ids[i] = a.Apps[i].ID
	}
	return ids
}

// Service aggregates event participation data.
type Service struct {
	events *repositories.EventRepository
	apps   *repositories.AppRepository
}

// NewService creates a new aggregation service.
func NewService(events *repositories.EventRepository, apps *repositories.AppRepository) *Service {
	return &Service{events: events, apps: apps}
}

// Aggregate folds the event's participation records into the per-event
// app and platform collections. A participation record whose release has
// no resolvable app row is an invariant violation and aborts the whole
// aggregation.
func (s *Service) Aggregate(ctx context.Context, eventID string) (*Aggregation, error) {
	eventAppPlatforms, err := s.events.FindEventAppPlatforms(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event participation: %w", err)
	}
	return Fold(eventAppPlatforms)
}

// Fold builds the aggregation from already-loaded participation records.
// The record order is preserved: apps appear in first-appearance order
// and each app's releases in scan order.
func Fold(eventAppPlatforms []models.EventAppPlatform) (*Aggregation, error) {
	aggregation := &Aggregation{
		Apps:      []AppData{},
		Platforms: []models.Platform{},
		appIndex:  map[string]int{},
	}
	platformIndex := map[string]int{}

	for _, eventAppPlatform := range eventAppPlatforms {
		appPlatform := eventAppPlatform.AppPlatform
		if appPlatform == nil || appPlatform.App == nil {
			return nil, fmt.Errorf("participation record %s references app platform %s with no resolvable app",
				eventAppPlatform.ID, eventAppPlatform.AppPlatformID)
		}
		if appPlatform.Platform == nil {
			return nil, fmt.Errorf("app platform %s has no resolvable platform", appPlatform.ID)
		}

		index, seen := aggregation.appIndex[appPlatform.AppID]
		if !seen {
			index = len(aggregation.Apps)
			aggregation.appIndex[appPlatform.AppID] = index
			aggregation.Apps = append(aggregation.Apps, AppData{
				App:      *appPlatform.App,
				Releases: []Release{},
			})
		}

		release := Release{
			AppPlatform: *appPlatform,
			Participation: Participation{
				ID:      eventAppPlatform.ID,
				Status:  eventAppPlatform.Status,
				Comment: eventAppPlatform.Comment,
			},
		}
		// Drop the back-reference so the aggregated view has one shape.
		release.AppPlatform.App = nil
		aggregation.Apps[index].Releases = append(aggregation.Apps[index].Releases, release)

		if _, seen := platformIndex[appPlatform.PlatformID]; !seen {
			platformIndex[appPlatform.PlatformID] = len(aggregation.Platforms)
			aggregation.Platforms = append(aggregation.Platforms, *appPlatform.Platform)
		}
	}

	return aggregation, nil
}
