package eventapps

import (
	"context"
	"fmt"

	"github.com/pixelfest/eventdeck-go/internal/database/models"
)

// EligibleRelease is a release of an in-event app that is not yet part of
// the event.
type EligibleRelease struct {
	AppPlatformID string
	Platform      models.Platform
}

// AdditionalPlatforms computes, per app already in the event, the releases
// that could still be added. Every aggregated app has an entry, possibly
// an empty slice.
func (s *Service) AdditionalPlatforms(ctx context.Context, aggregation *Aggregation) (map[string][]EligibleRelease, error) {
	appPlatforms, err := s.apps.FindAppPlatformsByAppIDs(ctx, aggregation.AppIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to load app releases: %w", err)
	}
	return ComputeAdditionalPlatforms(aggregation, appPlatforms)
}

// ComputeAdditionalPlatforms is the pure half of AdditionalPlatforms: it
// partitions the apps' full release sets against the in-event ones.
// Matching is by platform identity; an app can only have one release per
// platform, so this is equivalent to matching release IDs.
func ComputeAdditionalPlatforms(aggregation *Aggregation, appPlatforms []models.AppPlatform) (map[string][]EligibleRelease, error) {
	additional := make(map[string][]EligibleRelease, len(aggregation.Apps))
	for _, app := range aggregation.Apps {
		additional[app.ID] = []EligibleRelease{}
	}

	for _, appPlatform := range appPlatforms {
		app := aggregation.AppByID(appPlatform.AppID)
		if app == nil {
			// Caller supplied releases outside the event's app set.
			continue
		}
		if appPlatform.Platform == nil {
			return nil, fmt.Errorf("app platform %s has no resolvable platform", appPlatform.ID)
		}

		inEvent := false
		for _, release := range app.Releases {
			if release.PlatformID == appPlatform.PlatformID {
				inEvent = true
				break
			}
		}
		if inEvent {
			continue
		}

		additional[appPlatform.AppID] = append(additional[appPlatform.AppID], EligibleRelease{
			AppPlatformID: appPlatform.ID,
			Platform:      *appPlatform.Platform,
		})
	}

	return additional, nil
}
