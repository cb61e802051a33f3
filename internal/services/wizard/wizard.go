// Package wizard implements the two-step add-apps-to-event flow: pick
// apps (optionally grouped for display), then pick per-release
// participation status and bulk-add the checked releases to the event.
package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pixelfest/eventdeck-go/internal/database/models"
	"github.com/pixelfest/eventdeck-go/internal/database/repositories"
)

// GroupBy selects the display grouping of wizard step one. Grouping never
// changes the semantics of the chosen set.
type GroupBy string

// GroupBy values.
const (
	GroupByNone     GroupBy = "none"
	GroupByStudio   GroupBy = "studio"
	GroupByPlatform GroupBy = "platform"
)

// ParseGroupBy maps a query value to a grouping, defaulting to none.
func ParseGroupBy(value string) GroupBy {
	switch GroupBy(value) {
	case GroupByStudio:
		return GroupByStudio
	case GroupByPlatform:
		return GroupByPlatform
	default:
		return GroupByNone
	}
}

// SelectedApp is one chosen app; AppPlatformID is set only when step one
// was grouped by platform.
type SelectedApp struct {
	AppID         string `json:"appId"`
	AppPlatformID string `json:"appPlatformId,omitempty"`
}

// Selection is the step-one payload handed to step two.
type Selection struct {
	GroupBy GroupBy       `json:"groupBy"`
	Apps    []SelectedApp `json:"apps"`
}

// Encode serializes the selection for the session flash.
func (s Selection) Encode() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeSelection parses a selection payload.
func DecodeSelection(payload string) (Selection, error) {
	var selection Selection
	if err := json.Unmarshal([]byte(payload), &selection); err != nil {
		return Selection{}, fmt.Errorf("invalid selection payload: %w", err)
	}
	return selection, nil
}

// GroupedApp is one selectable app in step one.
type GroupedApp struct {
	ID   string
	Name string
	// AppPlatformID is set only when grouping by platform.
	AppPlatformID string
}

// Group is one display group of selectable apps.
type Group struct {
	ID   string
	Name string
	Apps []GroupedApp
}

// StepRelease is one eligible release rendered in step two.
type StepRelease struct {
	AppPlatformID string
	PlatformID    string
	PlatformName  string
}

// StepApp is one chosen app with its eligible releases, for step two.
type StepApp struct {
	ID       string
	Name     string
	Releases []StepRelease
}

// SubmittedRelease is one release row of the step-two form.
type SubmittedRelease struct {
	AppPlatformID string
	Checked       bool
	Status        string
	Comment       string
}

// SubmittedApp is one app block of the step-two form.
type SubmittedApp struct {
	Releases []SubmittedRelease
}

// ValidationError carries per-field messages for a rejected submission.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid submission (%d field errors)", len(e.Fields))
}

// Service runs the wizard flow.
type Service struct {
	events  *repositories.EventRepository
	studios *repositories.StudioRepository
}

// NewService creates a new wizard service.
func NewService(events *repositories.EventRepository, studios *repositories.StudioRepository) *Service {
	return &Service{events: events, studios: studios}
}

// GroupedEligibleApps lists the apps that still have at least one release
// not in the event, grouped per the requested display grouping. With
// GroupByPlatform each entry carries the concrete release for its group's
// platform.
func (s *Service) GroupedEligibleApps(ctx context.Context, eventID string, groupBy GroupBy) ([]Group, error) {
	appPlatforms, err := s.events.FindAppsWithEligibleReleases(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load eligible releases: %w", err)
	}

	switch groupBy {
	case GroupByStudio:
		return s.groupByStudio(ctx, appPlatforms)
	case GroupByPlatform:
		return groupByPlatform(appPlatforms), nil
	default:
		return groupFlat(appPlatforms), nil
	}
}

// groupFlat returns the single default group in app-name order.
func groupFlat(appPlatforms []models.AppPlatform) []Group {
	group := Group{ID: "default"}
	seen := map[string]bool{}
	for _, appPlatform := range appPlatforms {
		if appPlatform.App == nil || seen[appPlatform.AppID] {
			continue
		}
		seen[appPlatform.AppID] = true
		group.Apps = append(group.Apps, GroupedApp{ID: appPlatform.AppID, Name: appPlatform.App.Name})
	}
	return []Group{group}
}

func (s *Service) groupByStudio(ctx context.Context, appPlatforms []models.AppPlatform) ([]Group, error) {
	appsByStudio := map[string][]GroupedApp{}
	var studioIDs []string
	seenApp := map[string]bool{}
	for _, appPlatform := range appPlatforms {
		if appPlatform.App == nil || seenApp[appPlatform.AppID] {
			continue
		}
		seenApp[appPlatform.AppID] = true
		studioID := appPlatform.App.StudioID
		if _, seen := appsByStudio[studioID]; !seen {
			studioIDs = append(studioIDs, studioID)
		}
		appsByStudio[studioID] = append(appsByStudio[studioID], GroupedApp{
			ID:   appPlatform.AppID,
			Name: appPlatform.App.Name,
		})
	}

	studios, err := s.studios.FindByIDs(ctx, studioIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load studios: %w", err)
	}

	groups := make([]Group, 0, len(studios))
	for _, studio := range studios {
		groups = append(groups, Group{
			ID:   studio.ID,
			Name: studio.Name,
			Apps: appsByStudio[studio.ID],
		})
	}
	return groups, nil
}

func groupByPlatform(appPlatforms []models.AppPlatform) []Group {
	groupIndex := map[string]int{}
	var groups []Group
	for _, appPlatform := range appPlatforms {
		if appPlatform.App == nil || appPlatform.Platform == nil {
			continue
		}
		index, seen := groupIndex[appPlatform.PlatformID]
		if !seen {
			index = len(groups)
			groupIndex[appPlatform.PlatformID] = index
			groups = append(groups, Group{
				ID:   appPlatform.PlatformID,
				Name: appPlatform.Platform.Name,
			})
		}
		groups[index].Apps = append(groups[index].Apps, GroupedApp{
			ID:            appPlatform.AppID,
			Name:          appPlatform.App.Name,
			AppPlatformID: appPlatform.ID,
		})
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups
}

// EligibleForSelection re-queries the eligible releases for a step-one
// selection and shapes them for the step-two form, apps by name and each
// app's releases by platform name.
func (s *Service) EligibleForSelection(ctx context.Context, eventID string, selection Selection) ([]StepApp, error) {
	var appIDs, appPlatformIDs []string
	for _, selected := range selection.Apps {
		appIDs = append(appIDs, selected.AppID)
		if selected.AppPlatformID != "" {
			appPlatformIDs = append(appPlatformIDs, selected.AppPlatformID)
		}
	}

	appPlatforms, err := s.events.FindEligibleAppPlatforms(ctx, eventID, appIDs, appPlatformIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load eligible releases: %w", err)
	}

	appIndex := map[string]int{}
	var apps []StepApp
	for _, appPlatform := range appPlatforms {
		if appPlatform.App == nil || appPlatform.Platform == nil {
			continue
		}
		index, seen := appIndex[appPlatform.AppID]
		if !seen {
			index = len(apps)
			appIndex[appPlatform.AppID] = index
			apps = append(apps, StepApp{ID: appPlatform.AppID, Name: appPlatform.App.Name})
		}
		apps[index].Releases = append(apps[index].Releases, StepRelease{
			AppPlatformID: appPlatform.ID,
			PlatformID:    appPlatform.PlatformID,
			PlatformName:  appPlatform.Platform.Name,
		})
	}

	sort.SliceStable(apps, func(i, j int) bool { return apps[i].Name < apps[j].Name })
	for i := range apps {
		releases := apps[i].Releases
		sort.SliceStable(releases, func(a, b int) bool {
			return releases[a].PlatformName < releases[b].PlatformName
		})
	}

	return apps, nil
}

// ValidateSubmission checks a step-two submission: at least one checked
// release overall, and every checked release carries a known status.
func ValidateSubmission(apps []SubmittedApp) *ValidationError {
	fields := map[string]string{}

	checkedCount := 0
	for appIndex, app := range apps {
		for releaseIndex, release := range app.Releases {
			if !release.Checked {
				continue
			}
			checkedCount++
			if !models.ValidStatus(release.Status) {
				path := fmt.Sprintf("apps[%d].appPlatforms[%d].status", appIndex, releaseIndex)
				fields[path] = "Invalid status"
			}
		}
	}
	if checkedCount == 0 {
		fields["appPlatforms"] = "No platforms selected"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Save validates and bulk-creates the checked releases as participation
// records. Pairs already in the event are silently skipped, so a
// resubmission is a no-op rather than an error. Nothing is written when
// validation fails.
func (s *Service) Save(ctx context.Context, eventID string, apps []SubmittedApp) error {
	if err := ValidateSubmission(apps); err != nil {
		return err
	}

	var eventAppPlatforms []models.EventAppPlatform
	for _, app := range apps {
		for _, release := range app.Releases {
			if !release.Checked {
				continue
			}
			record := models.EventAppPlatform{
				EventID:       eventID,
				AppPlatformID: release.AppPlatformID,
				Status:        release.Status,
			}
			if release.Comment != "" {
				comment := release.Comment
				record.Comment = &comment
			}
			eventAppPlatforms = append(eventAppPlatforms, record)
		}
	}

	return s.events.AddAppPlatforms(ctx, eventAppPlatforms)
}
