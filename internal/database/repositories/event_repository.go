package repositories

import (
	"context"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pixelfest/eventdeck-go/internal/database/models"
)

// EventRepository handles event, coordinator and participation data access.
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// FindAll returns all events, newest first.
func (r *EventRepository) FindAll(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	result := r.db.WithContext(ctx).
		Order("running_from DESC").
		Find(&events)
	return events, result.Error
}

// FindByID returns an event by ID with coordinators preloaded.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	result := r.db.WithContext(ctx).
		Preload("Coordinators.User").
		First(&event, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &event, nil
}

// Count returns the number of events.
func (r *EventRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Event{}).Count(&count)
	return count, result.Error
}

// Create creates a new event.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = cuid.New()
	}
	return r.db.WithContext(ctx).
		Omit("Coordinators", "EventAppPlatforms").
		Create(event).Error
}

// Update updates the event's own fields.
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).
		Omit("Coordinators", "EventAppPlatforms").
		Save(event).Error
}

// Delete deletes an event with its coordinators and participation records.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.EventCoordinator{}, "event_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.EventAppPlatform{}, "event_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Event{}, "id = ?", id).Error
	})
}

// AddCoordinator adds a user as coordinator of an event. Adding the same
// user twice is a no-op.
func (r *EventRepository) AddCoordinator(ctx context.Context, eventID, userID string) error {
	coordinator := models.EventCoordinator{
		ID:      cuid.New(),
		EventID: eventID,
		UserID:  userID,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit("User").
		Create(&coordinator).Error
}

// RemoveCoordinator removes a coordinator record by ID.
func (r *EventRepository) RemoveCoordinator(ctx context.Context, coordinatorID string) error {
	return r.db.WithContext(ctx).Delete(&models.EventCoordinator{}, "id = ?", coordinatorID).Error
}

// FindEventAppPlatforms returns an event's participation records with the
// release, its app, platform and links preloaded, ordered by app name
// ascending (record ID as the stable tie-break).
func (r *EventRepository) FindEventAppPlatforms(ctx context.Context, eventID string) ([]models.EventAppPlatform, error) {
	var eventAppPlatforms []models.EventAppPlatform
	result := r.db.WithContext(ctx).
		Preload("AppPlatform.App").
		Preload("AppPlatform.Platform").
		Preload("AppPlatform.Links").
		Joins("JOIN app_platforms ON app_platforms.id = event_app_platforms.app_platform_id").
		Joins("JOIN apps ON apps.id = app_platforms.app_id").
		Where("event_app_platforms.event_id = ?", eventID).
		Order("apps.name ASC, event_app_platforms.id ASC").
		Find(&eventAppPlatforms)
	return eventAppPlatforms, result.Error
}

// FindEventAppPlatformByID returns one participation record.
func (r *EventRepository) FindEventAppPlatformByID(ctx context.Context, id string) (*models.EventAppPlatform, error) {
	var eventAppPlatform models.EventAppPlatform
	result := r.db.WithContext(ctx).First(&eventAppPlatform, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &eventAppPlatform, nil
}

// AddAppPlatform adds one release to an event with a status and comment.
func (r *EventRepository) AddAppPlatform(ctx context.Context, eventAppPlatform *models.EventAppPlatform) error {
	if eventAppPlatform.ID == "" {
		eventAppPlatform.ID = cuid.New()
	}
	return r.db.WithContext(ctx).
		Omit("Event", "AppPlatform").
		Create(eventAppPlatform).Error
}

// AddAppPlatforms bulk-creates participation records, silently skipping
// (event, appPlatform) pairs that already exist.
func (r *EventRepository) AddAppPlatforms(ctx context.Context, eventAppPlatforms []models.EventAppPlatform) error {
	if len(eventAppPlatforms) == 0 {
		return nil
	}
	for i := range eventAppPlatforms {
		if eventAppPlatforms[i].ID == "" {
			eventAppPlatforms[i].ID = cuid.New()
		}
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Omit("Event", "AppPlatform").
		Create(&eventAppPlatforms).Error
}

// UpdateAppPlatformStatus updates status and comment on one participation
// record.
func (r *EventRepository) UpdateAppPlatformStatus(ctx context.Context, id, status string, comment *string) error {
	return r.db.WithContext(ctx).
		Model(&models.EventAppPlatform{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "comment": comment}).Error
}

// RemoveAppPlatform deletes one participation record.
func (r *EventRepository) RemoveAppPlatform(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.EventAppPlatform{}, "id = ?", id).Error
}

// FindEligibleAppPlatforms returns releases of the given apps that are not
// yet part of the event, with app and platform preloaded. When
// appPlatformIDs is non-empty the result is additionally restricted to
// those releases (the wizard's grouped-by-platform path).
func (r *EventRepository) FindEligibleAppPlatforms(ctx context.Context, eventID string, appIDs, appPlatformIDs []string) ([]models.AppPlatform, error) {
	if len(appIDs) == 0 {
		return []models.AppPlatform{}, nil
	}
	query := r.db.WithContext(ctx).
		Preload("App").
		Preload("Platform").
		Where("app_id IN ?", appIDs).
		Where("id NOT IN (?)", r.db.Model(&models.EventAppPlatform{}).
			Select("app_platform_id").
			Where("event_id = ?", eventID))
	if len(appPlatformIDs) > 0 {
		query = query.Where("id IN ?", appPlatformIDs)
	}
	var appPlatforms []models.AppPlatform
	result := query.Find(&appPlatforms)
	return appPlatforms, result.Error
}

// FindAppsWithEligibleReleases returns releases that could still be added
// to the event across all apps, with app and platform preloaded, ordered
// by app name. The wizard's step one groups these client-side.
func (r *EventRepository) FindAppsWithEligibleReleases(ctx context.Context, eventID string) ([]models.AppPlatform, error) {
	var appPlatforms []models.AppPlatform
	result := r.db.WithContext(ctx).
		Preload("App").
		Preload("Platform").
		Joins("JOIN apps ON apps.id = app_platforms.app_id").
		Where("app_platforms.id NOT IN (?)", r.db.Model(&models.EventAppPlatform{}).
			Select("app_platform_id").
			Where("event_id = ?", eventID)).
		Order("apps.name ASC").
		Find(&appPlatforms)
	return appPlatforms, result.Error
}

// FindDistinctPlatformsInEvent returns the deduplicated platforms that have
// at least one release participating in the event, ordered by name.
func (r *EventRepository) FindDistinctPlatformsInEvent(ctx context.Context, eventID string) ([]models.Platform, error) {
	var platforms []models.Platform
	result := r.db.WithContext(ctx).
		Distinct("platforms.*").
		Joins("JOIN app_platforms ON app_platforms.platform_id = platforms.id").
		Joins("JOIN event_app_platforms ON event_app_platforms.app_platform_id = app_platforms.id").
		Where("event_app_platforms.event_id = ?", eventID).
		Order("platforms.name ASC").
		Find(&platforms)
	return platforms, result.Error
}
