package repositories

import (
	"context"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/pixelfest/eventdeck-go/internal/database/models"
)

// AppRepository handles app and app-platform data access.
type AppRepository struct {
	db *gorm.DB
}

// NewAppRepository creates a new AppRepository.
func NewAppRepository(db *gorm.DB) *AppRepository {
	return &AppRepository{db: db}
}

// FindAll returns all apps ordered by name with the owning studio
// preloaded.
func (r *AppRepository) FindAll(ctx context.Context) ([]models.App, error) {
	var apps []models.App
	result := r.db.WithContext(ctx).
		Preload("Studio").
		Order("name ASC").
		Find(&apps)
	return apps, result.Error
}

// FindByID returns an app by ID with its studio, releases, their platforms
// and links preloaded.
func (r *AppRepository) FindByID(ctx context.Context, id string) (*models.App, error) {
	var app models.App
	result := r.db.WithContext(ctx).
		Preload("Studio").
		Preload("AppPlatforms.Platform").
		Preload("AppPlatforms.Links").
		First(&app, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &app, nil
}

// FindByStudioID returns a studio's apps ordered by name.
func (r *AppRepository) FindByStudioID(ctx context.Context, studioID string) ([]models.App, error) {
	var apps []models.App
	result := r.db.WithContext(ctx).
		Where("studio_id = ?", studioID).
		Order("name ASC").
		Find(&apps)
	return apps, result.Error
}

// Count returns the number of apps.
func (r *AppRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.App{}).Count(&count)
	return count, result.Error
}

// CountByType returns app counts grouped by app type.
func (r *AppRepository) CountByType(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Type  string
		Count int64
	}
	result := r.db.WithContext(ctx).
		Model(&models.App{}).
		Select("type, COUNT(*) AS count").
		Group("type").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Type] = row.Count
	}
	return counts, nil
}

// Create creates an app, its releases and their links in one transaction.
// A failure in any statement rolls back the whole group.
func (r *AppRepository) Create(ctx context.Context, app *models.App, platforms []models.AppPlatform) error {
	if app.ID == "" {
		app.ID = cuid.New()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Studio", "AppPlatforms").Create(app).Error; err != nil {
			return err
		}
		for i := range platforms {
			platforms[i].AppID = app.ID
			if err := createAppPlatformTx(tx, &platforms[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Update updates the app's own fields.
func (r *AppRepository) Update(ctx context.Context, app *models.App) error {
	return r.db.WithContext(ctx).Omit("Studio", "AppPlatforms").Save(app).Error
}

// Delete deletes an app with its releases and their links.
func (r *AppRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var appPlatformIDs []string
		if err := tx.Model(&models.AppPlatform{}).
			Where("app_id = ?", id).
			Pluck("id", &appPlatformIDs).Error; err != nil {
			return err
		}
		if len(appPlatformIDs) > 0 {
			if err := tx.Delete(&models.AppPlatformLink{}, "app_platform_id IN ?", appPlatformIDs).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.EventAppPlatform{}, "app_platform_id IN ?", appPlatformIDs).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&models.AppPlatform{}, "app_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.App{}, "id = ?", id).Error
	})
}

// AddPlatform creates one release with its links in one transaction.
func (r *AppRepository) AddPlatform(ctx context.Context, appPlatform *models.AppPlatform) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return createAppPlatformTx(tx, appPlatform)
	})
}

func createAppPlatformTx(tx *gorm.DB, appPlatform *models.AppPlatform) error {
	if appPlatform.ID == "" {
		appPlatform.ID = cuid.New()
	}
	links := appPlatform.Links
	appPlatform.Links = nil
	if err := tx.Omit("App", "Platform", "Links").Create(appPlatform).Error; err != nil {
		return err
	}
	for i := range links {
		links[i].ID = cuid.New()
		links[i].AppPlatformID = appPlatform.ID
	}
	if len(links) > 0 {
		if err := tx.Create(&links).Error; err != nil {
			return err
		}
	}
	appPlatform.Links = links
	return nil
}

// FindAppPlatformByID returns one release with app, platform and links
// preloaded.
func (r *AppRepository) FindAppPlatformByID(ctx context.Context, id string) (*models.AppPlatform, error) {
	var appPlatform models.AppPlatform
	result := r.db.WithContext(ctx).
		Preload("App").
		Preload("Platform").
		Preload("Links").
		First(&appPlatform, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &appPlatform, nil
}

// FindAppPlatformsByAppIDs returns every release of the given apps with
// the platform preloaded, in app then platform-name order.
func (r *AppRepository) FindAppPlatformsByAppIDs(ctx context.Context, appIDs []string) ([]models.AppPlatform, error) {
	if len(appIDs) == 0 {
		return []models.AppPlatform{}, nil
	}
	var appPlatforms []models.AppPlatform
	result := r.db.WithContext(ctx).
		Preload("Platform").
		Where("app_id IN ?", appIDs).
		Find(&appPlatforms)
	return appPlatforms, result.Error
}

// DeleteAppPlatform deletes a release with its links and any event
// participation records in one transaction.
func (r *AppRepository) DeleteAppPlatform(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.AppPlatformLink{}, "app_platform_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.EventAppPlatform{}, "app_platform_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.AppPlatform{}, "id = ?", id).Error
	})
}
