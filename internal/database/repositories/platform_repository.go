package repositories

import (
	"context"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/pixelfest/eventdeck-go/internal/database/models"
)

// PlatformRepository handles platform data access.
type PlatformRepository struct {
	db *gorm.DB
}

// NewPlatformRepository creates a new PlatformRepository.
func NewPlatformRepository(db *gorm.DB) *PlatformRepository {
	return &PlatformRepository{db: db}
}

// FindAll returns all platforms ordered by name.
func (r *PlatformRepository) FindAll(ctx context.Context) ([]models.Platform, error) {
	var platforms []models.Platform
	result := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&platforms)
	return platforms, result.Error
}

// FindByID returns a platform by ID.
func (r *PlatformRepository) FindByID(ctx context.Context, id string) (*models.Platform, error) {
	var platform models.Platform
	result := r.db.WithContext(ctx).First(&platform, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &platform, nil
}

// FindByName returns a platform by its unique name.
func (r *PlatformRepository) FindByName(ctx context.Context, name string) (*models.Platform, error) {
	var platform models.Platform
	result := r.db.WithContext(ctx).First(&platform, "name = ?", name)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &platform, nil
}

// Count returns the number of platforms.
func (r *PlatformRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Platform{}).Count(&count)
	return count, result.Error
}

// CountReleases returns the number of app releases on a platform.
func (r *PlatformRepository) CountReleases(ctx context.Context, platformID string) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&models.AppPlatform{}).
		Where("platform_id = ?", platformID).
		Count(&count)
	return count, result.Error
}

// Create creates a new platform.
func (r *PlatformRepository) Create(ctx context.Context, platform *models.Platform) error {
	if platform.ID == "" {
		platform.ID = cuid.New()
	}
	return r.db.WithContext(ctx).Omit("AppPlatforms").Create(platform).Error
}

// Update updates an existing platform.
func (r *PlatformRepository) Update(ctx context.Context, platform *models.Platform) error {
	return r.db.WithContext(ctx).Omit("AppPlatforms").Save(platform).Error
}

// Delete deletes a platform by ID. Releases referencing the platform are
// left to the database's referential rules.
func (r *PlatformRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Platform{}, "id = ?", id).Error
}
