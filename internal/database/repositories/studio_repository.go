package repositories

import (
	"context"

	"github.com/lucsky/cuid"
	"gorm.io/gorm"

	"github.com/pixelfest/eventdeck-go/internal/database/models"
)

// StudioRepository handles studio data access.
type StudioRepository struct {
	db *gorm.DB
}

// NewStudioRepository creates a new StudioRepository.
func NewStudioRepository(db *gorm.DB) *StudioRepository {
	return &StudioRepository{db: db}
}

// FindAll returns all studios ordered by name.
func (r *StudioRepository) FindAll(ctx context.Context) ([]models.Studio, error) {
	var studios []models.Studio
	result := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&studios)
	return studios, result.Error
}

// FindByID returns a studio by ID with members, links and the main contact
// preloaded.
func (r *StudioRepository) FindByID(ctx context.Context, id string) (*models.Studio, error) {
	var studio models.Studio
	result := r.db.WithContext(ctx).
		Preload("Members.User").
		Preload("Links").
		Preload("MainContact.User").
		First(&studio, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &studio, nil
}

// FindByIDs returns the studios with the given IDs ordered by name, with
// the main contact user preloaded for mailto generation.
func (r *StudioRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Studio, error) {
	if len(ids) == 0 {
		return []models.Studio{}, nil
	}
	var studios []models.Studio
	result := r.db.WithContext(ctx).
		Preload("MainContact.User").
		Where("id IN ?", ids).
		Order("name ASC").
		Find(&studios)
	return studios, result.Error
}

// Count returns the number of studios.
func (r *StudioRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.Studio{}).Count(&count)
	return count, result.Error
}

// Create creates a studio and any provided links in one transaction.
func (r *StudioRepository) Create(ctx context.Context, studio *models.Studio, links []models.StudioLink) error {
	if studio.ID == "" {
		studio.ID = cuid.New()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Members", "Links", "Apps", "MainContact").Create(studio).Error; err != nil {
			return err
		}
		for i := range links {
			links[i].ID = cuid.New()
			links[i].StudioID = studio.ID
		}
		if len(links) > 0 {
			if err := tx.Create(&links).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Update saves studio fields and appends any provided links in one
// transaction.
func (r *StudioRepository) Update(ctx context.Context, studio *models.Studio, newLinks []models.StudioLink) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Members", "Links", "Apps", "MainContact").Save(studio).Error; err != nil {
			return err
		}
		for i := range newLinks {
			newLinks[i].ID = cuid.New()
			newLinks[i].StudioID = studio.ID
		}
		if len(newLinks) > 0 {
			if err := tx.Create(&newLinks).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes a studio with its members and links.
func (r *StudioRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Clear the self-referencing main contact first so the member rows
		// can go.
		if err := tx.Model(&models.Studio{}).
			Where("id = ?", id).
			Update("main_contact_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.StudioMember{}, "studio_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.StudioLink{}, "studio_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Studio{}, "id = ?", id).Error
	})
}

// AddMember creates a studio member and optionally promotes it to main
// contact in the same transaction.
func (r *StudioRepository) AddMember(ctx context.Context, member *models.StudioMember, setAsMainContact bool) error {
	if member.ID == "" {
		member.ID = cuid.New()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User").Create(member).Error; err != nil {
			return err
		}
		if !setAsMainContact {
			return nil
		}
		return tx.Model(&models.Studio{}).
			Where("id = ?", member.StudioID).
			Update("main_contact_id", member.ID).Error
	})
}

// CountApps returns the number of apps owned by a studio.
func (r *StudioRepository) CountApps(ctx context.Context, studioID string) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&models.App{}).
		Where("studio_id = ?", studioID).
		Count(&count)
	return count, result.Error
}
