// Package repositories provides data access layer implementations.
package repositories

import (
	"context"

	"github.com/lucsky/cuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pixelfest/eventdeck-go/internal/database/models"
)

// UserRepository handles user and password data access.
type UserRepository struct {
	db         *gorm.DB
	bcryptCost int
}

// NewUserRepository creates a new UserRepository. cost is the bcrypt cost
// used when hashing new passwords.
func NewUserRepository(db *gorm.DB, cost int) *UserRepository {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &UserRepository{db: db, bcryptCost: cost}
}

// FindAll returns all users ordered by name.
func (r *UserRepository) FindAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	result := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&users)
	return users, result.Error
}

// FindByID returns a user by ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &user, nil
}

// FindByEmail returns a user by email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &user, nil
}

// FindNotCoordinatingEvent returns users that are not coordinators of the
// given event, ordered by name.
func (r *UserRepository) FindNotCoordinatingEvent(ctx context.Context, eventID string) ([]models.User, error) {
	var users []models.User
	result := r.db.WithContext(ctx).
		Where("id NOT IN (?)", r.db.Model(&models.EventCoordinator{}).
			Select("user_id").
			Where("event_id = ?", eventID)).
		Order("name ASC").
		Find(&users)
	return users, result.Error
}

// FindNotMemberOfStudio returns users that are not members of the given
// studio, ordered by name.
func (r *UserRepository) FindNotMemberOfStudio(ctx context.Context, studioID string) ([]models.User, error) {
	var users []models.User
	result := r.db.WithContext(ctx).
		Where("id NOT IN (?)", r.db.Model(&models.StudioMember{}).
			Select("user_id").
			Where("studio_id = ?", studioID)).
		Order("name ASC").
		Find(&users)
	return users, result.Error
}

// Count returns the number of users.
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.User{}).Count(&count)
	return count, result.Error
}

// Create creates a user together with its password row in one transaction.
func (r *UserRepository) Create(ctx context.Context, user *models.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.bcryptCost)
	if err != nil {
		return err
	}

	if user.ID == "" {
		user.ID = cuid.New()
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Password{
			ID:     cuid.New(),
			UserID: user.ID,
			Hash:   string(hash),
		}).Error
	})
}

// Update updates a user and, when newPassword is non-empty, replaces the
// password hash in the same transaction.
func (r *UserRepository) Update(ctx context.Context, user *models.User, newPassword string) error {
	var hash []byte
	if newPassword != "" {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(newPassword), r.bcryptCost)
		if err != nil {
			return err
		}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(user).Error; err != nil {
			return err
		}
		if hash == nil {
			return nil
		}
		return tx.Model(&models.Password{}).
			Where("user_id = ?", user.ID).
			Update("hash", string(hash)).Error
	})
}

// Delete deletes a user and its password row.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Password{}, "user_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", id).Error
	})
}

// VerifyLogin checks an email/password pair and returns the user on
// success, or nil when either the user does not exist or the password is
// wrong. The two cases are deliberately indistinguishable to the caller.
func (r *UserRepository) VerifyLogin(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).
		Preload("Password").
		First(&user, "email = ?", email)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	if user.Password == nil {
		return nil, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password.Hash), []byte(password)); err != nil {
		return nil, nil
	}
	user.Password = nil
	return &user, nil
}
