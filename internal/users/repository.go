package users

import (
	"context"
	"errors"

	"github.com/globomantics/inventory-backend/pkg/db/models"
	"github.com/globomantics/inventory-backend/pkg/pagination"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Get returns the user with roles preloaded, or nil when absent.
func (r *Repository) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Roles").
		First(&user, "id = ?", id).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns the user with roles preloaded, or nil when absent.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Roles").
		First(&user, "email = ?", email).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns a page of users with roles preloaded.
func (r *Repository) List(ctx context.Context, page pagination.Params) ([]models.User, error) {
	var items []models.User
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Order("id").
		Offset(page.Skip).
		Limit(page.Limit).
		Find(&items).
		Error
	return items, err
}

func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// ReplaceRoles swaps the user's role associations for the given set.
func (r *Repository) ReplaceRoles(ctx context.Context, user *models.User, roles []models.Role) error {
	return r.db.WithContext(ctx).Model(user).Association("Roles").Replace(roles)
}

// RolesByIDs loads the role rows for the given ids, preserving absence: the
// result may be shorter than the input.
func (r *Repository) RolesByIDs(ctx context.Context, ids []uint) ([]models.Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var roles []models.Role
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&roles).Error
	return roles, err
}

// Delete removes the user. Membership rows cascade at the database level.
func (r *Repository) Delete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Select("Roles").Delete(&models.User{ID: id})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
