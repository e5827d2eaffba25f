package storage

import (
	"errors"
	"strings"

	"estate-listings-server/models"

	"gorm.io/gorm"
)

// GormUserDirectory resolves identities for attribution. It implements
// services.UserDirectory; lookups return (nil, nil) when no identity matches.
type GormUserDirectory struct {
	db *gorm.DB
}

func NewGormUserDirectory(db *gorm.DB) *GormUserDirectory {
	return &GormUserDirectory{db: db}
}

func (d *GormUserDirectory) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := d.db.Where("email = ?", strings.ToLower(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *GormUserDirectory) FindByName(name string) (*models.User, error) {
	var user models.User
	err := d.db.Where("name = ?", name).Order("id").First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
