package storage

import (
	"errors"
	"strings"

	"estate-listings-server/models"
	"estate-listings-server/services"

	"gorm.io/gorm"
)

// GormListingStore is the postgres-backed listing store used by the listing
// service. Finders return (nil, nil) / empty slices when nothing matches so
// callers can distinguish "absent" from a storage failure.
type GormListingStore struct {
	db *gorm.DB
}

func NewGormListingStore(db *gorm.DB) *GormListingStore {
	return &GormListingStore{db: db}
}

func (s *GormListingStore) FindByID(id uint) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.Preload("Media").Preload("Agent").First(&listing, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (s *GormListingStore) FindAll() ([]models.Listing, error) {
	var listings []models.Listing
	err := s.db.Preload("Media").Order("created_at DESC").Find(&listings).Error
	return listings, err
}

func (s *GormListingStore) Search(query string) ([]models.Listing, error) {
	like := "%" + strings.ToLower(query) + "%"
	var listings []models.Listing
	err := s.db.Preload("Media").
		Where("lower(title) LIKE ? OR lower(address) LIKE ?", like, like).
		Order("created_at DESC").
		Find(&listings).Error
	return listings, err
}

func (s *GormListingStore) FindByType(t models.ListingType) ([]models.Listing, error) {
	var listings []models.Listing
	err := s.db.Preload("Media").Where("type = ?", t).Order("created_at DESC").Find(&listings).Error
	return listings, err
}

func (s *GormListingStore) FindByStatus(status models.ListingStatus) ([]models.Listing, error) {
	var listings []models.Listing
	err := s.db.Preload("Media").Where("status = ?", status).Order("created_at DESC").Find(&listings).Error
	return listings, err
}

func (s *GormListingStore) FindByOwnerEmail(email string) ([]models.Listing, error) {
	var listings []models.Listing
	err := s.db.Preload("Media").Where("owner_email = ?", email).Order("created_at DESC").Find(&listings).Error
	return listings, err
}

func (s *GormListingStore) Save(l *models.Listing) error {
	return s.db.Omit("Media", "Agent").Save(l).Error
}

func (s *GormListingStore) AddMedia(m *models.ListingMedia) error {
	return s.db.Create(m).Error
}

// MarkDecided applies the decision with a conditional update so concurrent
// double decisions resolve to at-most-one-wins at the database.
func (s *GormListingStore) MarkDecided(id uint, expect models.ListingStatus, decided *models.Listing) (bool, error) {
	res := s.db.Model(&models.Listing{}).
		Where("id = ? AND status = ?", id, expect).
		Updates(map[string]interface{}{
			"status":                 decided.Status,
			"rejection_reason":       decided.RejectionReason,
			"admin_decision_message": decided.AdminDecisionMessage,
			"reviewed_at":            decided.ReviewedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormListingStore) Delete(id uint) error {
	// Media rows go with the listing.
	if err := s.db.Where("listing_id = ?", id).Delete(&models.ListingMedia{}).Error; err != nil {
		return err
	}
	return s.db.Delete(&models.Listing{}, id).Error
}

func (s *GormListingStore) InTransaction(fn func(services.ListingStore) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewGormListingStore(tx))
	})
}
