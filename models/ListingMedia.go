package models

import "gorm.io/gorm"

// ListingMedia is one stored file belonging to exactly one listing. Rows are
// created during submission intake and removed only by the listing cascade or
// the submission rollback.
type ListingMedia struct {
	gorm.Model
	ListingID uint   `json:"listingId" gorm:"index"`
	FilePath  string `json:"filePath"`
}
