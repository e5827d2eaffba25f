package models

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ListingStatus string

const (
	StatusPending   ListingStatus = "PENDING"
	StatusAvailable ListingStatus = "AVAILABLE"
	StatusRejected  ListingStatus = "REJECTED"
)

type ListingType string

const (
	TypeSale ListingType = "SALE"
	TypeRent ListingType = "RENT"
)

type HouseType string

const (
	HouseTypeApartment HouseType = "APARTMENT"
	HouseTypeHouse     HouseType = "HOUSE"
	HouseTypeVilla     HouseType = "VILLA"
	HouseTypeStudio    HouseType = "STUDIO"
	HouseTypeTownhouse HouseType = "TOWNHOUSE"
)

// ParseListingType matches the input case-insensitively. Unknown or empty
// input falls back to SALE, never an error.
func ParseListingType(s string) ListingType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(TypeRent):
		return TypeRent
	default:
		return TypeSale
	}
}

// ParseHouseType has no safe fallback, so unknown input yields nil.
func ParseHouseType(s string) *HouseType {
	ht := HouseType(strings.ToUpper(strings.TrimSpace(s)))
	switch ht {
	case HouseTypeApartment, HouseTypeHouse, HouseTypeVilla, HouseTypeStudio, HouseTypeTownhouse:
		return &ht
	}
	return nil
}

type Listing struct {
	gorm.Model
	Title       string      `json:"title"`
	Description string      `json:"description" gorm:"type:text"`
	Address     string      `json:"address"`
	Price       float64     `json:"price"`
	Type        ListingType `json:"type" gorm:"type:varchar(10);index"`
	HouseType   *HouseType  `json:"houseType" gorm:"type:varchar(20)"`

	Status ListingStatus `json:"status" gorm:"type:varchar(20);default:'PENDING';index"`

	// Main thumbnail shown in cards. The gallery is derived from Media.
	ImageURL string `json:"imageUrl"`

	Bedrooms   *int           `json:"bedrooms"`
	Bathrooms  *int           `json:"bathrooms"`
	AreaSqFt   *float64       `json:"areaSqFt"`
	Facilities datatypes.JSON `json:"facilities" gorm:"type:jsonb"`

	OwnerName  string `json:"ownerName"`
	OwnerPhone string `json:"ownerPhone"`
	OwnerEmail string `json:"ownerEmail" gorm:"index"`

	DriveLink string `json:"driveLink"`

	AgentID *uint `json:"agentId"`
	Agent   *User `json:"agent,omitempty" gorm:"foreignKey:AgentID;references:ID"`

	Media []ListingMedia `json:"-" gorm:"constraint:OnDelete:CASCADE"`

	// Moderation fields, set exactly once on the terminal decision.
	RejectionReason      string     `json:"rejectionReason"`
	AdminDecisionMessage string     `json:"adminDecisionMessage" gorm:"type:text"`
	ReviewedAt           *time.Time `json:"reviewedAt"`
}

// MarshalJSON derives the imageUrls gallery view and the facilities array
// from their stored representations. Media rows stay the single source of
// truth for images; imageUrls is never stored independently.
func (l *Listing) MarshalJSON() ([]byte, error) {
	type Alias Listing
	aux := &struct {
		ImageURLs  []string `json:"imageUrls"`
		Facilities []string `json:"facilities"`
		*Alias
	}{
		ImageURLs:  []string{},
		Facilities: []string{},
		Alias:      (*Alias)(l),
	}

	for _, m := range l.Media {
		aux.ImageURLs = append(aux.ImageURLs, m.FilePath)
	}

	if len(l.Facilities) > 0 {
		var facilities []string
		if err := json.Unmarshal(l.Facilities, &facilities); err == nil {
			aux.Facilities = facilities
		}
	}

	return json.Marshal(aux)
}
