package services

import (
	"encoding/json"
	"strings"

	"estate-listings-server/models"

	"golang.org/x/exp/slices"

	"gorm.io/datatypes"
)

// ListingSubmission is the untrusted field bag of a public submission, as
// bound by the transport layer.
type ListingSubmission struct {
	Title       string
	Description string
	Address     string
	Price       float64
	Type        string
	HouseType   string
	Bedrooms    *int
	Bathrooms   *int
	AreaSqFt    *float64
	Amenities   []string
	OwnerName   string
	OwnerPhone  string
	OwnerEmail  string
	DriveLink   string
	AgentName   string
}

// AssembleSubmission validates a public submission and normalizes it into a
// PENDING draft. principalEmail is the authenticated caller's email, empty
// when unauthenticated; hasFiles reports whether at least one non-empty blob
// accompanies the submission.
//
// The authenticated email always overrides the self-reported owner email, so
// submitted listings cannot be attributed to someone else.
func (s *ListingService) AssembleSubmission(sub ListingSubmission, principalEmail string, hasFiles bool) (*models.Listing, error) {
	for field, value := range map[string]string{
		"title":      sub.Title,
		"address":    sub.Address,
		"ownerName":  sub.OwnerName,
		"ownerPhone": sub.OwnerPhone,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, NewValidationError("%s is required", field)
		}
	}

	driveLink := strings.TrimSpace(sub.DriveLink)
	hasDriveLink := driveLink != ""

	if !hasFiles && !hasDriveLink {
		return nil, NewValidationError("a drive link is required when no files are uploaded")
	}
	if hasDriveLink && !IsValidDriveLink(driveLink) {
		return nil, NewValidationError("invalid drive link: provide a valid drive.google.com or docs.google.com resource URL")
	}

	ownerEmail := strings.TrimSpace(sub.OwnerEmail)
	if principalEmail != "" {
		ownerEmail = principalEmail
	}
	if ownerEmail == "" {
		return nil, NewValidationError("owner email could not be determined from session or request")
	}

	// First identity whose display name matches exactly; an unmatched
	// agent name is not fatal.
	var agentID *uint
	if name := strings.TrimSpace(sub.AgentName); name != "" {
		if agent, err := s.users.FindByName(name); err == nil && agent != nil {
			agentID = &agent.ID
		}
	}

	facilities := make([]string, 0, len(sub.Amenities))
	for _, a := range sub.Amenities {
		a = strings.TrimSpace(a)
		if a == "" || slices.Contains(facilities, a) {
			continue
		}
		facilities = append(facilities, a)
	}
	facilitiesJSON, _ := json.Marshal(facilities)

	listing := &models.Listing{
		Title:       strings.TrimSpace(sub.Title),
		Description: sub.Description,
		Address:     strings.TrimSpace(sub.Address),
		Price:       sub.Price,
		Type:        models.ParseListingType(sub.Type),
		HouseType:   models.ParseHouseType(sub.HouseType),
		Status:      models.StatusPending,
		Bedrooms:    sub.Bedrooms,
		Bathrooms:   sub.Bathrooms,
		AreaSqFt:    sub.AreaSqFt,
		Facilities:  datatypes.JSON(facilitiesJSON),
		OwnerName:   strings.TrimSpace(sub.OwnerName),
		OwnerPhone:  FormatPhoneNumber(sub.OwnerPhone),
		OwnerEmail:  ownerEmail,
		DriveLink:   driveLink,
		AgentID:     agentID,
	}

	return listing, nil
}
