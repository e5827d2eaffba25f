package services

import (
	"testing"

	"estate-listings-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmission() ListingSubmission {
	return ListingSubmission{
		Title:      "Sunny Flat",
		Address:    "12 Ocean Drive",
		Price:      250000,
		Type:       "sale",
		OwnerName:  "Jo Owner",
		OwnerPhone: "+1 (555) 010-2030",
		OwnerEmail: "jo@example.com",
		DriveLink:  "https://drive.google.com/file/d/abc123/view",
	}
}

func TestAssembleSubmissionBuildsPendingDraft(t *testing.T) {
	svc, _, _, _ := newTestService()

	draft, err := svc.AssembleSubmission(validSubmission(), "", false)
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, draft.Status)
	assert.Equal(t, "Sunny Flat", draft.Title)
	assert.Equal(t, models.TypeSale, draft.Type)
	assert.Equal(t, "https://drive.google.com/file/d/abc123/view", draft.DriveLink)
	assert.Equal(t, "+15550102030", draft.OwnerPhone)
}

func TestAssembleSubmissionRequiresMediaOrLink(t *testing.T) {
	svc, _, _, _ := newTestService()

	sub := validSubmission()
	sub.DriveLink = ""

	_, err := svc.AssembleSubmission(sub, "", false)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "drive link is required")
}

func TestAssembleSubmissionRejectsInvalidLinkEvenWithFiles(t *testing.T) {
	svc, _, _, _ := newTestService()

	sub := validSubmission()
	sub.DriveLink = "https://example.com/photos"

	_, err := svc.AssembleSubmission(sub, "", true)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "invalid drive link")
}

func TestAssembleSubmissionAllowsFilesWithoutLink(t *testing.T) {
	svc, _, _, _ := newTestService()

	sub := validSubmission()
	sub.DriveLink = ""

	draft, err := svc.AssembleSubmission(sub, "", true)
	require.NoError(t, err)
	assert.Empty(t, draft.DriveLink)
}

func TestAssembleSubmissionAuthenticatedEmailOverridesForm(t *testing.T) {
	svc, _, _, _ := newTestService()

	sub := validSubmission()
	sub.OwnerEmail = "spoof@y.com"

	draft, err := svc.AssembleSubmission(sub, "a@x.com", false)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", draft.OwnerEmail)
}

func TestAssembleSubmissionOwnerEmailRequired(t *testing.T) {
	svc, _, _, _ := newTestService()

	sub := validSubmission()
	sub.OwnerEmail = "   "

	_, err := svc.AssembleSubmission(sub, "", false)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "owner email")
}

func TestAssembleSubmissionCategoryDefaults(t *testing.T) {
	svc, _, _, _ := newTestService()

	for input, want := range map[string]models.ListingType{
		"rent":    models.TypeRent,
		"RENT":    models.TypeRent,
		"sale":    models.TypeSale,
		"":        models.TypeSale,
		"castle?": models.TypeSale,
	} {
		sub := validSubmission()
		sub.Type = input
		draft, err := svc.AssembleSubmission(sub, "", false)
		require.NoError(t, err)
		assert.Equal(t, want, draft.Type, "type input %q", input)
	}
}

func TestAssembleSubmissionHouseTypeHasNoFallback(t *testing.T) {
	svc, _, _, _ := newTestService()

	sub := validSubmission()
	sub.HouseType = "villa"
	draft, err := svc.AssembleSubmission(sub, "", false)
	require.NoError(t, err)
	require.NotNil(t, draft.HouseType)
	assert.Equal(t, models.HouseTypeVilla, *draft.HouseType)

	sub.HouseType = "castle"
	draft, err = svc.AssembleSubmission(sub, "", false)
	require.NoError(t, err)
	assert.Nil(t, draft.HouseType)
}

func TestAssembleSubmissionAgentLookup(t *testing.T) {
	agent := &models.User{Name: "Dana Agent", Email: "dana@agency.com", Role: "agent"}
	agent.ID = 7
	svc, _, _, _ := newTestService(agent)

	sub := validSubmission()
	sub.AgentName = "Dana Agent"
	draft, err := svc.AssembleSubmission(sub, "", false)
	require.NoError(t, err)
	require.NotNil(t, draft.AgentID)
	assert.Equal(t, uint(7), *draft.AgentID)

	// An unmatched name is silent, not fatal.
	sub.AgentName = "Nobody Here"
	draft, err = svc.AssembleSubmission(sub, "", false)
	require.NoError(t, err)
	assert.Nil(t, draft.AgentID)
}

func TestAssembleSubmissionRequiredFields(t *testing.T) {
	svc, _, _, _ := newTestService()

	sub := validSubmission()
	sub.Title = " "

	_, err := svc.AssembleSubmission(sub, "", false)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestFormatPhoneNumber(t *testing.T) {
	assert.Equal(t, "+15550102030", FormatPhoneNumber("+1 (555) 010-2030"))
	assert.Equal(t, "0771234567", FormatPhoneNumber("077 123 45 67"))
	assert.Equal(t, "", FormatPhoneNumber("  "))
}
