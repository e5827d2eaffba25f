package routes

import (
	"errors"
	"strconv"
	"strings"

	"estate-listings-server/models"
	"estate-listings-server/services"
	"estate-listings-server/utils"

	"github.com/kataras/iris/v12"
)

// Listings is wired in main with the postgres store, the local file store and
// the redis decision notifier.
var Listings *services.ListingService

func GetListings(ctx iris.Context) {
	listings, err := Listings.All()
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(listings)
}

func GetListing(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	listing, err := Listings.Get(id)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(listing)
}

func SearchListings(ctx iris.Context) {
	query := strings.TrimSpace(ctx.URLParamDefault("q", ""))
	if query == "" {
		ctx.JSON([]models.Listing{})
		return
	}

	listings, err := Listings.Search(query)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(listings)
}

func GetListingsByType(ctx iris.Context) {
	listingType := models.ParseListingType(ctx.Params().Get("type"))

	listings, err := Listings.ByType(listingType)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(listings)
}

// GetMyListings returns every listing attributed to the authenticated user's
// email, including ones created through the public submission flow.
func GetMyListings(ctx iris.Context) {
	email := utils.PrincipalEmail(ctx)
	if email == "" {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "Authentication required.", ctx)
		return
	}

	listings, err := Listings.ByOwnerEmail(email)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(listings)
}

// SubmitListing handles the public multipart submission form. The draft is
// validated and persisted at PENDING for admin review.
func SubmitListing(ctx iris.Context) {
	ctx.SetMaxRequestBodySize(64 << 20)

	sub := services.ListingSubmission{
		Title:       ctx.FormValue("title"),
		Description: ctx.FormValue("description"),
		Address:     ctx.FormValue("address"),
		Type:        ctx.FormValue("type"),
		HouseType:   ctx.FormValue("houseType"),
		OwnerName:   ctx.FormValue("ownerName"),
		OwnerPhone:  ctx.FormValue("ownerPhone"),
		OwnerEmail:  ctx.FormValue("ownerEmail"),
		DriveLink:   ctx.FormValue("driveLink"),
		AgentName:   ctx.FormValue("agentName"),
	}

	if price, err := strconv.ParseFloat(ctx.FormValue("price"), 64); err == nil {
		sub.Price = price
	}
	if v := ctx.FormValue("bedrooms"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			sub.Bedrooms = &n
		}
	}
	if v := ctx.FormValue("bathrooms"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			sub.Bathrooms = &n
		}
	}
	if v := ctx.FormValue("areaSqFt"); v != "" {
		if area, err := strconv.ParseFloat(v, 64); err == nil {
			sub.AreaSqFt = &area
		}
	}
	if form := ctx.Request().MultipartForm; form != nil {
		sub.Amenities = form.Value["amenities"]
	}

	var files []services.FileUpload
	if form := ctx.Request().MultipartForm; form != nil {
		for _, header := range form.File["images"] {
			if header.Size == 0 {
				continue
			}
			src, err := header.Open()
			if err != nil {
				utils.CreateInternalServerError(ctx)
				return
			}
			defer src.Close()
			files = append(files, services.FileUpload{
				Filename: header.Filename,
				Size:     header.Size,
				Content:  src,
			})
		}
	}

	draft, err := Listings.AssembleSubmission(sub, utils.PrincipalEmail(ctx), len(files) > 0)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	listing, err := Listings.Submit(draft, files)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success":   true,
		"message":   "Listing submitted successfully. Admin will review your submission.",
		"listingId": listing.ID,
	})
}

type CreateListingInput struct {
	Title       string   `json:"title" validate:"required,max=256"`
	Description string   `json:"description"`
	Address     string   `json:"address" validate:"required,max=512"`
	Price       float64  `json:"price" validate:"gte=0"`
	Type        string   `json:"type"`
	HouseType   string   `json:"houseType"`
	Status      string   `json:"status"`
	ImageURL    string   `json:"imageUrl"`
	Bedrooms    *int     `json:"bedrooms"`
	Bathrooms   *int     `json:"bathrooms"`
	AreaSqFt    *float64 `json:"areaSqFt"`
	OwnerName   string   `json:"ownerName"`
	OwnerPhone  string   `json:"ownerPhone"`
	OwnerEmail  string   `json:"ownerEmail"`
	DriveLink   string   `json:"driveLink"`
}

// CreateListing is the direct creation path for sellers, agents and admins;
// it bypasses moderation unless the caller asks for PENDING explicitly.
func CreateListing(ctx iris.Context) {
	var input CreateListingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	listing := &models.Listing{
		Title:       input.Title,
		Description: input.Description,
		Address:     input.Address,
		Price:       input.Price,
		Type:        models.ParseListingType(input.Type),
		HouseType:   models.ParseHouseType(input.HouseType),
		ImageURL:    input.ImageURL,
		Bedrooms:    input.Bedrooms,
		Bathrooms:   input.Bathrooms,
		AreaSqFt:    input.AreaSqFt,
		OwnerName:   input.OwnerName,
		OwnerPhone:  input.OwnerPhone,
		OwnerEmail:  input.OwnerEmail,
		DriveLink:   input.DriveLink,
	}
	if input.Status != "" {
		listing.Status = models.ListingStatus(strings.ToUpper(input.Status))
	}

	created, err := Listings.CreateDirect(listing, utils.PrincipalEmail(ctx))
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(created)
}

type UpdateListingInput struct {
	Title       string   `json:"title" validate:"required,max=256"`
	Description string   `json:"description"`
	Address     string   `json:"address" validate:"required,max=512"`
	Price       float64  `json:"price" validate:"gte=0"`
	Type        string   `json:"type"`
	HouseType   string   `json:"houseType"`
	Status      string   `json:"status" validate:"required"`
	ImageURL    string   `json:"imageUrl"`
	Bedrooms    *int     `json:"bedrooms"`
	Bathrooms   *int     `json:"bathrooms"`
	AreaSqFt    *float64 `json:"areaSqFt"`
	AgentID     *uint    `json:"agentId"`
}

func UpdateListing(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	var input UpdateListingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	updated, err := Listings.Update(id, services.ListingUpdate{
		Title:       input.Title,
		Description: input.Description,
		Address:     input.Address,
		Price:       input.Price,
		Type:        models.ParseListingType(input.Type),
		HouseType:   models.ParseHouseType(input.HouseType),
		Status:      models.ListingStatus(strings.ToUpper(input.Status)),
		ImageURL:    input.ImageURL,
		Bedrooms:    input.Bedrooms,
		Bathrooms:   input.Bathrooms,
		AreaSqFt:    input.AreaSqFt,
		AgentID:     input.AgentID,
	})
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.JSON(updated)
}

func DeleteListing(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid id")
		return
	}

	if err := Listings.Delete(id); err != nil {
		handleServiceError(err, ctx)
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}

// handleServiceError maps the workflow's failure kinds onto response
// semantics: validation -> 400, not-found -> 404, state conflict -> 409,
// anything storage-side -> 500.
func handleServiceError(err error, ctx iris.Context) {
	var (
		validationErr *services.ValidationError
		notFoundErr   *services.NotFoundError
		conflictErr   *services.StateConflictError
	)
	switch {
	case errors.As(err, &validationErr):
		utils.CreateError(iris.StatusBadRequest, "Validation Error", validationErr.Message, ctx)
	case errors.As(err, &notFoundErr):
		utils.CreateError(iris.StatusNotFound, "Not Found", notFoundErr.Error(), ctx)
	case errors.As(err, &conflictErr):
		utils.CreateError(iris.StatusConflict, "State Conflict", conflictErr.Message, ctx)
	default:
		utils.CreateInternalServerError(ctx)
	}
}
