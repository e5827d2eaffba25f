package routes

import (
	"estate-listings-server/utils"

	"github.com/kataras/iris/v12"
)

// GET /api/admin/listings/pending
func AdminListPendingListings(ctx iris.Context) {
	listings, err := Listings.Pending()
	if err != nil {
		utils.JSONError(ctx, iris.StatusInternalServerError, "server_error", err.Error())
		return
	}
	ctx.JSON(iris.Map{"data": listings})
}

// POST /api/admin/listings/:id/approve {message}
func AdminApproveListing(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := ctx.ReadJSON(&body); err != nil {
		utils.JSONError(ctx, iris.StatusUnprocessableEntity, "invalid_payload", "message required")
		return
	}

	listing, err := Listings.Approve(id, body.Message)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "listing.approve", "listing", listing.ID, nil, listing)
	ctx.JSON(iris.Map{"data": listing})
}

// POST /api/admin/listings/:id/reject {reason}
func AdminRejectListing(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "invalid id")
		return
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := ctx.ReadJSON(&body); err != nil || body.Reason == "" {
		utils.JSONError(ctx, iris.StatusUnprocessableEntity, "invalid_payload", "reason required")
		return
	}

	listing, err := Listings.Reject(id, body.Reason)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	utils.Audit(ctx, "listing.reject", "listing", listing.ID, nil, listing)
	ctx.JSON(iris.Map{"data": listing})
}
