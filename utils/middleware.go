package utils

import (
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// PrincipalMiddleware stores the authenticated principal's email and id in
// the request context so handlers can hand them to the workflow explicitly.
func PrincipalMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	ctx.Values().Set("userID", claims.ID)
	ctx.Values().Set("userEmail", claims.Email)
	ctx.Next()
}

// PrincipalEmail returns the authenticated caller's email, empty when the
// route ran without authentication.
func PrincipalEmail(ctx iris.Context) string {
	if email, ok := ctx.Values().Get("userEmail").(string); ok {
		return email
	}
	return ""
}

// AdminOnlyMiddleware ensures the requester has the admin role.
func AdminOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if claims.Role != "admin" {
		ctx.StopWithJSON(iris.StatusForbidden, iris.Map{"error": "forbidden", "message": "admin access required"})
		return
	}
	// Ensure principal info is available to downstream handlers
	ctx.Values().Set("userID", claims.ID)
	ctx.Values().Set("userEmail", claims.Email)
	ctx.Next()
}

// StaffOnlyMiddleware allows sellers, agents and admins to manage listings
// directly.
func StaffOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	switch claims.Role {
	case "seller", "agent", "admin":
		ctx.Values().Set("userID", claims.ID)
		ctx.Values().Set("userEmail", claims.Email)
		ctx.Next()
	default:
		ctx.StopWithJSON(iris.StatusForbidden, iris.Map{"error": "forbidden", "message": "seller, agent or admin access required"})
	}
}
