package main

import (
	"os"

	"estate-listings-server/routes"
	"estate-listings-server/services"
	"estate-listings-server/storage"
	"estate-listings-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	db := storage.InitializeDB()
	storage.InitializeRedis()

	routes.Listings = services.NewListingService(
		storage.NewGormListingStore(db),
		storage.NewGormUserDirectory(db),
		storage.NewLocalFileStore(),
		services.NewNotificationService(storage.Redis),
	)

	app := iris.New()
	app.Validator = validator.New()

	// CORS for the web dashboard
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}

		return tokenInput.RefreshToken
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
	}

	listings := app.Party("/api/listings")
	{
		listings.Get("/", routes.GetListings)
		listings.Get("/search", routes.SearchListings)
		listings.Get("/type/{type}", routes.GetListingsByType)
		listings.Get("/mine", accessTokenVerifierMiddleware, utils.PrincipalMiddleware, routes.GetMyListings)
		listings.Post("/submit", accessTokenVerifierMiddleware, utils.PrincipalMiddleware, routes.SubmitListing)
		listings.Post("/", accessTokenVerifierMiddleware, utils.StaffOnlyMiddleware, routes.CreateListing)
		listings.Get("/{id:uint}", routes.GetListing)
		listings.Put("/{id:uint}", accessTokenVerifierMiddleware, utils.StaffOnlyMiddleware, routes.UpdateListing)
		listings.Delete("/{id:uint}", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware, routes.DeleteListing)
	}

	admin := app.Party("/api/admin/listings", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/pending", routes.AdminListPendingListings)
		admin.Post("/{id:uint}/approve", routes.AdminApproveListing)
		admin.Post("/{id:uint}/reject", routes.AdminRejectListing)
	}

	uploadsDir := os.Getenv("UPLOADS_DIR")
	if uploadsDir == "" {
		uploadsDir = "uploads"
	}
	app.HandleDir("/uploads", iris.Dir(uploadsDir))

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	app.Listen(":" + port)
}
