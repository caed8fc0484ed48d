package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"recipebox/internal/auth"
	"recipebox/internal/config"
	"recipebox/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	userHandler *handler.UserHandler,
	authHandler *handler.AuthHandler,
	tagHandler *handler.TagHandler,
	ingredientHandler *handler.IngredientHandler,
	recipeHandler *handler.RecipeHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Uploaded recipe images are served straight from disk.
	e.Static("/media", cfg.UploadDir)

	api := e.Group("/api")

	// Public routes
	api.POST("/users/create", userHandler.Create)
	api.POST("/users/token", authHandler.Token)

	// Secured routes: the middleware resolves the bearer token to typed
	// claims and rejects revoked tokens, so handlers only ever see an
	// authenticated user context.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			claims, err := jwtService.ValidateToken(tokenString)
			if err != nil {
				return nil, err
			}
			revoked, _ := tokenStore.IsTokenRevoked(c.Request().Context(), claims.ID)
			if revoked {
				return nil, echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
			}
			return claims, nil
		},
	}))

	secured.POST("/users/logout", authHandler.Logout)
	secured.GET("/users/me", userHandler.Me)
	secured.PATCH("/users/me", userHandler.UpdateMe)

	secured.GET("/tags", tagHandler.List)
	secured.POST("/tags", tagHandler.Create)
	secured.GET("/tags/:id", tagHandler.Get)
	secured.PATCH("/tags/:id", tagHandler.Update)
	secured.DELETE("/tags/:id", tagHandler.Delete)

	secured.GET("/ingredients", ingredientHandler.List)
	secured.POST("/ingredients", ingredientHandler.Create)
	secured.GET("/ingredients/:id", ingredientHandler.Get)
	secured.PATCH("/ingredients/:id", ingredientHandler.Update)
	secured.DELETE("/ingredients/:id", ingredientHandler.Delete)

	secured.GET("/recipes", recipeHandler.List)
	secured.POST("/recipes", recipeHandler.Create)
	secured.GET("/recipes/:id", recipeHandler.Get)
	secured.PUT("/recipes/:id", recipeHandler.Replace)
	secured.PATCH("/recipes/:id", recipeHandler.Patch)
	secured.DELETE("/recipes/:id", recipeHandler.Delete)
	secured.POST("/recipes/:id/upload-image", recipeHandler.UploadImage)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
