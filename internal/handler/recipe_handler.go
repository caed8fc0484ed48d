package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"recipebox/internal/errors"
	"recipebox/internal/model"
	"recipebox/internal/repository"
	"recipebox/internal/service"
)

// RecipeHandler handles recipe endpoints.
type RecipeHandler struct {
	recipeService service.RecipeService
}

// NewRecipeHandler creates a new recipe handler.
func NewRecipeHandler(recipeService service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

// RecipeRequest carries the full mutable field set, used for create and PUT.
// A PUT that omits tags or ingredients clears those associations.
type RecipeRequest struct {
	Title         string          `json:"title" validate:"required"`
	TimeMinutes   int             `json:"time_minutes" validate:"gte=0"`
	Price         decimal.Decimal `json:"price"`
	TagIDs        []uint          `json:"tags"`
	IngredientIDs []uint          `json:"ingredients"`
}

// RecipePatchRequest carries an explicit partial update for PATCH. Omitted
// fields, including the association lists, are left untouched.
type RecipePatchRequest struct {
	Title         *string          `json:"title"`
	TimeMinutes   *int             `json:"time_minutes"`
	Price         *decimal.Decimal `json:"price"`
	TagIDs        *[]uint          `json:"tags"`
	IngredientIDs *[]uint          `json:"ingredients"`
}

// RecipeSummary is the list-view representation: associations appear as ID
// lists only, the detail view nests full objects.
type RecipeSummary struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	TimeMinutes int             `json:"time_minutes"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	Tags        []uint          `json:"tags"`
	Ingredients []uint          `json:"ingredients"`
}

func newRecipeSummary(recipe *model.Recipe) RecipeSummary {
	tagIDs := make([]uint, 0, len(recipe.Tags))
	for _, t := range recipe.Tags {
		tagIDs = append(tagIDs, t.ID)
	}
	ingredientIDs := make([]uint, 0, len(recipe.Ingredients))
	for _, i := range recipe.Ingredients {
		ingredientIDs = append(ingredientIDs, i.ID)
	}
	return RecipeSummary{
		ID:          recipe.ID,
		Title:       recipe.Title,
		TimeMinutes: recipe.TimeMinutes,
		Price:       recipe.Price,
		Image:       recipe.Image,
		Tags:        tagIDs,
		Ingredients: ingredientIDs,
	}
}

// List godoc
// @Summary List the caller's recipes
// @Tags recipes
// @Produce json
// @Security BearerAuth
// @Param tags query string false "Comma-separated tag IDs"
// @Param ingredients query string false "Comma-separated ingredient IDs"
// @Success 200 {array} RecipeSummary
// @Failure 401 {object} errors.ErrorResponse
// @Router /recipes [get]
func (h *RecipeHandler) List(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	filter := repository.RecipeFilter{
		TagIDs:        parseIDList(c.QueryParam("tags")),
		IngredientIDs: parseIDList(c.QueryParam("ingredients")),
	}

	recipes, err := h.recipeService.List(c.Request().Context(), claims.UserID, filter)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	summaries := make([]RecipeSummary, 0, len(recipes))
	for i := range recipes {
		summaries = append(summaries, newRecipeSummary(&recipes[i]))
	}
	return c.JSON(http.StatusOK, summaries)
}

// Create godoc
// @Summary Create a recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RecipeRequest true "Recipe fields"
// @Success 201 {object} model.Recipe
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /recipes [post]
func (h *RecipeHandler) Create(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}

	var req RecipeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	recipe, err := h.recipeService.Create(c.Request().Context(), claims.UserID, toRecipeInput(req))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, recipe)
}

// Get godoc
// @Summary Get one of the caller's recipes with nested tags and ingredients
// @Tags recipes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 200 {object} model.Recipe
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipes/{id} [get]
func (h *RecipeHandler) Get(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	recipe, err := h.recipeService.Get(c.Request().Context(), claims.UserID, id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, recipe)
}

// Replace godoc
// @Summary Fully update one of the caller's recipes
// @Tags recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Param request body RecipeRequest true "Complete recipe fields"
// @Success 200 {object} model.Recipe
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipes/{id} [put]
func (h *RecipeHandler) Replace(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req RecipeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	recipe, err := h.recipeService.Replace(c.Request().Context(), claims.UserID, id, toRecipeInput(req))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, recipe)
}

// Patch godoc
// @Summary Partially update one of the caller's recipes
// @Tags recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Param request body RecipePatchRequest true "Fields to change"
// @Success 200 {object} model.Recipe
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipes/{id} [patch]
func (h *RecipeHandler) Patch(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req RecipePatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	patch := service.RecipePatch{
		Title:         req.Title,
		TimeMinutes:   req.TimeMinutes,
		Price:         req.Price,
		TagIDs:        req.TagIDs,
		IngredientIDs: req.IngredientIDs,
	}
	recipe, err := h.recipeService.Patch(c.Request().Context(), claims.UserID, id, patch)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, recipe)
}

// Delete godoc
// @Summary Delete one of the caller's recipes and its image
// @Tags recipes
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipes/{id} [delete]
func (h *RecipeHandler) Delete(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.recipeService.Delete(c.Request().Context(), claims.UserID, id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadImage godoc
// @Summary Attach an image to one of the caller's recipes
// @Tags recipes
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Param image formData file true "Image file"
// @Success 200 {object} model.Recipe
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /recipes/{id}/upload-image [post]
func (h *RecipeHandler) UploadImage(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "image file is required",
			Code:  "IMAGE_REQUIRED",
		})
	}
	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable upload")
	}
	defer src.Close()

	recipe, err := h.recipeService.UploadImage(c.Request().Context(), claims.UserID, id, fileHeader.Filename, src)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, recipe)
}

func toRecipeInput(req RecipeRequest) service.RecipeInput {
	return service.RecipeInput{
		Title:         req.Title,
		TimeMinutes:   req.TimeMinutes,
		Price:         req.Price,
		TagIDs:        req.TagIDs,
		IngredientIDs: req.IngredientIDs,
	}
}

// parseIDList parses a comma-separated ID list, skipping malformed entries.
func parseIDList(raw string) []uint {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}
