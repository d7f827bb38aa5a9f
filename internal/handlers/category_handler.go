package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "pocketledger/internal/errors"
	"pocketledger/internal/models"
	"pocketledger/internal/services"
)

// CategoryHandler handles category-related requests.
type CategoryHandler struct {
	categoryService services.CategoryServicer
	auditService    services.AuditServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService services.CategoryServicer, auditService services.AuditServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, auditService: auditService}
}

// CreateCategoryRequest represents the request payload for creating a category.
type CreateCategoryRequest struct {
	Name  string              `json:"name" binding:"required,max=100"`
	Kind  models.CategoryKind `json:"kind" binding:"required,category_kind"`
	Color string              `json:"color" binding:"omitempty,hex_color"`
}

// UpdateCategoryRequest represents the request payload for updating a category.
type UpdateCategoryRequest struct {
	Kind  *models.CategoryKind `json:"kind" binding:"omitempty,category_kind"`
	Color *string              `json:"color" binding:"omitempty,hex_color"`
}

// CreateCategory handles POST /categories.
// @Summary     Create a category
// @Description Create a new income or expense category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       request body CreateCategoryRequest true "Category details"
// @Success     201 {object} map[string]models.Category "Category created"
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     409 {object} middleware.ErrorBody "Conflict"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.CreateCategory(services.CategoryInput{
		Name:  req.Name,
		Kind:  req.Kind,
		Color: req.Color,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("CREATE_CATEGORY", "category", category.Name,
		map[string]any{"kind": category.Kind, "color": category.Color})

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// ListCategories handles GET /categories, optionally filtered by ?kind=.
// @Summary     List categories
// @Tags        categories
// @Produce     json
// @Param       kind query string false "Filter by kind (income, expense)"
// @Success     200 {object} map[string][]models.Category
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	kind := models.CategoryKind(c.Query("kind"))
	if kind != "" && !kind.Valid() {
		respondWithError(c, apperrors.Invalid("kind", kind, "kind must be income or expense"))
		return
	}

	categories, err := h.categoryService.ListCategories(kind)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategory handles GET /categories/:name.
// @Summary     Get a category
// @Tags        categories
// @Produce     json
// @Param       name path string true "Category name"
// @Success     200 {object} map[string]models.Category
// @Failure     404 {object} middleware.ErrorBody "Not found"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /categories/{name} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := h.categoryService.GetCategory(c.Param("name"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// UpdateCategory handles PUT /categories/:name.
// @Summary     Update a category
// @Description Change the kind or color of a category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       name path string true "Category name"
// @Param       request body UpdateCategoryRequest true "Category changes"
// @Success     200 {object} map[string]models.Category
// @Failure     400 {object} middleware.ErrorBody "Invalid input"
// @Failure     404 {object} middleware.ErrorBody "Not found"
// @Failure     409 {object} middleware.ErrorBody "Conflict"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /categories/{name} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var req UpdateCategoryRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	name := c.Param("name")
	category, err := h.categoryService.UpdateCategory(name, services.CategoryChanges{
		Kind:  req.Kind,
		Color: req.Color,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("UPDATE_CATEGORY", "category", name,
		map[string]any{"kind": category.Kind, "color": category.Color})

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory handles DELETE /categories/:name. Categories still used by a
// transaction or budget are rejected with CATEGORY_IN_USE.
// @Summary     Delete a category
// @Tags        categories
// @Produce     json
// @Param       name path string true "Category name"
// @Success     200 {object} map[string]string "Category deleted"
// @Failure     404 {object} middleware.ErrorBody "Not found"
// @Failure     409 {object} middleware.ErrorBody "Conflict"
// @Failure     500 {object} middleware.ErrorBody "Server error"
// @Router      /categories/{name} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	name := c.Param("name")
	if err := h.categoryService.DeleteCategory(name); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("DELETE_CATEGORY", "category", name, nil)

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
