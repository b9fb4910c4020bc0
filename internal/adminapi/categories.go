package adminapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/farmanet/asisbot/internal/domain"
	"github.com/farmanet/asisbot/internal/webserver"
	"github.com/farmanet/asisbot/pkg/common"
)

type categoryPayload struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// registerCategoryRoutes registers category CRUD endpoints
func registerCategoryRoutes() {
	webserver.ApiGET("/categories", listCategories)
	webserver.ApiPOST("/categories", createCategory)
	webserver.ApiPUT("/categories/:id", updateCategory)
	webserver.ApiDELETE("/categories/:id", deleteCategory)
}

func listCategories(c echo.Context) error {
	var rows []domain.Category
	if err := GetDB(c).Order("name ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	return ok(c, rows)
}

func bindCategoryPayload(c echo.Context) (string, error) {
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return "", fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return "", fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid category payload", err.Error())
	}
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		return "", fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
	}
	return name, nil
}

func createCategory(c echo.Context) error {
	name, berr := bindCategoryPayload(c)
	if name == "" {
		return berr
	}

	// Names are unique
	var count int64
	GetDB(c).Model(&domain.Category{}).Where("name = ?", name).Count(&count)
	if count > 0 {
		return fail(c, http.StatusBadRequest, "DUPLICATE_NAME", "A category with that name already exists", nil)
	}

	now := time.Now()
	category := domain.Category{
		ID:        common.UUIDint64(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := GetDB(c).Create(&category).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create category", err.Error())
	}
	return c.JSON(http.StatusCreated, webResult{Code: 0, Data: category})
}

func updateCategory(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	var category domain.Category
	if err := GetDB(c).Where("id = ?", id).First(&category).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Category not found", nil)
	}

	name, berr := bindCategoryPayload(c)
	if name == "" {
		return berr
	}

	var count int64
	GetDB(c).Model(&domain.Category{}).Where("name = ? AND id <> ?", name, id).Count(&count)
	if count > 0 {
		return fail(c, http.StatusBadRequest, "DUPLICATE_NAME", "A category with that name already exists", nil)
	}

	category.Name = name
	category.UpdatedAt = time.Now()
	if err := GetDB(c).Save(&category).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update category", err.Error())
	}
	return ok(c, category)
}

func deleteCategory(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}

	// Deleting a category still referenced by products is refused
	var productsCount int64
	GetDB(c).Model(&domain.Product{}).Where("category_id = ?", id).Count(&productsCount)
	if productsCount > 0 {
		return fail(c, http.StatusBadRequest, "CATEGORY_IN_USE",
			fmt.Sprintf("Category has %d associated product(s)", productsCount), nil)
	}

	result := GetDB(c).Where("id = ?", id).Delete(&domain.Category{})
	if result.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete category", result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Category not found", nil)
	}
	return c.NoContent(http.StatusNoContent)
}
