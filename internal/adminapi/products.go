package adminapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/farmanet/asisbot/internal/domain"
	"github.com/farmanet/asisbot/internal/webserver"
	"github.com/farmanet/asisbot/pkg/common"
)

type productPayload struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"max=2000"`
	CategoryId  int64   `json:"category_id,string" validate:"required"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Price       float64 `json:"price" validate:"gte=0"`
	ImageUrl    string  `json:"image_url" validate:"omitempty,max=1024"`
}

// registerProductRoutes registers product CRUD endpoints
func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
	webserver.ApiPOST("/products/import", importProducts)
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	// Sorting: field and order, whitelisted to avoid SQL injection
	sortField := strings.TrimSpace(c.QueryParam("sort"))
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	allowed := map[string]string{
		"id":         "id",
		"name":       "name",
		"price":      "price",
		"stock":      "stock",
		"created_at": "created_at",
	}
	sortCol, found := allowed[sortField]
	if !found || sortCol == "" {
		sortCol = "name"
	}

	db := GetDB(c).Model(&domain.Product{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") {
			db = db.Where("name ILIKE ? OR description ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?",
				"%"+strings.ToLower(q)+"%", "%"+strings.ToLower(q)+"%")
		}
	}
	if cid, err := strconv.ParseInt(c.QueryParam("category_id"), 10, 64); err == nil && cid > 0 {
		db = db.Where("category_id = ?", cid)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	var rows []domain.Product
	if err := db.Preload("Category").Order(sortCol + " " + order).
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	return paged(c, rows, total, page, pageSize)
}

func getProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Preload("Category").Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, p)
}

func bindProductPayload(c echo.Context) (*productPayload, error) {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return nil, fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return nil, fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid product payload", err.Error())
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return nil, fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Name is required", nil)
	}

	// Every product needs an existing category
	var count int64
	GetDB(c).Model(&domain.Category{}).Where("id = ?", payload.CategoryId).Count(&count)
	if count == 0 {
		return nil, fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Category does not exist", nil)
	}
	return &payload, nil
}

func createProduct(c echo.Context) error {
	payload, err := bindProductPayload(c)
	if payload == nil {
		return err
	}

	now := time.Now()
	p := domain.Product{
		ID:          common.UUIDint64(),
		Name:        payload.Name,
		Description: strings.TrimSpace(payload.Description),
		CategoryID:  payload.CategoryId,
		Stock:       payload.Stock,
		Price:       payload.Price,
		ImageUrl:    strings.TrimSpace(payload.ImageUrl),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}
	return ok(c, p)
}

func updateProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}

	payload, berr := bindProductPayload(c)
	if payload == nil {
		return berr
	}

	p.Name = payload.Name
	p.Description = strings.TrimSpace(payload.Description)
	p.CategoryID = payload.CategoryId
	p.Stock = payload.Stock
	p.Price = payload.Price
	p.ImageUrl = strings.TrimSpace(payload.ImageUrl)
	p.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	result := GetDB(c).Where("id = ?", id).Delete(&domain.Product{})
	if result.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return c.NoContent(http.StatusNoContent)
}
