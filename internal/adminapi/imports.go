package adminapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/farmanet/asisbot/internal/domain"
	"github.com/farmanet/asisbot/pkg/common"
)

// productCSVRow is one line of a catalog import file. Categories are
// referenced by name and created on demand.
type productCSVRow struct {
	Name        string  `csv:"name"`
	Description string  `csv:"description"`
	Category    string  `csv:"category"`
	Stock       int     `csv:"stock"`
	Price       float64 `csv:"price"`
	ImageUrl    string  `csv:"image_url"`
}

type importReport struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// importProducts upserts catalog rows from an uploaded CSV file,
// matching existing products by name.
func importProducts(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Missing file upload", err.Error())
	}
	src, err := fh.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to open upload", err.Error())
	}
	defer src.Close()

	var rows []*productCSVRow
	if err := gocsv.Unmarshal(src, &rows); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_CSV", "Unable to parse CSV", err.Error())
	}

	db := GetDB(c)
	report := importReport{}
	categoryIDs := make(map[string]int64)

	for i, row := range rows {
		name := strings.TrimSpace(row.Name)
		catName := strings.TrimSpace(row.Category)
		if common.IsEmptyOrNA(name) || common.IsEmptyOrNA(catName) {
			report.Skipped++
			report.Errors = append(report.Errors, rowError(i, "name and category are required"))
			continue
		}
		if row.Stock < 0 || row.Price < 0 {
			report.Skipped++
			report.Errors = append(report.Errors, rowError(i, "stock and price must not be negative"))
			continue
		}

		cid, found := categoryIDs[catName]
		if !found {
			var category domain.Category
			err := db.Where("name = ?", catName).First(&category).Error
			if err != nil {
				category = domain.Category{ID: common.UUIDint64(), Name: catName}
				if err := db.Create(&category).Error; err != nil {
					report.Skipped++
					report.Errors = append(report.Errors, rowError(i, "failed to create category"))
					continue
				}
			}
			cid = category.ID
			categoryIDs[catName] = cid
		}

		var existing domain.Product
		err := db.Where("name = ?", name).First(&existing).Error
		if err != nil {
			now := time.Now()
			product := domain.Product{
				ID:          common.UUIDint64(),
				Name:        name,
				Description: strings.TrimSpace(row.Description),
				CategoryID:  cid,
				Stock:       row.Stock,
				Price:       row.Price,
				ImageUrl:    strings.TrimSpace(row.ImageUrl),
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := db.Create(&product).Error; err != nil {
				report.Skipped++
				report.Errors = append(report.Errors, rowError(i, "failed to create product"))
				continue
			}
			report.Created++
			continue
		}

		existing.Description = strings.TrimSpace(row.Description)
		existing.CategoryID = cid
		existing.Stock = row.Stock
		existing.Price = row.Price
		existing.ImageUrl = strings.TrimSpace(row.ImageUrl)
		existing.UpdatedAt = time.Now()
		if err := db.Save(&existing).Error; err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, rowError(i, "failed to update product"))
			continue
		}
		report.Updated++
	}

	zap.L().Info("catalog import finished",
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("skipped", report.Skipped))
	return ok(c, report)
}

func rowError(index int, msg string) string {
	return "row " + strconv.Itoa(index+2) + ": " + msg // +2 accounts for the header line
}
