package adminapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"github.com/farmanet/asisbot/internal/assistant"
	"github.com/farmanet/asisbot/internal/domain"
	"github.com/farmanet/asisbot/internal/webserver"
)

// registerConversationRoutes registers the chat audit endpoints
func registerConversationRoutes() {
	webserver.ApiGET("/conversations", listConversations)
	webserver.ApiGET("/conversations/export", exportConversations)
}

// parseTimeRange reads optional start/end query params in any common
// date format.
func parseTimeRange(c echo.Context) (start, end time.Time, err error) {
	if s := strings.TrimSpace(c.QueryParam("start")); s != "" {
		start, err = dateparse.ParseAny(s)
		if err != nil {
			return start, end, fmt.Errorf("invalid start date %q", s)
		}
	}
	if s := strings.TrimSpace(c.QueryParam("end")); s != "" {
		end, err = dateparse.ParseAny(s)
		if err != nil {
			return start, end, fmt.Errorf("invalid end date %q", s)
		}
	}
	return start, end, nil
}

func listConversations(c echo.Context) error {
	page, pageSize := parsePagination(c)
	start, end, err := parseTimeRange(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	repo := assistant.NewGormConversationRepository(GetDB(c))
	rows, total, err := repo.List(c.Request().Context(), start, end, page, pageSize)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query conversations", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

// exportConversations streams the (filtered) audit trail as an xlsx
// workbook.
func exportConversations(c echo.Context) error {
	start, end, err := parseTimeRange(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	db := GetDB(c).Model(&domain.Conversation{})
	if !start.IsZero() {
		db = db.Where("created_at >= ?", start)
	}
	if !end.IsZero() {
		db = db.Where("created_at <= ?", end)
	}

	var rows []domain.Conversation
	if err := db.Order("created_at ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query conversations", err.Error())
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Sheet1"
	headers := []string{"ID", "User Message", "Bot Response", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for i, row := range rows {
		values := []interface{}{row.ID, row.UserMessage, row.BotResponse, row.CreatedAt.Format(time.RFC3339)}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("conversations-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response())
}
