package adminapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/farmanet/asisbot/internal/app"
	"github.com/farmanet/asisbot/internal/webserver"
)

// InitRouter attaches every admin api route to the web server.
func InitRouter() {
	registerAuthRoutes()
	registerProductRoutes()
	registerCategoryRoutes()
	registerConversationRoutes()
	registerStatsRoutes()
}

// GetAppCtx pulls the application context injected by the web server.
func GetAppCtx(c echo.Context) app.AppContext {
	appctx, _ := c.Get(webserver.AppContextKey).(app.AppContext)
	return appctx
}

// GetDB returns the request scoped database handle.
func GetDB(c echo.Context) *gorm.DB {
	return GetAppCtx(c).DB()
}

type webResult struct {
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	Detail  interface{} `json:"detail,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type pagedResult struct {
	Code     int         `json:"code"`
	Data     interface{} `json:"data"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(200, webResult{Code: 0, Data: data})
}

func fail(c echo.Context, status int, code string, message string, detail interface{}) error {
	return c.JSON(status, webResult{Code: 1, Message: code + ": " + message, Detail: detail})
}

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(200, pagedResult{Code: 0, Data: rows, Total: total, Page: page, PageSize: pageSize})
}

func parsePagination(c echo.Context) (page int, pageSize int) {
	page = 1
	pageSize = 20
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(c.QueryParam("pageSize")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}
