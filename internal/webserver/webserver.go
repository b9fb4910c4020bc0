package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"go.uber.org/zap"

	"github.com/farmanet/asisbot/internal/app"
)

// AppContextKey is the echo context key holding the AppContext.
const AppContextKey = "appctx"

// jwtSkipPaths are /api routes served without a token: the operator
// login and the public storefront chat endpoint.
var jwtSkipPaths = map[string]bool{
	"/api/login": true,
	"/api/chat":  true,
}

type WebServer struct {
	appctx app.AppContext
	root   *echo.Echo
	api    *echo.Group
}

var server *WebServer

// Init builds the echo server and route groups. Handlers are attached
// afterwards by the api packages through ApiGET/ApiPOST/...
func Init(appctx app.AppContext) *WebServer {
	s := &WebServer{appctx: appctx}
	s.initRouter()
	server = s
	return s
}

func (s *WebServer) initRouter() {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.ERROR)
	e.Validator = NewValidator()
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(AppContextKey, s.appctx)
			return next(c)
		}
	})
	e.Use(requestLogger)

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "API funcionando")
	})

	api := e.Group("/api")
	api.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(s.appctx.Config().Web.Secret),
		Skipper: func(c echo.Context) bool {
			return jwtSkipPaths[c.Path()]
		},
	}))

	s.root = e
	s.api = api
}

func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		zap.L().Debug("http request",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", c.Response().Status),
			zap.Duration("elapsed", time.Since(start)))
		return err
	}
}

// Listen starts the web server and blocks until it stops.
func Listen() error {
	cfg := server.appctx.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	zap.S().Infof("web server listening on %s", addr)
	err := server.root.Start(addr)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the web server gracefully.
func Shutdown(ctx context.Context) error {
	if server == nil {
		return nil
	}
	return server.root.Shutdown(ctx)
}

// Echo exposes the underlying router (used in tests).
func Echo() *echo.Echo {
	return server.root
}

func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}
