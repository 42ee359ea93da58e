package webserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/lledoind/aerotools/internal/app"
)

// WebServer wraps the echo instance serving the admin and public API.
type WebServer struct {
	root   *echo.Echo
	appCtx app.AppContext
}

var server *WebServer

// CustomValidator bridges go-playground/validator into echo's Validate.
type CustomValidator struct {
	validate *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validate.Struct(i)
}

func Init(appCtx app.AppContext) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &CustomValidator{validate: validator.New()}
	e.Use(middleware.Recover())
	e.Use(zapLoggerMiddleware())
	e.Use(dbMiddleware(appCtx))

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		message := "internal server error"
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			message = fmt.Sprintf("%v", he.Message)
		}
		zap.L().Error("http error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err))
		_ = c.JSON(code, map[string]interface{}{
			"code": code,
			"msg":  message,
		})
	}

	server = &WebServer{root: e, appCtx: appCtx}
	return server
}

// dbMiddleware injects the database handle so handlers stay decoupled from
// the application container.
func dbMiddleware(appCtx app.AppContext) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("db", appCtx.DB())
			return next(c)
		}
	}
}

func zapLoggerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			zap.L().Debug("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)))
			return err
		}
	}
}

// Listen starts the HTTP listener. Blocks until the server stops.
func (s *WebServer) Listen() error {
	cfg := s.appCtx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.S().Infof("starting web server on %s", addr)
	return s.root.Start(addr)
}

// Shutdown is a passthrough to echo's Close for graceful stops.
func (s *WebServer) Shutdown() error {
	return s.root.Close()
}

// ApiGET registers a GET route under the /api prefix.
func ApiGET(path string, h echo.HandlerFunc) {
	server.root.GET("/api"+path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.root.POST("/api"+path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.root.PUT("/api"+path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.root.DELETE("/api"+path, h)
}
