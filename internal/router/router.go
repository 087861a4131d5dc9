package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"profileauth/docs"
	"profileauth/internal/auth"
	"profileauth/internal/config"
	apperrors "profileauth/internal/errors"
	"profileauth/internal/handler"
	"profileauth/internal/logger"
)

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	tokens TokenValidator,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				logger.Warningf("%s %s %d %s: %v", v.Method, v.URI, v.Status, v.Latency, v.Error)
				return nil
			}
			logger.Infof("%s %s %d %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}
	e.JSONSerializer = &JSONSerializer{}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/Auth/register", authHandler.Register)
	api.POST("/Auth/login", authHandler.Login)

	// Secured routes (require a bearer token)
	secured := api.Group("/User", echojwt.WithConfig(bearerConfig(tokens)))
	secured.GET("/profile", userHandler.GetProfile)
	secured.PUT("/profile", userHandler.UpdateProfile)
	secured.POST("/profilepicture", userHandler.UploadProfilePicture)
	secured.DELETE("/profilepicture", userHandler.DeleteProfilePicture)
	secured.GET("/profilepicture", userHandler.GetProfilePicture)
}

// bearerConfig validates the Authorization bearer token once per request and
// stores the resulting auth.Identity for handlers.
func bearerConfig(tokens TokenValidator) echojwt.Config {
	return echojwt.Config{
		ContextKey:  handler.IdentityContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := tokens.Validate(token)
			if err != nil {
				return nil, err
			}
			return auth.IdentityFromClaims(claims), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			logger.Debugf("bearer rejected: %v", err)
			mapped := apperrors.MapErrorToHTTP(apperrors.ErrUnauthorized)
			return echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse())
		},
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
