package credentials

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// RegisterAuthRoutes mounts the credential endpoints on the given router.
// The guard middleware protects logout and the dashboard; signup and login
// stay open.
func RegisterAuthRoutes[T any](app router.Router[T], guard router.MiddlewareFunc, opts ...AuthControllerOption) {

	controller := NewAuthController(opts...)

	app.
		Post(controller.Routes.Signup, controller.SignupPost).
		SetName("auth.signup.post")

	app.
		Post(controller.Routes.Login, controller.LoginPost).
		SetName("auth.login.post")

	app.
		Post(controller.Routes.Logout, controller.LogoutPost, guard).
		SetName("auth.logout.post")

	app.
		Get(controller.Routes.Dashboard, controller.DashboardShow, guard).
		SetName("auth.dashboard.get")
}

type AuthControllerRoutes struct {
	Signup    string
	Login     string
	Logout    string
	Dashboard string
}

type AuthController struct {
	Debug        bool
	Logger       Logger
	Service      *Service
	Routes       *AuthControllerRoutes
	ErrorHandler router.ErrorHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:       defLogger{},
		ErrorHandler: defaultErrHandler,
		Routes: &AuthControllerRoutes{
			Signup:    "/auth/signup",
			Login:     "/auth/login",
			Logout:    "/auth/logout",
			Dashboard: "/dashboard",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Service == nil {
		panic("Missing Service in auth controller...")
	}

	return c
}

// WithControllerService sets the credential service backing the handlers.
func WithControllerService(svc *Service) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Service = svc
		return c
	}
}

// WithControllerLogger sets the controller logger.
func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// WithControllerErrorHandler overrides the error response mapping.
func WithControllerErrorHandler(handler router.ErrorHandler) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if handler != nil {
			c.ErrorHandler = handler
		}
		return c
	}
}

// WithControllerDebug toggles request payload logging.
func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func (a *AuthController) SignupPost(ctx router.Context) error {
	payload := new(SignupRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("signup parse payload: ", "error", err)
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"message": "Error parsing body",
		})
	}

	if a.Debug {
		fmt.Println(print.MaybePrettyJSON(payload))
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("signup validate payload: ", "error", err)
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"message":    "Error validating payload",
			"validation": FormatValidationErrorToMap(err),
		})
	}

	ack, err := a.Service.Signup(ctx.Context(), *payload)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, ack)
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: ", "error", err)
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"message": "Error parsing body",
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("login validate payload: ", "error", err)
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"message":    "Error validating payload",
			"validation": FormatValidationErrorToMap(err),
		})
	}

	res, err := a.Service.Login(ctx.Context(), *payload)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, res)
}

func (a *AuthController) LogoutPost(ctx router.Context) error {
	return ctx.JSON(router.StatusOK, a.Service.Logout(ctx.Context()))
}

func (a *AuthController) DashboardShow(ctx router.Context) error {
	claims, ok := GetClaims(ctx.Context())
	if !ok {
		claims, ok = GetRouterClaims(ctx, "")
	}
	if !ok {
		return a.ErrorHandler(ctx, ErrTokenMalformed)
	}

	users, err := a.Service.ListUsers(ctx.Context())
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"message": "Welcome " + claims.Email(),
		"users":   users,
	})
}

// FormatValidationErrorToMap flattens an ozzo validation error into a
// field to message map suitable for a JSON response body.
func FormatValidationErrorToMap(err error) map[string]string {
	out := map[string]string{}
	if err == nil {
		return out
	}

	if verrs, ok := err.(validation.Errors); ok {
		for field, ferr := range verrs {
			if ferr != nil {
				out[field] = ferr.Error()
			}
		}
		return out
	}

	out["error"] = err.Error()
	return out
}

func defaultErrHandler(c router.Context, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return c.JSON(router.StatusInternalServerError, map[string]any{
			"message": err.Error(),
		})
	}

	body := map[string]any{
		"message": richErr.Message,
	}

	if richErr.TextCode != "" {
		body["code"] = richErr.TextCode
	}

	if field, ok := richErr.Metadata["field"]; ok {
		body["field"] = field
	}

	return c.JSON(errorStatus(richErr), body)
}

func errorStatus(err *goerrors.Error) int {
	if err.Code > 0 {
		return int(err.Code)
	}

	switch err.Category {
	case goerrors.CategoryAuth:
		return router.StatusUnauthorized
	case goerrors.CategoryConflict:
		return router.StatusConflict
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return router.StatusBadRequest
	case goerrors.CategoryNotFound:
		return router.StatusNotFound
	default:
		return router.StatusInternalServerError
	}
}
