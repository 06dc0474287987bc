package vecino

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"
)

func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {
	controller := NewAuthController(opts...)

	app.
		Get(controller.Routes.Login, controller.LoginShow).
		SetName("sign-in.get")

	app.
		Post(controller.Routes.Login, controller.LoginPost).
		SetName("sign-in.post")

	app.Get(controller.Routes.Logout, controller.LogOut).SetName("sign-out.get")

	app.Get(controller.Routes.Unauthorized, controller.UnauthorizedShow).
		SetName("unauthorized.get")
}

type AuthControllerRoutes struct {
	Login        string
	Logout       string
	Unauthorized string
}

type AuthControllerViews struct {
	Login        string
	Unauthorized string
}

type AuthController struct {
	Debug        bool
	Logger       Logger
	Client       IdentityClient
	Guard        *RouteGuard
	Routes       *AuthControllerRoutes
	Views        *AuthControllerViews
	RedirectKey  string
	ErrorHandler router.ErrorHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:       defLogger{},
		ErrorHandler: defaultErrHandler,
		RedirectKey:  "redirect",
		Routes: &AuthControllerRoutes{
			Login:        "/login",
			Logout:       "/logout",
			Unauthorized: "/unauthorized",
		},
		Views: &AuthControllerViews{
			Login:        "login",
			Unauthorized: "unauthorized",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Client == nil {
		panic("Missing IdentityClient in auth controller...")
	}

	if c.Guard == nil {
		panic("Missing RouteGuard in auth controller...")
	}

	return c
}

func WithAuthClient(client IdentityClient) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Client = client
		return c
	}
}

func WithAuthGuard(guard *RouteGuard) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Guard = guard
		return c
	}
}

func WithAuthLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func (a *AuthController) LoginShow(ctx router.Context) error {
	return ctx.Render(a.Views.Login, router.ViewContext{
		"errors":   nil,
		"record":   nil,
		"redirect": a.safeRedirect(ctx.Query(a.RedirectKey, "")),
	})
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	Redirect string `form:"redirect" json:"redirect"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)
	errs := map[string]string{}

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: %v", err)
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.Render(a.Views.Login, router.ViewContext{
			"record":     payload,
			"redirect":   a.safeRedirect(payload.Redirect),
			"validation": FormatValidationErrorToMap(err),
		})
	}

	session, _, err := a.Client.SignInWithPassword(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		a.Logger.Info("login rejected for %s: %v", payload.Email, err)
		errs["authentication"] = "Invalid email or password"
		return ctx.Render(a.Views.Login, router.ViewContext{
			"errors":   errs,
			"record":   payload,
			"redirect": a.safeRedirect(payload.Redirect),
		})
	}

	a.Guard.SetSessionCookies(ctx, session)

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Welcome back",
	}).Redirect(a.safeRedirect(payload.Redirect), fiber.StatusSeeOther)
}

func (a *AuthController) LogOut(ctx router.Context) error {
	session, _ := SessionFromRouter(ctx)

	if err := a.Client.SignOut(ctx.Context(), session); err != nil {
		// cookies are cleared regardless, the local session is over
		a.Logger.Error("sign out revocation failed: %v", err)
	}

	a.Guard.ClearSessionCookies(ctx)

	return ctx.Redirect("/", fiber.StatusSeeOther)
}

func (a *AuthController) UnauthorizedShow(ctx router.Context) error {
	return ctx.Status(fiber.StatusForbidden).Render(a.Views.Unauthorized, router.ViewContext{
		"current_user": ctx.Locals(LocalsUserKey),
	})
}

// safeRedirect keeps post-login redirects on this site. Anything that
// is not a local absolute path falls back to the home page.
func (a *AuthController) safeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return "/"
	}
	return target
}

func defaultErrHandler(c router.Context, err error) error {
	return c.Render("errors/500", router.ViewContext{
		"message": err.Error(),
	})
}
