package vecino

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"
	"github.com/google/uuid"
)

func RegisterVisitorRoutes[T any](app router.Router[T], opts ...VisitorControllerOption) {
	controller := NewVisitorController(opts...)

	app.Get("/visitors", controller.Index).SetName("visitors.index")
	app.Get("/visitors/preregister", controller.PreregisterShow).SetName("visitors.new")
	app.Post("/visitors/preregister", controller.PreregisterCreate).SetName("visitors.create")
	app.Post("/visitors/cancel", controller.Cancel).SetName("visitors.cancel")
}

type VisitorControllerViews struct {
	Index       string
	Preregister string
}

// VisitorController is the resident-facing surface: list your expected
// visitors, announce a new one, withdraw a registration. These routes
// sit outside the admin prefix so each handler checks the role itself.
type VisitorController struct {
	Logger       Logger
	Repo         RepositoryManager
	Views        *VisitorControllerViews
	ErrorHandler router.ErrorHandler
}

type VisitorControllerOption func(*VisitorController) *VisitorController

func NewVisitorController(opts ...VisitorControllerOption) *VisitorController {
	c := &VisitorController{
		Logger:       defLogger{},
		ErrorHandler: defaultErrHandler,
		Views: &VisitorControllerViews{
			Index:       "visitors/index",
			Preregister: "visitors/preregister",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in visitor controller...")
	}

	return c
}

func WithVisitorRepo(repo RepositoryManager) VisitorControllerOption {
	return func(c *VisitorController) *VisitorController {
		c.Repo = repo
		return c
	}
}

func WithVisitorLogger(logger Logger) VisitorControllerOption {
	return func(c *VisitorController) *VisitorController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// requireResident resolves the acting resident or redirects to login.
func (a *VisitorController) requireResident(ctx router.Context) (uuid.UUID, bool, error) {
	identity, ok := IdentityFromRouter(ctx)
	if !ok {
		return uuid.Nil, false, ctx.Redirect("/login?redirect="+ctx.Path(), fiber.StatusSeeOther)
	}

	if !RoleFromRouter(ctx).CanPreregisterVisitors() {
		return uuid.Nil, false, ctx.Redirect("/unauthorized", fiber.StatusSeeOther)
	}

	id, err := uuid.Parse(identity.ID())
	if err != nil {
		a.Logger.Error("invalid user id in verified identity: %v", err)
		return uuid.Nil, false, a.ErrorHandler(ctx, err)
	}

	return id, true, nil
}

func (a *VisitorController) Index(ctx router.Context) error {
	residentID, ok, err := a.requireResident(ctx)
	if !ok {
		return err
	}

	records, err := a.Repo.Visitors().ListForResident(ctx.Context(), residentID)
	if err != nil {
		a.Logger.Error("visitor list error: %v", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.Render(a.Views.Index, router.ViewContext{
		"records": records,
	})
}

func (a *VisitorController) PreregisterShow(ctx router.Context) error {
	if _, ok, err := a.requireResident(ctx); !ok {
		return err
	}

	return ctx.Render(a.Views.Preregister, router.ViewContext{
		"errors": nil,
		"record": nil,
	})
}

// PreregisterPayload is the registration form
type PreregisterPayload struct {
	VisitorName  string `form:"visitor_name" json:"visitor_name"`
	VisitorPhone string `form:"visitor_phone" json:"visitor_phone"`
	ExpectedDate string `form:"expected_date" json:"expected_date"`
	ExpectedTime string `form:"expected_time" json:"expected_time"`
	VehiclePlate string `form:"vehicle_plate" json:"vehicle_plate"`
}

func (a *VisitorController) PreregisterCreate(ctx router.Context) error {
	residentID, ok, err := a.requireResident(ctx)
	if !ok {
		return err
	}

	payload := new(PreregisterPayload)
	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("preregister parse payload: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render(a.Views.Preregister, router.ViewContext{
			"record": payload,
		})
	}

	var res *PreregisterVisitorResponse

	msg := PreregisterVisitorMessage{
		ResidentID:   residentID,
		VisitorName:  payload.VisitorName,
		VisitorPhone: payload.VisitorPhone,
		ExpectedDate: payload.ExpectedDate,
		ExpectedTime: payload.ExpectedTime,
		VehiclePlate: payload.VehiclePlate,
		OnResponse: func(resp *PreregisterVisitorResponse) {
			res = resp
		},
	}

	handler := NewPreregisterVisitorHandler(a.Repo)
	if err := handler.Execute(ctx.Context(), msg); err != nil {
		a.Logger.Error("preregister visitor error: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Could not register visitor",
		}).Render(a.Views.Preregister, router.ViewContext{
			"record": payload,
			"errors": []string{err.Error()},
		})
	}

	// the one and only place the clear gate code is shown
	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Visitor registered",
		"gate_code":      res.GateCode,
	}).Redirect("/visitors", fiber.StatusSeeOther)
}

// CancelPayload identifies the registration to withdraw
type CancelPayload struct {
	RegistrationID string `form:"registration_id" json:"registration_id"`
}

func (a *VisitorController) Cancel(ctx router.Context) error {
	residentID, ok, err := a.requireResident(ctx)
	if !ok {
		return err
	}

	payload := new(CancelPayload)
	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("cancel parse payload: %v", err)
		return a.ErrorHandler(ctx, err)
	}

	registrationID, err := uuid.Parse(payload.RegistrationID)
	if err != nil {
		return flash.WithError(ctx, router.ViewContext{
			"system_message": "Unknown registration",
		}).Redirect("/visitors", fiber.StatusSeeOther)
	}

	msg := CancelPreregistrationMessage{
		RegistrationID: registrationID,
		ResidentID:     residentID,
	}

	handler := NewCancelPreregistrationHandler(a.Repo)
	if err := handler.Execute(ctx.Context(), msg); err != nil {
		a.Logger.Error("cancel registration error: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Could not cancel registration",
		}).Redirect("/visitors", fiber.StatusSeeOther)
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Registration cancelled",
	}).Redirect("/visitors", fiber.StatusSeeOther)
}
