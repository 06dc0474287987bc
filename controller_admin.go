package vecino

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"
	"github.com/google/uuid"
)

// RegisterAdminRoutes mounts the back office. The RouteGuard has
// already rejected anything here that is not an admin session.
func RegisterAdminRoutes[T any](app router.Router[T], opts ...AdminControllerOption) {
	controller := NewAdminController(opts...)

	app.Get("/admin/buildings", controller.BuildingsIndex).SetName("admin.buildings.index")
	app.Get("/admin/buildings/new", controller.BuildingShow).SetName("admin.buildings.new")
	app.Post("/admin/buildings/new", controller.BuildingCreate).SetName("admin.buildings.create")
	app.Get("/admin/buildings/:id/edit", controller.BuildingEdit).SetName("admin.buildings.edit")
	app.Post("/admin/buildings/:id/edit", controller.BuildingUpdate).SetName("admin.buildings.update")
	app.Get("/admin/buildings/:id/units/new", controller.UnitShow).SetName("admin.units.new")
	app.Post("/admin/buildings/:id/units/new", controller.UnitCreate).SetName("admin.units.create")

	app.Get("/admin/visitors/daily", controller.DailyVisitors).SetName("admin.visitors.daily")
	app.Post("/admin/visitors/checkin", controller.CheckIn).SetName("admin.visitors.checkin")
}

type AdminControllerViews struct {
	BuildingsIndex string
	BuildingForm   string
	UnitForm       string
	DailyVisitors  string
}

type AdminController struct {
	Logger       Logger
	Repo         RepositoryManager
	Views        *AdminControllerViews
	ErrorHandler router.ErrorHandler
}

type AdminControllerOption func(*AdminController) *AdminController

func NewAdminController(opts ...AdminControllerOption) *AdminController {
	c := &AdminController{
		Logger:       defLogger{},
		ErrorHandler: defaultErrHandler,
		Views: &AdminControllerViews{
			BuildingsIndex: "admin/buildings/index",
			BuildingForm:   "admin/buildings/form",
			UnitForm:       "admin/units/form",
			DailyVisitors:  "admin/visitors/daily",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in admin controller...")
	}

	return c
}

func WithAdminRepo(repo RepositoryManager) AdminControllerOption {
	return func(c *AdminController) *AdminController {
		c.Repo = repo
		return c
	}
}

func WithAdminLogger(logger Logger) AdminControllerOption {
	return func(c *AdminController) *AdminController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func (a *AdminController) BuildingsIndex(ctx router.Context) error {
	records, err := a.Repo.Buildings().ListByName(ctx.Context())
	if err != nil {
		a.Logger.Error("building list error: %v", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.Render(a.Views.BuildingsIndex, router.ViewContext{
		"records": records,
	})
}

// BuildingPayload is the create/update form
type BuildingPayload struct {
	Name    string `form:"name" json:"name"`
	Address string `form:"address" json:"address"`
	Floors  int    `form:"floors" json:"floors"`
}

// Validate will run validation rules
func (r BuildingPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Address, validation.Required, validation.Length(1, 300)),
		validation.Field(&r.Floors, validation.Min(0), validation.Max(200)),
	)
}

func (a *AdminController) BuildingShow(ctx router.Context) error {
	return ctx.Render(a.Views.BuildingForm, router.ViewContext{
		"errors": nil,
		"record": nil,
	})
}

func (a *AdminController) BuildingCreate(ctx router.Context) error {
	payload := new(BuildingPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("building parse payload: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render(a.Views.BuildingForm, router.ViewContext{
			"record": payload,
		})
	}

	if err := payload.Validate(); err != nil {
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error validating payload",
		}).Render(a.Views.BuildingForm, router.ViewContext{
			"record":     payload,
			"validation": FormatValidationErrorToMap(err),
		})
	}

	record := &Building{
		Name:    payload.Name,
		Address: payload.Address,
		Floors:  payload.Floors,
	}

	if _, err := a.Repo.Buildings().Create(ctx.Context(), record); err != nil {
		a.Logger.Error("building create error: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Could not create building",
		}).Render(a.Views.BuildingForm, router.ViewContext{
			"record": payload,
		})
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Building created",
	}).Redirect("/admin/buildings", fiber.StatusSeeOther)
}

func (a *AdminController) BuildingEdit(ctx router.Context) error {
	record, err := a.Repo.Buildings().GetByID(ctx.Context(), ctx.Param("id"))
	if err != nil {
		a.Logger.Error("building get error: %v", err)
		return a.ErrorHandler(ctx, err)
	}

	units, err := a.Repo.Units().ListByBuilding(ctx.Context(), record.ID)
	if err != nil {
		a.Logger.Error("unit list error: %v", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.Render(a.Views.BuildingForm, router.ViewContext{
		"record": record,
		"units":  units,
	})
}

func (a *AdminController) BuildingUpdate(ctx router.Context) error {
	payload := new(BuildingPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("building parse payload: %v", err)
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error validating payload",
		}).Render(a.Views.BuildingForm, router.ViewContext{
			"record":     payload,
			"validation": FormatValidationErrorToMap(err),
		})
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	record := &Building{
		ID:      id,
		Name:    payload.Name,
		Address: payload.Address,
		Floors:  payload.Floors,
	}

	if _, err := a.Repo.Buildings().Update(ctx.Context(), record); err != nil {
		a.Logger.Error("building update error: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Could not update building",
		}).Redirect("/admin/buildings", fiber.StatusSeeOther)
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Building updated",
	}).Redirect("/admin/buildings", fiber.StatusSeeOther)
}

// UnitPayload is the unit creation form
type UnitPayload struct {
	Number    string  `form:"number" json:"number"`
	SizeM2    float64 `form:"size_m2" json:"size_m2"`
	Layout    string  `form:"layout" json:"layout"`
	Ownership string  `form:"ownership" json:"ownership"`
}

// Validate will run validation rules
func (r UnitPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Number, validation.Required, validation.Length(1, 20)),
		validation.Field(&r.Ownership, validation.In(
			string(OwnershipOwned),
			string(OwnershipRented),
			string(OwnershipVacant),
		)),
	)
}

func (a *AdminController) UnitShow(ctx router.Context) error {
	building, err := a.Repo.Buildings().GetByID(ctx.Context(), ctx.Param("id"))
	if err != nil {
		a.Logger.Error("building get error: %v", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.Render(a.Views.UnitForm, router.ViewContext{
		"building": building,
		"record":   nil,
	})
}

func (a *AdminController) UnitCreate(ctx router.Context) error {
	buildingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	payload := new(UnitPayload)
	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("unit parse payload: %v", err)
		return a.ErrorHandler(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error validating payload",
		}).Render(a.Views.UnitForm, router.ViewContext{
			"record":     payload,
			"validation": FormatValidationErrorToMap(err),
		})
	}

	record := &Unit{
		BuildingID: buildingID,
		Number:     payload.Number,
		SizeM2:     payload.SizeM2,
		Layout:     payload.Layout,
		Ownership:  UnitOwnership(payload.Ownership),
	}

	if _, err := a.Repo.Units().Create(ctx.Context(), record); err != nil {
		a.Logger.Error("unit create error: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Could not create unit",
		}).Render(a.Views.UnitForm, router.ViewContext{
			"record": payload,
			"errors": []string{err.Error()},
		})
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Unit created",
	}).Redirect("/admin/buildings/"+buildingID.String()+"/edit", fiber.StatusSeeOther)
}

// DailyVisitors renders the gate desk list for one day. An absent or
// malformed date query falls back to today.
func (a *AdminController) DailyVisitors(ctx router.Context) error {
	date := ParseVisitDate(ctx.Query("date", ""), time.Now())

	records, err := a.Repo.Visitors().ListForDate(ctx.Context(), date)
	if err != nil {
		a.Logger.Error("daily visitor list error: %v", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.Render(a.Views.DailyVisitors, router.ViewContext{
		"date":    date,
		"records": records,
	})
}

// CheckInPayload identifies the arriving visitor
type CheckInPayload struct {
	RegistrationID string `form:"registration_id" json:"registration_id"`
	GateCode       string `form:"gate_code" json:"gate_code"`
	Date           string `form:"date" json:"date"`
}

func (a *AdminController) CheckIn(ctx router.Context) error {
	payload := new(CheckInPayload)
	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("checkin parse payload: %v", err)
		return a.ErrorHandler(ctx, err)
	}

	back := "/admin/visitors/daily?date=" + ParseVisitDate(payload.Date, time.Now())

	registrationID, err := uuid.Parse(payload.RegistrationID)
	if err != nil {
		return flash.WithError(ctx, router.ViewContext{
			"system_message": "Unknown registration",
		}).Redirect(back, fiber.StatusSeeOther)
	}

	msg := CheckInVisitorMessage{
		RegistrationID: registrationID,
		GateCode:       payload.GateCode,
	}

	handler := NewCheckInVisitorHandler(a.Repo)
	if err := handler.Execute(ctx.Context(), msg); err != nil {
		a.Logger.Error("checkin error: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Could not check in visitor",
		}).Redirect(back, fiber.StatusSeeOther)
	}

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Visitor checked in",
	}).Redirect(back, fiber.StatusSeeOther)
}
