package vecino

import (
	"context"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
	"github.com/uptrace/bun"
)

var expectedTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

type PreregisterVisitorMessage struct {
	ResidentID   uuid.UUID `json:"resident_id"`
	VisitorName  string    `json:"visitor_name"`
	VisitorPhone string    `json:"visitor_phone"`
	ExpectedDate string    `json:"expected_date"`
	ExpectedTime string    `json:"expected_time"`
	VehiclePlate string    `json:"vehicle_plate"`
	PhoneRegion  string    `json:"phone_region"`
	OnResponse   func(resp *PreregisterVisitorResponse)
}

func (e PreregisterVisitorMessage) Type() string { return "visitor.preregister" }

// Validate enforces the registration form rules. The date must be
// today or later; the time, when present, is 24h HH:MM.
func (e PreregisterVisitorMessage) Validate(now time.Time) *goerrors.Error {
	return goerrors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&e,
			validation.Field(&e.VisitorName, validation.Required, validation.Length(1, 120)),
			validation.Field(&e.ExpectedDate, validation.Required, validation.By(dateTodayOrFuture(now))),
			validation.Field(&e.ExpectedTime, validation.Match(expectedTimePattern)),
			validation.Field(&e.VehiclePlate, validation.Length(0, 50)),
		)
	}, "Invalid visitor registration payload")
}

func dateTodayOrFuture(now time.Time) validation.RuleFunc {
	return func(value any) error {
		raw, _ := value.(string)
		d, err := time.Parse(DateLayout, raw)
		if err != nil {
			return validation.NewError("validation_date", "must be a YYYY-MM-DD date")
		}
		today, _ := time.Parse(DateLayout, now.Format(DateLayout))
		if d.Before(today) {
			return validation.NewError("validation_date_past", "must be today or a future date")
		}
		return nil
	}
}

type PreregisterVisitorResponse struct {
	Registration *VisitorPreregistration
	// GateCode is the clear 6 digit code, surfaced exactly once.
	GateCode string
	Success  bool
}

type PreregisterVisitorHandler struct {
	repo RepositoryManager
}

func NewPreregisterVisitorHandler(repo RepositoryManager) *PreregisterVisitorHandler {
	return &PreregisterVisitorHandler{repo: repo}
}

func (h *PreregisterVisitorHandler) Execute(ctx context.Context, event PreregisterVisitorMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during visitor preregistration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *PreregisterVisitorHandler) execute(ctx context.Context, event PreregisterVisitorMessage) error {
	resp := &PreregisterVisitorResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if verr := event.Validate(time.Now()); verr != nil {
		return verr
	}

	phone, err := normalizeVisitorPhone(event.VisitorPhone, event.PhoneRegion)
	if err != nil {
		return err
	}

	code, err := NewGateCode()
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mint gate code")
	}

	hash, err := HashGateCode(code)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash gate code")
	}

	record := &VisitorPreregistration{
		ResidentID:   event.ResidentID,
		VisitorName:  event.VisitorName,
		VisitorPhone: phone,
		ExpectedDate: event.ExpectedDate,
		ExpectedTime: event.ExpectedTime,
		VehiclePlate: event.VehiclePlate,
		Status:       VisitPending,
		GateCodeHash: hash,
	}

	// Same resident, visitor, and date always derive the same ID, so a
	// duplicate registration collides on insert instead of piling up.
	if id, err := hashid.NewUUID(event.ResidentID.String() + ":" + event.VisitorName + ":" + event.ExpectedDate); err == nil {
		record.ID = id
	}

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		created, err := h.repo.Visitors().CreateTx(ctx, tx, record)
		if err != nil {
			if IsUniqueViolation(err) {
				return goerrors.New("visitor already registered for this date", goerrors.CategoryConflict).
					WithCode(goerrors.CodeConflict).
					WithMetadata(map[string]any{
						"visitor_name":  event.VisitorName,
						"expected_date": event.ExpectedDate,
					})
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not create visitor registration")
		}

		resp.Registration = created
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "visitor preregistration transaction failed")
	}

	resp.GateCode = code
	resp.Success = true

	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}

// normalizeVisitorPhone returns the E.164 form of an optional phone
// number. Empty input passes through.
func normalizeVisitorPhone(raw, region string) (string, error) {
	if raw == "" {
		return "", nil
	}

	if region == "" {
		region = "US"
	}

	num, err := phonenumbers.Parse(raw, region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", goerrors.New("invalid visitor phone number", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest).
			WithMetadata(map[string]any{"phone": raw})
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}
