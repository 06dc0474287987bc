package vecino

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type CheckInVisitorMessage struct {
	RegistrationID uuid.UUID `json:"registration_id"`
	GateCode       string    `json:"gate_code"`
	OnResponse     func(resp *CheckInVisitorResponse)
}

func (e CheckInVisitorMessage) Type() string { return "visitor.checkin" }

type CheckInVisitorResponse struct {
	Registration *VisitorPreregistration
	Success      bool
}

// CheckInVisitorHandler is the gate desk operation: verify the code
// the visitor presents and flip the registration to active.
type CheckInVisitorHandler struct {
	repo RepositoryManager
}

func NewCheckInVisitorHandler(repo RepositoryManager) *CheckInVisitorHandler {
	return &CheckInVisitorHandler{repo: repo}
}

func (h *CheckInVisitorHandler) Execute(ctx context.Context, event CheckInVisitorMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during visitor check in",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *CheckInVisitorHandler) execute(ctx context.Context, event CheckInVisitorMessage) error {
	resp := &CheckInVisitorResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := h.repo.Visitors().GetByID(ctx, event.RegistrationID.String())
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return goerrors.New("visitor registration not found", goerrors.CategoryNotFound).
					WithCode(goerrors.CodeNotFound).
					WithMetadata(map[string]any{"id": event.RegistrationID.String()})
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve visitor registration")
		}

		if err := ValidateVisitTransition(record.Status, VisitActive); err != nil {
			return err
		}

		if record.GateCodeHash != "" {
			if err := CompareGateCodeAndHash(event.GateCode, record.GateCodeHash); err != nil {
				return goerrors.Wrap(ErrGateCodeMismatch, goerrors.CategoryAuth, "gate code rejected").
					WithCode(goerrors.CodeUnauthorized).
					WithMetadata(map[string]any{"id": record.ID.String()})
			}
		}

		updated, err := h.repo.Visitors().SetStatusTx(ctx, tx, record.ID, VisitActive)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check in visitor")
		}

		resp.Registration = updated
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "visitor check in transaction failed")
	}

	resp.Success = true

	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}
