package vecino

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type CancelPreregistrationMessage struct {
	RegistrationID uuid.UUID `json:"registration_id"`
	ResidentID     uuid.UUID `json:"resident_id"`
	OnResponse     func(resp *CancelPreregistrationResponse)
}

func (e CancelPreregistrationMessage) Type() string { return "visitor.cancel" }

type CancelPreregistrationResponse struct {
	Registration *VisitorPreregistration
	Success      bool
}

type CancelPreregistrationHandler struct {
	repo RepositoryManager
}

func NewCancelPreregistrationHandler(repo RepositoryManager) *CancelPreregistrationHandler {
	return &CancelPreregistrationHandler{repo: repo}
}

func (h *CancelPreregistrationHandler) Execute(ctx context.Context, event CancelPreregistrationMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during registration cancel",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *CancelPreregistrationHandler) execute(ctx context.Context, event CancelPreregistrationMessage) error {
	resp := &CancelPreregistrationResponse{}

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

		if !record.OwnedBy(event.ResidentID) {
			return goerrors.Wrap(ErrNotOwner, goerrors.CategoryAuthz, "cannot cancel this registration").
				WithCode(goerrors.CodeForbidden)
		}

		if err := ValidateVisitTransition(record.Status, VisitCancelled); err != nil {
			return err
		}

		updated, err := h.repo.Visitors().SetStatusTx(ctx, tx, record.ID, VisitCancelled)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to cancel visitor registration")
		}

		resp.Registration = updated
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "registration cancel transaction failed")
	}

	resp.Success = true

	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}
