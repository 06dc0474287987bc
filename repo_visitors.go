package vecino

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Visitors interface {
	repository.Repository[*VisitorPreregistration]

	ListForResident(ctx context.Context, residentID uuid.UUID, criteria ...repository.SelectCriteria) ([]*VisitorPreregistration, error)
	ListForResidentTx(ctx context.Context, tx bun.IDB, residentID uuid.UUID, criteria ...repository.SelectCriteria) ([]*VisitorPreregistration, error)

	ListForDate(ctx context.Context, date string, criteria ...repository.SelectCriteria) ([]*VisitorPreregistration, error)
	ListForDateTx(ctx context.Context, tx bun.IDB, date string, criteria ...repository.SelectCriteria) ([]*VisitorPreregistration, error)

	SetStatus(ctx context.Context, id uuid.UUID, status VisitStatus) (*VisitorPreregistration, error)
	SetStatusTx(ctx context.Context, tx bun.IDB, id uuid.UUID, status VisitStatus) (*VisitorPreregistration, error)
}

type visitors struct {
	repository.Repository[*VisitorPreregistration]
	db *bun.DB
}

var (
	_ Visitors                                       = (*visitors)(nil)
	_ repository.Repository[*VisitorPreregistration] = (*visitors)(nil)
)

func NewVisitorsRepository(db *bun.DB) Visitors {
	repo := repository.NewRepository[*VisitorPreregistration](db, repository.ModelHandlers[*VisitorPreregistration]{
		NewRecord: func() *VisitorPreregistration { return &VisitorPreregistration{} },
		GetID: func(v *VisitorPreregistration) uuid.UUID {
			if v == nil {
				return uuid.Nil
			}
			return v.ID
		},
		SetID: func(v *VisitorPreregistration, id uuid.UUID) {
			if v != nil {
				v.ID = id
			}
		},
	})

	return &visitors{
		Repository: repo,
		db:         db,
	}
}

func (r *visitors) ListForResident(ctx context.Context, residentID uuid.UUID, criteria ...repository.SelectCriteria) ([]*VisitorPreregistration, error) {
	return r.ListForResidentTx(ctx, r.db, residentID, criteria...)
}

func (r *visitors) ListForResidentTx(ctx context.Context, tx bun.IDB, residentID uuid.UUID, criteria ...repository.SelectCriteria) ([]*VisitorPreregistration, error) {
	records := []*VisitorPreregistration{}
	q := tx.NewSelect().Model(&records)

	for _, c := range criteria {
		q.Apply(c)
	}

	err := q.
		Where("?TableAlias.resident_user_id = ?", residentID).
		Order("expected_date DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// ListForDateTx returns the gate desk view for one day: registrations
// still expected or already checked in, earliest expected time first,
// open-ended ones last.
func (r *visitors) ListForDate(ctx context.Context, date string, criteria ...repository.SelectCriteria) ([]*VisitorPreregistration, error) {
	return r.ListForDateTx(ctx, r.db, date, criteria...)
}

func (r *visitors) ListForDateTx(ctx context.Context, tx bun.IDB, date string, criteria ...repository.SelectCriteria) ([]*VisitorPreregistration, error) {
	records := []*VisitorPreregistration{}
	q := tx.NewSelect().Model(&records)

	for _, c := range criteria {
		q.Apply(c)
	}

	err := q.
		Where("?TableAlias.expected_date = ?", date).
		Where("?TableAlias.status IN (?)", bun.In([]VisitStatus{VisitPending, VisitActive})).
		OrderExpr("?TableAlias.expected_time ASC NULLS LAST").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *visitors) SetStatus(ctx context.Context, id uuid.UUID, status VisitStatus) (*VisitorPreregistration, error) {
	return r.SetStatusTx(ctx, r.db, id, status)
}

func (r *visitors) SetStatusTx(ctx context.Context, tx bun.IDB, id uuid.UUID, status VisitStatus) (*VisitorPreregistration, error) {
	record := &VisitorPreregistration{
		ID:     id,
		Status: status,
	}

	return r.Repository.UpdateTx(ctx, tx, record, repository.UpdateByID(id.String()))
}
