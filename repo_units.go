package vecino

import (
	"context"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrUnitNumberTaken is returned when a unit number already exists in
// the target building.
var ErrUnitNumberTaken = goerrors.New("unit number already exists in this building", goerrors.CategoryConflict).
	WithTextCode("UNIT_NUMBER_TAKEN").
	WithCode(goerrors.CodeConflict)

type Units interface {
	repository.Repository[*Unit]

	ListByBuilding(ctx context.Context, buildingID uuid.UUID, criteria ...repository.SelectCriteria) ([]*Unit, error)
	ListByBuildingTx(ctx context.Context, tx bun.IDB, buildingID uuid.UUID, criteria ...repository.SelectCriteria) ([]*Unit, error)
}

type units struct {
	repository.Repository[*Unit]
	db *bun.DB
}

var (
	_ Units                        = (*units)(nil)
	_ repository.Repository[*Unit] = (*units)(nil)
)

func NewUnitsRepository(db *bun.DB) Units {
	repo := repository.NewRepository[*Unit](db, repository.ModelHandlers[*Unit]{
		NewRecord: func() *Unit { return &Unit{} },
		GetID: func(u *Unit) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *Unit, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "number"
		},
	})

	return &units{
		Repository: repo,
		db:         db,
	}
}

func (r *units) Create(ctx context.Context, record *Unit, criteria ...repository.InsertCriteria) (*Unit, error) {
	return r.CreateTx(ctx, r.db, record, criteria...)
}

func (r *units) CreateTx(ctx context.Context, tx bun.IDB, record *Unit, criteria ...repository.InsertCriteria) (*Unit, error) {
	created, err := r.Repository.CreateTx(ctx, tx, record, criteria...)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrUnitNumberTaken.WithMetadata(map[string]any{
				"building_id": record.BuildingID.String(),
				"number":      record.Number,
			})
		}
		return nil, err
	}
	return created, nil
}

func (r *units) ListByBuilding(ctx context.Context, buildingID uuid.UUID, criteria ...repository.SelectCriteria) ([]*Unit, error) {
	return r.ListByBuildingTx(ctx, r.db, buildingID, criteria...)
}

func (r *units) ListByBuildingTx(ctx context.Context, tx bun.IDB, buildingID uuid.UUID, criteria ...repository.SelectCriteria) ([]*Unit, error) {
	records := []*Unit{}
	q := tx.NewSelect().Model(&records)

	for _, c := range criteria {
		q.Apply(c)
	}

	err := q.
		Where("?TableAlias.building_id = ?", buildingID).
		Order("number ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// IsUniqueViolation matches unique constraint failures across the
// drivers we run against: sqlite locally, postgres (code 23505) in
// deployment.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "23505")
}
