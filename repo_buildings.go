package vecino

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Buildings interface {
	repository.Repository[*Building]

	ListByName(ctx context.Context, criteria ...repository.SelectCriteria) ([]*Building, error)
	ListByNameTx(ctx context.Context, tx bun.IDB, criteria ...repository.SelectCriteria) ([]*Building, error)
}

type buildings struct {
	repository.Repository[*Building]
	db *bun.DB
}

var (
	_ Buildings                        = (*buildings)(nil)
	_ repository.Repository[*Building] = (*buildings)(nil)
)

func NewBuildingsRepository(db *bun.DB) Buildings {
	repo := repository.NewRepository[*Building](db, repository.ModelHandlers[*Building]{
		NewRecord: func() *Building { return &Building{} },
		GetID: func(b *Building) uuid.UUID {
			if b == nil {
				return uuid.Nil
			}
			return b.ID
		},
		SetID: func(b *Building, id uuid.UUID) {
			if b != nil {
				b.ID = id
			}
		},
		GetIdentifier: func() string {
			return "name"
		},
	})

	return &buildings{
		Repository: repo,
		db:         db,
	}
}

func (r *buildings) ListByName(ctx context.Context, criteria ...repository.SelectCriteria) ([]*Building, error) {
	return r.ListByNameTx(ctx, r.db, criteria...)
}

func (r *buildings) ListByNameTx(ctx context.Context, tx bun.IDB, criteria ...repository.SelectCriteria) ([]*Building, error) {
	records := []*Building{}
	q := tx.NewSelect().Model(&records)

	for _, c := range criteria {
		q.Apply(c)
	}

	err := q.
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}
