package vecino

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Buildings() Buildings
	Units() Units
	Visitors() Visitors
}

type mngr struct {
	db        *bun.DB
	buildings Buildings
	units     Units
	visitors  Visitors
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:        db,
		buildings: NewBuildingsRepository(db),
		units:     NewUnitsRepository(db),
		visitors:  NewVisitorsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.buildings == nil {
		return errors.New("repository buildings should be initialized")
	}

	if m.units == nil {
		return errors.New("repository units should be initialized")
	}

	if m.visitors == nil {
		return errors.New("repository visitors should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Buildings() Buildings {
	return m.buildings
}

func (m mngr) Units() Units {
	return m.units
}

func (m mngr) Visitors() Visitors {
	return m.visitors
}
