package repository

import (
	"context"

	"github.com/jrodash2/Cotiza/internal/model"

	"gorm.io/gorm"
)

// CorrelativoRepository owns the singleton counter that numbers cotizaciones.
// NextTx must be called inside the same transaction that inserts the new
// cotizacion so that a rollback also discards the increment.
type CorrelativoRepository interface {
	// NextTx creates the counter row if absent, increments it under the row
	// lock the UPDATE takes, and returns the new value. The lock is held
	// until the surrounding transaction commits, serializing concurrent
	// issuance: two cotizaciones created at the same instant never share a
	// number.
	NextTx(ctx context.Context, tx *gorm.DB) (int, error)

	// Current returns the last issued number without locking (0 if the row
	// does not exist yet).
	Current(ctx context.Context) (int, error)
}

type correlativoRepo struct{ db *gorm.DB }

func NewCorrelativoRepository(db *gorm.DB) CorrelativoRepository {
	return &correlativoRepo{db: db}
}

func (r *correlativoRepo) NextTx(ctx context.Context, tx *gorm.DB) (int, error) {
	// Get-or-create the singleton row. ON CONFLICT DO NOTHING keeps this
	// race-free when two transactions both find the table empty.
	if err := tx.WithContext(ctx).Exec(
		`INSERT INTO cotizacion_correlativos (id, last_number) VALUES (?, 0) ON CONFLICT (id) DO NOTHING`,
		model.CorrelativoSingletonID,
	).Error; err != nil {
		return 0, err
	}

	// The UPDATE acquires an exclusive row lock for the rest of the
	// transaction; the increment and the cotizacion insert commit or roll
	// back together.
	if err := tx.WithContext(ctx).Exec(
		`UPDATE cotizacion_correlativos SET last_number = last_number + 1 WHERE id = ?`,
		model.CorrelativoSingletonID,
	).Error; err != nil {
		return 0, err
	}

	var num int
	err := tx.WithContext(ctx).Raw(
		`SELECT last_number FROM cotizacion_correlativos WHERE id = ?`,
		model.CorrelativoSingletonID,
	).Scan(&num).Error
	return num, err
}

func (r *correlativoRepo) Current(ctx context.Context) (int, error) {
	var c model.CotizacionCorrelativo
	err := r.db.WithContext(ctx).First(&c, model.CorrelativoSingletonID).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	return c.LastNumber, err
}
