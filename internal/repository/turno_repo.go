package repository

import (
	"context"

	"dinocars/internal/model"

	"gorm.io/gorm"
)

// TurnoFilter narrows a schedule listing. Zero values mean "no filter".
type TurnoFilter struct {
	UserID uint
	Desde  *model.Date // inclusive
	Hasta  *model.Date // exclusive
}

type TurnoRepository interface {
	Create(ctx context.Context, t *model.Turno) error
	FindByID(ctx context.Context, id uint) (*model.Turno, error)
	List(ctx context.Context, f TurnoFilter) ([]model.Turno, error)
	Delete(ctx context.Context, id uint) error
	// CreateMissing inserts one schedule per date unless the user already
	// has one on that date. Runs in a single transaction; returns the number created.
	CreateMissing(ctx context.Context, userID uint, fechas []model.Date, desde, hasta string) (int, error)
}

type turnoRepo struct{ db *gorm.DB }

func NewTurnoRepository(db *gorm.DB) TurnoRepository { return &turnoRepo{db: db} }

func (r *turnoRepo) Create(ctx context.Context, t *model.Turno) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *turnoRepo) FindByID(ctx context.Context, id uint) (*model.Turno, error) {
	var t model.Turno
	err := r.db.WithContext(ctx).First(&t, id).Error
	return &t, err
}

func (r *turnoRepo) List(ctx context.Context, f TurnoFilter) ([]model.Turno, error) {
	q := r.db.WithContext(ctx).Model(&model.Turno{})
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Desde != nil {
		q = q.Where("date >= ?", *f.Desde)
	}
	if f.Hasta != nil {
		q = q.Where("date < ?", *f.Hasta)
	}
	var turnos []model.Turno
	err := q.Order("date ASC, start_time ASC").Find(&turnos).Error
	return turnos, err
}

func (r *turnoRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Turno{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *turnoRepo) CreateMissing(ctx context.Context, userID uint, fechas []model.Date, desde, hasta string) (int, error) {
	created := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, f := range fechas {
			var n int64
			if err := tx.Model(&model.Turno{}).
				Where("user_id = ? AND date = ?", userID, f).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				continue
			}
			t := &model.Turno{UserID: userID, Fecha: f, HoraDesde: desde, HoraHasta: hasta}
			if err := tx.Create(t).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
