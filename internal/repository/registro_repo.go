package repository

import (
	"context"

	"dinocars/internal/model"

	"gorm.io/gorm"
)

// RegistroFilter narrows a daily-record listing.
type RegistroFilter struct {
	Fecha  string // exact YYYY-MM-DD
	Mes    string // YYYY-MM prefix
	Offset int
	Limit  int
}

type RegistroRepository interface {
	Create(ctx context.Context, r *model.RegistroDiario) error
	FindByID(ctx context.Context, id uint) (*model.RegistroDiario, error)
	// Last returns the record with the highest id.
	Last(ctx context.Context) (*model.RegistroDiario, error)
	List(ctx context.Context, f RegistroFilter) ([]model.RegistroDiario, error)
	// ListAllByFecha returns every record ordered by date ascending.
	ListAllByFecha(ctx context.Context) ([]model.RegistroDiario, error)
	ExistsFecha(ctx context.Context, fecha string) (bool, error)
	Update(ctx context.Context, r *model.RegistroDiario) error
	Delete(ctx context.Context, id uint) error
}

type registroRepo struct{ db *gorm.DB }

func NewRegistroRepository(db *gorm.DB) RegistroRepository { return &registroRepo{db: db} }

func (r *registroRepo) Create(ctx context.Context, reg *model.RegistroDiario) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *registroRepo) FindByID(ctx context.Context, id uint) (*model.RegistroDiario, error) {
	var reg model.RegistroDiario
	err := r.db.WithContext(ctx).First(&reg, id).Error
	return &reg, err
}

func (r *registroRepo) Last(ctx context.Context) (*model.RegistroDiario, error) {
	var reg model.RegistroDiario
	err := r.db.WithContext(ctx).Order("id DESC").First(&reg).Error
	return &reg, err
}

func (r *registroRepo) List(ctx context.Context, f RegistroFilter) ([]model.RegistroDiario, error) {
	q := r.db.WithContext(ctx).Model(&model.RegistroDiario{})
	if f.Fecha != "" {
		q = q.Where("date = ?", f.Fecha)
	}
	if f.Mes != "" {
		q = q.Where("date LIKE ?", f.Mes+"%")
	}
	var regs []model.RegistroDiario
	err := q.Order("date DESC, id DESC").Offset(f.Offset).Limit(f.Limit).Find(&regs).Error
	return regs, err
}

func (r *registroRepo) ListAllByFecha(ctx context.Context) ([]model.RegistroDiario, error) {
	var regs []model.RegistroDiario
	err := r.db.WithContext(ctx).Order("date ASC, id ASC").Find(&regs).Error
	return regs, err
}

func (r *registroRepo) ExistsFecha(ctx context.Context, fecha string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.RegistroDiario{}).Where("date = ?", fecha).Count(&n).Error
	return n > 0, err
}

// Update writes every column, zero values included.
func (r *registroRepo) Update(ctx context.Context, reg *model.RegistroDiario) error {
	return r.db.WithContext(ctx).Save(reg).Error
}

func (r *registroRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.RegistroDiario{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
