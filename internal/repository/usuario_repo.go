package repository

import (
	"context"

	"dinocars/internal/model"

	"gorm.io/gorm"
)

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByUsername(ctx context.Context, username string) (*model.Usuario, error)
	Exists(ctx context.Context, username string) (bool, error)
	FindByID(ctx context.Context, id uint) (*model.Usuario, error)
	List(ctx context.Context, offset, limit int) ([]model.Usuario, error)
	Update(ctx context.Context, u *model.Usuario) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *usuarioRepo) FindByUsername(ctx context.Context, username string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Preload("Turnos").Where("username = ?", username).First(&u).Error
	return &u, err
}

// Exists reports whether the username is stored, without loading schedules.
func (r *usuarioRepo) Exists(ctx context.Context, username string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Usuario{}).Where("username = ?", username).Limit(1).Count(&n).Error
	return n > 0, err
}

func (r *usuarioRepo) FindByID(ctx context.Context, id uint) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Preload("Turnos").First(&u, id).Error
	return &u, err
}

func (r *usuarioRepo) List(ctx context.Context, offset, limit int) ([]model.Usuario, error) {
	var users []model.Usuario
	err := r.db.WithContext(ctx).
		Preload("Turnos", func(db *gorm.DB) *gorm.DB { return db.Order("date ASC") }).
		Order("id ASC").Offset(offset).Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *usuarioRepo) Update(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Omit("Turnos").Save(u).Error
}

// Delete removes the user and its schedules in one transaction. Returns
// gorm.ErrRecordNotFound when no row matched.
func (r *usuarioRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.Turno{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Usuario{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *usuarioRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Usuario{}).Count(&n).Error
	return n, err
}
