package service

import (
	"context"
	"sort"
	"strings"

	"dinocars/internal/model"
	"dinocars/internal/repository"

	"gorm.io/gorm"
)

// ── In-memory Repository Stubs ────────────────────────────────────────────────

type stubUsuarioRepo struct {
	users  map[uint]*model.Usuario
	nextID uint
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{users: make(map[uint]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	u.ID = r.nextID
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) Exists(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	return err == nil, nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uint) (*model.Usuario, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUsuarioRepo) List(_ context.Context, offset, limit int) ([]model.Usuario, error) {
	ids := make([]int, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	var out []model.Usuario
	for i, id := range ids {
		if i < offset || len(out) >= limit {
			continue
		}
		out = append(out, *r.users[uint(id)])
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *stubUsuarioRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUsuarioRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

type stubTurnoRepo struct {
	turnos []model.Turno
}

func (r *stubTurnoRepo) Create(_ context.Context, t *model.Turno) error {
	t.ID = uint(len(r.turnos) + 1)
	r.turnos = append(r.turnos, *t)
	return nil
}

func (r *stubTurnoRepo) FindByID(_ context.Context, id uint) (*model.Turno, error) {
	for i := range r.turnos {
		if r.turnos[i].ID == id {
			return &r.turnos[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubTurnoRepo) List(_ context.Context, f repository.TurnoFilter) ([]model.Turno, error) {
	var out []model.Turno
	for _, t := range r.turnos {
		if f.UserID != 0 && t.UserID != f.UserID {
			continue
		}
		if f.Desde != nil && t.Fecha.Before(f.Desde.Time) {
			continue
		}
		if f.Hasta != nil && !t.Fecha.Before(f.Hasta.Time) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *stubTurnoRepo) Delete(_ context.Context, id uint) error {
	for i := range r.turnos {
		if r.turnos[i].ID == id {
			r.turnos = append(r.turnos[:i], r.turnos[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubTurnoRepo) CreateMissing(ctx context.Context, userID uint, fechas []model.Date, desde, hasta string) (int, error) {
	n := 0
	for _, f := range fechas {
		exists := false
		for _, t := range r.turnos {
			if t.UserID == userID && t.Fecha.Equal(f.Time) {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		_ = r.Create(ctx, &model.Turno{UserID: userID, Fecha: f, HoraDesde: desde, HoraHasta: hasta})
		n++
	}
	return n, nil
}

type stubRegistroRepo struct {
	regs    []model.RegistroDiario
	listErr error
}

func (r *stubRegistroRepo) Create(_ context.Context, reg *model.RegistroDiario) error {
	reg.ID = uint(len(r.regs) + 1)
	r.regs = append(r.regs, *reg)
	return nil
}

func (r *stubRegistroRepo) FindByID(_ context.Context, id uint) (*model.RegistroDiario, error) {
	for i := range r.regs {
		if r.regs[i].ID == id {
			cp := r.regs[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRegistroRepo) Last(_ context.Context) (*model.RegistroDiario, error) {
	if len(r.regs) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	cp := r.regs[len(r.regs)-1]
	return &cp, nil
}

func (r *stubRegistroRepo) List(_ context.Context, f repository.RegistroFilter) ([]model.RegistroDiario, error) {
	var out []model.RegistroDiario
	for _, reg := range r.regs {
		if f.Fecha != "" && reg.Fecha != f.Fecha {
			continue
		}
		if f.Mes != "" && !strings.HasPrefix(reg.Fecha, f.Mes) {
			continue
		}
		out = append(out, reg)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fecha > out[j].Fecha })
	if f.Offset >= len(out) {
		return nil, nil
	}
	out = out[f.Offset:]
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *stubRegistroRepo) ListAllByFecha(_ context.Context) ([]model.RegistroDiario, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := append([]model.RegistroDiario(nil), r.regs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fecha < out[j].Fecha })
	return out, nil
}

func (r *stubRegistroRepo) ExistsFecha(_ context.Context, fecha string) (bool, error) {
	for _, reg := range r.regs {
		if reg.Fecha == fecha {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubRegistroRepo) Update(_ context.Context, reg *model.RegistroDiario) error {
	for i := range r.regs {
		if r.regs[i].ID == reg.ID {
			r.regs[i] = *reg
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubRegistroRepo) Delete(_ context.Context, id uint) error {
	for i := range r.regs {
		if r.regs[i].ID == id {
			r.regs = append(r.regs[:i], r.regs[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type stubNotificador struct {
	notificados []uint
	err         error
}

func (n *stubNotificador) NotificarDescuadre(_ context.Context, reg *model.RegistroDiario) error {
	n.notificados = append(n.notificados, reg.ID)
	return n.err
}
