package service

import (
	"context"
	"fmt"

	"dinocars/internal/dto"
	"dinocars/internal/model"
	"dinocars/internal/repository"

	"github.com/samber/lo"
)

type TurnoService interface {
	Crear(ctx context.Context, userID uint, req dto.CrearTurnoRequest) (*dto.TurnoResponse, error)
	CrearMasivo(ctx context.Context, req dto.TurnosMasivoRequest) (*dto.TurnosMasivoResponse, error)
	// Listar filters by month ("YYYY-MM", optional) and user (0 = everyone).
	Listar(ctx context.Context, mes string, userID uint) ([]dto.TurnoResponse, error)
	Eliminar(ctx context.Context, id uint) error
}

type turnoService struct {
	repo     repository.TurnoRepository
	usuarios repository.UsuarioRepository
}

func NewTurnoService(repo repository.TurnoRepository, usuarios repository.UsuarioRepository) TurnoService {
	return &turnoService{repo: repo, usuarios: usuarios}
}

func (s *turnoService) Crear(ctx context.Context, userID uint, req dto.CrearTurnoRequest) (*dto.TurnoResponse, error) {
	fecha, err := model.ParseDate(req.Fecha)
	if err != nil {
		return nil, invalido(fmt.Sprintf("Fecha invalida: %s", req.Fecha))
	}
	if _, err := s.usuarios.FindByID(ctx, userID); err != nil {
		return nil, notFoundOr(err, ErrUsuarioNoEncontrado)
	}
	t := &model.Turno{UserID: userID, Fecha: fecha, HoraDesde: req.HoraDesde, HoraHasta: req.HoraHasta}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	resp := turnoToResponse(t)
	return &resp, nil
}

// ── Carga masiva ─────────────────────────────────────────────────────────────

func (s *turnoService) CrearMasivo(ctx context.Context, req dto.TurnosMasivoRequest) (*dto.TurnosMasivoResponse, error) {
	desde, err := model.ParseDate(req.Desde)
	if err != nil {
		return nil, invalido(fmt.Sprintf("Fecha inicial invalida: %s", req.Desde))
	}
	hasta, err := model.ParseDate(req.Hasta)
	if err != nil {
		return nil, invalido(fmt.Sprintf("Fecha final invalida: %s", req.Hasta))
	}
	if hasta.Before(desde.Time) {
		return nil, ErrRangoFechasInvalido
	}
	if _, err := s.usuarios.FindByID(ctx, req.UserID); err != nil {
		return nil, notFoundOr(err, ErrUsuarioNoEncontrado)
	}

	fechas := FechasEnDias(desde, hasta, req.DiasSemana)
	creados, err := s.repo.CreateMissing(ctx, req.UserID, fechas, req.HoraDesde, req.HoraHasta)
	if err != nil {
		return nil, err
	}
	return &dto.TurnosMasivoResponse{Creados: creados}, nil
}

// FechasEnDias lists every date in [desde, hasta] whose weekday index
// (Monday=0 … Sunday=6) is in dias.
func FechasEnDias(desde, hasta model.Date, dias []int) []model.Date {
	var out []model.Date
	for d := desde; !d.After(hasta.Time); d = d.AddDays(1) {
		if lo.Contains(dias, IndiceDiaSemana(d)) {
			out = append(out, d)
		}
	}
	return out
}

// IndiceDiaSemana converts Go's Sunday-first weekday to a Monday=0 index.
func IndiceDiaSemana(d model.Date) int {
	return (int(d.Weekday()) + 6) % 7
}

// ── Consulta / baja ──────────────────────────────────────────────────────────

func (s *turnoService) Listar(ctx context.Context, mes string, userID uint) ([]dto.TurnoResponse, error) {
	f := repository.TurnoFilter{UserID: userID}
	if mes != "" {
		inicio, err := model.ParseDate(mes + "-01")
		if err != nil {
			return nil, invalido(fmt.Sprintf("Mes invalido: %s", mes))
		}
		fin := model.NewDate(inicio.AddDate(0, 1, 0))
		f.Desde, f.Hasta = &inicio, &fin
	}
	turnos, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return lo.Map(turnos, func(t model.Turno, _ int) dto.TurnoResponse { return turnoToResponse(&t) }), nil
}

func (s *turnoService) Eliminar(ctx context.Context, id uint) error {
	return notFoundOr(s.repo.Delete(ctx, id), ErrTurnoNoEncontrado)
}

func turnoToResponse(t *model.Turno) dto.TurnoResponse {
	return dto.TurnoResponse{
		ID:        t.ID,
		UserID:    t.UserID,
		Fecha:     t.Fecha.String(),
		HoraDesde: t.HoraDesde,
		HoraHasta: t.HoraHasta,
	}
}
