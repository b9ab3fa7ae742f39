package service

import (
	"context"
	"errors"
	"time"

	"dinocars/internal/dto"
	"dinocars/internal/model"
	"dinocars/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	defaultLimit = 100
	maxLimit     = 500
)

// maxRegistrosMes bounds the rows of one monthly report.
const maxRegistrosMes = 1000

// Notificador is told about every stored record whose cash did not balance.
type Notificador interface {
	NotificarDescuadre(ctx context.Context, reg *model.RegistroDiario) error
}

type RegistroService interface {
	CalcularVueltas(req dto.CalculoVueltasRequest) dto.CalculoVueltasResponse
	CuadrarCaja(ctx context.Context, req dto.CuadreCajaRequest) (*dto.CuadreCajaResponse, error)
	UltimoRegistro(ctx context.Context) (*dto.RegistroResponse, error)
	Crear(ctx context.Context, req dto.RegistroRequest, enviadoPor string) (*dto.RegistroResponse, error)
	Listar(ctx context.Context, f dto.RegistroFiltro) ([]dto.RegistroResponse, error)
	// Actualizar replaces every field of the stored record with req.
	Actualizar(ctx context.Context, id uint, req dto.RegistroRequest) (*dto.RegistroResponse, error)
	Eliminar(ctx context.Context, id uint) error
	RegistrosDelMes(ctx context.Context, mes string) ([]model.RegistroDiario, error)
}

type registroService struct {
	repo        repository.RegistroRepository
	precio      decimal.Decimal
	notificador Notificador
}

// NewRegistroService builds the record service. precioVuelta is the price
// of one effective ride; notificador may be nil.
func NewRegistroService(repo repository.RegistroRepository, precioVuelta int64, notificador Notificador) RegistroService {
	return &registroService{repo: repo, precio: decimal.NewFromInt(precioVuelta), notificador: notificador}
}

// ── Calculos ─────────────────────────────────────────────────────────────────

func (s *registroService) CalcularVueltas(req dto.CalculoVueltasRequest) dto.CalculoVueltasResponse {
	total := 0
	for _, c := range req.ContadoresDino {
		total += c
	}
	return dto.CalculoVueltasResponse{TotalHoy: total, VueltasHoy: total - req.TotalAcumuladoPrev}
}

func (s *registroService) CuadrarCaja(ctx context.Context, req dto.CuadreCajaRequest) (*dto.CuadreCajaResponse, error) {
	previo := decimal.Zero
	if req.EfectivoCajaPrevio != nil {
		previo = *req.EfectivoCajaPrevio
	} else {
		last, err := s.repo.Last(ctx)
		switch {
		case err == nil:
			previo = last.EfectivoEnCaja
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}
	resp := Cuadrar(req, previo, s.precio)
	return &resp, nil
}

// Cuadrar reconciles one day of cash against the rides sold.
//
//	expected   = (rides − admin rides) × price + toys
//	generated  = withdrawn + in box + card − previous cash in box
//	difference = generated − expected
func Cuadrar(req dto.CuadreCajaRequest, previo, precio decimal.Decimal) dto.CuadreCajaResponse {
	efectivas := req.VueltasHoy - req.VueltasAdmin
	esperado := precio.Mul(decimal.NewFromInt(int64(efectivas))).Add(req.JuguetesTotal)
	contado := req.EfectivoRetirado.Add(req.EfectivoEnCaja).Add(req.PagosTarjeta)
	generado := contado.Sub(previo)
	diferencia := generado.Sub(esperado)

	estado := model.EstadoCuadra
	switch diferencia.Sign() {
	case 1:
		estado = model.EstadoExcedente
	case -1:
		estado = model.EstadoFaltante
	}
	return dto.CuadreCajaResponse{
		VueltasEfectivas:       efectivas,
		IngresoEsperado:        esperado,
		TotalContado:           contado,
		EfectivoCajaPrevio:     previo,
		EfectivoDiarioGenerado: generado,
		Diferencia:             diferencia,
		Estado:                 estado,
	}
}

// ── Registros ────────────────────────────────────────────────────────────────

// UltimoRegistro returns the newest record, or an all-zero placeholder when
// nothing has been stored yet.
func (s *registroService) UltimoRegistro(ctx context.Context) (*dto.RegistroResponse, error) {
	reg, err := s.repo.Last(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		resp := registroToResponse(&model.RegistroDiario{CreatedAt: time.Now().UTC()})
		return &resp, nil
	}
	if err != nil {
		return nil, err
	}
	resp := registroToResponse(reg)
	return &resp, nil
}

func (s *registroService) Crear(ctx context.Context, req dto.RegistroRequest, enviadoPor string) (*dto.RegistroResponse, error) {
	reg := &model.RegistroDiario{EnviadoPor: enviadoPor}
	aplicarRegistro(reg, req)
	if err := s.repo.Create(ctx, reg); err != nil {
		return nil, err
	}

	if s.notificador != nil && reg.Estado != model.EstadoCuadra {
		if err := s.notificador.NotificarDescuadre(ctx, reg); err != nil {
			log.Warn().Err(err).Uint("registro_id", reg.ID).Msg("no se pudo encolar la alerta de descuadre")
		}
	}

	resp := registroToResponse(reg)
	return &resp, nil
}

func (s *registroService) Listar(ctx context.Context, f dto.RegistroFiltro) ([]dto.RegistroResponse, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	regs, err := s.repo.List(ctx, repository.RegistroFilter{
		Fecha:  f.Fecha,
		Mes:    f.Mes,
		Offset: f.Skip,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}
	resp := make([]dto.RegistroResponse, len(regs))
	for i := range regs {
		resp[i] = registroToResponse(&regs[i])
	}
	return resp, nil
}

func (s *registroService) Actualizar(ctx context.Context, id uint, req dto.RegistroRequest) (*dto.RegistroResponse, error) {
	reg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrRegistroNoEncontrado)
	}
	aplicarRegistro(reg, req)
	if err := s.repo.Update(ctx, reg); err != nil {
		return nil, err
	}
	resp := registroToResponse(reg)
	return &resp, nil
}

func (s *registroService) Eliminar(ctx context.Context, id uint) error {
	return notFoundOr(s.repo.Delete(ctx, id), ErrRegistroNoEncontrado)
}

func (s *registroService) RegistrosDelMes(ctx context.Context, mes string) ([]model.RegistroDiario, error) {
	if _, err := time.Parse("2006-01", mes); err != nil {
		return nil, invalido("Mes invalido: " + mes)
	}
	regs, err := s.repo.List(ctx, repository.RegistroFilter{Mes: mes, Limit: maxRegistrosMes})
	if err != nil {
		return nil, err
	}
	// Listing is newest first; reports read oldest first.
	for i, j := 0, len(regs)-1; i < j; i, j = i+1, j-1 {
		regs[i], regs[j] = regs[j], regs[i]
	}
	return regs, nil
}

// aplicarRegistro overwrites every client-supplied field. id, created_at and
// submitted_by are kept.
func aplicarRegistro(reg *model.RegistroDiario, req dto.RegistroRequest) {
	reg.Fecha = req.Fecha
	reg.TotalAcumuladoPrev = req.TotalAcumuladoPrev
	reg.TotalAcumuladoHoy = req.TotalAcumuladoHoy
	reg.VueltasHoy = req.VueltasHoy
	reg.VueltasAdmin = req.VueltasAdmin
	reg.VueltasEfectivas = req.VueltasEfectivas
	reg.IngresoEsperado = req.IngresoEsperado
	reg.EfectivoRetirado = req.EfectivoRetirado
	reg.EfectivoEnCaja = req.EfectivoEnCaja
	reg.PagosTarjeta = req.PagosTarjeta
	reg.TotalContado = req.TotalContado
	reg.Estado = req.Estado
	reg.Diferencia = req.Diferencia
	reg.EfectivoDiarioGenerado = req.EfectivoDiarioGenerado
	reg.JuguetesDetalle = req.JuguetesDetalle
	reg.JuguetesTotal = req.JuguetesTotal
	reg.NombreTrabajador = req.NombreTrabajador
}

func registroToResponse(r *model.RegistroDiario) dto.RegistroResponse {
	return dto.RegistroResponse{
		ID:                     r.ID,
		Fecha:                  r.Fecha,
		CreatedAt:              r.CreatedAt,
		TotalAcumuladoPrev:     r.TotalAcumuladoPrev,
		TotalAcumuladoHoy:      r.TotalAcumuladoHoy,
		VueltasHoy:             r.VueltasHoy,
		VueltasAdmin:           r.VueltasAdmin,
		VueltasEfectivas:       r.VueltasEfectivas,
		IngresoEsperado:        r.IngresoEsperado,
		EfectivoRetirado:       r.EfectivoRetirado,
		EfectivoEnCaja:         r.EfectivoEnCaja,
		PagosTarjeta:           r.PagosTarjeta,
		TotalContado:           r.TotalContado,
		Estado:                 r.Estado,
		Diferencia:             r.Diferencia,
		EfectivoDiarioGenerado: r.EfectivoDiarioGenerado,
		JuguetesDetalle:        r.JuguetesDetalle,
		JuguetesTotal:          r.JuguetesTotal,
		NombreTrabajador:       r.NombreTrabajador,
		EnviadoPor:             r.EnviadoPor,
	}
}
