package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"dinocars/internal/dto"
	"dinocars/internal/model"
	"dinocars/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// diasRecientes is how many trailing records feed the daily chart.
const diasRecientes = 30

// semana lists weekdays in the Monday-first order used by the dashboard.
var semana = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

type DashboardService interface {
	// Estadisticas never fails: any problem yields an empty overview.
	Estadisticas(ctx context.Context) dto.DashboardStats
}

type dashboardService struct {
	repo repository.RegistroRepository
}

func NewDashboardService(repo repository.RegistroRepository) DashboardService {
	return &dashboardService{repo: repo}
}

func (s *dashboardService) Estadisticas(ctx context.Context) (stats dto.DashboardStats) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("dashboard: aggregation panicked")
			stats = EstadisticasVacias()
		}
	}()

	regs, err := s.repo.ListAllByFecha(ctx)
	if err != nil {
		log.Error().Err(err).Msg("dashboard: failed to load records")
		return EstadisticasVacias()
	}
	return CalcularEstadisticas(regs)
}

// EstadisticasVacias is the all-zero overview.
func EstadisticasVacias() dto.DashboardStats {
	return CalcularEstadisticas(nil)
}

type acumTrabajador struct {
	vueltas int
	ingreso decimal.Decimal
}

// CalcularEstadisticas reduces records (ordered by date ascending) into the
// dashboard overview. Revenue is daily_cash_generated; rides are effective rides.
func CalcularEstadisticas(regs []model.RegistroDiario) dto.DashboardStats {
	ingresoTotal := decimal.Zero
	vueltasTotal := 0
	porDia := make(map[time.Weekday]decimal.Decimal, 7)
	porTrabajador := make(map[string]*acumTrabajador)

	for _, r := range regs {
		ingresoTotal = ingresoTotal.Add(r.EfectivoDiarioGenerado)
		vueltasTotal += r.VueltasEfectivas

		if fecha, err := time.Parse(model.DateLayout, r.Fecha); err == nil {
			porDia[fecha.Weekday()] = porDia[fecha.Weekday()].Add(r.EfectivoDiarioGenerado)
		} else {
			log.Warn().Uint("registro_id", r.ID).Str("date", r.Fecha).Msg("dashboard: unparseable date skipped")
		}

		if r.NombreTrabajador == nil {
			continue
		}
		nombre := strings.TrimSpace(*r.NombreTrabajador)
		if nombre == "" {
			continue
		}
		acc, ok := porTrabajador[nombre]
		if !ok {
			acc = &acumTrabajador{}
			porTrabajador[nombre] = acc
		}
		acc.vueltas += r.VueltasEfectivas
		acc.ingreso = acc.ingreso.Add(r.EfectivoDiarioGenerado)
	}

	promedio := decimal.Zero
	if len(regs) > 0 {
		promedio = ingresoTotal.Div(decimal.NewFromInt(int64(len(regs))))
	}

	recientes := regs
	if len(recientes) > diasRecientes {
		recientes = recientes[len(recientes)-diasRecientes:]
	}
	diarias := lo.Map(recientes, func(r model.RegistroDiario, _ int) dto.EstadisticaDiaria {
		return dto.EstadisticaDiaria{
			Fecha:        r.Fecha,
			IngresoTotal: r.EfectivoDiarioGenerado.InexactFloat64(),
			VueltasTotal: r.VueltasEfectivas,
		}
	})

	ingresoPorDia := lo.Map(semana, func(d time.Weekday, _ int) dto.IngresoPorDia {
		return dto.IngresoPorDia{DiaSemana: d.String(), IngresoTotal: porDia[d].InexactFloat64()}
	})

	trabajadores := make([]dto.EstadisticaTrabajador, 0, len(porTrabajador))
	for nombre, acc := range porTrabajador {
		trabajadores = append(trabajadores, dto.EstadisticaTrabajador{
			Nombre:       nombre,
			VueltasTotal: acc.vueltas,
			IngresoTotal: acc.ingreso.InexactFloat64(),
		})
	}
	sort.Slice(trabajadores, func(i, j int) bool {
		if trabajadores[i].IngresoTotal != trabajadores[j].IngresoTotal {
			return trabajadores[i].IngresoTotal > trabajadores[j].IngresoTotal
		}
		return trabajadores[i].Nombre < trabajadores[j].Nombre
	})

	return dto.DashboardStats{
		IngresoTotal:        ingresoTotal.InexactFloat64(),
		VueltasTotal:        vueltasTotal,
		CantidadRegistros:   len(regs),
		PromedioDiario:      promedio.InexactFloat64(),
		EstadisticasDiarias: diarias,
		IngresoPorDia:       ingresoPorDia,
		Trabajadores:        trabajadores,
	}
}
