package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"dinocars/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registro(fecha string, generado int64, vueltas int, trabajador string) model.RegistroDiario {
	r := model.RegistroDiario{
		Fecha:                  fecha,
		EfectivoDiarioGenerado: decimal.NewFromInt(generado),
		VueltasEfectivas:       vueltas,
	}
	if trabajador != "" {
		r.NombreTrabajador = &trabajador
	}
	return r
}

func TestCalcularEstadisticas_TwoRecords(t *testing.T) {
	stats := CalcularEstadisticas([]model.RegistroDiario{
		registro("2025-07-07", 10000, 20, "Ana"),
		registro("2025-07-08", 30000, 40, "Beto"),
	})

	assert.Equal(t, 40000.0, stats.IngresoTotal)
	assert.Equal(t, 60, stats.VueltasTotal)
	assert.Equal(t, 2, stats.CantidadRegistros)
	assert.Equal(t, 20000.0, stats.PromedioDiario)
	require.Len(t, stats.EstadisticasDiarias, 2)
	assert.Equal(t, "2025-07-07", stats.EstadisticasDiarias[0].Fecha)
	assert.Equal(t, 10000.0, stats.EstadisticasDiarias[0].IngresoTotal)
	assert.Equal(t, 20, stats.EstadisticasDiarias[0].VueltasTotal)
}

func TestCalcularEstadisticas_Empty(t *testing.T) {
	stats := CalcularEstadisticas(nil)
	assert.Zero(t, stats.IngresoTotal)
	assert.Zero(t, stats.VueltasTotal)
	assert.Zero(t, stats.CantidadRegistros)
	assert.Zero(t, stats.PromedioDiario)
	assert.NotNil(t, stats.EstadisticasDiarias)
	assert.Empty(t, stats.EstadisticasDiarias)
	assert.NotNil(t, stats.Trabajadores)
	assert.Len(t, stats.IngresoPorDia, 7)
}

func TestCalcularEstadisticas_WeekdayBuckets(t *testing.T) {
	stats := CalcularEstadisticas([]model.RegistroDiario{
		registro("2025-07-07", 1000, 1, ""), // Monday
		registro("2025-07-14", 2000, 1, ""), // Monday
		registro("2025-07-13", 500, 1, ""),  // Sunday
		registro("07/15/2025", 9999, 1, ""), // unparseable, still counted in totals
	})

	assert.Equal(t, "Monday", stats.IngresoPorDia[0].DiaSemana)
	assert.Equal(t, 3000.0, stats.IngresoPorDia[0].IngresoTotal)
	assert.Equal(t, "Sunday", stats.IngresoPorDia[6].DiaSemana)
	assert.Equal(t, 500.0, stats.IngresoPorDia[6].IngresoTotal)

	var porDia float64
	for _, d := range stats.IngresoPorDia {
		porDia += d.IngresoTotal
	}
	assert.Equal(t, 3500.0, porDia)
	assert.Equal(t, 13499.0, stats.IngresoTotal)
}

func TestCalcularEstadisticas_WorkerBucketsSorted(t *testing.T) {
	stats := CalcularEstadisticas([]model.RegistroDiario{
		registro("2025-07-01", 1000, 10, "Ana"),
		registro("2025-07-02", 5000, 5, " Beto "),
		registro("2025-07-03", 1000, 10, "Ana"),
		registro("2025-07-04", 7000, 7, "   "),
		registro("2025-07-05", 7000, 7, ""),
	})

	require.Len(t, stats.Trabajadores, 2)
	assert.Equal(t, "Beto", stats.Trabajadores[0].Nombre)
	assert.Equal(t, 5000.0, stats.Trabajadores[0].IngresoTotal)
	assert.Equal(t, "Ana", stats.Trabajadores[1].Nombre)
	assert.Equal(t, 20, stats.Trabajadores[1].VueltasTotal)
	assert.Equal(t, 2000.0, stats.Trabajadores[1].IngresoTotal)
}

func TestCalcularEstadisticas_LastThirtyRecords(t *testing.T) {
	var regs []model.RegistroDiario
	for i := 1; i <= 45; i++ {
		regs = append(regs, registro(fmt.Sprintf("2025-%02d-%02d", 6+(i-1)/30, 1+(i-1)%30), int64(i), 1, ""))
	}
	stats := CalcularEstadisticas(regs)

	require.Len(t, stats.EstadisticasDiarias, 30)
	assert.Equal(t, regs[15].Fecha, stats.EstadisticasDiarias[0].Fecha)
	assert.Equal(t, regs[44].Fecha, stats.EstadisticasDiarias[29].Fecha)
	assert.Equal(t, 45, stats.CantidadRegistros)
}

func TestEstadisticas_LoadFailureYieldsZeros(t *testing.T) {
	svc := NewDashboardService(&stubRegistroRepo{listErr: errors.New("connection refused")})
	stats := svc.Estadisticas(context.Background())
	assert.Zero(t, stats.CantidadRegistros)
	assert.NotNil(t, stats.EstadisticasDiarias)
}
