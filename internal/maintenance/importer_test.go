package maintenance

import (
	"bytes"
	"context"
	"testing"
	"time"

	"dinocars/internal/model"
	"dinocars/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var encabezadosPlanilla = []any{
	colFecha, colTotalAcumulado, colVueltas, colVueltasAdmin, colVueltasEfectivas,
	colIngresoEsperado, colEfectivoRetirado, colEfectivoEnCaja, colPagosTarjeta,
	colTotalContado, colEstado, colDiferencia, colEfectivoGenerado, colJuguetes,
}

// planilla builds an in-memory workbook with the given data rows.
func planilla(t *testing.T, filas ...[]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck
	hoja := f.GetSheetName(0)

	require.NoError(t, f.SetSheetRow(hoja, "A1", &encabezadosPlanilla))
	for i, fila := range filas {
		celda, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(hoja, celda, &fila))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportarXLSX_SortsAndChainsOdometer(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	buf := planilla(t,
		[]any{"2025-07-03", 1250, 30, 2, 28, 112000, 50000, 20000, 42000, 112000, "CUADRA", 0, 112000, 0},
		[]any{"2025-07-01", 1200, 20, 0, 20, 80000, 40000, 10000, 30000, 80000, "CUADRA", 0, 80000, 0},
		[]any{time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC), 1220, 20, 1, 19, 76000, 30000, 16000, 29000, 75000, "FALTANTE", -1000, 75000, 5000},
	)

	res, err := ImportarXLSX(ctx, db, buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-07-01", "2025-07-02", "2025-07-03"}, res.Importados)
	assert.Empty(t, res.Omitidos)

	var regs []model.RegistroDiario
	require.NoError(t, db.Order("date ASC").Find(&regs).Error)
	require.Len(t, regs, 3)

	// First row has no predecessor: prev = today - rides.
	assert.Equal(t, 1180, regs[0].TotalAcumuladoPrev)
	assert.Equal(t, 1200, regs[1].TotalAcumuladoPrev)
	assert.Equal(t, 1220, regs[2].TotalAcumuladoPrev)

	assert.Equal(t, "FALTANTE", regs[1].Estado)
	assert.True(t, regs[1].Diferencia.Equal(decimal.NewFromInt(-1000)))
	assert.True(t, regs[1].JuguetesTotal.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, "Importado desde Excel", regs[1].JuguetesDetalle)
	require.NotNil(t, regs[1].NombreTrabajador)
	assert.Equal(t, "Importado", *regs[1].NombreTrabajador)
	assert.Equal(t, "admin", regs[1].EnviadoPor)
}

func TestImportarXLSX_SkipsExistingDates(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&model.RegistroDiario{Fecha: "2025-07-01", TotalAcumuladoHoy: 1500, Estado: "CUADRA"}).Error)

	buf := planilla(t,
		[]any{"2025-07-01", 1200, 20},
		[]any{"2025-07-02", 1530, 30},
	)
	res, err := ImportarXLSX(ctx, db, buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-07-01"}, res.Omitidos)
	assert.Equal(t, []string{"2025-07-02"}, res.Importados)

	var nuevo model.RegistroDiario
	require.NoError(t, db.Where("date = ?", "2025-07-02").First(&nuevo).Error)
	// The stored record's odometer, not the spreadsheet one, feeds prev.
	assert.Equal(t, 1500, nuevo.TotalAcumuladoPrev)
	assert.Equal(t, "PENDIENTE", nuevo.Estado)

	// Re-running imports nothing.
	res, err = ImportarXLSX(ctx, db, planilla(t, []any{"2025-07-01", 1200, 20}, []any{"2025-07-02", 1530, 30}))
	require.NoError(t, err)
	assert.Empty(t, res.Importados)
	assert.Len(t, res.Omitidos, 2)
}

func TestImportarXLSX_IgnoresUnreadableDatesAndBlanks(t *testing.T) {
	db := testutil.NewDB(t)

	buf := planilla(t,
		[]any{"sin fecha", 100, 10},
		[]any{"01/08/2025", 100, 10, nil, nil, "n/a"},
	)
	res, err := ImportarXLSX(context.Background(), db, buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-08-01"}, res.Importados)

	var reg model.RegistroDiario
	require.NoError(t, db.First(&reg).Error)
	assert.True(t, reg.IngresoEsperado.IsZero())
	assert.Equal(t, 0, reg.VueltasAdmin)
}

func TestImportarXLSX_RequiresDateColumn(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck
	require.NoError(t, f.SetCellValue(f.GetSheetName(0), "A1", "Dia"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = ImportarXLSX(context.Background(), testutil.NewDB(t), buf)
	assert.ErrorIs(t, err, ErrSinColumnaFecha)
}

func TestParseFechaCelda(t *testing.T) {
	cases := map[string]string{
		"2025-07-01":          "2025-07-01",
		"2025-07-01 00:00:00": "2025-07-01",
		"31/12/2025":          "2025-12-31",
		"45839":               "2025-07-01",
	}
	for in, want := range cases {
		got, ok := parseFechaCelda(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := parseFechaCelda("  ")
	assert.False(t, ok)
}
