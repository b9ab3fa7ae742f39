// Package maintenance holds one-off data operations run from dinoctl:
// spreadsheet import, legacy database copy and table resets.
package maintenance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"dinocars/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Spreadsheet headers, as exported by the owner's cash sheet.
const (
	colFecha            = "Fecha"
	colTotalAcumulado   = "Total acumulado dinosaurios"
	colVueltas          = "Vueltas"
	colVueltasAdmin     = "Vueltas administrativas"
	colVueltasEfectivas = "Vueltas efectivas"
	colIngresoEsperado  = "Ingresos esperados"
	colEfectivoRetirado = "Efectivo retirado"
	colEfectivoEnCaja   = "Efectivo en caja"
	colPagosTarjeta     = "Pagos en tarjeta"
	colTotalContado     = "Total contabilizado"
	colEstado           = "Estado caja"
	colDiferencia       = "Diferencia"
	colEfectivoGenerado = "Efectivo diario generado"
	colJuguetes         = "Juguetes vendidos"
)

const (
	estadoImportado     = "PENDIENTE"
	detalleImportado    = "Importado desde Excel"
	trabajadorImportado = "Importado"
	enviadoPorImportado = "admin"
)

var ErrSinColumnaFecha = errors.New("la planilla no tiene columna \"Fecha\"")

// ResultadoImport lists the dates written and the ones already present.
type ResultadoImport struct {
	Importados []string
	Omitidos   []string
}

// fila is one spreadsheet row keyed by header.
type fila struct {
	fecha  string
	campos map[string]string
}

func (f fila) entero(col string) int {
	d := f.decimal(col)
	return int(d.IntPart())
}

// decimal reads a numeric cell; blanks and non-numbers count as zero.
func (f fila) decimal(col string) decimal.Decimal {
	v := strings.TrimSpace(f.campos[col])
	if v == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(v, ",", "."))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ImportarXLSX loads daily records from the first sheet of an .xlsx workbook.
// Rows are processed oldest first; dates already stored are skipped and only
// feed the running odometer used as total_accumulated_prev of the next row.
func ImportarXLSX(ctx context.Context, db *gorm.DB, r io.Reader) (*ResultadoImport, error) {
	filas, err := leerPlanilla(r)
	if err != nil {
		return nil, err
	}

	res := &ResultadoImport{}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prev := 0
		for _, f := range filas {
			var existente model.RegistroDiario
			err := tx.Where("date = ?", f.fecha).Order("id ASC").First(&existente).Error
			if err == nil {
				log.Info().Str("fecha", f.fecha).Msg("registro existente, se omite")
				res.Omitidos = append(res.Omitidos, f.fecha)
				prev = existente.TotalAcumuladoHoy
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("buscar %s: %w", f.fecha, err)
			}

			reg := registroDesdeFila(f, prev)
			if err := tx.Create(reg).Error; err != nil {
				return fmt.Errorf("crear %s: %w", f.fecha, err)
			}
			res.Importados = append(res.Importados, f.fecha)
			prev = reg.TotalAcumuladoHoy
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// registroDesdeFila builds the record for one row. A zero prev means there is
// no earlier reading, so it is derived as today's odometer minus today's rides.
func registroDesdeFila(f fila, prev int) *model.RegistroDiario {
	hoy := f.entero(colTotalAcumulado)
	vueltas := f.entero(colVueltas)
	if prev == 0 {
		prev = hoy - vueltas
	}
	estado := strings.TrimSpace(f.campos[colEstado])
	if estado == "" {
		estado = estadoImportado
	}
	trabajador := trabajadorImportado

	return &model.RegistroDiario{
		Fecha:                  f.fecha,
		TotalAcumuladoPrev:     prev,
		TotalAcumuladoHoy:      hoy,
		VueltasHoy:             vueltas,
		VueltasAdmin:           f.entero(colVueltasAdmin),
		VueltasEfectivas:       f.entero(colVueltasEfectivas),
		IngresoEsperado:        f.decimal(colIngresoEsperado),
		EfectivoRetirado:       f.decimal(colEfectivoRetirado),
		EfectivoEnCaja:         f.decimal(colEfectivoEnCaja),
		PagosTarjeta:           f.decimal(colPagosTarjeta),
		TotalContado:           f.decimal(colTotalContado),
		Estado:                 estado,
		Diferencia:             f.decimal(colDiferencia),
		EfectivoDiarioGenerado: f.decimal(colEfectivoGenerado),
		JuguetesDetalle:        detalleImportado,
		JuguetesTotal:          f.decimal(colJuguetes),
		NombreTrabajador:       &trabajador,
		EnviadoPor:             enviadoPorImportado,
	}
}

// leerPlanilla returns the rows with a parseable date, sorted by date.
func leerPlanilla(r io.Reader) ([]fila, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("abrir planilla: %w", err)
	}
	defer wb.Close() //nolint:errcheck

	hojas := wb.GetSheetList()
	if len(hojas) == 0 {
		return nil, errors.New("la planilla no tiene hojas")
	}
	rows, err := wb.GetRows(hojas[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("leer hoja %q: %w", hojas[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrSinColumnaFecha
	}

	encabezados := make([]string, len(rows[0]))
	idxFecha := -1
	for i, h := range rows[0] {
		encabezados[i] = strings.TrimSpace(h)
		if encabezados[i] == colFecha {
			idxFecha = i
		}
	}
	if idxFecha < 0 {
		return nil, ErrSinColumnaFecha
	}

	var filas []fila
	for n, row := range rows[1:] {
		if idxFecha >= len(row) {
			continue
		}
		fecha, ok := parseFechaCelda(row[idxFecha])
		if !ok {
			log.Warn().Int("fila", n+2).Str("valor", row[idxFecha]).Msg("fecha ilegible, se omite la fila")
			continue
		}
		campos := make(map[string]string, len(encabezados))
		for i, h := range encabezados {
			if i < len(row) {
				campos[h] = row[i]
			}
		}
		filas = append(filas, fila{fecha: fecha, campos: campos})
	}

	sort.SliceStable(filas, func(i, j int) bool { return filas[i].fecha < filas[j].fecha })
	return filas, nil
}

var layoutsFecha = []string{
	model.DateLayout,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"02/01/2006",
	"2/1/2006",
}

// parseFechaCelda accepts Excel date serials and the usual textual layouts.
func parseFechaCelda(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", false
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return "", false
		}
		return t.Format(model.DateLayout), true
	}
	for _, layout := range layoutsFecha {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(model.DateLayout), true
		}
	}
	return "", false
}
