package infra

// pdf.go — monthly cash report using go-pdf/fpdf.
// Landscape A4 with:
//   - Title with the month
//   - One row per daily record (rides, counted cash, difference, status)
//   - Bold totals row

import (
	"fmt"
	"io"

	"dinocars/internal/model"

	"github.com/dustin/go-humanize"
	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// FormatPesos renders an amount as "$12.345,50".
func FormatPesos(d decimal.Decimal) string {
	s := humanize.FormatFloat("#.###,##", d.Abs().InexactFloat64())
	if d.IsNegative() {
		return "-$" + s
	}
	return "$" + s
}

// WriteReporteMensual renders the records of one month ("YYYY-MM"), oldest
// first, into w.
func WriteReporteMensual(w io.Writer, mes string, regs []model.RegistroDiario) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "DinoCars", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, tr("Reporte de caja "+mes), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Table header ─────────────────────────────────────────────────────────
	cols := []struct {
		titulo string
		ancho  float64
		align  string
	}{
		{"Fecha", 0.10, "L"},
		{"Trabajador", 0.16, "L"},
		{"Vueltas", 0.08, "R"},
		{"Esperado", 0.13, "R"},
		{"Contado", 0.13, "R"},
		{"Generado", 0.13, "R"},
		{"Diferencia", 0.13, "R"},
		{"Estado", 0.14, "C"},
	}
	pdf.SetFont("Helvetica", "B", 9)
	for i, c := range cols {
		ln := 0
		if i == len(cols)-1 {
			ln = 1
		}
		pdf.CellFormat(contentW*c.ancho, 6, c.titulo, "B", ln, c.align, false, 0, "")
	}

	// ── Rows ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	vueltas := 0
	generado, diferencia := decimal.Zero, decimal.Zero
	for _, r := range regs {
		nombre := ""
		if r.NombreTrabajador != nil {
			nombre = *r.NombreTrabajador
		}
		if r := []rune(nombre); len(r) > 24 {
			nombre = string(r[:23]) + "…"
		}
		celdas := []string{
			r.Fecha,
			tr(nombre),
			humanize.Comma(int64(r.VueltasEfectivas)),
			FormatPesos(r.IngresoEsperado),
			FormatPesos(r.TotalContado),
			FormatPesos(r.EfectivoDiarioGenerado),
			FormatPesos(r.Diferencia),
			r.Estado,
		}
		for i, c := range cols {
			ln := 0
			if i == len(cols)-1 {
				ln = 1
			}
			pdf.CellFormat(contentW*c.ancho, 5, celdas[i], "", ln, c.align, false, 0, "")
		}
		vueltas += r.VueltasEfectivas
		generado = generado.Add(r.EfectivoDiarioGenerado)
		diferencia = diferencia.Add(r.Diferencia)
	}

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.Ln(1)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW*(cols[0].ancho+cols[1].ancho), 6, tr(fmt.Sprintf("TOTAL (%d días)", len(regs))), "T", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*cols[2].ancho, 6, humanize.Comma(int64(vueltas)), "T", 0, "R", false, 0, "")
	pdf.CellFormat(contentW*(cols[3].ancho+cols[4].ancho), 6, "", "T", 0, "R", false, 0, "")
	pdf.CellFormat(contentW*cols[5].ancho, 6, FormatPesos(generado), "T", 0, "R", false, 0, "")
	pdf.CellFormat(contentW*cols[6].ancho, 6, FormatPesos(diferencia), "T", 0, "R", false, 0, "")
	pdf.CellFormat(contentW*cols[7].ancho, 6, "", "T", 1, "C", false, 0, "")

	if len(regs) == 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(contentW, 5, tr("Sin registros para el mes."), "", 1, "C", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: write report: %w", err)
	}
	return nil
}
