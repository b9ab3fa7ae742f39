package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Vueltas ─────────────────────────────────────────────────────────────────

// CalculoVueltasRequest carries the counter readings of each dino ride.
type CalculoVueltasRequest struct {
	ContadoresDino     []int `json:"dino_counts"            validate:"required"`
	TotalAcumuladoPrev int   `json:"total_accumulated_prev"`
}

type CalculoVueltasResponse struct {
	TotalHoy   int `json:"total_today"`
	VueltasHoy int `json:"rides_today"`
}

// ─── Cuadre de caja ──────────────────────────────────────────────────────────

type CuadreCajaRequest struct {
	VueltasHoy       int             `json:"rides_today"     validate:"min=0"`
	VueltasAdmin     int             `json:"admin_rides"     validate:"min=0"`
	JuguetesTotal    decimal.Decimal `json:"toys_sold_total" validate:"min=0"`
	EfectivoRetirado decimal.Decimal `json:"cash_withdrawn"  validate:"min=0"`
	EfectivoEnCaja   decimal.Decimal `json:"cash_in_box"     validate:"min=0"`
	PagosTarjeta     decimal.Decimal `json:"card_payments"   validate:"min=0"`
	// Nil means "take it from the last stored record".
	EfectivoCajaPrevio *decimal.Decimal `json:"previous_cash_in_box"`
}

type CuadreCajaResponse struct {
	VueltasEfectivas       int             `json:"effective_rides"`
	IngresoEsperado        decimal.Decimal `json:"expected_income"`
	TotalContado           decimal.Decimal `json:"total_counted"`
	EfectivoCajaPrevio     decimal.Decimal `json:"previous_cash_in_box"`
	EfectivoDiarioGenerado decimal.Decimal `json:"daily_cash_generated"`
	Diferencia             decimal.Decimal `json:"difference"`
	Estado                 string          `json:"status"`
}

// ─── Registros diarios ───────────────────────────────────────────────────────

// RegistroRequest is used for both create and full-replace update.
type RegistroRequest struct {
	Fecha                  string          `json:"date"                    validate:"required"`
	TotalAcumuladoPrev     int             `json:"total_accumulated_prev"`
	TotalAcumuladoHoy      int             `json:"total_accumulated_today"`
	VueltasHoy             int             `json:"rides_today"`
	VueltasAdmin           int             `json:"admin_rides"`
	VueltasEfectivas       int             `json:"effective_rides"`
	IngresoEsperado        decimal.Decimal `json:"expected_income"`
	EfectivoRetirado       decimal.Decimal `json:"cash_withdrawn"`
	EfectivoEnCaja         decimal.Decimal `json:"cash_in_box"`
	PagosTarjeta           decimal.Decimal `json:"card_payments"`
	TotalContado           decimal.Decimal `json:"total_counted"`
	Estado                 string          `json:"status"                  validate:"required,max=20"`
	Diferencia             decimal.Decimal `json:"difference"`
	EfectivoDiarioGenerado decimal.Decimal `json:"daily_cash_generated"`
	JuguetesDetalle        string          `json:"toys_sold_details"`
	JuguetesTotal          decimal.Decimal `json:"toys_sold_total"`
	NombreTrabajador       *string         `json:"worker_name"`
}

type RegistroResponse struct {
	ID                     uint            `json:"id"`
	Fecha                  string          `json:"date"`
	CreatedAt              time.Time       `json:"created_at"`
	TotalAcumuladoPrev     int             `json:"total_accumulated_prev"`
	TotalAcumuladoHoy      int             `json:"total_accumulated_today"`
	VueltasHoy             int             `json:"rides_today"`
	VueltasAdmin           int             `json:"admin_rides"`
	VueltasEfectivas       int             `json:"effective_rides"`
	IngresoEsperado        decimal.Decimal `json:"expected_income"`
	EfectivoRetirado       decimal.Decimal `json:"cash_withdrawn"`
	EfectivoEnCaja         decimal.Decimal `json:"cash_in_box"`
	PagosTarjeta           decimal.Decimal `json:"card_payments"`
	TotalContado           decimal.Decimal `json:"total_counted"`
	Estado                 string          `json:"status"`
	Diferencia             decimal.Decimal `json:"difference"`
	EfectivoDiarioGenerado decimal.Decimal `json:"daily_cash_generated"`
	JuguetesDetalle        string          `json:"toys_sold_details"`
	JuguetesTotal          decimal.Decimal `json:"toys_sold_total"`
	NombreTrabajador       *string         `json:"worker_name"`
	EnviadoPor             string          `json:"submitted_by"`
}

// RegistroFiltro are the query parameters of GET /records/.
type RegistroFiltro struct {
	Fecha string `form:"date"  validate:"omitempty,datetime=2006-01-02"`
	Mes   string `form:"month" validate:"omitempty,datetime=2006-01"`
	Skip  int    `form:"skip"  validate:"min=0"`
	Limit int    `form:"limit" validate:"min=0,max=500"`
}
