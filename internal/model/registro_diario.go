package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money travels as plain JSON numbers, the way the frontend sends them.
	decimal.MarshalJSONWithoutQuotes = true
}

// Cash reconciliation outcomes.
const (
	EstadoCuadra    = "CUADRA"
	EstadoExcedente = "EXCEDENTE"
	EstadoFaltante  = "FALTANTE"
)

// RegistroDiario is one end-of-day cash and ride reconciliation.
// Fecha is kept as a "YYYY-MM-DD" string so month filters can use a prefix match.
// No arithmetic consistency between the fields is enforced on write.
type RegistroDiario struct {
	ID        uint      `gorm:"primaryKey"`
	Fecha     string    `gorm:"column:date;type:varchar(10);not null;index"`
	CreatedAt time.Time

	TotalAcumuladoPrev int `gorm:"column:total_accumulated_prev;not null;default:0"`
	TotalAcumuladoHoy  int `gorm:"column:total_accumulated_today;not null;default:0"`
	VueltasHoy         int `gorm:"column:rides_today;not null;default:0"`
	VueltasAdmin       int `gorm:"column:admin_rides;not null;default:0"`
	VueltasEfectivas   int `gorm:"column:effective_rides;not null;default:0"`

	IngresoEsperado        decimal.Decimal `gorm:"column:expected_income;type:numeric(12,2);not null;default:0"`
	EfectivoRetirado       decimal.Decimal `gorm:"column:cash_withdrawn;type:numeric(12,2);not null;default:0"`
	EfectivoEnCaja         decimal.Decimal `gorm:"column:cash_in_box;type:numeric(12,2);not null;default:0"`
	PagosTarjeta           decimal.Decimal `gorm:"column:card_payments;type:numeric(12,2);not null;default:0"`
	TotalContado           decimal.Decimal `gorm:"column:total_counted;type:numeric(12,2);not null;default:0"`
	Diferencia             decimal.Decimal `gorm:"column:difference;type:numeric(12,2);not null;default:0"`
	EfectivoDiarioGenerado decimal.Decimal `gorm:"column:daily_cash_generated;type:numeric(12,2);not null;default:0"`
	JuguetesTotal          decimal.Decimal `gorm:"column:toys_sold_total;type:numeric(12,2);not null;default:0"`

	Estado           string  `gorm:"column:status;type:varchar(20)"`
	JuguetesDetalle  string  `gorm:"column:toys_sold_details;type:text"`
	NombreTrabajador *string `gorm:"column:worker_name"`
	EnviadoPor       string  `gorm:"column:submitted_by"`
}

func (RegistroDiario) TableName() string { return "daily_records" }
