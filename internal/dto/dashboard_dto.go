package dto

type EstadisticaDiaria struct {
	Fecha        string  `json:"date"`
	IngresoTotal float64 `json:"total_income"`
	VueltasTotal int     `json:"total_rides"`
}

type IngresoPorDia struct {
	DiaSemana    string  `json:"weekday"`
	IngresoTotal float64 `json:"total_income"`
}

type EstadisticaTrabajador struct {
	Nombre       string  `json:"worker_name"`
	VueltasTotal int     `json:"total_rides"`
	IngresoTotal float64 `json:"total_income"`
}

// DashboardStats is the admin overview. Every list is non-nil so the JSON
// carries [] instead of null.
type DashboardStats struct {
	IngresoTotal        float64                 `json:"total_revenue"`
	VueltasTotal        int                     `json:"total_rides"`
	CantidadRegistros   int                     `json:"records_count"`
	PromedioDiario      float64                 `json:"average_daily_income"`
	EstadisticasDiarias []EstadisticaDiaria     `json:"daily_stats"`
	IngresoPorDia       []IngresoPorDia         `json:"revenue_by_weekday"`
	Trabajadores        []EstadisticaTrabajador `json:"worker_stats"`
}
