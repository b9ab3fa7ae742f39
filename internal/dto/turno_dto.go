package dto

type CrearTurnoRequest struct {
	Fecha     string `json:"date"       validate:"required,datetime=2006-01-02"`
	HoraDesde string `json:"start_time" validate:"required,hhmm"`
	HoraHasta string `json:"end_time"   validate:"required,hhmm"`
}

// TurnosMasivoRequest creates one shift per matching weekday in [start_date, end_date].
// Weekdays use Monday=0 … Sunday=6.
type TurnosMasivoRequest struct {
	UserID     uint   `json:"user_id"    validate:"required"`
	Desde      string `json:"start_date" validate:"required"`
	Hasta      string `json:"end_date"   validate:"required"`
	DiasSemana []int  `json:"weekdays"   validate:"required,min=1,dive,min=0,max=6"`
	HoraDesde  string `json:"start_time" validate:"required,hhmm"`
	HoraHasta  string `json:"end_time"   validate:"required,hhmm"`
}

// TurnoFiltro are the query parameters of GET /schedules/.
type TurnoFiltro struct {
	Mes    string `form:"month"   validate:"omitempty,datetime=2006-01"`
	UserID uint   `form:"user_id"`
}

type TurnoResponse struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"user_id"`
	Fecha     string `json:"date"`
	HoraDesde string `json:"start_time"`
	HoraHasta string `json:"end_time"`
}

type TurnosMasivoResponse struct {
	Creados int `json:"created"`
}
