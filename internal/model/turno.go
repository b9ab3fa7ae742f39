package model

// Turno is one scheduled shift for a user on a calendar date.
type Turno struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;index"`
	Fecha     Date   `gorm:"column:date;type:date;not null;index"`
	HoraDesde string `gorm:"column:start_time;type:varchar(5);not null"`
	HoraHasta string `gorm:"column:end_time;type:varchar(5);not null"`
}

func (Turno) TableName() string { return "schedules" }
