package model

// Usuario stores staff accounts.
// Rol: "admin" | "manager" | "worker". Rows written by older tools may hold other values; those get worker rights.
type Usuario struct {
	ID             uint   `gorm:"primaryKey"`
	Username       string `gorm:"uniqueIndex;not null"`
	HashedPassword string `gorm:"column:hashed_password;not null"`
	Rol            string `gorm:"column:role;type:varchar(20);not null;default:worker"`

	// Preferred shift windows, "HH:MM"
	DefaultStartTime *string `gorm:"type:varchar(5)"`
	DefaultEndTime   *string `gorm:"type:varchar(5)"`
	OpeningStartTime *string `gorm:"type:varchar(5)"`
	OpeningEndTime   *string `gorm:"type:varchar(5)"`
	ClosingStartTime *string `gorm:"type:varchar(5)"`
	ClosingEndTime   *string `gorm:"type:varchar(5)"`

	Turnos []Turno `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (Usuario) TableName() string { return "users" }
