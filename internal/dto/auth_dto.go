package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LoginRequest is the OAuth2 password form posted to /token.
type LoginRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

type CrearUsuarioRequest struct {
	Username string `json:"username" validate:"required,min=1,max=150"`
	Password string `json:"password" validate:"required,min=4"`
	Rol      string `json:"role"     validate:"omitempty,oneof=admin manager worker"`
	HorariosUsuario
}

// ActualizarUsuarioRequest is a partial update: nil fields are left untouched.
type ActualizarUsuarioRequest struct {
	Username *string `json:"username" validate:"omitempty,min=1,max=150"`
	Password *string `json:"password" validate:"omitempty,min=4"`
	Rol      *string `json:"role"     validate:"omitempty,oneof=admin manager worker"`
	HorariosUsuario
}

// HorariosUsuario are the preferred shift windows, "HH:MM".
type HorariosUsuario struct {
	DefaultStartTime *string `json:"default_start_time" validate:"omitempty,hhmm"`
	DefaultEndTime   *string `json:"default_end_time"   validate:"omitempty,hhmm"`
	OpeningStartTime *string `json:"opening_start_time" validate:"omitempty,hhmm"`
	OpeningEndTime   *string `json:"opening_end_time"   validate:"omitempty,hhmm"`
	ClosingStartTime *string `json:"closing_start_time" validate:"omitempty,hhmm"`
	ClosingEndTime   *string `json:"closing_end_time"   validate:"omitempty,hhmm"`
}

// Paginacion are the skip/limit query parameters of list endpoints.
type Paginacion struct {
	Skip  int `form:"skip"  validate:"min=0"`
	Limit int `form:"limit" validate:"min=0,max=500"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Rol      string `json:"role"`
	HorariosUsuario
	Turnos []TurnoResponse `json:"schedules"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // seconds
}

// OKResponse is returned by delete endpoints.
type OKResponse struct {
	OK bool `json:"ok"`
}
