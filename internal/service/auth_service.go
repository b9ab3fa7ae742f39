package service

import (
	"context"
	"errors"
	"fmt"

	"dinocars/internal/auth"
	"dinocars/internal/dto"
	"dinocars/internal/model"
	"dinocars/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error)
	ObtenerUsuario(ctx context.Context, username string) (*dto.UsuarioResponse, error)
	CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context, skip, limit int) ([]dto.UsuarioResponse, error)
	ActualizarUsuario(ctx context.Context, id uint, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	EliminarUsuario(ctx context.Context, id uint) error
	// AsegurarAdmin creates an admin account unless username already exists.
	AsegurarAdmin(ctx context.Context, username, password string) (bool, error)
	RestablecerPassword(ctx context.Context, username, password string) error
}

type authService struct {
	repo   repository.UsuarioRepository
	tokens *auth.TokenIssuer
}

func NewAuthService(repo repository.UsuarioRepository, tokens *auth.TokenIssuer) AuthService {
	return &authService{repo: repo, tokens: tokens}
}

// ── Login ────────────────────────────────────────────────────────────────────

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCredenciales
		}
		return nil, err
	}
	if !auth.VerifyPassword(req.Password, user.HashedPassword) {
		return nil, ErrCredenciales
	}

	token, err := s.tokens.Issue(user.Username, user.Rol)
	if err != nil {
		return nil, fmt.Errorf("firmar token: %w", err)
	}
	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokens.TTL().Seconds()),
	}, nil
}

func (s *authService) ObtenerUsuario(ctx context.Context, username string) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFoundOr(err, ErrUsuarioNoEncontrado)
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

// ── Usuarios ─────────────────────────────────────────────────────────────────

func (s *authService) CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	if err := s.usernameLibre(ctx, req.Username); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	rol := req.Rol
	if rol == "" {
		rol = auth.RoleWorker
	}
	user := &model.Usuario{
		Username:       req.Username,
		HashedPassword: hash,
		Rol:            rol,
	}
	aplicarHorarios(user, req.HorariosUsuario)
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, duplicadoOr(err)
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) ListarUsuarios(ctx context.Context, skip, limit int) ([]dto.UsuarioResponse, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	users, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = usuarioToResponse(&users[i])
	}
	return resp, nil
}

// ActualizarUsuario merges the supplied fields into the stored user.
func (s *authService) ActualizarUsuario(ctx context.Context, id uint, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrUsuarioNoEncontrado)
	}
	if req.Username != nil && *req.Username != "" && *req.Username != user.Username {
		if err := s.usernameLibre(ctx, *req.Username); err != nil {
			return nil, err
		}
		user.Username = *req.Username
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.HashedPassword = hash
	}
	if req.Rol != nil && *req.Rol != "" {
		user.Rol = *req.Rol
	}
	aplicarHorarios(user, req.HorariosUsuario)

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, duplicadoOr(err)
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) EliminarUsuario(ctx context.Context, id uint) error {
	return notFoundOr(s.repo.Delete(ctx, id), ErrUsuarioNoEncontrado)
}

// ── Mantenimiento ────────────────────────────────────────────────────────────

func (s *authService) AsegurarAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	if err := s.repo.Create(ctx, &model.Usuario{Username: username, HashedPassword: hash, Rol: auth.RoleAdmin}); err != nil {
		return false, err
	}
	log.Info().Str("username", username).Msg("admin user created")
	return true, nil
}

func (s *authService) RestablecerPassword(ctx context.Context, username, password string) error {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return notFoundOr(err, ErrUsuarioNoEncontrado)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	user.HashedPassword = hash
	return s.repo.Update(ctx, user)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (s *authService) usernameLibre(ctx context.Context, username string) error {
	_, err := s.repo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return ErrUsuarioDuplicado
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return err
	}
}

// aplicarHorarios copies the supplied shift windows; an empty string clears one.
func aplicarHorarios(u *model.Usuario, h dto.HorariosUsuario) {
	set := func(dst **string, src *string) {
		if src == nil {
			return
		}
		if *src == "" {
			*dst = nil
			return
		}
		v := *src
		*dst = &v
	}
	set(&u.DefaultStartTime, h.DefaultStartTime)
	set(&u.DefaultEndTime, h.DefaultEndTime)
	set(&u.OpeningStartTime, h.OpeningStartTime)
	set(&u.OpeningEndTime, h.OpeningEndTime)
	set(&u.ClosingStartTime, h.ClosingStartTime)
	set(&u.ClosingEndTime, h.ClosingEndTime)
}

// duplicadoOr maps a unique-index violation that slipped past usernameLibre
// to ErrUsuarioDuplicado.
func duplicadoOr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUsuarioDuplicado
	}
	return err
}

// notFoundOr maps gorm.ErrRecordNotFound to notFound and passes anything else through.
func notFoundOr(err error, notFound *Error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	turnos := make([]dto.TurnoResponse, len(u.Turnos))
	for i := range u.Turnos {
		turnos[i] = turnoToResponse(&u.Turnos[i])
	}
	return dto.UsuarioResponse{
		ID:       u.ID,
		Username: u.Username,
		Rol:      u.Rol,
		HorariosUsuario: dto.HorariosUsuario{
			DefaultStartTime: u.DefaultStartTime,
			DefaultEndTime:   u.DefaultEndTime,
			OpeningStartTime: u.OpeningStartTime,
			OpeningEndTime:   u.OpeningEndTime,
			ClosingStartTime: u.ClosingStartTime,
			ClosingEndTime:   u.ClosingEndTime,
		},
		Turnos: turnos,
	}
}
