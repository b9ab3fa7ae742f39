package service

import (
	"context"
	"testing"
	"time"

	"dinocars/internal/auth"
	"dinocars/internal/dto"
	"dinocars/internal/model"
	"dinocars/internal/repository"
	"dinocars/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

func newTestAuthService() (AuthService, *stubUsuarioRepo, *auth.TokenIssuer) {
	repo := newStubUsuarioRepo()
	issuer := auth.NewTokenIssuer(testSecret, 24*time.Hour)
	return NewAuthService(repo, issuer), repo, issuer
}

func seedUser(t *testing.T, repo *stubUsuarioRepo, username, password, rol string) *model.Usuario {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	u := &model.Usuario{Username: username, HashedPassword: hash, Rol: rol}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func strPtr(s string) *string { return &s }

func TestLogin_Success(t *testing.T) {
	svc, repo, issuer := newTestAuthService()
	seedUser(t, repo, "ana", "secreta", auth.RoleManager)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "secreta"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 86400, resp.ExpiresIn)

	claims, err := issuer.Verify(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ana", claims.Username())
	assert.Equal(t, auth.RoleManager, claims.Role)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, repo, _ := newTestAuthService()
	seedUser(t, repo, "ana", "secreta", auth.RoleWorker)

	_, errWrongPass := svc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "mala"})
	_, errNoUser := svc.Login(context.Background(), dto.LoginRequest{Username: "nadie", Password: "secreta"})

	assert.ErrorIs(t, errWrongPass, ErrCredenciales)
	assert.ErrorIs(t, errNoUser, ErrCredenciales)
	assert.Equal(t, errWrongPass.Error(), errNoUser.Error())
}

func TestCrearUsuario_HashesAndDefaultsRole(t *testing.T) {
	svc, repo, _ := newTestAuthService()

	resp, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{Username: "beto", Password: "clave1"})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleWorker, resp.Rol)
	assert.NotNil(t, resp.Turnos)

	stored, err := repo.FindByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "clave1", stored.HashedPassword)
	assert.True(t, auth.VerifyPassword("clave1", stored.HashedPassword))
}

func TestCrearUsuario_Duplicate(t *testing.T) {
	svc, repo, _ := newTestAuthService()
	seedUser(t, repo, "beto", "x", auth.RoleWorker)

	_, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{Username: "beto", Password: "clave1"})
	assert.ErrorIs(t, err, ErrUsuarioDuplicado)
	assert.ErrorIs(t, err, ErrConflicto)
}

// lookupCiego misses every username lookup, as when a concurrent request
// inserts the same username between the check and the write.
type lookupCiego struct{ repository.UsuarioRepository }

func (lookupCiego) FindByUsername(context.Context, string) (*model.Usuario, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestCrearUsuario_UniqueIndexRace(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUsuarioRepository(testutil.NewDB(t))
	svc := NewAuthService(lookupCiego{repo}, auth.NewTokenIssuer(testSecret, time.Hour))

	_, err := svc.CrearUsuario(ctx, dto.CrearUsuarioRequest{Username: "dora", Password: "clave1"})
	require.NoError(t, err)
	_, err = svc.CrearUsuario(ctx, dto.CrearUsuarioRequest{Username: "dora", Password: "clave2"})
	assert.ErrorIs(t, err, ErrUsuarioDuplicado)

	otro, err := svc.CrearUsuario(ctx, dto.CrearUsuarioRequest{Username: "eva", Password: "clave3"})
	require.NoError(t, err)
	_, err = svc.ActualizarUsuario(ctx, otro.ID, dto.ActualizarUsuarioRequest{Username: strPtr("dora")})
	assert.ErrorIs(t, err, ErrUsuarioDuplicado)
}

func TestActualizarUsuario_PartialMerge(t *testing.T) {
	svc, repo, _ := newTestAuthService()
	u := seedUser(t, repo, "carla", "vieja", auth.RoleWorker)
	u.DefaultStartTime = strPtr("10:00")
	require.NoError(t, repo.Update(context.Background(), u))

	resp, err := svc.ActualizarUsuario(context.Background(), u.ID, dto.ActualizarUsuarioRequest{
		Rol:             strPtr(auth.RoleManager),
		HorariosUsuario: dto.HorariosUsuario{DefaultEndTime: strPtr("18:00")},
	})
	require.NoError(t, err)
	assert.Equal(t, "carla", resp.Username)
	assert.Equal(t, auth.RoleManager, resp.Rol)
	require.NotNil(t, resp.DefaultStartTime)
	assert.Equal(t, "10:00", *resp.DefaultStartTime)
	require.NotNil(t, resp.DefaultEndTime)
	assert.Equal(t, "18:00", *resp.DefaultEndTime)

	stored, _ := repo.FindByID(context.Background(), u.ID)
	assert.True(t, auth.VerifyPassword("vieja", stored.HashedPassword))
}

func TestActualizarUsuario_PasswordRehashed(t *testing.T) {
	svc, repo, _ := newTestAuthService()
	u := seedUser(t, repo, "carla", "vieja", auth.RoleWorker)

	_, err := svc.ActualizarUsuario(context.Background(), u.ID, dto.ActualizarUsuarioRequest{Password: strPtr("nueva")})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "carla", Password: "nueva"})
	assert.NoError(t, err)
	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "carla", Password: "vieja"})
	assert.ErrorIs(t, err, ErrCredenciales)
}

func TestActualizarUsuario_UsernameConflict(t *testing.T) {
	svc, repo, _ := newTestAuthService()
	seedUser(t, repo, "ana", "x", auth.RoleWorker)
	u := seedUser(t, repo, "beto", "x", auth.RoleWorker)

	_, err := svc.ActualizarUsuario(context.Background(), u.ID, dto.ActualizarUsuarioRequest{Username: strPtr("ana")})
	assert.ErrorIs(t, err, ErrUsuarioDuplicado)

	// same username is not a conflict with itself
	_, err = svc.ActualizarUsuario(context.Background(), u.ID, dto.ActualizarUsuarioRequest{Username: strPtr("beto")})
	assert.NoError(t, err)
}

func TestActualizarUsuario_NotFound(t *testing.T) {
	svc, _, _ := newTestAuthService()
	_, err := svc.ActualizarUsuario(context.Background(), 42, dto.ActualizarUsuarioRequest{})
	assert.ErrorIs(t, err, ErrUsuarioNoEncontrado)
}

func TestEliminarUsuario(t *testing.T) {
	svc, repo, _ := newTestAuthService()
	u := seedUser(t, repo, "ana", "x", auth.RoleWorker)

	require.NoError(t, svc.EliminarUsuario(context.Background(), u.ID))
	assert.ErrorIs(t, svc.EliminarUsuario(context.Background(), u.ID), ErrNoEncontrado)
}

func TestAsegurarAdmin_Idempotent(t *testing.T) {
	svc, repo, _ := newTestAuthService()

	created, err := svc.AsegurarAdmin(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.AsegurarAdmin(context.Background(), "admin", "otra")
	require.NoError(t, err)
	assert.False(t, created)

	n, _ := repo.Count(context.Background())
	assert.EqualValues(t, 1, n)

	admin, _ := repo.FindByUsername(context.Background(), "admin")
	assert.Equal(t, auth.RoleAdmin, admin.Rol)
	assert.True(t, auth.VerifyPassword("admin123", admin.HashedPassword))
}

func TestRestablecerPassword(t *testing.T) {
	svc, repo, _ := newTestAuthService()
	seedUser(t, repo, "ana", "vieja", auth.RoleWorker)

	require.NoError(t, svc.RestablecerPassword(context.Background(), "ana", "nueva"))
	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "ana", Password: "nueva"})
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.RestablecerPassword(context.Background(), "nadie", "x"), ErrUsuarioNoEncontrado)
}

func TestListarUsuarios_Pagination(t *testing.T) {
	svc, repo, _ := newTestAuthService()
	for _, name := range []string{"a", "b", "c"} {
		seedUser(t, repo, name, "x", auth.RoleWorker)
	}

	all, err := svc.ListarUsuarios(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	page, err := svc.ListarUsuarios(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "b", page[0].Username)
}
