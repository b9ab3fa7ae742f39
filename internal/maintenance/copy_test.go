package maintenance

import (
	"context"
	"testing"

	"dinocars/internal/model"
	"dinocars/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestCopiarBase_Idempotent(t *testing.T) {
	ctx := context.Background()
	origen := testutil.NewDB(t)
	destino := testutil.NewDB(t)

	// Destination already knows "admin" under a different id.
	require.NoError(t, destino.Create(&model.Usuario{Username: "otro", HashedPassword: "x", Rol: "worker"}).Error)
	require.NoError(t, destino.Create(&model.Usuario{Username: "admin", HashedPassword: "y", Rol: "admin"}).Error)

	admin := model.Usuario{Username: "admin", HashedPassword: "h1", Rol: "admin"}
	walter := model.Usuario{Username: "walter", HashedPassword: "h2", Rol: "worker"}
	require.NoError(t, origen.Create(&admin).Error)
	require.NoError(t, origen.Create(&walter).Error)
	require.NoError(t, origen.Create(&[]model.Turno{
		{UserID: walter.ID, Fecha: mustDate(t, "2025-07-05"), HoraDesde: "10:00", HoraHasta: "20:00"},
		{UserID: admin.ID, Fecha: mustDate(t, "2025-07-06"), HoraDesde: "09:00", HoraHasta: "13:00"},
	}).Error)
	require.NoError(t, origen.Create(&[]model.RegistroDiario{
		{Fecha: "2025-07-05", VueltasHoy: 12, TotalContado: decimal.NewFromInt(48000), Estado: "CUADRA"},
		{Fecha: "2025-07-06", VueltasHoy: 8, TotalContado: decimal.NewFromInt(30000), Estado: "FALTANTE"},
	}).Error)

	res, err := CopiarBase(ctx, origen, destino)
	require.NoError(t, err)
	assert.Equal(t, ResultadoCopia{Usuarios: 1, Registros: 2, Turnos: 2}, *res)

	var copiado model.Usuario
	require.NoError(t, destino.Where("username = ?", "walter").First(&copiado).Error)
	assert.Equal(t, "h2", copiado.HashedPassword)

	var adminDestino model.Usuario
	require.NoError(t, destino.Where("username = ?", "admin").First(&adminDestino).Error)
	assert.Equal(t, "y", adminDestino.HashedPassword, "existing users are not overwritten")

	var turnos []model.Turno
	require.NoError(t, destino.Order("date ASC").Find(&turnos).Error)
	require.Len(t, turnos, 2)
	assert.Equal(t, copiado.ID, turnos[0].UserID)
	assert.Equal(t, adminDestino.ID, turnos[1].UserID)

	res, err = CopiarBase(ctx, origen, destino)
	require.NoError(t, err)
	assert.Equal(t, ResultadoCopia{}, *res)
}

func TestReiniciarTurnos(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	u := model.Usuario{Username: "walter", HashedPassword: "h", Rol: "worker"}
	require.NoError(t, db.Create(&u).Error)
	require.NoError(t, db.Create(&model.Turno{UserID: u.ID, Fecha: mustDate(t, "2025-07-05"), HoraDesde: "10:00", HoraHasta: "20:00"}).Error)

	require.NoError(t, ReiniciarTurnos(ctx, db))

	var n int64
	require.NoError(t, db.Model(&model.Turno{}).Count(&n).Error)
	assert.Zero(t, n)
	var usuarios int64
	require.NoError(t, db.Model(&model.Usuario{}).Count(&usuarios).Error)
	assert.EqualValues(t, 1, usuarios)
}
