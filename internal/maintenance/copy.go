package maintenance

import (
	"context"
	"errors"
	"fmt"

	"dinocars/internal/infra"
	"dinocars/internal/model"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ResultadoCopia counts the rows inserted into the destination per table.
type ResultadoCopia struct {
	Usuarios  int
	Registros int
	Turnos    int
}

// CopiarBase copies users, daily records and schedules from origen (usually
// the legacy local SQLite file) into destino. Rows that already exist in the
// destination are left alone, so the copy can be re-run safely:
//   - users match by username;
//   - records match by date, rides_today and total_counted;
//   - schedules match by user, date and start time, the user being resolved
//     through its username.
func CopiarBase(ctx context.Context, origen, destino *gorm.DB) (*ResultadoCopia, error) {
	src := origen.WithContext(ctx)
	res := &ResultadoCopia{}

	err := destino.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		idsDestino, usernames, err := copiarUsuarios(src, tx, res)
		if err != nil {
			return err
		}
		if err := copiarRegistros(src, tx, res); err != nil {
			return err
		}
		return copiarTurnos(src, tx, usernames, idsDestino, res)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// copiarUsuarios returns username → destination id and source id → username.
func copiarUsuarios(src, tx *gorm.DB, res *ResultadoCopia) (map[string]uint, map[uint]string, error) {
	var usuarios []model.Usuario
	if err := src.Order("id ASC").Find(&usuarios).Error; err != nil {
		return nil, nil, fmt.Errorf("leer usuarios: %w", err)
	}

	idsDestino := make(map[string]uint, len(usuarios))
	usernames := make(map[uint]string, len(usuarios))
	for _, u := range usuarios {
		usernames[u.ID] = u.Username

		var existente model.Usuario
		err := tx.Where("username = ?", u.Username).First(&existente).Error
		switch {
		case err == nil:
			idsDestino[u.Username] = existente.ID
			continue
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, nil, fmt.Errorf("buscar usuario %s: %w", u.Username, err)
		}

		nuevo := u
		nuevo.ID = 0
		nuevo.Turnos = nil
		if err := tx.Create(&nuevo).Error; err != nil {
			return nil, nil, fmt.Errorf("crear usuario %s: %w", u.Username, err)
		}
		idsDestino[u.Username] = nuevo.ID
		res.Usuarios++
	}
	log.Info().Int("nuevos", res.Usuarios).Int("origen", len(usuarios)).Msg("usuarios copiados")
	return idsDestino, usernames, nil
}

func copiarRegistros(src, tx *gorm.DB, res *ResultadoCopia) error {
	var regs []model.RegistroDiario
	if err := src.Order("date ASC, id ASC").Find(&regs).Error; err != nil {
		return fmt.Errorf("leer registros: %w", err)
	}

	for _, r := range regs {
		var n int64
		err := tx.Model(&model.RegistroDiario{}).
			Where("date = ? AND rides_today = ? AND total_counted = ?", r.Fecha, r.VueltasHoy, r.TotalContado).
			Count(&n).Error
		if err != nil {
			return fmt.Errorf("buscar registro %s: %w", r.Fecha, err)
		}
		if n > 0 {
			continue
		}

		nuevo := r
		nuevo.ID = 0
		if err := tx.Create(&nuevo).Error; err != nil {
			return fmt.Errorf("crear registro %s: %w", r.Fecha, err)
		}
		res.Registros++
	}
	log.Info().Int("nuevos", res.Registros).Int("origen", len(regs)).Msg("registros copiados")
	return nil
}

func copiarTurnos(src, tx *gorm.DB, usernames map[uint]string, idsDestino map[string]uint, res *ResultadoCopia) error {
	var turnos []model.Turno
	if err := src.Order("date ASC, id ASC").Find(&turnos).Error; err != nil {
		return fmt.Errorf("leer turnos: %w", err)
	}

	for _, t := range turnos {
		userID, ok := idsDestino[usernames[t.UserID]]
		if !ok {
			log.Warn().Uint("turno_id", t.ID).Uint("user_id", t.UserID).Msg("turno sin usuario en origen, se omite")
			continue
		}

		var n int64
		err := tx.Model(&model.Turno{}).
			Where("user_id = ? AND date = ? AND start_time = ?", userID, t.Fecha, t.HoraDesde).
			Count(&n).Error
		if err != nil {
			return fmt.Errorf("buscar turno %s: %w", t.Fecha, err)
		}
		if n > 0 {
			continue
		}

		nuevo := model.Turno{UserID: userID, Fecha: t.Fecha, HoraDesde: t.HoraDesde, HoraHasta: t.HoraHasta}
		if err := tx.Create(&nuevo).Error; err != nil {
			return fmt.Errorf("crear turno %s: %w", t.Fecha, err)
		}
		res.Turnos++
	}
	log.Info().Int("nuevos", res.Turnos).Int("origen", len(turnos)).Msg("turnos copiados")
	return nil
}

// ReiniciarTurnos drops the schedules table and recreates it empty with the
// current schema, foreign key included.
func ReiniciarTurnos(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).Migrator().DropTable(&model.Turno{}); err != nil {
		return fmt.Errorf("drop schedules: %w", err)
	}
	if err := infra.Migrate(db.WithContext(ctx)); err != nil {
		return fmt.Errorf("create schedules: %w", err)
	}
	return nil
}
