package infra

import (
	"fmt"

	"dinocars/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the postgres pool backed by pgx. Schema changes are left
// to Migrate so the maintenance commands can connect without touching DDL.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return db, nil
}

// NewSQLiteDatabase opens a local SQLite file, the store the app used before
// moving to a hosted postgres. Also used by tests with ":memory:" style DSNs.
func NewSQLiteDatabase(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	return db, nil
}

// Migrate creates missing tables and columns, then applies the idempotent
// postgres-only patches.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Turno{},
		&model.RegistroDiario{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches reconciles databases created by earlier deployments.
// Each statement is guarded so re-running on a patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Shift columns were added after the first deployment.
		{"users.default_start_time", `ALTER TABLE users ADD COLUMN IF NOT EXISTS default_start_time VARCHAR(5)`},
		{"users.default_end_time", `ALTER TABLE users ADD COLUMN IF NOT EXISTS default_end_time VARCHAR(5)`},
		{"users.opening_start_time", `ALTER TABLE users ADD COLUMN IF NOT EXISTS opening_start_time VARCHAR(5)`},
		{"users.opening_end_time", `ALTER TABLE users ADD COLUMN IF NOT EXISTS opening_end_time VARCHAR(5)`},
		{"users.closing_start_time", `ALTER TABLE users ADD COLUMN IF NOT EXISTS closing_start_time VARCHAR(5)`},
		{"users.closing_end_time", `ALTER TABLE users ADD COLUMN IF NOT EXISTS closing_end_time VARCHAR(5)`},
		{"backfill users.role", `UPDATE users SET role = 'worker' WHERE role IS NULL OR role = ''`},
		// Old schedules FK had no ON DELETE rule.
		{"schedules.user_id cascade", `
DO $$ BEGIN
  IF EXISTS (SELECT 1 FROM pg_constraint
             WHERE conrelid = to_regclass('schedules') AND conname = 'schedules_user_id_fkey'
               AND confdeltype <> 'c') THEN
    ALTER TABLE schedules DROP CONSTRAINT schedules_user_id_fkey;
    ALTER TABLE schedules ADD CONSTRAINT schedules_user_id_fkey
      FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE;
  END IF;
END $$`},
		{"idx_schedules_user_date", `CREATE INDEX IF NOT EXISTS idx_schedules_user_date ON schedules (user_id, date)`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}

// TableCounts returns the row count of every application table.
func TableCounts(db *gorm.DB) (map[string]int64, error) {
	out := make(map[string]int64, 3)
	for _, m := range []interface{ TableName() string }{model.Usuario{}, model.Turno{}, model.RegistroDiario{}} {
		var n int64
		if err := db.Table(m.TableName()).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", m.TableName(), err)
		}
		out[m.TableName()] = n
	}
	return out, nil
}
