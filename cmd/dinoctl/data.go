package main

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"dinocars/internal/config"
	"dinocars/internal/infra"
	"dinocars/internal/maintenance"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create missing tables and apply schema patches",
	RunE: func(_ *cobra.Command, _ []string) error {
		_, db, err := openDatabase()
		if err != nil {
			return err
		}
		defer closeDatabase(db)

		if err := infra.Migrate(db); err != nil {
			return err
		}
		log.Info().Msg("esquema actualizado")
		return nil
	},
}

var importXLSXCmdFlags struct {
	File string
}

var importXLSXCmd = &cobra.Command{
	Use:   "import-xlsx",
	Short: "Import daily records from the cash spreadsheet",
	Long:  `Reads the first sheet of an .xlsx file with the headers "Fecha", "Total acumulado dinosaurios", "Vueltas", ... and inserts one daily record per date not already stored.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		f, err := os.Open(importXLSXCmdFlags.File)
		if err != nil {
			return err
		}
		defer f.Close() //nolint:errcheck

		_, db, err := openDatabase()
		if err != nil {
			return err
		}
		defer closeDatabase(db)

		res, err := maintenance.ImportarXLSX(cmd.Context(), db, f)
		if err != nil {
			return fmt.Errorf("import %s: %w", importXLSXCmdFlags.File, err)
		}
		for _, fecha := range res.Importados {
			fmt.Println("importado", fecha)
		}
		for _, fecha := range res.Omitidos {
			fmt.Println("omitido  ", fecha)
		}
		log.Info().Int("importados", len(res.Importados)).Int("omitidos", len(res.Omitidos)).Msg("importacion terminada")
		return nil
	},
}

var copyDBCmdFlags struct {
	From string
}

var copyDBCmd = &cobra.Command{
	Use:   "copy-db",
	Short: "Copy users, records and schedules from a local SQLite file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, destino, err := openDatabase()
		if err != nil {
			return err
		}
		defer closeDatabase(destino)

		desde := origenSQLite(cfg, copyDBCmdFlags.From)
		if _, err := os.Stat(desde); err != nil {
			return fmt.Errorf("sqlite source: %w", err)
		}
		origen, err := infra.NewSQLiteDatabase(desde)
		if err != nil {
			return err
		}
		defer closeDatabase(origen)

		if err := infra.Migrate(destino); err != nil {
			return err
		}
		res, err := maintenance.CopiarBase(cmd.Context(), origen, destino)
		if err != nil {
			return fmt.Errorf("copy %s: %w", desde, err)
		}
		fmt.Printf("Usuarios nuevos:  %s\n", humanize.Comma(int64(res.Usuarios)))
		fmt.Printf("Registros nuevos: %s\n", humanize.Comma(int64(res.Registros)))
		fmt.Printf("Turnos nuevos:    %s\n", humanize.Comma(int64(res.Turnos)))
		return nil
	},
}

// origenSQLite picks the --from flag, falling back to LOCAL_DB_PATH.
func origenSQLite(cfg *config.Config, flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.LocalDBPath
}

var resetSchedulesCmdFlags struct {
	Yes bool
}

var resetSchedulesCmd = &cobra.Command{
	Use:   "reset-schedules",
	Short: "Drop and recreate the schedules table (deletes every schedule)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !resetSchedulesCmdFlags.Yes {
			return errors.New("esta operacion borra todos los turnos; confirme con --yes")
		}
		_, db, err := openDatabase()
		if err != nil {
			return err
		}
		defer closeDatabase(db)

		if err := maintenance.ReiniciarTurnos(cmd.Context(), db); err != nil {
			return err
		}
		log.Info().Msg("tabla schedules recreada")
		return nil
	},
}

var dbStatsCmd = &cobra.Command{
	Use:   "db-stats",
	Short: "Show row counts per table",
	RunE: func(_ *cobra.Command, _ []string) error {
		_, db, err := openDatabase()
		if err != nil {
			return err
		}
		defer closeDatabase(db)

		counts, err := infra.TableCounts(db)
		if err != nil {
			return fmt.Errorf("failed to get database stats: %w", err)
		}
		tablas := make([]string, 0, len(counts))
		for t := range counts {
			tablas = append(tablas, t)
		}
		sort.Strings(tablas)

		fmt.Println("Database Statistics:")
		for _, t := range tablas {
			fmt.Printf("  %-14s %s\n", t, humanize.Comma(counts[t]))
		}
		return nil
	},
}

func init() {
	importXLSXCmd.Flags().StringVarP(&importXLSXCmdFlags.File, "file", "f", "", "Path to the .xlsx file")
	_ = importXLSXCmd.MarkFlagRequired("file")
	copyDBCmd.Flags().StringVar(&copyDBCmdFlags.From, "from", "", "Path to the local SQLite database (default: LOCAL_DB_PATH)")
	resetSchedulesCmd.Flags().BoolVar(&resetSchedulesCmdFlags.Yes, "yes", false, "Confirm the destructive reset")

	rootCmd.AddCommand(migrateCmd, importXLSXCmd, copyDBCmd, resetSchedulesCmd, dbStatsCmd)
}
