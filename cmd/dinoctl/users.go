package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"dinocars/internal/auth"
	"dinocars/internal/config"
	"dinocars/internal/infra"
	"dinocars/internal/repository"
	"dinocars/internal/service"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// newAuthService builds the service used by the user commands. Tokens are
// never issued from the CLI, so the issuer secret is irrelevant.
func newAuthService(db *gorm.DB) service.AuthService {
	return service.NewAuthService(repository.NewUsuarioRepository(db), auth.NewTokenIssuer("dinoctl", time.Minute))
}

var seedAdminCmdFlags struct {
	Username string
	Password string
}

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the admin user if it does not exist",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, db, err := openDatabase()
		if err != nil {
			return err
		}
		defer closeDatabase(db)

		if err := infra.Migrate(db); err != nil {
			return err
		}
		username := seedAdminCmdFlags.Username
		if username == "" {
			username = cfg.AdminUsername
		}
		password := seedAdminCmdFlags.Password
		if password == "" {
			var ok bool
			if password, ok = cfg.AdminSeedPassword(); !ok {
				return errors.New("ADMIN_PASSWORD o --password es obligatorio en produccion")
			}
			if password == config.DefaultAdminPassword {
				log.Warn().Msg("usando la contraseña de admin por defecto")
			}
		}

		creado, err := newAuthService(db).AsegurarAdmin(cmd.Context(), username, password)
		if err != nil {
			return err
		}
		if !creado {
			log.Info().Str("username", username).Msg("el usuario ya existe, no se modifica")
		}
		return nil
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <username> <password>",
	Short: "Set a new password for a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDatabase()
		if err != nil {
			return err
		}
		defer closeDatabase(db)

		if err := newAuthService(db).RestablecerPassword(cmd.Context(), args[0], args[1]); err != nil {
			return fmt.Errorf("reset password for %s: %w", args[0], err)
		}
		log.Info().Str("username", args[0]).Msg("contraseña actualizada")
		return nil
	},
}

var listUsersCmd = &cobra.Command{
	Use:   "list-users",
	Short: "List users with their role and schedule count",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, db, err := openDatabase()
		if err != nil {
			return err
		}
		defer closeDatabase(db)

		repo := repository.NewUsuarioRepository(db)
		total, err := repo.Count(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		users, err := repo.List(cmd.Context(), 0, int(total))
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSERNAME\tROLE\tSCHEDULES")
		for _, u := range users {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Rol, humanize.Comma(int64(len(u.Turnos))))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("\n%s users\n", humanize.Comma(total))
		return nil
	},
}

var hashCmd = &cobra.Command{
	Use:   "hash <password>",
	Short: "Print the bcrypt hash of a password",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		h, err := auth.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Println(h)
		return nil
	},
}

func init() {
	seedAdminCmd.Flags().StringVar(&seedAdminCmdFlags.Username, "username", "", "Admin username (default: ADMIN_USERNAME)")
	seedAdminCmd.Flags().StringVar(&seedAdminCmdFlags.Password, "password", "", "Admin password (default: ADMIN_PASSWORD)")

	rootCmd.AddCommand(seedAdminCmd, resetPasswordCmd, listUsersCmd, hashCmd)
}
