package main

import (
	"errors"
	"fmt"

	"dinocars/internal/infra"
	"dinocars/internal/worker"

	"github.com/spf13/cobra"
)

var alertsDLQCmdFlags struct {
	Limit int64
}

var alertsDLQCmd = &cobra.Command{
	Use:   "alerts-dlq",
	Short: "Show alert jobs that exhausted their retries",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		rdb, err := infra.NewRedis(cfg.RedisURL)
		if err != nil {
			return err
		}
		if rdb == nil {
			return errors.New("REDIS_URL no configurado")
		}
		defer rdb.Close() //nolint:errcheck

		n, err := worker.DLQLength(cmd.Context(), rdb, worker.QueueAlertas)
		if err != nil {
			return fmt.Errorf("dlq length: %w", err)
		}
		fmt.Printf("%d alertas fallidas en %s\n", n, worker.QueueAlertas)

		entries, err := worker.DLQEntries(cmd.Context(), rdb, worker.QueueAlertas, alertsDLQCmdFlags.Limit)
		if err != nil {
			return fmt.Errorf("dlq entries: %w", err)
		}
		for _, e := range entries {
			fmt.Printf("  %s  %s  intentos=%d  %s\n  %s\n", e.FailedAt, e.JobType, e.Attempts, e.Reason, string(e.Payload))
		}
		return nil
	},
}

func init() {
	alertsDLQCmd.Flags().Int64VarP(&alertsDLQCmdFlags.Limit, "limit", "n", 10, "Number of entries to show")
	rootCmd.AddCommand(alertsDLQCmd)
}
