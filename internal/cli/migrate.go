package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/whatsapp-order-bot/internal/infrastructure/storage"
	"github.com/jhoicas/whatsapp-order-bot/pkg/logger"
)

type migrateResult struct {
	Driver string `json:"driver"`
	Status string `json:"status"`
}

// NewMigrateCommand aplica el esquema de Postgres o asegura los índices de Mongo según DB_DRIVER.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica el esquema (postgres) o crea los índices (mongo)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.LoadConfig()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.App.LogLevel)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			stores, err := storage.Open(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer stores.Close()

			if err := stores.Migrate(ctx); err != nil {
				return fmt.Errorf("migrar %s: %w", stores.Driver, err)
			}

			res := migrateResult{Driver: stores.Driver, Status: "ok"}
			return writeResult(cmd.OutOrStdout(), rootOpts.Format, res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "migración aplicada (%s)\n", res.Driver)
				return err
			})
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "tiempo máximo de la migración")
	return cmd
}
