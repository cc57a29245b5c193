// Package cli implementa botctl, la herramienta de administración del bot.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jhoicas/whatsapp-order-bot/pkg/config"
)

// ValidFormats formatos de salida admitidos.
var ValidFormats = []string{"text", "json"}

// RootOptions flags globales y dependencias compartidas por los subcomandos.
type RootOptions struct {
	Format string

	// LoadConfig se sustituye en tests; por defecto config.Load.
	LoadConfig func() (*config.Config, error)
}

// NewRootCommand construye el comando raíz de botctl.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{LoadConfig: config.Load})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "botctl",
		Short: "Administración del bot de pedidos por WhatsApp",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("formato inválido %q: debe ser uno de %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "formato de salida (json|text)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))
	cmd.AddCommand(NewParseCommand(opts))

	return cmd
}

// writeResult imprime v como JSON indentado o, en modo texto, usa text.
func writeResult(w io.Writer, format string, v any, text func(io.Writer) error) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return text(w)
}
