package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/whatsapp-order-bot/internal/application/conversation"
)

type parseResult struct {
	Valid       bool   `json:"valid"`
	ProductName string `json:"product_name,omitempty"`
	Quantity    int    `json:"quantity,omitempty"`
	UnitPrice   string `json:"unit_price,omitempty"`
	Total       string `json:"total,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// NewParseCommand prueba una línea de pedido contra el parser sin tocar el store.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   `parse "Order: <producto>, qty: <n>"`,
		Short: "Interpreta una línea de pedido con el precio unitario configurado",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.LoadConfig()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}

			line := strings.Join(args, " ")
			var res parseResult
			item, err := conversation.ParseOrderLine(line, cfg.Order.UnitPrice)
			var perr *conversation.ParseError
			switch {
			case err == nil:
				res = parseResult{
					Valid:       true,
					ProductName: item.ProductName,
					Quantity:    item.Quantity,
					UnitPrice:   item.UnitPrice.String(),
					Total:       item.Subtotal().String(),
				}
			case errors.As(err, &perr):
				res = parseResult{Reason: perr.Reason.String()}
			default:
				return err
			}

			return writeResult(cmd.OutOrStdout(), rootOpts.Format, res, func(w io.Writer) error {
				if !res.Valid {
					_, err := fmt.Fprintf(w, "inválida: %s\n", res.Reason)
					return err
				}
				_, err := fmt.Fprintf(w, "%s x%d @ %s = %s\n", res.ProductName, res.Quantity, res.UnitPrice, res.Total)
				return err
			})
		},
	}
}
