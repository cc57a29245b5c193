package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jhoicas/whatsapp-order-bot/pkg/jwt"
)

type tokenResult struct {
	Subject   string `json:"subject"`
	Role      string `json:"role"`
	ExpiresIn int    `json:"expires_in_minutes"`
	Token     string `json:"token"`
}

// NewTokenCommand emite un JWT de operador firmado con JWT_SECRET.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		role    string
		minutes int
	)

	cmd := &cobra.Command{
		Use:   "token <operador>",
		Short: "Genera un token para la API de pedidos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if role != jwt.RoleOperator && role != jwt.RoleAdmin {
				return fmt.Errorf("rol inválido %q: debe ser %s o %s", role, jwt.RoleOperator, jwt.RoleAdmin)
			}
			cfg, err := rootOpts.LoadConfig()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			if minutes <= 0 {
				minutes = cfg.JWT.Expiration
			}
			tok, err := jwt.Generate(cfg.JWT.Secret, args[0], role, cfg.JWT.Issuer, minutes)
			if err != nil {
				return err
			}

			res := tokenResult{Subject: args[0], Role: role, ExpiresIn: minutes, Token: tok}
			return writeResult(cmd.OutOrStdout(), rootOpts.Format, res, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, res.Token)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&role, "role", jwt.RoleOperator, "rol del token (operator|admin)")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "vigencia en minutos (0 = JWT_EXPIRATION_MINUTES)")
	return cmd
}
