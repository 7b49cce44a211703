package cli

import (
	"github.com/spf13/cobra"
)

func tokenCmd(g *globals) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Obtain an access token and print its status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, _, err := g.client()
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)
			if refresh {
				err = client.RefreshToken(ctx)
			} else {
				err = client.Authenticate(ctx)
			}
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"environment": client.Environment(),
				"status":      client.TokenStatus(),
			})
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Discard the current token and fetch a new one")
	return cmd
}
