package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dvcrn/mpesa-go/internal/operation"
	"github.com/dvcrn/mpesa-go/internal/schema"
)

func templateCmd() *cobra.Command {
	var fields bool

	cmd := &cobra.Command{
		Use:   "template <operation>",
		Short: "Print a sandbox payload for an operation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := operation.Parse(args[0])
			if err != nil {
				return err
			}

			if fields {
				s, err := schema.For(kind)
				if err != nil {
					return err
				}
				required, optional := s.Fields()
				return printJSON(cmd.OutOrStdout(), map[string]interface{}{
					"schema":   s.Name,
					"required": required,
					"optional": optional,
				})
			}

			sample := schema.Sample(kind)
			if sample == nil {
				return fmt.Errorf("no template for %s", kind)
			}
			return printJSON(cmd.OutOrStdout(), sample)
		},
	}

	cmd.Flags().BoolVar(&fields, "fields", false, "List required and optional fields instead")
	return cmd
}
