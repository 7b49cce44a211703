package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/dvcrn/mpesa-go"
)

func passwordCmd() *cobra.Command {
	var shortcode, passkey, timestamp string

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Compute the STK push Password and Timestamp fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if shortcode == "" || passkey == "" {
				return errors.New("--shortcode and --passkey are required")
			}
			if timestamp == "" {
				timestamp = mpesa.Timestamp(time.Now())
			}
			return printJSON(cmd.OutOrStdout(), map[string]string{
				"BusinessShortCode": shortcode,
				"Password":          mpesa.EncodePassword(shortcode, passkey, timestamp),
				"Timestamp":         timestamp,
			})
		},
	}

	cmd.Flags().StringVar(&shortcode, "shortcode", "", "Business shortcode")
	cmd.Flags().StringVar(&passkey, "passkey", "", "Lipa na Mpesa Online passkey")
	cmd.Flags().StringVar(&timestamp, "timestamp", "", "Timestamp as YYYYMMDDHHMMSS (default now)")
	return cmd
}
