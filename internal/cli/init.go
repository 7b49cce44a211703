package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dvcrn/mpesa-go/internal/credentials"
)

func initCmd(g *globals) *cobra.Command {
	var consumerKey, consumerSecret string
	var keychain, force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Store consumer credentials in the credentials file or the macOS keychain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			creds := credentials.Credentials{ConsumerKey: consumerKey, ConsumerSecret: consumerSecret}
			if !creds.Valid() {
				return errors.New("--consumer-key and --consumer-secret are required")
			}

			if keychain {
				if err := credentials.StoreKeychainCredentials(credentials.DefaultKeychainService, creds); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stored credentials in keychain item %q\n", credentials.DefaultKeychainService)
				return nil
			}

			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			path := cfg.CredsPath
			if path == "" {
				path = credentials.DefaultCredsPath()
			}
			if path == "" {
				return errors.New("could not determine credentials path, set creds_path")
			}
			if credentials.FileExists(path) && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}

			if err := credentials.InitFS(path, creds); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote credentials to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&consumerKey, "consumer-key", "", "Daraja app consumer key")
	cmd.Flags().StringVar(&consumerSecret, "consumer-secret", "", "Daraja app consumer secret")
	cmd.Flags().BoolVar(&keychain, "keychain", false, "Store in the macOS keychain instead of a file")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing credentials file")
	return cmd
}
