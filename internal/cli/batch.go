package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dvcrn/mpesa-go"
	"github.com/dvcrn/mpesa-go/internal/operation"
)

type batchResult struct {
	File    string         `json:"file"`
	Outcome *mpesa.Outcome `json:"outcome"`
}

func batchCmd(g *globals) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "batch <operation> <payload.json>...",
		Short: "Run one operation for several payloads concurrently over one client",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := operation.Parse(args[0])
			if err != nil {
				return err
			}
			if concurrency < 1 {
				return fmt.Errorf("--concurrency must be at least 1, got %d", concurrency)
			}
			files := args[1:]
			if err := checkSingleStdin(files); err != nil {
				return err
			}

			payloads := make([]map[string]interface{}, len(files))
			for i, f := range files {
				if payloads[i], err = readPayload(f, cmd.InOrStdin()); err != nil {
					return err
				}
			}

			client, _, log, err := g.client()
			if err != nil {
				return err
			}

			results := make([]batchResult, len(files))
			eg, ctx := errgroup.WithContext(commandContext(cmd))
			eg.SetLimit(concurrency)
			for i, f := range files {
				i, f := i, f // per-iteration copies; go.mod targets Go 1.21
				eg.Go(func() error {
					outcome, err := client.Dispatch(ctx, kind, payloads[i])
					if err != nil {
						return fmt.Errorf("%s: %w", f, err)
					}
					log.Debug().Str("file", f).Int("status_code", outcome.StatusCode).Msg("Batch item completed")
					results[i] = batchResult{File: f, Outcome: outcome}
					return nil
				})
			}
			if err := eg.Wait(); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 4, "Maximum requests in flight")
	return cmd
}

// checkSingleStdin allows "-" at most once since stdin can only be read once
func checkSingleStdin(files []string) error {
	seen := false
	for _, f := range files {
		if f != "-" {
			continue
		}
		if seen {
			return errors.New("stdin (-) may appear only once in a batch")
		}
		seen = true
	}
	return nil
}
