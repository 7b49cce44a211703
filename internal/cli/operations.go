package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dvcrn/mpesa-go/internal/operation"
)

var operationDescriptions = map[operation.Kind]string{
	operation.B2BPayment:        "Pay from one business shortcode to another",
	operation.B2CPayment:        "Pay from a business shortcode to a customer",
	operation.C2BRegisterURL:    "Register C2B confirmation and validation URLs",
	operation.C2BSimulate:       "Simulate a C2B payment (sandbox only)",
	operation.TransactionStatus: "Query the status of a transaction",
	operation.AccountBalance:    "Query a shortcode's account balance",
	operation.Reversal:          "Reverse a transaction",
	operation.STKPushQuery:      "Query the status of an STK push",
	operation.STKPushPayment:    "Send an STK push (Lipa na Mpesa Online) prompt",
}

func operationCmds(g *globals) []*cobra.Command {
	var cmds []*cobra.Command
	for _, kind := range operation.All() {
		cmds = append(cmds, operationCmd(g, kind))
	}
	return cmds
}

func operationCmd(g *globals, kind operation.Kind) *cobra.Command {
	var payloadPath string

	cmd := &cobra.Command{
		Use:     kind.String(),
		Aliases: aliases(kind),
		Short:   operationDescriptions[kind],
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(payloadPath, cmd.InOrStdin())
			if err != nil {
				return err
			}

			client, _, _, err := g.client()
			if err != nil {
				return err
			}

			outcome, err := client.Dispatch(commandContext(cmd), kind, payload)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), outcome)
		},
	}

	cmd.Flags().StringVarP(&payloadPath, "payload", "p", "-", "JSON payload file, or - for stdin")
	return cmd
}

func aliases(kind operation.Kind) []string {
	dashed := strings.ReplaceAll(kind.String(), "_", "-")
	if dashed == kind.String() {
		return nil
	}
	return []string{dashed}
}

// readPayload decodes a JSON object from path, or from stdin when path is "-"
func readPayload(path string, stdin io.Reader) (map[string]interface{}, error) {
	var raw []byte
	var err error
	if path == "" || path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var payload map[string]interface{}
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse payload %s: %w", displayName(path), err)
	}
	if payload == nil {
		return nil, errors.New("payload must be a JSON object")
	}
	return payload, nil
}

func displayName(path string) string {
	if path == "" || path == "-" {
		return "from stdin"
	}
	return path
}
