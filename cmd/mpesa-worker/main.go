//go:build js && wasm

package main

import (
	"os"

	"github.com/syumai/workers"
	"github.com/syumai/workers/cloudflare/fetch"

	"github.com/dvcrn/mpesa-go"
	"github.com/dvcrn/mpesa-go/internal/app"
	"github.com/dvcrn/mpesa-go/internal/credentials"
	"github.com/dvcrn/mpesa-go/internal/logger"
)

func main() {
	log := logger.New(os.Getenv("MPESA_LOG_LEVEL"))

	log.Info().Msg("Using Cloudflare KV credentials and token store")
	store, err := credentials.NewCloudflareKVStore()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Cloudflare KV store")
	}

	environment, adminAPIKey, err := store.Settings()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read settings from KV")
	}

	client, err := mpesa.New(
		mpesa.Config{Environment: environment},
		mpesa.WithHTTPClient(fetch.NewClient().HTTPClient(fetch.RedirectModeFollow)),
		mpesa.WithCredentialsFetcher(store),
		mpesa.WithTokenStore(store),
		mpesa.WithLogger(log),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Mpesa client")
	}

	// Serve using workers - it handles all the HTTP server setup
	workers.Serve(app.NewServer(client, adminAPIKey, log))
}
