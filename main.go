/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	releaseVersion = "0.1.0"
)

func main() {
	// A missing .env file is fine; real environment variables still apply.
	envFile := os.Getenv("WORDCHAIN_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	envErr := godotenv.Load(envFile)

	if envErr != nil && !os.IsNotExist(envErr) {
		logger.Warn().Err(envErr).Str("file", envFile).Msg("could not load env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cobra.CheckErr(newCmd(&Config{}).ExecuteContext(ctx))
}
