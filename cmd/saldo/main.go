package main

import (
	"fmt"
	"os"

	"saldo/internal/cli"
)

func main() {
	// Load .env file for local development
	cli.LoadEnvFile()

	ctx, cancel := cli.ShutdownContext(cli.SetupLogger(os.Getenv("LOG_LEVEL")))
	defer cancel()

	app := newApp(os.Stdout)
	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "saldo:", err)
		cancel()
		os.Exit(1)
	}
}
