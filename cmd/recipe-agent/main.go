// Package main runs the interactive recipe assistant.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fkayakent/recipe-pipeline/pkg/agent"
	loggerpkg "github.com/fkayakent/recipe-pipeline/pkg/logger"
	"github.com/joho/godotenv"
)

// main is the program entry point.
func main() {
	_ = godotenv.Load()

	config, err := parseCLIConfig(os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var appLogger loggerpkg.Logger = loggerpkg.NopLogger{}
	if config.Verbose {
		appLogger = loggerpkg.NewWriterLogger(os.Stderr)
	}
	style := newStyler(config.Render, os.Stdout)

	app, err := agent.New(context.Background(), config,
		agent.WithLogger(appLogger),
		agent.WithToolObserver(toolNotifier(os.Stdout, style)),
	)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := runREPL(app, replOptions{
		Verbose: config.Verbose,
		Logger:  appLogger,
		Style:   style,
	}, os.Stdin, os.Stdout); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
