package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "cryptidctl:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "cryptidctl",
		Usage: "Operate on cryptid credentials, tokens and the database schema",
		Commands: []*cli.Command{
			hashCmd(),
			issueCmd(),
			decodeCmd(),
			migrateCmd(),
		},
	}
}
