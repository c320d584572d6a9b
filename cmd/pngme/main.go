package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "pngme:", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:   "pngme",
		Usage:  "Hide, read and strip messages in PNG chunks",
		Flags:  globalFlags(),
		Before: setup,
		Commands: []*cli.Command{
			encodeCmd(),
			decodeCmd(),
			removeCmd(),
			printCmd(),
			serveCmd(),
			versionCmd(),
		},
	}
}
