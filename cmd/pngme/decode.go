package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pngme/internal/pngstore"
	"github.com/samcharles93/pngme/internal/stego"
)

func decodeCmd() *cli.Command {
	var (
		file      string
		chunkType string
		showBytes bool
	)

	return &cli.Command{
		Name:    "decode",
		Aliases: []string{"d"},
		Usage:   "Print the message stored in a chunk",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "path to png", Required: true, Destination: &file},
			&cli.StringFlag{Name: "chunk", Aliases: []string{"c"}, Usage: "chunk type holding the message", Destination: &chunkType},
			&cli.BoolFlag{Name: "bytes", Usage: "also print the raw data bytes", Destination: &showBytes},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runDecode(ctx, file, chunkType, showBytes)
		},
	}
}

func runDecode(ctx context.Context, file, chunkType string, showBytes bool) error {
	chunkType, err := chunkTypeOrDefault(chunkType)
	if err != nil {
		return err
	}
	p, err := pngstore.Load(ctx, file, parseOptions()...)
	if err != nil {
		return err
	}
	msg, err := stego.Decode(ctx, p, chunkType)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	if showBytes {
		_, _ = fmt.Fprintf(stdout, "bytes: %v\n", msg.Data)
	}
	_, _ = fmt.Fprintln(stdout, msg.Text)
	return nil
}
