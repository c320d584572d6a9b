package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pngme/internal/logger"
	"github.com/samcharles93/pngme/internal/pngstore"
	"github.com/samcharles93/pngme/internal/stego"
)

func removeCmd() *cli.Command {
	var file, chunkType, output string

	return &cli.Command{
		Name:    "remove",
		Aliases: []string{"r"},
		Usage:   "Remove the first chunk of a type",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "path to png", Required: true, Destination: &file},
			&cli.StringFlag{Name: "chunk", Aliases: []string{"c"}, Usage: "chunk type to remove", Destination: &chunkType},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write to this file instead of rewriting --file", Destination: &output},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runRemove(ctx, file, chunkType, output)
		},
	}
}

func runRemove(ctx context.Context, file, chunkType, output string) error {
	chunkType, err := chunkTypeOrDefault(chunkType)
	if err != nil {
		return err
	}
	p, err := pngstore.Load(ctx, file, parseOptions()...)
	if err != nil {
		return err
	}
	c, err := stego.Remove(ctx, p, chunkType)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	if output == "" {
		output = file
	}
	if err := pngstore.Save(ctx, output, p); err != nil {
		return err
	}
	logger.FromContext(ctx).Info("chunk removed", "file", file, "output", output, "chunk_type", chunkType, "length", c.Length())
	return nil
}
