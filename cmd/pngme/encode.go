package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pngme/internal/logger"
	"github.com/samcharles93/pngme/internal/pngstore"
	"github.com/samcharles93/pngme/internal/stego"
)

type encodeArgs struct {
	File          string
	ChunkType     string
	Message       string
	Output        string
	Yes           bool
	AllowCritical bool
}

func encodeCmd() *cli.Command {
	var a encodeArgs

	return &cli.Command{
		Name:    "encode",
		Aliases: []string{"e"},
		Usage:   "Hide a message in a chunk, replacing any chunk of the same type",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "path to png", Required: true, Destination: &a.File},
			&cli.StringFlag{Name: "chunk", Aliases: []string{"c"}, Usage: "chunk type, 4 letters (e.g. ruSt)", Destination: &a.ChunkType},
			&cli.StringFlag{Name: "message", Aliases: []string{"m", "msg"}, Usage: "the message", Required: true, Destination: &a.Message},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write to this file instead of rewriting --file", Destination: &a.Output},
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "do not ask before replacing an existing message", Destination: &a.Yes},
			&cli.BoolFlag{Name: "allow-critical", Usage: "allow an uppercase first letter (most decoders will reject the image)", Destination: &a.AllowCritical},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cfg.AssumeYes != nil && !cmd.IsSet("yes") {
				a.Yes = *cfg.AssumeYes
			}
			return runEncode(ctx, a)
		},
	}
}

func runEncode(ctx context.Context, a encodeArgs) error {
	chunkType, err := chunkTypeOrDefault(a.ChunkType)
	if err != nil {
		return err
	}
	log := logger.FromContext(ctx).With("file", a.File, "chunk_type", chunkType)

	p, err := pngstore.Load(ctx, a.File, parseOptions()...)
	if err != nil {
		return err
	}

	if p.ChunkByType(chunkType) != nil && !a.Yes && stdinIsTTY() {
		ok, err := confirm(stdin, stderr, fmt.Sprintf("%s already has a %s chunk; replace it?", a.File, chunkType))
		if err != nil {
			return err
		}
		if !ok {
			return errAborted
		}
	}

	c, err := stego.Encode(ctx, p, chunkType, []byte(a.Message), stego.EncodeOptions{
		Strict:        strict,
		AllowCritical: a.AllowCritical,
	})
	if err != nil {
		return err
	}

	out := a.Output
	if out == "" {
		out = a.File
	}
	if err := pngstore.Save(ctx, out, p); err != nil {
		return err
	}
	log.Info("message encoded", "output", out, "length", c.Length(), "crc", c.CRC())
	return nil
}
