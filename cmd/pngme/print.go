package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"text/tabwriter"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/samcharles93/pngme/internal/pngstore"
	"github.com/samcharles93/pngme/internal/stego"
	"github.com/samcharles93/pngme/pkg/png"
)

func printCmd() *cli.Command {
	var file, format string

	return &cli.Command{
		Name:    "print",
		Aliases: []string{"p"},
		Usage:   "Print the chunk layout of a PNG",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "path to png", Required: true, Destination: &file},
			&cli.StringFlag{Name: "format", Usage: "output format (table, json, yaml, hex)", Value: "table", Destination: &format},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p, err := pngstore.Load(ctx, file, parseOptions()...)
			if err != nil {
				return err
			}
			return writeReport(stdout, p, format)
		},
	}
}

func writeReport(w io.Writer, p *png.PNG, format string) error {
	switch format {
	case "hex":
		_, err := io.WriteString(w, hex.Dump(p.Bytes()))
		return err
	case "json":
		b, err := json.MarshalIndent(stego.Inspect(p), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(stego.Inspect(p)); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		return writeTable(w, stego.Inspect(p))
	default:
		return fmt.Errorf("unknown format %q (want table, json, yaml or hex)", format)
	}
}

func writeTable(w io.Writer, r stego.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "#\tOFFSET\tTYPE\tLENGTH\tCRC\tFLAGS")
	for _, c := range r.Chunks {
		_, _ = fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%08x\t%s\n", c.Index, c.Offset, c.Type, c.Length, c.CRC, flagString(c))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "%d chunks, %d bytes\n", len(r.Chunks), r.Size)
	for _, warn := range r.Warnings {
		_, _ = fmt.Fprintf(w, "warning: %s\n", warn)
	}
	return nil
}

// flagString renders the four case flags: critical/ancillary,
// public/private, reserved ok/set, unsafe/safe to copy.
func flagString(c stego.ChunkInfo) string {
	b := []byte("----")
	if c.Critical {
		b[0] = 'C'
	}
	if c.Public {
		b[1] = 'P'
	}
	if !c.ReservedBitValid {
		b[2] = 'R'
	}
	if c.SafeToCopy {
		b[3] = 'S'
	}
	return string(b)
}
