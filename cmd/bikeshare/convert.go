package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/xtxerr/bikeshare/internal/errors"
	"github.com/xtxerr/bikeshare/internal/loader"
	"github.com/xtxerr/bikeshare/internal/logging"
	"github.com/xtxerr/bikeshare/internal/source"
	"github.com/xtxerr/bikeshare/internal/validation"
)

// runConvert loads one city and writes it to a Parquet file.
func runConvert(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	var g globalFlags
	g.register(fs)
	city := fs.String("city", "", "city to convert (required)")
	dest := fs.String("out", "", "output parquet file (required)")
	compression := fs.String("compression", "", "snappy, zstd, lz4, gzip or none (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *city == "" {
		return errors.NewMissingField("-city")
	}
	if *dest == "" {
		return errors.NewMissingField("-out")
	}

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	if *compression != "" {
		cfg.Export.Compression = *compression
	}

	l := loader.FromConfig(cfg)
	c, err := validation.ParseCity(l.Registry(), *city)
	if err != nil {
		return err
	}

	table, report, err := l.LoadCity(ctx, c)
	if err != nil {
		return err
	}

	n, err := source.WriteParquet(*dest, table, cfg.Export.Compression)
	if err != nil {
		return errors.Wrapf(err, "write %s", *dest)
	}

	logging.Component("convert").Info("city converted",
		"city", c.Name, "rows", n, "skipped", report.Skipped,
		"out", *dest, "compression", cfg.Export.Compression)
	fmt.Fprintf(out, "Wrote %d %s trips to %s\n", n, c.Name, *dest)
	return nil
}
