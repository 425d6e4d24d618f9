package config

import (
	"flag"
	"os"

	"github.com/rlocatelli9/daily-diet-api/internal/flagx"
)

func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the diet API")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	fs.StringVar(&cfg.ExportDir, "o", cfg.ExportDir, "directory for downloaded exports")

	return fs.Parse(args)
}
