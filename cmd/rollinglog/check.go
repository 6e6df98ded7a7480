package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/philipp01105/rollinglog/config"
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "validate the config and print the resolved settings",
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd.String("config"))
			if err != nil {
				return err
			}
			opts, err := cfg.Options()
			if err != nil {
				return err
			}

			w := cmd.Root().Writer
			fmt.Fprintln(w, "config ok")
			fmt.Fprintf(w, "  directory:    %s\n", opts.Directory)
			fmt.Fprintf(w, "  file names:   %s<%s>%s\n", opts.FileNamePrefix, opts.Periodicity, extensionSuffix(opts.Extension))
			fmt.Fprintf(w, "  size limit:   %s\n", limit(opts.MaxFileSize, "bytes"))
			fmt.Fprintf(w, "  files/period: %d\n", max(opts.MaxFilesPerBucket, 1))
			fmt.Fprintf(w, "  retention:    %s\n", limit(int64(opts.MaxRetainedBuckets), "periods"))
			fmt.Fprintf(w, "  formatter:    %s\n", cfg.Formatter)
			fmt.Fprintf(w, "  enabled:      %t\n", cfg.Enabled)
			return nil
		},
	}
}

// loadConfig loads and validates path, or returns the defaults when path
// is empty
func loadConfig(path string) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}
	if err := cfg.Validate(nil); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func extensionSuffix(ext string) string {
	ext = strings.TrimLeft(ext, ".")
	if ext == "" {
		return ""
	}
	return "." + ext
}

func limit(n int64, unit string) string {
	if n <= 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%d %s", n, unit)
}
