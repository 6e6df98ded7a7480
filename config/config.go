package config

import (
	"fmt"
	"time"

	"github.com/philipp01105/rollinglog/formatter"
	"github.com/philipp01105/rollinglog/handler/filehandler"
)

// Config is the file sink's configuration surface
type Config struct {
	Directory   string `koanf:"directory"`
	FileName    string `koanf:"file_name"`
	Extension   string `koanf:"extension"`
	Periodicity string `koanf:"periodicity"`
	// FileSizeLimit in bytes (0 = unlimited). A config file writes null
	// for unlimited; an explicit 0 there is rejected by Parse.
	FileSizeLimit int64 `koanf:"file_size_limit"`
	// FilesPerPeriodicityLimit above 1 enables counter-suffixed rollover.
	// It must be at least 1.
	FilesPerPeriodicityLimit int `koanf:"files_per_periodicity_limit"`
	// RetainedFileCountLimit is the number of periods kept on disk
	// (0 = all, written as null in a config file)
	RetainedFileCountLimit int    `koanf:"retained_file_count_limit"`
	Formatter              string `koanf:"formatter"`
	// Enabled is the only field honored on live reload
	Enabled         bool          `koanf:"enabled"`
	IncludeScopes   bool          `koanf:"include_scopes"`
	FlushPeriod     time.Duration `koanf:"flush_period"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	BatchSize       int           `koanf:"batch_size"`
}

// Default returns the configuration used for keys a source leaves out
func Default() Config {
	return Config{
		Directory:                "Logs",
		FileName:                 "logs-",
		Extension:                "txt",
		Periodicity:              "daily",
		FileSizeLimit:            10 * 1024 * 1024,
		FilesPerPeriodicityLimit: 1,
		RetainedFileCountLimit:   2,
		Formatter:                "simple",
		Enabled:                  true,
		FlushPeriod:              time.Second,
		ShutdownTimeout:          5 * time.Second,
	}
}

// Validate checks every field. Errors wrap ErrInvalidConfig and, for the
// file layout, the filehandler sentinel. A nil registry checks the
// formatter name against formatter.DefaultRegistry.
func (c Config) Validate(reg *formatter.Registry) error {
	if _, err := c.Options(); err != nil {
		return err
	}
	if c.FlushPeriod < 0 {
		return fmt.Errorf("%w: flush_period must not be negative, got %s", ErrInvalidConfig, c.FlushPeriod)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: shutdown_timeout must not be negative, got %s", ErrInvalidConfig, c.ShutdownTimeout)
	}
	if c.BatchSize < 0 {
		return fmt.Errorf("%w: batch_size must not be negative, got %d", ErrInvalidConfig, c.BatchSize)
	}
	if reg == nil {
		reg = formatter.DefaultRegistry()
	}
	if _, err := reg.Lookup(c.Formatter); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Options converts the file layout fields
func (c Config) Options() (filehandler.Options, error) {
	if c.FilesPerPeriodicityLimit < 1 {
		return filehandler.Options{}, fmt.Errorf("%w: %w: files_per_periodicity_limit must be at least 1, got %d",
			ErrInvalidConfig, filehandler.ErrInvalidFilesPerBucket, c.FilesPerPeriodicityLimit)
	}
	p, err := filehandler.ParsePeriodicity(c.Periodicity)
	if err != nil {
		return filehandler.Options{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	opts := filehandler.Options{
		Directory:          c.Directory,
		FileNamePrefix:     c.FileName,
		Extension:          c.Extension,
		Periodicity:        p,
		MaxFileSize:        c.FileSizeLimit,
		MaxFilesPerBucket:  c.FilesPerPeriodicityLimit,
		MaxRetainedBuckets: c.RetainedFileCountLimit,
	}
	if err := opts.Validate(); err != nil {
		return filehandler.Options{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return opts, nil
}

// FileConfig converts c into a filehandler configuration. Logger, Tee and
// MeterProvider are left for the caller to set.
func (c Config) FileConfig() (filehandler.FileConfig, error) {
	opts, err := c.Options()
	if err != nil {
		return filehandler.FileConfig{}, err
	}
	return filehandler.FileConfig{
		Options:         opts,
		FlushPeriod:     c.FlushPeriod,
		ShutdownTimeout: c.ShutdownTimeout,
		BatchSize:       c.BatchSize,
		Disabled:        !c.Enabled,
	}, nil
}
