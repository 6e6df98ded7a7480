package filehandler

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidOptions wraps every configuration error returned by
	// NewRollingWriter
	ErrInvalidOptions = errors.New("filehandler: invalid options")

	ErrEmptyPrefix           = errors.New("file name prefix must not be empty")
	ErrInvalidPrefix         = errors.New("file name prefix must not contain a path separator")
	ErrInvalidFileSize       = errors.New("file size limit must not be negative")
	ErrInvalidFilesPerBucket = errors.New("files per bucket must not be negative")
	ErrInvalidRetention      = errors.New("retained bucket limit must not be negative")
	ErrUnknownPeriodicity    = errors.New("unknown periodicity")
)

// Options configures the rolling file layout
type Options struct {
	// Directory holds the log files (default: current directory)
	Directory string
	// FileNamePrefix starts every file name (required)
	FileNamePrefix string
	// Extension without the leading dot; leading dots are stripped and an
	// empty extension yields names without one
	Extension string
	// Periodicity sets the width of a time bucket (default: Daily)
	Periodicity Periodicity
	// MaxFileSize is the size in bytes past which a file takes no more
	// writes (0 = unlimited)
	MaxFileSize int64
	// MaxFilesPerBucket allows rolling over to counter-suffixed files
	// within one bucket. 0 and 1 mean a single file without counter.
	MaxFilesPerBucket int
	// MaxRetainedBuckets keeps only the newest buckets on disk (0 = keep all)
	MaxRetainedBuckets int
}

// Validate reports the first configuration error in o, wrapped in
// ErrInvalidOptions
func (o Options) Validate() error {
	_, err := o.normalize()
	return err
}

// normalize validates o and fills in defaults
func (o Options) normalize() (Options, error) {
	if o.FileNamePrefix == "" {
		return o, fmt.Errorf("%w: %w", ErrInvalidOptions, ErrEmptyPrefix)
	}
	if strings.ContainsAny(o.FileNamePrefix, `/\`) {
		return o, fmt.Errorf("%w: %w: %q", ErrInvalidOptions, ErrInvalidPrefix, o.FileNamePrefix)
	}
	if o.MaxFileSize < 0 {
		return o, fmt.Errorf("%w: %w: got %d", ErrInvalidOptions, ErrInvalidFileSize, o.MaxFileSize)
	}
	if o.MaxFilesPerBucket < 0 {
		return o, fmt.Errorf("%w: %w: got %d", ErrInvalidOptions, ErrInvalidFilesPerBucket, o.MaxFilesPerBucket)
	}
	if o.MaxRetainedBuckets < 0 {
		return o, fmt.Errorf("%w: %w: got %d", ErrInvalidOptions, ErrInvalidRetention, o.MaxRetainedBuckets)
	}
	if !o.Periodicity.valid() {
		return o, fmt.Errorf("%w: %w %s", ErrInvalidOptions, ErrUnknownPeriodicity, o.Periodicity)
	}

	if o.Directory == "" {
		o.Directory = "."
	}
	if o.MaxFilesPerBucket == 0 {
		o.MaxFilesPerBucket = 1
	}
	o.Extension = strings.TrimLeft(o.Extension, ".")
	return o, nil
}

// multiFile reports whether file names carry a counter segment
func (o Options) multiFile() bool {
	return o.MaxFilesPerBucket > 1
}
