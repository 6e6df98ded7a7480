package config

import "errors"

var (
	// ErrUnsupportedFormat is returned for file extensions and formats
	// other than YAML and JSON
	ErrUnsupportedFormat = errors.New("config: unsupported config format")

	// ErrLoadFailed is returned when the config file cannot be read
	ErrLoadFailed = errors.New("config: failed to load config")

	// ErrParseFailed is returned when the data is not valid YAML or JSON
	// or does not fit the Config fields
	ErrParseFailed = errors.New("config: failed to parse config")

	// ErrInvalidConfig wraps every validation error
	ErrInvalidConfig = errors.New("config: invalid config")
)
