// Package config loads the file sink's settings from YAML or JSON.
//
// Keys left out of a file keep the values from Default:
//
//	directory: Logs
//	file_name: logs-
//	extension: txt
//	periodicity: daily
//	file_size_limit: 10485760
//	files_per_periodicity_limit: 1
//	retained_file_count_limit: 2
//	formatter: simple
//	enabled: true
//	include_scopes: false
//	flush_period: 1s
//	shutdown_timeout: 5s
//	batch_size: 0
//
// Only enabled can change while the sink runs: Watch reloads the file on
// every change, and BindEnabled applies the flag to a running handler.
package config
