// Package filehandler writes batches of log messages to rolling files.
//
// Messages are grouped by the time bucket of their timestamp (minute,
// hour, day or month). Each bucket has its own file name:
//
//	{prefix}{digits}[.{counter}][.{extension}]
//
// where digits is the bucket start as yyyyMMdd[HH[mm]] or yyyyMM. With
// MaxFilesPerBucket of 1 a bucket has exactly one file and, once that
// file is past MaxFileSize, further messages for the bucket are dropped.
// With a larger value the writer rolls over to counter 1, 2, ... up to
// MaxFilesPerBucket-1 before dropping.
//
// After each batch the newest MaxRetainedBuckets buckets are kept and
// every file of older buckets is deleted. Files that do not match the
// naming pattern are never touched.
//
// NewFileHandler wires a RollingWriter behind a handler.BatchingHandler.
package filehandler
