package filehandler

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	retry "github.com/avast/retry-go/v5"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/philipp01105/rollinglog/core"
	"github.com/philipp01105/rollinglog/handler"
)

const (
	openAttempts = 3
	openDelay    = 10 * time.Millisecond
)

// RollingWriter appends batches to time-bucketed files and prunes old
// buckets. Nothing about the directory is cached between batches; every
// WriteBatch rescans it, so files removed or rotated by someone else are
// picked up on the next flush.
type RollingWriter struct {
	opts Options
	log  *zap.Logger

	// openFile is swapped in tests to inject failures
	openFile func(path string) (*os.File, error)
}

// NewRollingWriter validates opts and creates the writer. A nil logger
// discards diagnostics.
func NewRollingWriter(opts Options, logger *zap.Logger) (*RollingWriter, error) {
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RollingWriter{
		opts:     opts,
		log:      logger,
		openFile: openAppend,
	}, nil
}

// Options returns the normalized options
func (w *RollingWriter) Options() Options {
	return w.opts
}

func openAppend(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// bucketGroup is the run of messages of one batch that share a bucket
type bucketGroup struct {
	key  string
	msgs []core.Message
}

// groupByBucket partitions batch by bucket key. Groups are ordered by
// first appearance and keep the batch order inside.
func (w *RollingWriter) groupByBucket(batch []core.Message) []bucketGroup {
	var groups []bucketGroup
	index := make(map[string]int)
	for _, msg := range batch {
		key := w.opts.Periodicity.BucketKey(msg.Time)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, bucketGroup{key: key})
		}
		groups[i].msgs = append(groups[i].msgs, msg)
	}
	return groups
}

// WriteBatch implements handler.BatchWriter. A group whose bucket has no
// file with room left is dropped and counted in Result.Dropped. The first
// write error aborts the batch; groups already appended stay written and
// retention is skipped.
//
// A panic while writing is returned as an error so that res still counts
// the groups appended before it.
func (w *RollingWriter) WriteBatch(ctx context.Context, batch []core.Message) (res handler.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("filehandler: write panicked: %v", r)
		}
	}()

	if len(batch) == 0 {
		return res, nil
	}

	if err := os.MkdirAll(w.opts.Directory, 0o755); err != nil {
		return res, fmt.Errorf("filehandler: create directory: %w", err)
	}

	for _, g := range w.groupByBucket(batch) {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		path, ok := w.resolve(g.key)
		if !ok {
			res.Dropped += len(g.msgs)
			w.log.Debug("bucket full, dropping records",
				zap.String("bucket", g.key),
				zap.Int("records", len(g.msgs)))
			continue
		}

		if err := w.appendTo(ctx, path, g.msgs); err != nil {
			return res, fmt.Errorf("filehandler: append to %s: %w", path, err)
		}
		res.Written += len(g.msgs)
	}

	if err := w.prune(); err != nil {
		w.log.Warn("retention pruning incomplete", zap.Error(err))
	}
	return res, nil
}

// resolve picks the file for bucket key. It reports false when every
// allowed file of the bucket is full.
func (w *RollingWriter) resolve(key string) (string, bool) {
	if !w.opts.multiFile() {
		path := w.path(key, -1)
		if w.full(path) {
			return "", false
		}
		return path, true
	}

	for counter := w.currentCounter(key); counter < w.opts.MaxFilesPerBucket; counter++ {
		path := w.path(key, counter)
		if !w.full(path) {
			return path, true
		}
	}
	return "", false
}

func (w *RollingWriter) path(key string, counter int) string {
	return filepath.Join(w.opts.Directory, fileName(w.opts.FileNamePrefix, key, counter, w.opts.Extension))
}

// full reports whether path is past the size limit. A file that cannot be
// stat'ed, including one that vanished, counts as available.
func (w *RollingWriter) full(path string) bool {
	if w.opts.MaxFileSize <= 0 {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Size() > w.opts.MaxFileSize
}

// currentCounter returns the highest counter on disk for bucket key, or 0
// when there is none or the directory cannot be read.
func (w *RollingWriter) currentCounter(key string) int {
	entries, err := os.ReadDir(w.opts.Directory)
	if err != nil {
		return 0
	}
	highest := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p, ok := w.parse(e.Name())
		if ok && p.key == key && p.counter > highest {
			highest = p.counter
		}
	}
	return highest
}

func (w *RollingWriter) parse(name string) (parsedName, bool) {
	return parseFileName(name, w.opts.FileNamePrefix, w.opts.Periodicity.width(), w.opts.Extension)
}

// appendTo writes msgs to path in order. Only opening the file is
// retried; once bytes may have reached the file the error is returned.
func (w *RollingWriter) appendTo(ctx context.Context, path string, msgs []core.Message) (err error) {
	f, err := retry.NewWithData[*os.File](
		retry.Context(ctx),
		retry.Attempts(openAttempts),
		retry.Delay(openDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, fs.ErrPermission)
		}),
	).Do(func() (*os.File, error) {
		return w.openFile(path)
	})
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	bw := bufio.NewWriterSize(f, 32*1024)
	for _, msg := range msgs {
		if _, err := bw.WriteString(msg.Text); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// prune deletes whole buckets beyond MaxRetainedBuckets, newest kept.
// Every file is attempted; failures are combined.
func (w *RollingWriter) prune() error {
	if w.opts.MaxRetainedBuckets <= 0 {
		return nil
	}
	entries, err := os.ReadDir(w.opts.Directory)
	if err != nil {
		return nil
	}

	buckets := make(map[string][]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if p, ok := w.parse(e.Name()); ok {
			buckets[p.key] = append(buckets[p.key], e.Name())
		}
	}
	if len(buckets) <= w.opts.MaxRetainedBuckets {
		return nil
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	// Keys are fixed-width digits, so string order is time order
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	var errs error
	for _, key := range keys[w.opts.MaxRetainedBuckets:] {
		for _, name := range buckets[key] {
			path := filepath.Join(w.opts.Directory, name)
			if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				errs = multierr.Append(errs, err)
				continue
			}
			w.log.Debug("removed expired log file", zap.String("path", path))
		}
	}
	return errs
}
