package filehandler

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/philipp01105/rollinglog/core"
	"github.com/philipp01105/rollinglog/formatter"
)

var day1 = time.Date(2016, 5, 4, 3, 2, 1, 0, time.UTC)

func newWriter(t *testing.T, opts Options) *RollingWriter {
	t.Helper()
	if opts.Directory == "" {
		opts.Directory = t.TempDir()
	}
	if opts.FileNamePrefix == "" {
		opts.FileNamePrefix = "LogFile."
	}
	w, err := NewRollingWriter(opts, nil)
	require.NoError(t, err)
	return w
}

func render(t *testing.T, ts time.Time, level core.Level, text string) core.Message {
	t.Helper()
	rec := &core.Record{Time: ts, Level: level, Category: "Cat", Message: text}
	out, err := formatter.Render(formatter.NewSimpleFormatter(formatter.Config{}), rec)
	require.NoError(t, err)
	return core.Message{Time: ts, Text: out}
}

func line(ts time.Time, text string) core.Message {
	return core.Message{Time: ts, Text: text}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestRollingWriter_SameBucketSameFile(t *testing.T) {
	w := newWriter(t, Options{Extension: "txt"})

	batch := []core.Message{
		render(t, day1, core.InformationLevel, "Info message"),
		render(t, day1.Add(time.Hour), core.ErrorLevel, "Error message"),
	}
	res, err := w.WriteBatch(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Written)

	dir := w.Options().Directory
	assert.Equal(t, []string{"LogFile.20160504.txt"}, listDir(t, dir))
	assert.Equal(t,
		"2016-05-04 03:02:01.000 +00:00 [Information] Cat: Info message\n"+
			"2016-05-04 04:02:01.000 +00:00 [Error] Cat: Error message\n",
		readFile(t, filepath.Join(dir, "LogFile.20160504.txt")))
}

func TestRollingWriter_DifferentBucketsDifferentFiles(t *testing.T) {
	w := newWriter(t, Options{Extension: "txt"})

	batch := []core.Message{
		render(t, day1, core.InformationLevel, "Info message"),
		render(t, day1.Add(24*time.Hour), core.ErrorLevel, "Error message"),
	}
	res, err := w.WriteBatch(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Written)

	dir := w.Options().Directory
	assert.Equal(t, []string{"LogFile.20160504.txt", "LogFile.20160505.txt"}, listDir(t, dir))
	assert.Equal(t, "2016-05-04 03:02:01.000 +00:00 [Information] Cat: Info message\n",
		readFile(t, filepath.Join(dir, "LogFile.20160504.txt")))
	assert.Equal(t, "2016-05-05 03:02:01.000 +00:00 [Error] Cat: Error message\n",
		readFile(t, filepath.Join(dir, "LogFile.20160505.txt")))
}

func TestRollingWriter_InterleavedBucketsKeepOrder(t *testing.T) {
	w := newWriter(t, Options{Extension: "txt", Periodicity: Hourly})

	batch := []core.Message{
		line(day1, "a3\n"),
		line(day1.Add(time.Hour), "b4\n"),
		line(day1.Add(time.Minute), "c3\n"),
		line(day1.Add(time.Hour+time.Minute), "d4\n"),
	}
	_, err := w.WriteBatch(context.Background(), batch)
	require.NoError(t, err)

	dir := w.Options().Directory
	assert.Equal(t, "a3\nc3\n", readFile(t, filepath.Join(dir, "LogFile.2016050403.txt")))
	assert.Equal(t, "b4\nd4\n", readFile(t, filepath.Join(dir, "LogFile.2016050404.txt")))
}

func TestRollingWriter_ExtensionNormalization(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".txt", "LogFile.20160504.txt"},
		{"..log", "LogFile.20160504.log"},
		{"", "LogFile.20160504"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			w := newWriter(t, Options{Extension: tt.ext})
			_, err := w.WriteBatch(context.Background(), []core.Message{line(day1, "x\n")})
			require.NoError(t, err)
			assert.Equal(t, []string{tt.want}, listDir(t, w.Options().Directory))
		})
	}
}

func TestRollingWriter_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "Logs")
	w := newWriter(t, Options{Directory: dir, Extension: "txt"})

	_, err := w.WriteBatch(context.Background(), []core.Message{line(day1, "x\n")})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "LogFile.20160504.txt"))
}

func TestRollingWriter_SingleFileDropsWhenFull(t *testing.T) {
	w := newWriter(t, Options{Extension: "txt", MaxFileSize: 5})
	dir := w.Options().Directory
	writeFile(t, dir, "LogFile.20160504.txt", "0123456789")

	res, err := w.WriteBatch(context.Background(), []core.Message{line(day1, "dropped\n")})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Written)
	assert.Equal(t, 1, res.Dropped)

	assert.Equal(t, []string{"LogFile.20160504.txt"}, listDir(t, dir), "no new file may be created")
	assert.Equal(t, "0123456789", readFile(t, filepath.Join(dir, "LogFile.20160504.txt")))
}

func TestRollingWriter_FileAtLimitIsNotFull(t *testing.T) {
	w := newWriter(t, Options{Extension: "txt", MaxFileSize: 5})
	dir := w.Options().Directory
	writeFile(t, dir, "LogFile.20160504.txt", "01234")

	res, err := w.WriteBatch(context.Background(), []core.Message{line(day1, "x\n")})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Written)
	assert.Equal(t, "01234x\n", readFile(t, filepath.Join(dir, "LogFile.20160504.txt")))
}

func TestRollingWriter_FullBucketDoesNotBlockOthers(t *testing.T) {
	w := newWriter(t, Options{Extension: "txt", MaxFileSize: 5})
	dir := w.Options().Directory
	writeFile(t, dir, "LogFile.20160504.txt", "0123456789")

	res, err := w.WriteBatch(context.Background(), []core.Message{
		line(day1, "dropped\n"),
		line(day1.Add(24*time.Hour), "kept\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Written)
	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, "kept\n", readFile(t, filepath.Join(dir, "LogFile.20160505.txt")))
}

func TestRollingWriter_MultiFileRollover(t *testing.T) {
	w := newWriter(t, Options{Extension: "txt", MaxFileSize: 10, MaxFilesPerBucket: 3})
	dir := w.Options().Directory
	record := line(day1, "0123456789AB\n") // 13 bytes, one record fills a file

	for i := 0; i < 3; i++ {
		res, err := w.WriteBatch(context.Background(), []core.Message{record})
		require.NoError(t, err)
		require.Equal(t, 1, res.Written, "flush %d", i)
	}
	assert.Equal(t, []string{
		"LogFile.20160504.0.txt",
		"LogFile.20160504.1.txt",
		"LogFile.20160504.2.txt",
	}, listDir(t, dir))

	res, err := w.WriteBatch(context.Background(), []core.Message{record})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Written)
	assert.Equal(t, 1, res.Dropped)
	assert.Len(t, listDir(t, dir), 3)
}

func TestRollingWriter_PrefersFileUnderLimit(t *testing.T) {
	w := newWriter(t, Options{Extension: "txt", MaxFileSize: 100, MaxFilesPerBucket: 5})
	dir := w.Options().Directory

	for i := 0; i < 3; i++ {
		_, err := w.WriteBatch(context.Background(), []core.Message{line(day1, "small\n")})
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"LogFile.20160504.0.txt"}, listDir(t, dir))
	assert.Equal(t, "small\nsmall\nsmall\n", readFile(t, filepath.Join(dir, "LogFile.20160504.0.txt")))
}

func TestRollingWriter_CounterSortsNumerically(t *testing.T) {
	w := newWriter(t, Options{Extension: "txt", MaxFileSize: 100, MaxFilesPerBucket: 20})
	dir := w.Options().Directory
	writeFile(t, dir, "LogFile.20160504.2.txt", "")
	writeFile(t, dir, "LogFile.20160504.9.txt", "")
	writeFile(t, dir, "LogFile.20160504.10.txt", "")
	writeFile(t, dir, "LogFile.20160505.15.txt", "")

	assert.Equal(t, 10, w.currentCounter("20160504"))
	assert.Equal(t, 0, w.currentCounter("20160506"))

	_, err := w.WriteBatch(context.Background(), []core.Message{line(day1, "x\n")})
	require.NoError(t, err)
	assert.Equal(t, "x\n", readFile(t, filepath.Join(dir, "LogFile.20160504.10.txt")))
}

func TestRollingWriter_ToleratesExternalDeletion(t *testing.T) {
	w := newWriter(t, Options{Extension: "txt", MaxFileSize: 10, MaxFilesPerBucket: 3})
	dir := w.Options().Directory
	record := line(day1, "0123456789AB\n")

	_, err := w.WriteBatch(context.Background(), []core.Message{record})
	require.NoError(t, err)
	_, err = w.WriteBatch(context.Background(), []core.Message{record})
	require.NoError(t, err)

	// Someone removes every file between flushes
	for _, name := range listDir(t, dir) {
		require.NoError(t, os.Remove(filepath.Join(dir, name)))
	}

	res, err := w.WriteBatch(context.Background(), []core.Message{record})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Written)
	assert.Equal(t, []string{"LogFile.20160504.0.txt"}, listDir(t, dir))
}

func TestRollingWriter_RetentionDeletesWholeBuckets(t *testing.T) {
	w := newWriter(t, Options{Extension: "txt", MaxFilesPerBucket: 2, MaxRetainedBuckets: 2})
	dir := w.Options().Directory
	writeFile(t, dir, "LogFile.20160501.0.txt", "old")
	writeFile(t, dir, "LogFile.20160501.1.txt", "old")
	writeFile(t, dir, "LogFile.20160501.txt", "old")
	writeFile(t, dir, "LogFile.20160502.0.txt", "old")
	writeFile(t, dir, "LogFile.20160503.0.txt", "kept")
	writeFile(t, dir, "LogFile.notes.txt", "foreign")
	writeFile(t, dir, "Other.20160501.txt", "foreign")

	_, err := w.WriteBatch(context.Background(), []core.Message{line(day1, "new\n")})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"LogFile.20160503.0.txt",
		"LogFile.20160504.0.txt",
		"LogFile.notes.txt",
		"Other.20160501.txt",
	}, listDir(t, dir))
}

func TestRollingWriter_RetentionUnlimited(t *testing.T) {
	w := newWriter(t, Options{Extension: "txt"})
	dir := w.Options().Directory

	for i := 0; i < 5; i++ {
		_, err := w.WriteBatch(context.Background(), []core.Message{line(day1.AddDate(0, 0, i), "x\n")})
		require.NoError(t, err)
	}
	assert.Len(t, listDir(t, dir), 5)
}

func TestRollingWriter_RetentionKeepsNewestByKey(t *testing.T) {
	w := newWriter(t, Options{Extension: "txt", MaxRetainedBuckets: 3, Periodicity: Monthly})
	dir := w.Options().Directory

	// Written newest first to show that deletion follows bucket keys, not write order
	for _, month := range []time.Month{12, 11, 10, 9, 8} {
		ts := time.Date(2015, month, 1, 0, 0, 0, 0, time.UTC)
		_, err := w.WriteBatch(context.Background(), []core.Message{line(ts, "x\n")})
		require.NoError(t, err)
	}
	assert.Equal(t, []string{
		"LogFile.201510.txt",
		"LogFile.201511.txt",
		"LogFile.201512.txt",
	}, listDir(t, dir))
}

func TestRollingWriter_WriteErrorAbortsBatch(t *testing.T) {
	zc, logs := observer.New(zap.DebugLevel)
	opts := Options{Directory: t.TempDir(), FileNamePrefix: "LogFile.", Extension: "txt", MaxRetainedBuckets: 1}
	w, err := NewRollingWriter(opts, zap.New(zc))
	require.NoError(t, err)

	writeFile(t, opts.Directory, "LogFile.20160401.txt", "old")

	calls := 0
	w.openFile = func(path string) (*os.File, error) {
		calls++
		if strings.Contains(path, "20160505") {
			return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrPermission}
		}
		return openAppend(path)
	}

	res, err := w.WriteBatch(context.Background(), []core.Message{
		line(day1, "first\n"),
		line(day1.Add(24*time.Hour), "second\n"),
		line(day1.Add(48*time.Hour), "third\n"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.Equal(t, 1, res.Written)
	assert.Equal(t, 2, calls, "permission errors are not retried")

	// Third bucket was never attempted and retention was skipped
	assert.Equal(t, []string{"LogFile.20160401.txt", "LogFile.20160504.txt"}, listDir(t, opts.Directory))
	assert.Zero(t, logs.FilterMessage("removed expired log file").Len())
}

func TestRollingWriter_PanicKeepsPartialResult(t *testing.T) {
	w := newWriter(t, Options{Extension: "txt"})

	w.openFile = func(path string) (*os.File, error) {
		if strings.Contains(path, "20160505") {
			panic("disk controller reset")
		}
		return openAppend(path)
	}

	res, err := w.WriteBatch(context.Background(), []core.Message{
		line(day1, "first\n"),
		line(day1, "second\n"),
		line(day1.Add(24*time.Hour), "third\n"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
	assert.Equal(t, 2, res.Written)
	assert.Equal(t, "first\nsecond\n", readFile(t, filepath.Join(w.Options().Directory, "LogFile.20160504.txt")))
}

func TestRollingWriter_RetriesTransientOpenError(t *testing.T) {
	w := newWriter(t, Options{Extension: "txt"})

	calls := 0
	w.openFile = func(path string) (*os.File, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("resource temporarily unavailable")
		}
		return openAppend(path)
	}

	res, err := w.WriteBatch(context.Background(), []core.Message{line(day1, "x\n")})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Written)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "x\n", readFile(t, filepath.Join(w.Options().Directory, "LogFile.20160504.txt")))
}

func TestRollingWriter_CanceledContext(t *testing.T) {
	w := newWriter(t, Options{Extension: "txt"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := w.WriteBatch(ctx, []core.Message{line(day1, "x\n")})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, res.Written)
}

func TestRollingWriter_EmptyBatch(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never-created")
	w := newWriter(t, Options{Directory: dir})

	res, err := w.WriteBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, res.Written)
	assert.NoDirExists(t, dir)
}

func TestNewRollingWriter_Validation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want error
	}{
		{"empty prefix", Options{}, ErrEmptyPrefix},
		{"separator in prefix", Options{FileNamePrefix: "a/b"}, ErrInvalidPrefix},
		{"negative size", Options{FileNamePrefix: "p", MaxFileSize: -1}, ErrInvalidFileSize},
		{"negative files", Options{FileNamePrefix: "p", MaxFilesPerBucket: -1}, ErrInvalidFilesPerBucket},
		{"negative retention", Options{FileNamePrefix: "p", MaxRetainedBuckets: -2}, ErrInvalidRetention},
		{"bad periodicity", Options{FileNamePrefix: "p", Periodicity: Periodicity(9)}, ErrUnknownPeriodicity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRollingWriter(tt.opts, nil)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrInvalidOptions)
		})
	}
}

func TestNewRollingWriter_Defaults(t *testing.T) {
	w, err := NewRollingWriter(Options{FileNamePrefix: "p", Extension: ".log"}, nil)
	require.NoError(t, err)

	opts := w.Options()
	assert.Equal(t, ".", opts.Directory)
	assert.Equal(t, "log", opts.Extension)
	assert.Equal(t, 1, opts.MaxFilesPerBucket)
	assert.Equal(t, Daily, opts.Periodicity)
}
