package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/philipp01105/rollinglog/config"
	"github.com/philipp01105/rollinglog/core"
	"github.com/philipp01105/rollinglog/handler"
	"github.com/philipp01105/rollinglog/handler/filehandler"
	"github.com/philipp01105/rollinglog/logger"
)

func pipeCommand() *cli.Command {
	return &cli.Command{
		Name:  "pipe",
		Usage: "log every stdin line until stdin closes or a signal arrives",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "category",
				Usage: "category written with every record",
				Value: "Pipe",
			},
			&cli.StringFlag{
				Name:  "level",
				Usage: "level of every record (trace, debug, information, warning, error, critical)",
				Value: "information",
			},
			&cli.BoolFlag{
				Name:  "tee",
				Usage: "also write every flushed batch to stdout",
			},
			&cli.StringFlag{
				Name:  "diag-file",
				Usage: "write the sink's own diagnostics to this size-rotated file instead of stderr",
			},
			&cli.StringFlag{
				Name:  "diag-level",
				Usage: "minimum level of diagnostics (debug, info, warn, error)",
				Value: "warn",
			},
		},
		Action: runPipe,
	}
}

func runPipe(ctx context.Context, cmd *cli.Command) (err error) {
	level, err := core.ParseLevel(cmd.String("level"))
	if err != nil {
		return err
	}
	configPath := cmd.String("config")
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	root := cmd.Root()
	diag, closeDiag, err := newDiagLogger(cmd.String("diag-file"), cmd.String("diag-level"), root.ErrWriter)
	if err != nil {
		return err
	}
	defer func() {
		_ = diag.Sync()
		err = multierr.Append(err, closeDiag())
	}()

	fc, err := cfg.FileConfig()
	if err != nil {
		return err
	}
	fc.Logger = diag
	if cmd.Bool("tee") {
		fc.Tee = handler.NewConsoleWriter(root.Writer)
	}

	h, err := filehandler.NewFileHandler(fc)
	if err != nil {
		return err
	}
	p, err := logger.NewBuilder().
		WithHandler(h).
		WithFormatterName(cfg.Formatter).
		WithIncludeScopes(cfg.IncludeScopes).
		WithDiagnostics(diag).
		Build()
	if err != nil {
		return multierr.Append(err, h.Close())
	}
	defer func() {
		err = multierr.Append(err, p.Close())
		snap := h.Stats()
		diag.Info("sink closed",
			zap.Uint64("enqueued", snap.Enqueued),
			zap.Uint64("written", snap.Written),
			zap.Uint64("dropped", snap.TotalDropped()))
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines, readErr := readLines(ctx, root.Reader)
	log := p.CreateLogger(cmd.String("category"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// stdin EOF ends the run
		defer cancel()
		for {
			select {
			case <-gctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok {
					return <-readErr
				}
				log.Log(level, core.EventID{}, line, nil, nil)
			}
		}
	})
	if configPath != "" {
		g.Go(func() error {
			return config.Watch(gctx, configPath, config.BindEnabled(cfg, h, diag))
		})
	}
	return g.Wait()
}

// readLines scans r on its own goroutine. lines is closed at EOF, after
// the scan error (or nil) has been sent on the second channel. A read
// blocked on r outlives ctx; the process is about to exit then.
func readLines(ctx context.Context, r io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 64*1024), 1024*1024)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				errc <- nil
				return
			}
		}
		if err := sc.Err(); err != nil {
			errc <- fmt.Errorf("read stdin: %w", err)
			return
		}
		errc <- nil
	}()
	return lines, errc
}

// newDiagLogger builds the JSON diagnostics logger. With a path the output
// goes to a lumberjack-rotated file, otherwise to w.
func newDiagLogger(path, level string, w io.Writer) (*zap.Logger, func() error, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("diag-level: %w", err)
	}

	ws := zapcore.AddSync(w)
	closeFn := func() error { return nil }
	if path != "" {
		lj := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		ws = zapcore.AddSync(lj)
		closeFn = lj.Close
	}

	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(enc, ws, lvl)), closeFn, nil
}
