package benchmark

import (
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/philipp01105/rollinglog/handler"
	"github.com/philipp01105/rollinglog/handler/filehandler"
	"github.com/philipp01105/rollinglog/logger"
)

// ---------------------------------------------------------------------------
// Helpers – every framework renders JSON and discards the result
// ---------------------------------------------------------------------------

// newRollingLogger returns a logger whose records are rendered as JSON and
// queued on a batching handler that flushes to nowhere.
func newRollingLogger(b *testing.B) (*logger.Logger, *logger.Provider) {
	b.Helper()
	h, err := handler.NewBatchingHandler(handler.BatchConfig{
		Writer:   discardWriter,
		Interval: 10 * time.Millisecond,
	})
	if err != nil {
		b.Fatal(err)
	}
	p, err := logger.NewBuilder().
		WithHandler(h).
		WithFormatterName("json").
		WithIncludeScopes(true).
		Build()
	if err != nil {
		b.Fatal(err)
	}
	return p.CreateLogger("Bench"), p
}

// newZapLogger returns a zap.Logger that writes JSON to io.Discard.
func newZapLogger() *zap.Logger {
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(enc, zapcore.AddSync(io.Discard), zap.DebugLevel)
	return zap.New(core)
}

// newSlogLogger returns an slog.Logger that writes JSON to io.Discard.
func newSlogLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// newLogrusLogger returns a logrus.Logger that writes JSON to io.Discard.
func newLogrusLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrus.DebugLevel)
	return l
}

// newZerologLogger returns a zerolog.Logger that writes JSON to io.Discard.
func newZerologLogger() zerolog.Logger {
	return zerolog.New(io.Discard).With().Timestamp().Logger().Level(zerolog.DebugLevel)
}

// ---------------------------------------------------------------------------
// Scenario 1 – Info message, no fields
// ---------------------------------------------------------------------------

func BenchmarkCompetitive_InfoNoFields(b *testing.B) {
	b.Run("rollinglog", func(b *testing.B) {
		l, p := newRollingLogger(b)
		defer p.Close()
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			l.Information("info message")
		}
	})

	b.Run("zap", func(b *testing.B) {
		l := newZapLogger()
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			l.Info("info message")
		}
	})

	b.Run("slog", func(b *testing.B) {
		l := newSlogLogger()
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			l.Info("info message")
		}
	})

	b.Run("logrus", func(b *testing.B) {
		l := newLogrusLogger()
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			l.Info("info message")
		}
	})

	b.Run("zerolog", func(b *testing.B) {
		l := newZerologLogger()
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			l.Info().Msg("info message")
		}
	})
}

// ---------------------------------------------------------------------------
// Scenario 2 – Structured message with common fields
// ---------------------------------------------------------------------------

func BenchmarkCompetitive_InfoWithFields(b *testing.B) {
	b.Run("rollinglog", func(b *testing.B) {
		l, p := newRollingLogger(b)
		defer p.Close()
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			l.Information("{Method} {Path} returned {Status} in {Latency}",
				"GET", "/api/users", 200, 150*time.Millisecond)
		}
	})

	b.Run("zap", func(b *testing.B) {
		l := newZapLogger()
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			l.Info("request handled",
				zap.String("method", "GET"),
				zap.String("path", "/api/users"),
				zap.Int("status", 200),
				zap.Duration("latency", 150*time.Millisecond),
			)
		}
	})

	b.Run("slog", func(b *testing.B) {
		l := newSlogLogger()
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			l.Info("request handled",
				slog.String("method", "GET"),
				slog.String("path", "/api/users"),
				slog.Int("status", 200),
				slog.Duration("latency", 150*time.Millisecond),
			)
		}
	})

	b.Run("logrus", func(b *testing.B) {
		l := newLogrusLogger()
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			l.WithFields(logrus.Fields{
				"method":  "GET",
				"path":    "/api/users",
				"status":  200,
				"latency": 150 * time.Millisecond,
			}).Info("request handled")
		}
	})

	b.Run("zerolog", func(b *testing.B) {
		l := newZerologLogger()
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			l.Info().
				Str("method", "GET").
				Str("path", "/api/users").
				Int("status", 200).
				Dur("latency", 150*time.Millisecond).
				Msg("request handled")
		}
	})
}

// ---------------------------------------------------------------------------
// Scenario 3 – Disabled output (cost of the enabled check)
// ---------------------------------------------------------------------------

func BenchmarkCompetitive_Disabled(b *testing.B) {
	b.Run("rollinglog", func(b *testing.B) {
		h, err := handler.NewBatchingHandler(handler.BatchConfig{Writer: discardWriter, StartDisabled: true})
		if err != nil {
			b.Fatal(err)
		}
		p, _ := logger.NewBuilder().WithHandler(h).Build()
		defer p.Close()
		l := p.CreateLogger("Bench")
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			l.Debug("debug message {Key}", "value")
		}
	})

	b.Run("zap", func(b *testing.B) {
		l := newZapLogger().WithOptions(zap.IncreaseLevel(zap.InfoLevel))
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			l.Debug("debug message", zap.String("key", "value"))
		}
	})

	b.Run("slog", func(b *testing.B) {
		l := slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo}))
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			l.Debug("debug message", slog.String("key", "value"))
		}
	})

	b.Run("logrus", func(b *testing.B) {
		l := newLogrusLogger()
		l.SetLevel(logrus.InfoLevel)
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			l.WithField("key", "value").Debug("debug message")
		}
	})

	b.Run("zerolog", func(b *testing.B) {
		l := newZerologLogger().Level(zerolog.InfoLevel)
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			l.Debug().Str("key", "value").Msg("debug message")
		}
	})
}

// ---------------------------------------------------------------------------
// Scenario 4 – Accumulated context (scopes / child loggers)
// ---------------------------------------------------------------------------

func BenchmarkCompetitive_AccumulatedContext(b *testing.B) {
	b.Run("rollinglog", func(b *testing.B) {
		l, p := newRollingLogger(b)
		defer p.Close()
		l = l.With(logger.String("service", "api"), logger.String("version", "1.0.0")).
			With(logger.String("request_id", "abc-123"))
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			l.Information("request processed")
		}
	})

	b.Run("zap", func(b *testing.B) {
		l := newZapLogger().With(zap.String("service", "api"), zap.String("version", "1.0.0")).
			With(zap.String("request_id", "abc-123"))
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			l.Info("request processed")
		}
	})

	b.Run("slog", func(b *testing.B) {
		l := newSlogLogger().With("service", "api", "version", "1.0.0").With("request_id", "abc-123")
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			l.Info("request processed")
		}
	})

	b.Run("logrus", func(b *testing.B) {
		l := newLogrusLogger().WithFields(logrus.Fields{"service": "api", "version": "1.0.0"}).
			WithField("request_id", "abc-123")
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			l.Info("request processed")
		}
	})

	b.Run("zerolog", func(b *testing.B) {
		l := newZerologLogger().With().Str("service", "api").Str("version", "1.0.0").
			Str("request_id", "abc-123").Logger()
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			l.Info().Msg("request processed")
		}
	})
}

// ---------------------------------------------------------------------------
// Scenario 5 – Parallel producers
// ---------------------------------------------------------------------------

func BenchmarkCompetitive_Parallel(b *testing.B) {
	b.Run("rollinglog", func(b *testing.B) {
		l, p := newRollingLogger(b)
		defer p.Close()
		b.ResetTimer()
		b.ReportAllocs()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				l.Information("parallel log {Key} {Count}", "value", 42)
			}
		})
	})

	b.Run("zap", func(b *testing.B) {
		l := newZapLogger()
		b.ResetTimer()
		b.ReportAllocs()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				l.Info("parallel log", zap.String("key", "value"), zap.Int("count", 42))
			}
		})
	})

	b.Run("slog", func(b *testing.B) {
		l := newSlogLogger()
		b.ResetTimer()
		b.ReportAllocs()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				l.Info("parallel log", slog.String("key", "value"), slog.Int("count", 42))
			}
		})
	})

	b.Run("logrus", func(b *testing.B) {
		l := newLogrusLogger()
		b.ResetTimer()
		b.ReportAllocs()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				l.WithFields(logrus.Fields{"key": "value", "count": 42}).Info("parallel log")
			}
		})
	})

	b.Run("zerolog", func(b *testing.B) {
		l := newZerologLogger()
		b.ResetTimer()
		b.ReportAllocs()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				l.Info().Str("key", "value").Int("count", 42).Msg("parallel log")
			}
		})
	})
}

// ---------------------------------------------------------------------------
// Scenario 6 – File output (real I/O, including the final drain)
// ---------------------------------------------------------------------------

func BenchmarkCompetitive_FileOutput(b *testing.B) {
	b.Run("rollinglog", func(b *testing.B) {
		h, err := filehandler.NewFileHandler(filehandler.FileConfig{
			Options: filehandler.Options{
				Directory:      b.TempDir(),
				FileNamePrefix: "bench-",
				Extension:      "log",
			},
			FlushPeriod: 100 * time.Millisecond,
		})
		if err != nil {
			b.Fatal(err)
		}
		p, _ := logger.NewBuilder().WithHandler(h).WithFormatterName("json").Build()
		l := p.CreateLogger("Bench")
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			l.Information("file log {Key}", "value")
		}
		_ = p.Close()
	})

	b.Run("zap", func(b *testing.B) {
		f, err := os.CreateTemp(b.TempDir(), "bench-zap-*.log")
		if err != nil {
			b.Fatal(err)
		}
		enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		core := zapcore.NewCore(enc, zapcore.AddSync(f), zap.InfoLevel)
		l := zap.New(core)
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			l.Info("file log", zap.String("key", "value"))
		}
		_ = l.Sync()
		b.StopTimer()
		f.Close()
	})

	b.Run("slog", func(b *testing.B) {
		f, err := os.CreateTemp(b.TempDir(), "bench-slog-*.log")
		if err != nil {
			b.Fatal(err)
		}
		l := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo}))
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			l.Info("file log", slog.String("key", "value"))
		}
		b.StopTimer()
		f.Close()
	})

	b.Run("logrus", func(b *testing.B) {
		f, err := os.CreateTemp(b.TempDir(), "bench-logrus-*.log")
		if err != nil {
			b.Fatal(err)
		}
		l := logrus.New()
		l.SetOutput(f)
		l.SetFormatter(&logrus.JSONFormatter{})
		l.SetLevel(logrus.InfoLevel)
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			l.WithField("key", "value").Info("file log")
		}
		b.StopTimer()
		f.Close()
	})

	b.Run("zerolog", func(b *testing.B) {
		f, err := os.CreateTemp(b.TempDir(), "bench-zerolog-*.log")
		if err != nil {
			b.Fatal(err)
		}
		l := zerolog.New(f).With().Timestamp().Logger()
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			l.Info().Str("key", "value").Msg("file log")
		}
		b.StopTimer()
		f.Close()
	})
}
