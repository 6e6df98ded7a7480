package logger

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/philipp01105/rollinglog/core"
	"github.com/philipp01105/rollinglog/formatter"
	"github.com/philipp01105/rollinglog/handler"
)

// ErrNoHandler is returned by Build when no handler was configured
var ErrNoHandler = errors.New("logger: handler is required")

// Provider owns one handler and one formatter and hands out Loggers that
// share them. It is safe for concurrent use.
type Provider struct {
	handler       handler.Handler
	toggler       handler.Toggler
	formatter     formatter.Formatter
	clock         core.Clock
	ownedClock    *core.CoarseClock
	level         core.Level
	includeScopes bool
	diag          *zap.Logger
}

// Builder provides a fluent API for building a Provider
type Builder struct {
	handler       handler.Handler
	formatter     formatter.Formatter
	formatterName string
	registry      *formatter.Registry
	clock         core.Clock
	coarse        time.Duration
	level         core.Level
	includeScopes bool
	diag          *zap.Logger
}

// NewBuilder creates a new builder. Without further options every level
// except None is logged with the "simple" formatter.
func NewBuilder() *Builder {
	return &Builder{
		level:         core.TraceLevel,
		formatterName: "simple",
	}
}

// WithHandler sets the handler that receives rendered messages
func (b *Builder) WithHandler(h handler.Handler) *Builder {
	b.handler = h
	return b
}

// WithLevel sets the minimum level
func (b *Builder) WithLevel(level core.Level) *Builder {
	b.level = level
	return b
}

// WithFormatter sets the formatter directly, bypassing name lookup
func (b *Builder) WithFormatter(f formatter.Formatter) *Builder {
	b.formatter = f
	return b
}

// WithFormatterName selects the formatter by name from the registry
func (b *Builder) WithFormatterName(name string) *Builder {
	b.formatterName = name
	return b
}

// WithRegistry sets the registry used by WithFormatterName
// (default: formatter.DefaultRegistry)
func (b *Builder) WithRegistry(r *formatter.Registry) *Builder {
	b.registry = r
	return b
}

// WithIncludeScopes enables scope rendering
func (b *Builder) WithIncludeScopes(enabled bool) *Builder {
	b.includeScopes = enabled
	return b
}

// WithClock sets the clock that stamps records (default: system clock)
func (b *Builder) WithClock(c core.Clock) *Builder {
	b.clock = c
	return b
}

// WithCoarseClock stamps records from a CoarseClock with the given
// resolution. The Provider stops the clock on Close.
func (b *Builder) WithCoarseClock(resolution time.Duration) *Builder {
	b.coarse = resolution
	return b
}

// WithDiagnostics sets the logger for the provider's own errors
func (b *Builder) WithDiagnostics(l *zap.Logger) *Builder {
	b.diag = l
	return b
}

// Build creates the Provider. An unknown formatter name is reported here
// and wraps formatter.ErrUnknownFormatter.
func (b *Builder) Build() (*Provider, error) {
	if b.handler == nil {
		return nil, ErrNoHandler
	}

	f := b.formatter
	if f == nil {
		reg := b.registry
		if reg == nil {
			reg = formatter.DefaultRegistry()
		}
		var err error
		if f, err = reg.Lookup(b.formatterName); err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
	}

	p := &Provider{
		handler:       b.handler,
		formatter:     f,
		clock:         b.clock,
		level:         b.level,
		includeScopes: b.includeScopes,
		diag:          b.diag,
	}
	p.toggler, _ = b.handler.(handler.Toggler)
	if p.diag == nil {
		p.diag = zap.NewNop()
	}
	if b.coarse > 0 {
		p.ownedClock = core.NewCoarseClock(b.coarse)
		p.clock = p.ownedClock
	}
	if p.clock == nil {
		p.clock = core.SystemClock{}
	}
	return p, nil
}

// CreateLogger returns a Logger for category
func (p *Provider) CreateLogger(category string) *Logger {
	l := &Logger{p: p, category: category}
	if p.includeScopes {
		l.scopes = core.NewScopeChain()
	}
	return l
}

// Formatter returns the formatter in use
func (p *Provider) Formatter() formatter.Formatter {
	return p.formatter
}

// Close flushes and closes the handler and stops an owned clock
func (p *Provider) Close() error {
	var err error
	if p.ownedClock != nil {
		p.ownedClock.Stop()
	}
	if p.handler != nil {
		err = multierr.Append(err, p.handler.Close())
	}
	return err
}

// Logger writes records for one category. Loggers are immutable;
// BeginScope and With return new Loggers.
type Logger struct {
	p        *Provider
	category string
	scopes   *core.ScopeChain
}

// Category returns the logger's category
func (l *Logger) Category() string {
	return l.category
}

// IsEnabled reports whether a record at level would be written. It is
// false for NoneLevel, below the minimum level, and while the handler is
// switched off.
func (l *Logger) IsEnabled(level core.Level) bool {
	if l.p == nil || level < l.p.level || level >= core.NoneLevel {
		return false
	}
	return l.p.toggler == nil || l.p.toggler.IsEnabled()
}

// BeginScope returns a Logger whose records carry state as the innermost
// scope. Scopes only appear in output when the provider includes them.
func (l *Logger) BeginScope(state any) *Logger {
	if l.p == nil || !l.p.includeScopes {
		return l
	}
	return &Logger{p: l.p, category: l.category, scopes: l.scopes.Push(state)}
}

// With begins a dictionary scope made of fields
func (l *Logger) With(fields ...core.Field) *Logger {
	return l.BeginScope(core.Fields(fields))
}

// Log writes a record stamped with the provider's clock. render turns
// state and err into the message; nil means core.DefaultRender.
func (l *Logger) Log(level core.Level, id core.EventID, state any, err error, render core.RenderFunc) {
	if !l.IsEnabled(level) {
		return
	}
	l.write(l.p.clock.Now(), level, id, state, err, render)
}

// LogAt is Log with an explicit timestamp
func (l *Logger) LogAt(ts time.Time, level core.Level, id core.EventID, state any, err error, render core.RenderFunc) {
	if !l.IsEnabled(level) {
		return
	}
	l.write(ts, level, id, state, err, render)
}

func (l *Logger) write(ts time.Time, level core.Level, id core.EventID, state any, err error, render core.RenderFunc) {
	if render == nil {
		render = core.DefaultRender
	}
	rec := &core.Record{
		Time:     ts,
		Level:    level,
		Category: l.category,
		EventID:  id,
		Message:  render(state, err),
		State:    state,
		Err:      err,
		Scopes:   l.scopes,
	}

	text, ferr := formatter.Render(l.p.formatter, rec)
	if ferr != nil {
		l.p.diag.Warn("format failed, record dropped",
			zap.String("category", l.category),
			zap.String("formatter", l.p.formatter.Name()),
			zap.Error(ferr))
		return
	}
	// A closed handler counts the drop itself
	_ = l.p.handler.Handle(core.Message{Time: ts, Text: text})
}

// logTemplate renders msg as a message template bound to args
func (l *Logger) logTemplate(level core.Level, err error, msg string, args []any) {
	if !l.IsEnabled(level) {
		return
	}
	l.write(l.p.clock.Now(), level, core.EventID{}, core.NewTemplate(msg, args...), err, nil)
}

func (l *Logger) logf(level core.Level, format string, args []any) {
	if !l.IsEnabled(level) {
		return
	}
	l.write(l.p.clock.Now(), level, core.EventID{}, fmt.Sprintf(format, args...), nil, nil)
}

// Trace logs a message template at TraceLevel, e.g.
// Trace("Request {Path} took {Elapsed}", path, elapsed)
func (l *Logger) Trace(msg string, args ...any) {
	l.logTemplate(core.TraceLevel, nil, msg, args)
}

// Debug logs a message template at DebugLevel
func (l *Logger) Debug(msg string, args ...any) {
	l.logTemplate(core.DebugLevel, nil, msg, args)
}

// Information logs a message template at InformationLevel
func (l *Logger) Information(msg string, args ...any) {
	l.logTemplate(core.InformationLevel, nil, msg, args)
}

// Warning logs a message template at WarningLevel
func (l *Logger) Warning(msg string, args ...any) {
	l.logTemplate(core.WarningLevel, nil, msg, args)
}

// Error logs a message template and err at ErrorLevel. err may be nil.
func (l *Logger) Error(err error, msg string, args ...any) {
	l.logTemplate(core.ErrorLevel, err, msg, args)
}

// Critical logs a message template and err at CriticalLevel
func (l *Logger) Critical(err error, msg string, args ...any) {
	l.logTemplate(core.CriticalLevel, err, msg, args)
}

// Tracef logs a formatted message at TraceLevel
func (l *Logger) Tracef(format string, args ...any) {
	l.logf(core.TraceLevel, format, args)
}

// Debugf logs a formatted message at DebugLevel
func (l *Logger) Debugf(format string, args ...any) {
	l.logf(core.DebugLevel, format, args)
}

// Informationf logs a formatted message at InformationLevel
func (l *Logger) Informationf(format string, args ...any) {
	l.logf(core.InformationLevel, format, args)
}

// Warningf logs a formatted message at WarningLevel
func (l *Logger) Warningf(format string, args ...any) {
	l.logf(core.WarningLevel, format, args)
}

// Errorf logs a formatted message at ErrorLevel
func (l *Logger) Errorf(format string, args ...any) {
	l.logf(core.ErrorLevel, format, args)
}

// Criticalf logs a formatted message at CriticalLevel
func (l *Logger) Criticalf(format string, args ...any) {
	l.logf(core.CriticalLevel, format, args)
}
