package core

import (
	"fmt"
	"strings"
	"time"
)

// Level represents the severity level of a log record
type Level int8

const (
	// TraceLevel for the most detailed diagnostic messages
	TraceLevel Level = iota
	// DebugLevel for debugging information
	DebugLevel
	// InformationLevel for general informational messages
	InformationLevel
	// WarningLevel for unexpected but recoverable events
	WarningLevel
	// ErrorLevel for failures of the current operation
	ErrorLevel
	// CriticalLevel for failures that need immediate attention
	CriticalLevel
	// NoneLevel disables logging; records at this level are never written
	NoneLevel
)

var levelNames = [...]string{
	TraceLevel:       "Trace",
	DebugLevel:       "Debug",
	InformationLevel: "Information",
	WarningLevel:     "Warning",
	ErrorLevel:       "Error",
	CriticalLevel:    "Critical",
	NoneLevel:        "None",
}

// String returns the string representation of the level
func (l Level) String() string {
	if l >= 0 && int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "Level(" + fmt.Sprint(int8(l)) + ")"
}

// ParseLevel converts a level name to a Level. Matching is case-insensitive
// and accepts the common short forms ("info", "warn", "fatal").
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return TraceLevel, nil
	case "debug":
		return DebugLevel, nil
	case "information", "info":
		return InformationLevel, nil
	case "warning", "warn":
		return WarningLevel, nil
	case "error":
		return ErrorLevel, nil
	case "critical", "fatal":
		return CriticalLevel, nil
	case "none":
		return NoneLevel, nil
	default:
		return NoneLevel, fmt.Errorf("core: unknown level %q", s)
	}
}

// EventID identifies a log event. Both parts are optional.
type EventID struct {
	ID   int
	Name string
}

// RenderFunc turns a record's state and error into the message text.
type RenderFunc func(state any, err error) string

// DefaultRender renders fmt.Stringer and string state as is and anything
// else with %v. A nil state renders as an empty message.
func DefaultRender(state any, _ error) string {
	switch s := state.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	case []Field:
		return JoinFields(s)
	default:
		return fmt.Sprint(s)
	}
}

// Record represents a log event with all its metadata
type Record struct {
	Time     time.Time
	Level    Level
	Category string
	EventID  EventID
	// Message is the output of the producer's RenderFunc.
	Message string
	// State is the structured value the message was rendered from.
	State any
	Err   error
	// Scopes is nil when scope rendering is disabled. An empty, non-nil
	// chain means scopes are enabled but none is active.
	Scopes *ScopeChain
}

// Message is a rendered record waiting in the batching queue.
type Message struct {
	Time time.Time
	Text string
}
