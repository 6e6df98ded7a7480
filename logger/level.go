package logger

import "github.com/philipp01105/rollinglog/core"

// Level Re-export type and constants for convenience
type Level = core.Level

const (
	TraceLevel       = core.TraceLevel
	DebugLevel       = core.DebugLevel
	InformationLevel = core.InformationLevel
	WarningLevel     = core.WarningLevel
	ErrorLevel       = core.ErrorLevel
	CriticalLevel    = core.CriticalLevel
	NoneLevel        = core.NoneLevel
)

// ParseLevel converts a level name to a Level
func ParseLevel(s string) (Level, error) {
	return core.ParseLevel(s)
}
