package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FieldType represents the type of a field value
type FieldType uint8

const (
	StringType FieldType = iota
	IntType
	Int64Type
	Float64Type
	BoolType
	TimeType
	DurationType
	ErrorType
	AnyType
	NullType
)

// Field represents a key-value pair of structured state
type Field struct {
	Key     string
	Type    FieldType
	Int64   int64
	Float64 float64
	Str     string
	Any     any
}

// FieldProvider is implemented by state values that carry structured
// fields, such as Template. Formatters that emit structured output
// (json) read fields through it.
type FieldProvider interface {
	Fields() []Field
}

// FieldOf builds a Field from an arbitrary value, picking the most
// specific FieldType for it.
func FieldOf(key string, v any) Field {
	switch val := v.(type) {
	case nil:
		return Field{Key: key, Type: NullType}
	case string:
		return Field{Key: key, Type: StringType, Str: val}
	case int:
		return Field{Key: key, Type: IntType, Int64: int64(val)}
	case int8:
		return Field{Key: key, Type: IntType, Int64: int64(val)}
	case int16:
		return Field{Key: key, Type: IntType, Int64: int64(val)}
	case int32:
		return Field{Key: key, Type: IntType, Int64: int64(val)}
	case int64:
		return Field{Key: key, Type: Int64Type, Int64: val}
	case uint8:
		return Field{Key: key, Type: IntType, Int64: int64(val)}
	case uint16:
		return Field{Key: key, Type: IntType, Int64: int64(val)}
	case uint32:
		return Field{Key: key, Type: Int64Type, Int64: int64(val)}
	case float32:
		return Field{Key: key, Type: Float64Type, Float64: float64(val)}
	case float64:
		return Field{Key: key, Type: Float64Type, Float64: val}
	case bool:
		var i int64
		if val {
			i = 1
		}
		return Field{Key: key, Type: BoolType, Int64: i}
	case time.Time:
		return Field{Key: key, Type: TimeType, Int64: val.UnixNano()}
	case time.Duration:
		return Field{Key: key, Type: DurationType, Int64: int64(val)}
	case error:
		return Field{Key: key, Type: ErrorType, Str: val.Error()}
	default:
		return Field{Key: key, Type: AnyType, Any: v}
	}
}

// StringValue returns the string representation of a field's value
func (f Field) StringValue() string {
	switch f.Type {
	case StringType:
		return f.Str
	case IntType, Int64Type:
		return strconv.FormatInt(f.Int64, 10)
	case Float64Type:
		return strconv.FormatFloat(f.Float64, 'f', -1, 64)
	case BoolType:
		return strconv.FormatBool(f.Int64 == 1)
	case TimeType:
		return time.Unix(0, f.Int64).Format(time.RFC3339)
	case DurationType:
		return time.Duration(f.Int64).String()
	case ErrorType:
		return f.Str
	case AnyType:
		return fmt.Sprintf("%v", f.Any)
	case NullType:
		return "(null)"
	default:
		return ""
	}
}

// Fields is a dictionary-like scope or state value. Its string form is
// "key=value" pairs separated by commas.
type Fields []Field

// Fields implements FieldProvider
func (fs Fields) Fields() []Field { return fs }

func (fs Fields) String() string { return JoinFields(fs) }

// JoinFields renders fields as "k1=v1, k2=v2".
func JoinFields(fields []Field) string {
	var sb strings.Builder
	for i, f := range fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Key)
		sb.WriteByte('=')
		sb.WriteString(f.StringValue())
	}
	return sb.String()
}
