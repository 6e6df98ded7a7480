package core

import "strings"

// OriginalFormatKey is the field key under which a Template exposes its
// unrendered format string.
const OriginalFormatKey = "{OriginalFormat}"

// Template is message state built from a format string with named holes,
// e.g. "Request {Path} took {Elapsed}". Holes are bound positionally to
// the arguments. A hole without an argument renders verbatim; extra
// arguments are ignored. "{{" and "}}" are literal braces.
type Template struct {
	format string
	fields []Field
	text   string
}

// NewTemplate binds args to the holes of format and renders the message.
func NewTemplate(format string, args ...any) *Template {
	t := &Template{format: format}
	var sb strings.Builder
	sb.Grow(len(format))

	next := 0
	for i := 0; i < len(format); {
		c := format[i]
		if (c == '{' || c == '}') && i+1 < len(format) && format[i+1] == c {
			sb.WriteByte(c)
			i += 2
			continue
		}
		if c != '{' {
			sb.WriteByte(c)
			i++
			continue
		}
		end := strings.IndexByte(format[i:], '}')
		if end < 0 {
			sb.WriteString(format[i:])
			break
		}
		hole := format[i : i+end+1]
		if next < len(args) {
			f := FieldOf(hole[1:len(hole)-1], args[next])
			t.fields = append(t.fields, f)
			sb.WriteString(f.StringValue())
			next++
		} else {
			sb.WriteString(hole)
		}
		i += end + 1
	}

	t.text = sb.String()
	return t
}

// String returns the rendered message
func (t *Template) String() string { return t.text }

// Format returns the unrendered format string
func (t *Template) Format() string { return t.format }

// Fields returns the bound holes followed by the original format string.
func (t *Template) Fields() []Field {
	out := make([]Field, 0, len(t.fields)+1)
	out = append(out, t.fields...)
	return append(out, Field{Key: OriginalFormatKey, Type: StringType, Str: t.format})
}
