package log

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// formatValue renders a resolved slog value for the line format. Strings
// containing spaces, quotes or '=' are quoted.
func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return quoteIfNeeded(v.String())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	case slog.KindTime:
		return v.Time().Format(time.RFC3339Nano)
	case slog.KindDuration:
		return durationMillis(v.Duration())
	case slog.KindLogValuer:
		return formatValue(v.Resolve())
	case slog.KindAny:
		switch a := v.Any().(type) {
		case nil:
			return "<nil>"
		case error:
			return quoteIfNeeded(a.Error())
		case fmt.Stringer:
			return quoteIfNeeded(a.String())
		case []byte:
			return quoteIfNeeded(string(a))
		default:
			if data, err := json.Marshal(a); err == nil {
				return string(data)
			}
			return quoteIfNeeded(fmt.Sprintf("%+v", a))
		}
	default:
		return quoteIfNeeded(v.String())
	}
}

func quoteIfNeeded(s string) string {
	if s == "" {
		return `""`
	}
	if strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}
