package urlstate

import (
	"encoding/json"
	"strconv"
	"strings"
)

// DefaultSerializer returns the string form used for T in a fragment.
// Scalars use strconv, []string is comma-joined, anything else is JSON.
func DefaultSerializer[T any](zero T) func(T) string {
	return func(v T) string {
		switch val := any(v).(type) {
		case string:
			return val
		case int:
			return strconv.Itoa(val)
		case int64:
			return strconv.FormatInt(val, 10)
		case int32:
			return strconv.FormatInt(int64(val), 10)
		case uint:
			return strconv.FormatUint(uint64(val), 10)
		case uint64:
			return strconv.FormatUint(val, 10)
		case float64:
			return strconv.FormatFloat(val, 'g', -1, 64)
		case float32:
			return strconv.FormatFloat(float64(val), 'g', -1, 32)
		case bool:
			return strconv.FormatBool(val)
		case []string:
			return strings.Join(val, ",")
		default:
			b, err := json.Marshal(v)
			if err != nil {
				return ""
			}
			return string(b)
		}
	}
}

// DefaultDeserializer returns the parser matching DefaultSerializer. Input
// that does not parse as T yields zero.
func DefaultDeserializer[T any](zero T) func(string) T {
	return func(s string) T {
		var parsed any
		var err error

		switch any(zero).(type) {
		case string:
			parsed = s
		case int:
			parsed, err = strconv.Atoi(s)
		case int64:
			parsed, err = strconv.ParseInt(s, 10, 64)
		case int32:
			var n int64
			n, err = strconv.ParseInt(s, 10, 32)
			parsed = int32(n)
		case uint:
			var n uint64
			n, err = strconv.ParseUint(s, 10, 0)
			parsed = uint(n)
		case uint64:
			parsed, err = strconv.ParseUint(s, 10, 64)
		case float64:
			parsed, err = strconv.ParseFloat(s, 64)
		case float32:
			var f float64
			f, err = strconv.ParseFloat(s, 32)
			parsed = float32(f)
		case bool:
			parsed, err = strconv.ParseBool(s)
		case []string:
			if s == "" {
				parsed = []string{}
			} else {
				parsed = strings.Split(s, ",")
			}
		default:
			var val T
			if err := json.Unmarshal([]byte(s), &val); err != nil {
				return zero
			}
			return val
		}

		if err != nil {
			return zero
		}
		return parsed.(T)
	}
}
