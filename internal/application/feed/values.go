package feed

import (
	"math"
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/timestamppb"
)

// Number returns v as float64 only when v already is a number. Strings are not parsed.
func Number(v interface{}) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// NumberPtr is Number returning nil when v is not a number.
func NumberPtr(v interface{}) *float64 {
	f, ok := Number(v)
	if !ok {
		return nil
	}
	return &f
}

// String returns v when it is a string, "" otherwise.
func String(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// Bool is true only for a boolean true.
func Bool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

// Strings collects the non-empty strings of an array value. Elements that are
// objects contribute their "url" field.
func Strings(v interface{}) []string {
	var items []interface{}
	switch x := v.(type) {
	case []string:
		out := make([]string, 0, len(x))
		for _, s := range x {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []interface{}:
		items = x
	default:
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		s := String(it)
		if m, ok := it.(map[string]interface{}); ok {
			s = String(m["url"])
		}
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Time converts any supported timestamp wire shape into a UTC instant:
// a native time, a protobuf timestamp, or an epoch-seconds object with
// seconds/nanoseconds (or _seconds/_nanoseconds) fields. RFC 3339 strings are
// accepted for records that went through JSON.
func Time(v interface{}) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		if x.IsZero() {
			return time.Time{}, false
		}
		return x.UTC(), true
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return Time(*x)
	case *timestamppb.Timestamp:
		if x == nil || x.CheckValid() != nil {
			return time.Time{}, false
		}
		return x.AsTime().UTC(), true
	case map[string]interface{}:
		return epochObject(x)
	case string:
		t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(x))
		if err != nil {
			return time.Time{}, false
		}
		return t.UTC(), true
	default:
		return time.Time{}, false
	}
}

func epochObject(m map[string]interface{}) (time.Time, bool) {
	sec, ok := Number(m["seconds"])
	nsec, _ := Number(m["nanoseconds"])
	if !ok {
		sec, ok = Number(m["_seconds"])
		nsec, _ = Number(m["_nanoseconds"])
	}
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(int64(sec), int64(nsec)).UTC(), true
}
