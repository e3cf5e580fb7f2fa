package internal

import (
	"reflect"
	"strconv"
)

// ContextValue returns the value stored with c.Set(key, ...) as T,
// or the zero value when it is missing or of another type.
func ContextValue[T any](c Context, key any) T {
	if v, ok := c.Get(key).(T); ok {
		return v
	}
	var zero T
	return zero
}

// Param retrieves a typed named capture of the matched route.
// Returns the zero value if the capture is missing or cannot be parsed.
//
//	id := pagon.Param[int64](c, "id")
func Param[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string) T {
	v, _ := convertParam[T](c.Param(name))
	return v
}

// Arg retrieves a typed positional capture by index.
func Arg[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, i int) T {
	args := c.Args()
	if i < 0 || i >= len(args) {
		var zero T
		return zero
	}
	v, _ := convertParam[T](args[i])
	return v
}

// Query retrieves a typed query parameter.
func Query[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string) T {
	v, _ := convertParam[T](c.Query(name))
	return v
}

// QueryDefault retrieves a typed query parameter with a default value.
// Returns defaultValue if the parameter is empty or cannot be parsed.
func QueryDefault[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string, defaultValue T) T {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue
	}
	v, ok := convertParam[T](raw)
	if !ok {
		return defaultValue
	}
	return v
}

// convertParam parses raw into T by T's underlying kind, so named types
// such as `type UserID int64` work too.
func convertParam[T ~string | ~int | ~int64 | ~float64 | ~bool](raw string) (T, bool) {
	var out T
	v := reflect.ValueOf(&out).Elem()

	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, v.Type().Bits())
		if err != nil {
			return out, false
		}
		v.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return out, false
		}
		v.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return out, false
		}
		v.SetBool(b)
	default:
		return out, false
	}
	return out, true
}
