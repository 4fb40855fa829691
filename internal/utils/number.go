package utils

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// ToInt64 normalizes the heterogeneous wide-integer encodings the graph
// driver hands back (native integers, base-10 strings, arbitrary-precision
// integers) into one numeric representation. No range validation is
// performed; callers own values fitting int64. Nil normalizes to zero —
// absence is the display helpers' concern. A malformed string or an
// unrecognized dynamic type is a contract violation on well-formed graph
// data and panics so upstream corruption surfaces instead of turning into
// a silent zero.
func ToInt64(value interface{}) int64 {
	switch v := value.(type) {
	case nil:
		return 0
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case uint64:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			panic(fmt.Sprintf("malformed numeric string %q", v))
		}
		return n
	case *big.Int:
		return v.Int64()
	case big.Int:
		return v.Int64()
	default:
		panic(fmt.Sprintf("unsupported numeric encoding %T", value))
	}
}

// DisplayString normalizes a value and stringifies it for lossless
// transport of large magnitudes. Nil propagates as nil, never as zero.
func DisplayString(value interface{}) *string {
	if value == nil {
		return nil
	}
	s := strconv.FormatInt(ToInt64(value), 10)
	return &s
}

// DisplayInt64 normalizes a value without stringification. Nil propagates
// as nil, never as zero.
func DisplayInt64(value interface{}) *int64 {
	if value == nil {
		return nil
	}
	n := ToInt64(value)
	return &n
}
