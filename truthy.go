package booltime

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// truthyRe matches values starting with 1, y or t, in any case.
var truthyRe = regexp.MustCompile(`(?i)^(1|y|t)`)

// Truthy coerces v to a boolean. v is rendered as a string and trimmed;
// strings starting with "1", "y" or "t" (any case) are true and everything
// else is false. Truthy never fails: "tulip" is true and "maybe" is false.
func Truthy(v any) bool {
	return truthyRe.MatchString(strings.TrimSpace(stringify(v)))
}

func stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case []byte:
		return string(v)
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case *bool:
		if v == nil {
			return ""
		}
		return strconv.FormatBool(*v)
	default:
		// Sprint calls String and prints <nil> for a nil receiver.
		return fmt.Sprint(v)
	}
}
