package resolver

import (
	"os"
	"regexp"
)

// envPattern matches ${NAME} placeholders. A scalar containing at least one
// match is routed to the !ENV handler even without an explicit tag.
var envPattern = regexp.MustCompile(`\$\{(\w+)\}`)

// ExpandEnv replaces every ${NAME} in s with the value of the environment
// variable NAME. Unset variables are replaced by their own name.
func ExpandEnv(s string) string {
	return expandEnv(s, os.LookupEnv)
}

func expandEnv(s string, lookup func(string) (string, bool)) string {
	if !envPattern.MatchString(s) {
		return s
	}
	return envPattern.ReplaceAllStringFunc(s, func(m string) string {
		name := envPattern.FindStringSubmatch(m)[1]
		if v, ok := lookup(name); ok {
			return v
		}
		return name
	})
}

// HasEnvPlaceholder reports whether s would be rewritten by ExpandEnv.
func HasEnvPlaceholder(s string) bool {
	return envPattern.MatchString(s)
}
