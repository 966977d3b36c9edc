package command

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/LiboWorks/yamlcmd/internal/errs"
)

// SplitScript splits a script line on runs of whitespace. A whitespace rune
// directly after a backslash does not split, so `/opt/my\ tools/run.sh`
// stays one token; the backslash is kept. Empty tokens are never returned.
func SplitScript(script string) []string {
	var (
		tokens []string
		cur    strings.Builder
		prev   rune
	)
	for _, r := range script {
		if unicode.IsSpace(r) && prev != '\\' {
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
		} else {
			cur.WriteRune(r)
		}
		prev = r
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

// unescapeSpace drops the backslash in front of escaped whitespace.
func unescapeSpace(tok string) string {
	if !strings.Contains(tok, "\\") {
		return tok
	}
	var b strings.Builder
	rs := []rune(tok)
	for i := 0; i < len(rs); i++ {
		if rs[i] == '\\' && i+1 < len(rs) && unicode.IsSpace(rs[i+1]) {
			continue
		}
		b.WriteRune(rs[i])
	}
	return b.String()
}

// BuildArgv assembles the command line the default callback launches: the
// script tokens followed by the value of each key, in order. A key missing
// from values is a *errs.MissingValueError.
func BuildArgv(name, script string, keys []string, values Values) ([]string, error) {
	tokens := SplitScript(script)
	argv := make([]string, 0, len(tokens)+len(keys))
	for _, tok := range tokens {
		argv = append(argv, unescapeSpace(tok))
	}
	for _, key := range keys {
		v, ok := values[key]
		if !ok {
			return nil, &errs.MissingValueError{Command: name, Key: key}
		}
		argv = appendValue(argv, v)
	}
	return argv, nil
}

func appendValue(argv []string, v any) []string {
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			argv = appendValue(argv, item)
		}
		return argv
	case []string:
		return append(argv, t...)
	}
	return append(argv, formatValue(v))
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
