package command

import (
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/LiboWorks/yamlcmd/internal/param"
)

// optionValue is the pflag.Value behind one declared option. Raw strings are
// converted by the option's ParamType as they are parsed.
type optionValue struct {
	opt    *param.Option
	values []any
	count  int
	set    bool
}

var _ pflag.Value = (*optionValue)(nil)

func (v *optionValue) Set(s string) error {
	if v.opt.Count() {
		if s == "+1" {
			v.count++
		} else {
			n, err := strconv.Atoi(s)
			if err != nil {
				return err
			}
			v.count = n
		}
		v.set = true
		return nil
	}

	converted, err := v.opt.Type().Convert(s)
	if err != nil {
		return err
	}
	if v.opt.Multiple() {
		v.values = append(v.values, converted)
	} else {
		v.values = []any{converted}
	}
	v.set = true
	return nil
}

func (v *optionValue) String() string {
	if v == nil || v.opt == nil {
		return ""
	}
	if v.opt.Count() {
		return strconv.Itoa(v.count)
	}
	parts := make([]string, len(v.values))
	for i, x := range v.values {
		parts[i] = formatValue(x)
	}
	return strings.Join(parts, ",")
}

// Type is the placeholder pflag prints after the flag name. "bool" prints
// nothing, which is what a switch wants.
func (v *optionValue) Type() string {
	switch {
	case v.opt.IsFlag():
		return "bool"
	case v.opt.Count():
		return "count"
	case v.opt.Metavar() != "":
		return v.opt.Metavar()
	}
	return v.opt.Type().Name()
}

// value returns the parsed value, shaped like the option.
func (v *optionValue) value() any {
	switch {
	case v.opt.Count():
		return v.count
	case v.opt.Multiple():
		return append([]any(nil), v.values...)
	case len(v.values) > 0:
		return v.values[0]
	}
	return nil
}

func (v *optionValue) reset() {
	v.values, v.count, v.set = nil, 0, false
}

// addFlag registers opt on fs.
func addFlag(fs *pflag.FlagSet, opt *param.Option) *optionValue {
	v := &optionValue{opt: opt}
	f := fs.VarPF(v, opt.Long(), opt.Short(), opt.Help())
	switch {
	case opt.IsFlag():
		f.NoOptDefVal = "true"
	case opt.Count():
		f.NoOptDefVal = "+1"
	}
	f.Hidden = opt.Hidden()
	f.DefValue = ""
	if def, ok := opt.Default(); ok && opt.ShowDefault() {
		f.DefValue = formatDefault(def)
	}
	return v
}

func formatDefault(def any) string {
	if list, ok := def.([]any); ok {
		parts := make([]string, len(list))
		for i, x := range list {
			parts[i] = formatValue(x)
		}
		return "[" + strings.Join(parts, ",") + "]"
	}
	return formatValue(def)
}
