package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LiboWorks/yamlcmd/internal/errs"
	"github.com/LiboWorks/yamlcmd/internal/param"
	"github.com/LiboWorks/yamlcmd/internal/resolver"
	"github.com/LiboWorks/yamlcmd/internal/types"
)

// passthrough holds the command-level keys forwarded from a spec.
type passthrough struct {
	short        string
	epilog       string
	hidden       bool
	deprecated   string
	aliases      []string
	example      string
	noArgsIsHelp bool
}

func readPassthrough(spec *resolver.CommandSpec) (*passthrough, error) {
	kw := types.NewKwargs(spec.Extra)
	p := &passthrough{}
	var err error

	if p.short, err = kw.String("short_help", ""); err != nil {
		return nil, err
	}
	if p.epilog, err = kw.String("epilog", ""); err != nil {
		return nil, err
	}
	if p.hidden, err = kw.Bool("hidden", false); err != nil {
		return nil, err
	}
	if p.example, err = kw.String("example", ""); err != nil {
		return nil, err
	}
	if p.noArgsIsHelp, err = kw.Bool("no_args_is_help", false); err != nil {
		return nil, err
	}

	switch d, _ := kw.Any("deprecated"); t := d.(type) {
	case nil, bool:
		if t == true {
			p.deprecated = "this command is deprecated"
		}
	case string:
		p.deprecated = t
	default:
		return nil, fmt.Errorf("deprecated must be a boolean or a message, got %T", d)
	}

	switch a, _ := kw.Any("aliases"); t := a.(type) {
	case nil:
	case string:
		p.aliases = []string{t}
	default:
		if p.aliases, err = kw.Strings("aliases"); err != nil {
			return nil, err
		}
	}

	if err := kw.Done("command " + spec.Name); err != nil {
		return nil, err
	}
	return p, nil
}

// signature is the checked parameter list of one command.
type signature struct {
	params   []param.Param
	args     []*param.Argument
	opts     []*param.Option
	keys     []string
	maxArgs  int
	variadic bool
}

func checkSignature(spec *resolver.CommandSpec) (*signature, error) {
	sig := &signature{}
	seenKey := map[string]bool{}
	seenLong := map[string]bool{}
	seenShort := map[string]bool{}

	for _, p := range spec.Params {
		if p == nil {
			return nil, fmt.Errorf("nil parameter")
		}
		if p.Key() == "" {
			return nil, fmt.Errorf("parameter %v has an empty name", p.Decls())
		}
		if seenKey[p.Key()] {
			return nil, fmt.Errorf("parameter key %q is declared twice", p.Key())
		}
		seenKey[p.Key()] = true

		switch t := p.(type) {
		case *param.Argument:
			if t.Variadic() {
				if sig.variadic {
					return nil, fmt.Errorf("argument %s: only one argument may take nargs -1", t.Key())
				}
				sig.variadic = true
			} else {
				sig.maxArgs += t.Nargs()
			}
			sig.args = append(sig.args, t)
		case *param.Option:
			if seenLong[t.Long()] {
				return nil, fmt.Errorf("flag --%s is declared twice", t.Long())
			}
			seenLong[t.Long()] = true
			if s := t.Short(); s != "" {
				if len(s) != 1 {
					return nil, fmt.Errorf("shorthand -%s must be an ASCII letter", s)
				}
				if seenShort[s] {
					return nil, fmt.Errorf("shorthand -%s is declared twice", s)
				}
				seenShort[s] = true
			}
			sig.opts = append(sig.opts, t)
		default:
			return nil, fmt.Errorf("unsupported parameter type %T", p)
		}
		sig.params = append(sig.params, p)
		sig.keys = append(sig.keys, p.Key())
	}
	return sig, nil
}

// newCobraCommand builds the cobra command for r. Parsed values are handed to
// r's callback as a fresh Values map on every run.
func newCobraCommand(r *Runnable, sig *signature, pt *passthrough) *cobra.Command {
	spec := r.spec

	use := []string{r.name}
	for _, a := range sig.args {
		use = append(use, a.Metavar())
	}

	long := spec.Help
	if pt.epilog != "" {
		long = strings.TrimRight(long, "\n") + "\n\n" + pt.epilog
	}
	short := pt.short
	if short == "" {
		short, _, _ = strings.Cut(strings.TrimSpace(spec.Help), "\n")
	}

	cmd := &cobra.Command{
		Use:        strings.Join(use, " "),
		Short:      short,
		Long:       long,
		Aliases:    pt.aliases,
		Example:    pt.example,
		Hidden:     pt.hidden,
		Deprecated: pt.deprecated,
		Args:       cobra.MaximumNArgs(sig.maxArgs),
	}
	if sig.variadic {
		cmd.Args = cobra.ArbitraryArgs
	}

	flags := make(map[string]*optionValue, len(sig.opts))
	for _, o := range sig.opts {
		flags[o.Key()] = addFlag(cmd.Flags(), o)
	}

	// Parsed values outlive Execute; every exit path clears them.
	resetFlags := func() {
		for _, v := range flags {
			v.reset()
		}
		if f := cmd.Flags().Lookup("help"); f != nil && f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		resetFlags()
		return err
	})
	validateArgs := cmd.Args
	cmd.Args = func(c *cobra.Command, args []string) error {
		if err := validateArgs(c, args); err != nil {
			resetFlags()
			return err
		}
		return nil
	}
	fallbackHelp := cmd.HelpFunc()
	cmd.SetHelpFunc(func(c *cobra.Command, args []string) {
		resetFlags()
		if c.HasParent() {
			c.Parent().HelpFunc()(c, args)
			return
		}
		fallbackHelp(c, args)
	})

	cmd.RunE = func(c *cobra.Command, args []string) error {
		defer resetFlags()
		if pt.noArgsIsHelp && len(args) == 0 && !anySet(flags) {
			return c.Help()
		}

		values, err := collect(sig, args, flags, r.o.lookupEnv)
		if err != nil {
			return err
		}
		ctx := c.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return r.callback(ctx, values)
	}
	return cmd
}

func anySet(flags map[string]*optionValue) bool {
	for _, v := range flags {
		if v.set {
			return true
		}
	}
	return false
}

// collect maps positionals and parsed flags to canonical keys. A parameter
// with no value on the command line falls back to its environment variable,
// then its default.
func collect(sig *signature, args []string, flags map[string]*optionValue, lookupEnv func(string) (string, bool)) (Values, error) {
	supplied, err := distribute(sig, args)
	if err != nil {
		return nil, err
	}
	for key, v := range flags {
		if v.set {
			supplied[key] = v.value()
		}
	}

	values := make(Values, len(sig.params))
	for _, p := range sig.params {
		if v, ok := supplied[p.Key()]; ok {
			values[p.Key()] = v
			continue
		}
		if name := p.EnvVar(); name != "" {
			if raw, ok := lookupEnv(name); ok && raw != "" {
				v, err := fromEnv(p, raw)
				if err != nil {
					return nil, fmt.Errorf("invalid value for %s from %s: %w", describe(p), name, err)
				}
				values[p.Key()] = v
				continue
			}
		}
		if def, ok := p.Default(); ok {
			values[p.Key()] = def
			continue
		}
		if p.Required() {
			return nil, fmt.Errorf("missing %s %s", p.Kind(), describe(p))
		}
		if p.Multiple() {
			values[p.Key()] = []any{}
		} else {
			values[p.Key()] = nil
		}
	}
	return values, nil
}

// distribute hands positional tokens to arguments in declaration order. A
// variadic argument takes whatever the arguments after it do not need.
func distribute(sig *signature, args []string) (map[string]any, error) {
	out := make(map[string]any, len(sig.args))
	rest := args
	for i, a := range sig.args {
		n := a.Nargs()
		if a.Variadic() {
			after := 0
			for _, b := range sig.args[i+1:] {
				after += b.Nargs()
			}
			n = len(rest) - after
			if n <= 0 {
				continue
			}
		}
		if len(rest) == 0 {
			break
		}
		if len(rest) < n {
			return nil, fmt.Errorf("argument %s takes %d values, got %d", a.Metavar(), n, len(rest))
		}

		converted := make([]any, 0, n)
		for _, tok := range rest[:n] {
			v, err := a.Type().Convert(tok)
			if err != nil {
				return nil, fmt.Errorf("invalid value for %s: %w", a.Metavar(), err)
			}
			converted = append(converted, v)
		}
		rest = rest[n:]

		if a.Multiple() {
			out[a.Key()] = converted
		} else {
			out[a.Key()] = converted[0]
		}
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("got unexpected extra argument(s): %s", strings.Join(rest, " "))
	}
	return out, nil
}

func fromEnv(p param.Param, raw string) (any, error) {
	if o, ok := p.(*param.Option); ok && o.Count() {
		return types.Int{}.Convert(raw)
	}
	if !p.Multiple() {
		return p.Type().Convert(raw)
	}
	fields := strings.Fields(raw)
	out := make([]any, 0, len(fields))
	for _, f := range fields {
		v, err := p.Type().Convert(f)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func describe(p param.Param) string {
	switch t := p.(type) {
	case *param.Option:
		return "--" + t.Long()
	case *param.Argument:
		return t.Metavar()
	}
	return p.Key()
}

func configError(spec *resolver.CommandSpec, err error) error {
	return errs.ConfigWrap(err, spec.Source, fmt.Sprintf("command %q", spec.Name))
}
