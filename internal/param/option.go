package param

import (
	"fmt"
	"strings"

	"github.com/LiboWorks/yamlcmd/internal/types"
)

// Option is a flagged parameter such as `--email` / `-E`.
type Option struct {
	decls       []string
	key         string
	long        string
	short       string
	typ         types.ParamType
	required    bool
	def         any
	hasDefault  bool
	help        string
	envvar      string
	metavar     string
	multiple    bool
	isFlag      bool
	count       bool
	hidden      bool
	showDefault bool
}

// NewOption builds an Option from the keyword mapping of an !opt tag.
// Recognized keys: param_decls, type, required, default, help, multiple,
// is_flag, count, envvar, metavar, hidden, show_default.
func NewOption(kwargs map[string]any) (*Option, error) {
	kw := types.NewKwargs(kwargs)

	d, err := decls(kw, "option")
	if err != nil {
		return nil, err
	}
	o := &Option{decls: d}
	if err := o.parseDecls(); err != nil {
		return nil, err
	}

	if o.multiple, err = kw.Bool("multiple", false); err != nil {
		return nil, err
	}
	if o.count, err = kw.Bool("count", false); err != nil {
		return nil, err
	}
	if o.isFlag, err = kw.Bool("is_flag", false); err != nil {
		return nil, err
	}

	rawDef, hasDef := kw.Any("default")
	hasDef = hasDef && rawDef != nil
	if _, ok := rawDef.(bool); ok && !o.multiple {
		o.isFlag = true
	}

	switch {
	case o.count && (o.isFlag || o.multiple):
		return nil, fmt.Errorf("option %s: count cannot be combined with is_flag or multiple", o.key)
	case o.isFlag && o.multiple:
		return nil, fmt.Errorf("option %s: is_flag cannot be combined with multiple", o.key)
	}

	o.typ, err = paramType(kw, rawDef)
	if err != nil {
		return nil, fmt.Errorf("option %s: %w", o.key, err)
	}
	switch {
	case o.count:
		o.typ = types.Int{}
	case o.isFlag:
		if _, ok := o.typ.(types.Bool); !ok && kw.Has("type") {
			return nil, fmt.Errorf("option %s: a flag must be boolean", o.key)
		}
		o.typ = types.Bool{}
	}

	switch {
	case hasDef:
		if o.def, err = convertDefault(o.typ, rawDef, o.multiple); err != nil {
			return nil, fmt.Errorf("option %s: %w", o.key, err)
		}
		o.hasDefault = true
	case o.isFlag:
		o.def, o.hasDefault = false, true
	case o.count:
		o.def, o.hasDefault = 0, true
	}

	if o.required, err = kw.Bool("required", false); err != nil {
		return nil, err
	}
	if o.help, err = kw.String("help", ""); err != nil {
		return nil, err
	}
	if o.envvar, err = kw.String("envvar", ""); err != nil {
		return nil, err
	}
	if o.metavar, err = kw.String("metavar", ""); err != nil {
		return nil, err
	}
	if o.hidden, err = kw.Bool("hidden", false); err != nil {
		return nil, err
	}
	if o.showDefault, err = kw.Bool("show_default", false); err != nil {
		return nil, err
	}

	if err := kw.Done("option " + o.key); err != nil {
		return nil, err
	}
	return o, nil
}

// parseDecls sorts the declaration tokens into the long flag, the one-letter
// shorthand and an optional bare name that overrides the lookup key.
func (o *Option) parseDecls() error {
	var name string
	for _, tok := range o.decls {
		switch {
		case strings.HasPrefix(tok, "--"):
			if o.long != "" {
				return fmt.Errorf("option %q: only one long flag is supported (also got %q)", o.long, tok)
			}
			o.long = strings.TrimPrefix(tok, "--")
		case strings.HasPrefix(tok, "-"):
			s := strings.TrimPrefix(tok, "-")
			if len([]rune(s)) != 1 {
				return fmt.Errorf("option %q: short flags must be a single character", tok)
			}
			if o.short != "" {
				return fmt.Errorf("option %q: only one short flag is supported (also got %q)", "-"+o.short, tok)
			}
			o.short = s
		default:
			if name != "" {
				return fmt.Errorf("option declares two names: %q and %q", name, tok)
			}
			name = tok
		}
	}

	switch {
	case name != "":
		o.key = CanonicalKey(name)
	case o.long != "":
		o.key = CanonicalKey(o.long)
	case o.short != "":
		o.key = CanonicalKey(o.short)
	default:
		return fmt.Errorf("option %v has no flag", o.decls)
	}
	if o.long == "" {
		if o.short == "" {
			return fmt.Errorf("option %q has no flag", name)
		}
		o.long = o.key
	}
	return nil
}

func (o *Option) Key() string { return o.key }
func (o *Option) Decls() []string { return append([]string(nil), o.decls...) }
func (o *Option) Kind() Kind { return KindOption }
func (o *Option) Type() types.ParamType { return o.typ }
func (o *Option) Default() (any, bool) { return o.def, o.hasDefault }
func (o *Option) Required() bool { return o.required }
func (o *Option) Multiple() bool { return o.multiple }
func (o *Option) EnvVar() string { return o.envvar }

// Long is the flag name without dashes. Options declared with only a short
// flag use their lookup key as the long name.
func (o *Option) Long() string { return o.long }

// Short is the one-letter shorthand, or "".
func (o *Option) Short() string { return o.short }

func (o *Option) Help() string { return o.help }

func (o *Option) Metavar() string { return o.metavar }

// IsFlag reports a boolean switch that takes no value.
func (o *Option) IsFlag() bool { return o.isFlag }

// Count reports a repeatable switch whose value is the number of occurrences.
func (o *Option) Count() bool { return o.count }

func (o *Option) Hidden() bool { return o.hidden }

func (o *Option) ShowDefault() bool { return o.showDefault }
