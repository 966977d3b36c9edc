package resolver

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/LiboWorks/yamlcmd/internal/errs"
	"github.com/LiboWorks/yamlcmd/internal/param"
	"github.com/LiboWorks/yamlcmd/internal/types"
)

// Local tags with registered handlers.
const (
	tagEnv = "!ENV"
	tagArg = "!arg"
	tagOpt = "!opt"
	tagObj = "!obj"
)

// coreTags are the YAML core schema tags accepted when written explicitly.
// Any other tag is rejected, which keeps the parse safe: nothing outside the
// four handlers above can build a value.
var coreTags = map[string]bool{
	"!!str":       true,
	"!!int":       true,
	"!!float":     true,
	"!!bool":      true,
	"!!null":      true,
	"!!timestamp": true,
	"!!binary":    true,
	"!!seq":       true,
	"!!map":       true,
}

// Alias expansion limits, the same ratios yaml.v3 applies when it
// unmarshals: small documents may be almost entirely aliased, large ones only
// a tenth.
const (
	aliasRatioRangeLow  = 400000
	aliasRatioRangeHigh = 4000000
	aliasRatioRange     = float64(aliasRatioRangeHigh - aliasRatioRangeLow)
)

func allowedAliasRatio(decodeCount int) float64 {
	switch {
	case decodeCount <= aliasRatioRangeLow:
		return 0.99
	case decodeCount >= aliasRatioRangeHigh:
		return 0.10
	default:
		return 0.99 - 0.89*(float64(decodeCount-aliasRatioRangeLow)/aliasRatioRange)
	}
}

// decoder turns a yaml.v3 node tree into plain Go values, running tag
// handlers as nodes are constructed. One decoder is built per Resolve call.
type decoder struct {
	source    string
	registry  *types.Registry
	lookupEnv func(string) (string, bool)

	// Alias bookkeeping: aliases being expanded, and node counts used to
	// reject documents that expand far beyond their size.
	aliases     map[*yaml.Node]bool
	aliasDepth  int
	aliasCount  int
	decodeCount int
}

// fields is a decoded mapping that remembers its key order.
type fields struct {
	keys   []string
	values map[string]any
}

func (d *decoder) errorf(n *yaml.Node, format string, args ...any) error {
	return errs.Configf(d.source, "line %d: %s", n.Line, fmt.Sprintf(format, args...))
}

func (d *decoder) wrap(n *yaml.Node, err error, format string, args ...any) error {
	return &errs.ConfigurationError{
		Source: d.source,
		Reason: fmt.Sprintf("line %d: %s", n.Line, fmt.Sprintf(format, args...)),
		Cause:  err,
	}
}

func explicit(n *yaml.Node) bool {
	return n.Style&yaml.TaggedStyle != 0
}

// visit counts one constructed node.
func (d *decoder) visit(n *yaml.Node) error {
	d.decodeCount++
	if d.aliasDepth > 0 {
		d.aliasCount++
	}
	if d.aliasCount > 100 && d.decodeCount > 1000 &&
		float64(d.aliasCount)/float64(d.decodeCount) > allowedAliasRatio(d.decodeCount) {
		return d.errorf(n, "document contains excessive aliasing")
	}
	return nil
}

// enterAlias starts expanding the alias n. The returned func must be called
// once its target has been constructed.
func (d *decoder) enterAlias(n *yaml.Node) (func(), error) {
	if d.aliases == nil {
		d.aliases = make(map[*yaml.Node]bool)
	}
	if d.aliases[n] {
		return nil, d.errorf(n, "anchor %q value contains itself", n.Value)
	}
	d.aliases[n] = true
	d.aliasDepth++
	return func() {
		d.aliasDepth--
		delete(d.aliases, n)
	}, nil
}

// value constructs n bottom-up: children are fully built before the handler
// of their parent runs.
func (d *decoder) value(n *yaml.Node) (any, error) {
	if err := d.visit(n); err != nil {
		return nil, err
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.value(n.Content[0])
	case yaml.AliasNode:
		done, err := d.enterAlias(n)
		if err != nil {
			return nil, err
		}
		defer done()
		return d.value(n.Alias)
	}

	if explicit(n) {
		switch n.Tag {
		case tagEnv:
			return d.env(n)
		case tagArg:
			return d.argument(n)
		case tagOpt:
			return d.option(n)
		case tagObj:
			return d.object(n)
		}
		if !coreTags[n.ShortTag()] {
			return nil, d.errorf(n, "unknown tag %s", n.Tag)
		}
	}

	switch n.Kind {
	case yaml.ScalarNode:
		return d.scalar(n)
	case yaml.SequenceNode:
		return d.sequence(n)
	case yaml.MappingNode:
		return d.mapping(n)
	}
	return nil, d.errorf(n, "unsupported node kind %v", n.Kind)
}

// scalar decodes an untagged or core-tagged scalar. Only plain strings are
// matched against ${NAME}; quoted strings and an explicit !!str stay literal.
func (d *decoder) scalar(n *yaml.Node) (any, error) {
	if n.ShortTag() == "!!str" {
		if explicit(n) || n.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle|yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
			return n.Value, nil
		}
		return expandEnv(n.Value, d.lookupEnv), nil
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, d.wrap(n, err, "invalid %s value %q", n.ShortTag(), n.Value)
	}
	return v, nil
}

func (d *decoder) sequence(n *yaml.Node) ([]any, error) {
	out := make([]any, 0, len(n.Content))
	for _, c := range n.Content {
		v, err := d.value(c)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (d *decoder) mapping(n *yaml.Node) (map[string]any, error) {
	f, err := d.fields(n)
	if err != nil {
		return nil, err
	}
	return f.values, nil
}

// fields decodes a mapping node. Explicit keys come first in source order,
// followed by keys only provided through `<<` merges.
func (d *decoder) fields(n *yaml.Node) (*fields, error) {
	out := &fields{values: make(map[string]any, len(n.Content)/2)}
	var merges []*fields

	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind == yaml.ScalarNode && k.ShortTag() == "!!merge" {
			m, err := d.merge(v)
			if err != nil {
				return nil, err
			}
			merges = append(merges, m...)
			continue
		}
		key, err := d.key(k)
		if err != nil {
			return nil, err
		}
		if _, dup := out.values[key]; dup {
			return nil, d.errorf(k, "mapping key %q already defined", key)
		}
		val, err := d.value(v)
		if err != nil {
			return nil, err
		}
		out.keys = append(out.keys, key)
		out.values[key] = val
	}

	// Explicit keys win over merged ones; earlier merges win over later ones.
	for _, m := range merges {
		for _, k := range m.keys {
			if _, ok := out.values[k]; !ok {
				out.keys = append(out.keys, k)
				out.values[k] = m.values[k]
			}
		}
	}
	return out, nil
}

func (d *decoder) merge(n *yaml.Node) ([]*fields, error) {
	if n.Kind == yaml.SequenceNode {
		if err := d.visit(n); err != nil {
			return nil, err
		}
		var out []*fields
		for _, c := range n.Content {
			f, err := d.mergeSource(c, "merge sequence must contain mappings")
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		}
		return out, nil
	}
	f, err := d.mergeSource(n, "merge value must be a mapping or a sequence of mappings")
	if err != nil {
		return nil, err
	}
	return []*fields{f}, nil
}

func (d *decoder) mergeSource(n *yaml.Node, msg string) (*fields, error) {
	if n.Kind == yaml.AliasNode {
		done, err := d.enterAlias(n)
		if err != nil {
			return nil, err
		}
		defer done()
		n = n.Alias
	}
	if n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, "%s", msg)
	}
	if err := d.visit(n); err != nil {
		return nil, err
	}
	return d.fields(n)
}

func (d *decoder) key(n *yaml.Node) (string, error) {
	target := n
	if target.Kind == yaml.AliasNode {
		target = target.Alias
	}
	if target.Kind != yaml.ScalarNode {
		return "", d.errorf(n, "mapping keys must be scalars")
	}
	v, err := d.value(n)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", d.errorf(n, "mapping key must not be null")
	}
	return fmt.Sprint(v), nil
}

// env handles !ENV on a scalar.
func (d *decoder) env(n *yaml.Node) (any, error) {
	if n.Kind != yaml.ScalarNode {
		return nil, d.errorf(n, "%s applies to scalars only", tagEnv)
	}
	return expandEnv(n.Value, d.lookupEnv), nil
}

// argument handles !arg: the mapping becomes the Argument's keyword arguments.
func (d *decoder) argument(n *yaml.Node) (any, error) {
	kwargs, err := d.taggedMapping(n)
	if err != nil {
		return nil, err
	}
	a, err := param.NewArgument(kwargs)
	if err != nil {
		return nil, d.wrap(n, err, "invalid %s", tagArg)
	}
	return a, nil
}

// option handles !opt the same way as argument.
func (d *decoder) option(n *yaml.Node) (any, error) {
	kwargs, err := d.taggedMapping(n)
	if err != nil {
		return nil, err
	}
	o, err := param.NewOption(kwargs)
	if err != nil {
		return nil, d.wrap(n, err, "invalid %s", tagOpt)
	}
	return o, nil
}

// object handles !obj: `class` names a registry entry and the remaining keys
// are passed to its factory.
func (d *decoder) object(n *yaml.Node) (any, error) {
	kwargs, err := d.taggedMapping(n)
	if err != nil {
		return nil, err
	}
	raw, ok := kwargs["class"]
	if !ok {
		return nil, d.errorf(n, "%s requires a class key", tagObj)
	}
	class, ok := raw.(string)
	if !ok {
		return nil, d.errorf(n, "%s class must be a string, got %T", tagObj, raw)
	}
	delete(kwargs, "class")

	v, err := d.registry.New(class, kwargs)
	if err != nil {
		return nil, d.wrap(n, err, "cannot construct %s", class)
	}
	return v, nil
}

func (d *decoder) taggedMapping(n *yaml.Node) (map[string]any, error) {
	if n.Kind != yaml.MappingNode {
		return nil, d.errorf(n, "%s applies to mappings only", n.Tag)
	}
	return d.mapping(n)
}

// document builds a Document from the root node of one YAML document.
func (d *decoder) document(root *yaml.Node) (*Document, error) {
	doc := NewDocument()

	n := root
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return doc, nil
		}
		n = n.Content[0]
	}
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	switch {
	case n.Kind == 0:
		return doc, nil
	case n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null":
		return doc, nil
	case n.Kind != yaml.MappingNode || (explicit(n) && n.ShortTag() != "!!map"):
		return nil, d.errorf(n, "top level must be a mapping of command names to command specs")
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.ShortTag() == "!!merge" {
			return nil, d.errorf(k, "merge keys are not allowed at the top level")
		}
		name, err := d.key(k)
		if err != nil {
			return nil, err
		}
		spec, err := d.command(name, v)
		if err != nil {
			return nil, err
		}
		if err := doc.add(spec); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (d *decoder) command(name string, n *yaml.Node) (*CommandSpec, error) {
	if n.Kind == yaml.AliasNode {
		done, err := d.enterAlias(n)
		if err != nil {
			return nil, err
		}
		defer done()
		n = n.Alias
	}
	if n.Kind != yaml.MappingNode || (explicit(n) && n.ShortTag() != "!!map") {
		return nil, d.errorf(n, "command %q must be a mapping", name)
	}
	if err := d.visit(n); err != nil {
		return nil, err
	}
	f, err := d.fields(n)
	if err != nil {
		return nil, err
	}

	spec := &CommandSpec{Name: name, Source: d.source, Extra: map[string]any{}}
	for _, key := range f.keys {
		v := f.values[key]
		switch key {
		case "script":
			if v == nil {
				continue
			}
			s, ok := v.(string)
			if !ok {
				return nil, d.errorf(n, "command %q: script must be a string, got %T", name, v)
			}
			spec.Script, spec.HasScript = s, true
		case "help":
			if v == nil {
				continue
			}
			s, ok := v.(string)
			if !ok {
				return nil, d.errorf(n, "command %q: help must be a string, got %T", name, v)
			}
			spec.Help = s
		case "params":
			if spec.Params, err = d.params(name, n, v); err != nil {
				return nil, err
			}
		default:
			spec.ExtraKeys = append(spec.ExtraKeys, key)
			spec.Extra[key] = v
		}
	}
	return spec, nil
}

func (d *decoder) params(name string, n *yaml.Node, v any) ([]param.Param, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, d.errorf(n, "command %q: params must be a sequence, got %T", name, v)
	}
	out := make([]param.Param, 0, len(list))
	seen := make(map[string]bool, len(list))
	for i, item := range list {
		p, ok := item.(param.Param)
		if !ok {
			return nil, d.errorf(n, "command %q: params[%d] must be an %s or %s value, got %T", name, i, tagArg, tagOpt, item)
		}
		if seen[p.Key()] {
			return nil, d.errorf(n, "command %q: parameter key %q is declared twice", name, p.Key())
		}
		seen[p.Key()] = true
		out = append(out, p)
	}
	return out, nil
}
