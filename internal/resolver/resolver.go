// Package resolver parses command documents. Custom tags are resolved while
// the YAML node tree is constructed:
//
//   - !ENV, and implicitly any string containing ${NAME}: environment substitution
//   - !arg: a positional parameter
//   - !opt: a flagged parameter
//   - !obj: a value built by a registered factory, named by `class`
//
// A document maps command names to specs:
//
//	deploy:
//	  script: /opt/bin/deploy.sh --region ${REGION}
//	  help: "Deploy a service"
//	  params:
//	    - !arg {param_decls: [service]}
//	    - !opt
//	      param_decls: ["--tier", "-t"]
//	      type: !obj {class: types.Choice, choices: [web, worker]}
package resolver

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/LiboWorks/yamlcmd/internal/errs"
	"github.com/LiboWorks/yamlcmd/internal/logger"
	"github.com/LiboWorks/yamlcmd/internal/types"
)

// textSource names documents given as in-memory text in error messages.
const textSource = "<text>"

// Source selects the input of Resolve. Exactly one field must be set.
type Source struct {
	Path string
	Text string
}

// Option configures a Resolve call.
type Option func(*options)

type options struct {
	registry  *types.Registry
	lookupEnv func(string) (string, bool)
}

// WithRegistry sets the registry !obj classes are looked up in. The default
// is types.DefaultRegistry().
func WithRegistry(r *types.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithLookupEnv replaces os.LookupEnv for ${NAME} substitution.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(o *options) {
		o.lookupEnv = fn
	}
}

func applyOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.registry == nil {
		o.registry = types.DefaultRegistry()
	}
	if o.lookupEnv == nil {
		o.lookupEnv = os.LookupEnv
	}
	return o
}

// Resolve reads and parses a command document. Streams holding several YAML
// documents separated by `---` are merged; a command name defined twice is a
// ConfigurationError.
func Resolve(src Source, opts ...Option) (*Document, error) {
	var (
		data []byte
		name string
	)
	switch {
	case src.Path != "" && src.Text != "":
		return nil, errs.Configf("", "both a path and text were given; use one input source")
	case src.Path != "":
		b, err := os.ReadFile(src.Path)
		if err != nil {
			return nil, errs.ConfigWrap(err, src.Path, "cannot read configuration")
		}
		data, name = b, src.Path
	case src.Text != "":
		data, name = []byte(src.Text), textSource
	default:
		return nil, errs.Configf("", "no input source: either a path or text must be given")
	}

	o := applyOptions(opts)
	d := &decoder{source: name, registry: o.registry, lookupEnv: o.lookupEnv}

	doc, err := d.decode(data)
	if err != nil {
		return nil, err
	}
	logger.Debug("[DEBUG] Resolved %d command(s) from %s\n", doc.Len(), name)
	return doc, nil
}

// ResolveAuto treats input as a file path when it names an existing regular
// file and as YAML text otherwise.
func ResolveAuto(input string, opts ...Option) (*Document, error) {
	if !strings.ContainsAny(input, "\n\r") {
		if info, err := os.Stat(input); err == nil && info.Mode().IsRegular() {
			return Resolve(Source{Path: input}, opts...)
		}
	}
	return Resolve(Source{Text: input}, opts...)
}

func (d *decoder) decode(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	doc := NewDocument()
	for {
		var root yaml.Node
		if err := dec.Decode(&root); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, errs.ConfigWrap(err, d.source, "invalid YAML")
		}
		part, err := d.document(&root)
		if err != nil {
			return nil, err
		}
		if err := doc.Merge(part); err != nil {
			return nil, err
		}
	}
	return doc, nil
}
