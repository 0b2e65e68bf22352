package config

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/ufonion/nextflow/internal/ctxlog"
)

// Loader parses HCL configuration files into the format-agnostic Model.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a Loader with a fresh HCL parser.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load reads and translates one or more HCL configuration files, deep-merging
// later files over earlier ones. With no paths it returns an empty model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Model, error) {
	merged := make(map[string]any)
	for _, path := range paths {
		model, err := l.LoadFile(ctx, path)
		if err != nil {
			return nil, err
		}
		merged = deepMerge(merged, model.Map())
	}
	return NewModel(merged), nil
}

// LoadFile reads and translates a single HCL configuration file.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading configuration file.", "path", path)

	file, diags := l.parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %s: %w", path, diags)
	}
	return l.translate(ctx, file.Body.(*hclsyntax.Body))
}

// LoadBytes translates in-memory HCL source, with filename used only for
// diagnostics. Primarily for tests.
func (l *Loader) LoadBytes(ctx context.Context, filename string, src []byte) (*Model, error) {
	file, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing %s: %w", filename, diags)
	}
	return l.translate(ctx, file.Body.(*hclsyntax.Body))
}

// translate converts an HCL body into the nested model. Top-level attributes
// become leaf values; blocks nest under their type, with a single label
// adding one more level (e.g. executor "local" { ... }).
func (l *Loader) translate(ctx context.Context, body *hclsyntax.Body) (*Model, error) {
	values, err := bodyToMap(body)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Configuration translated into unified model.", "top_level_keys", len(values))
	return NewModel(values), nil
}

func bodyToMap(body *hclsyntax.Body) (map[string]any, error) {
	out := make(map[string]any)

	for name, attr := range body.Attributes {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("evaluating attribute '%s': %w", name, diags)
		}
		native, err := ctyToNative(val)
		if err != nil {
			return nil, fmt.Errorf("attribute '%s': %w", name, err)
		}
		out[name] = native
	}

	for _, block := range body.Blocks {
		inner, err := bodyToMap(block.Body)
		if err != nil {
			return nil, fmt.Errorf("in block '%s': %w", block.Type, err)
		}

		switch len(block.Labels) {
		case 0:
			out[block.Type] = mergeMaps(out[block.Type], inner)
		case 1:
			group, _ := out[block.Type].(map[string]any)
			if group == nil {
				group = make(map[string]any)
			}
			group[block.Labels[0]] = mergeMaps(group[block.Labels[0]], inner)
			out[block.Type] = group
		default:
			return nil, fmt.Errorf("block '%s' has %d labels, at most one is supported", block.Type, len(block.Labels))
		}
	}

	return out, nil
}

// deepMerge overlays src on top of base recursively: nested maps merge,
// anything else in src replaces the base value.
func deepMerge(base, src map[string]any) map[string]any {
	for k, v := range src {
		srcMap, srcIsMap := v.(map[string]any)
		baseMap, baseIsMap := base[k].(map[string]any)
		if srcIsMap && baseIsMap {
			base[k] = deepMerge(baseMap, srcMap)
			continue
		}
		base[k] = v
	}
	return base
}

// mergeMaps overlays src on top of an existing value when both are maps;
// otherwise src wins. Repeated blocks of the same type merge rather than
// silently dropping earlier entries.
func mergeMaps(existing any, src map[string]any) map[string]any {
	base, ok := existing.(map[string]any)
	if !ok {
		return src
	}
	for k, v := range src {
		base[k] = v
	}
	return base
}
