package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/byte4ever/scriptgen/renderer"
)

// Request declares one render in a manifest file.
type Request struct {
	// Template is the template file path.
	Template string `yaml:"template" json:"template" hcl:"template"`

	// TemplateSuffix is stripped when deriving the logic
	// file path.
	TemplateSuffix string `yaml:"template_suffix" json:"template_suffix" hcl:"template_suffix,optional"`

	// Logic names the logic file verbatim; empty means
	// derive it from Template.
	Logic string `yaml:"logic" json:"logic" hcl:"logic,optional"`

	// LogicSuffix is appended to the derived logic path.
	LogicSuffix string `yaml:"logic_suffix" json:"logic_suffix" hcl:"logic_suffix,optional"`

	// Substitutions are variables for this request. They
	// override the manifest-wide substitutions.
	Substitutions map[string]string `yaml:"substitutions" json:"substitutions" hcl:"substitutions,optional"`

	// Output is the rendered file path (stdout if empty).
	Output string `yaml:"output" json:"output" hcl:"output,optional"`

	// Executable sets the executable bit on the output.
	Executable bool `yaml:"executable" json:"executable" hcl:"executable,optional"`
}

// Manifest is an ordered set of render requests with
// optional shared substitutions.
type Manifest struct {
	// Substitutions apply to every request; per-request
	// substitutions override them key by key.
	Substitutions map[string]string `yaml:"substitutions" json:"substitutions" hcl:"substitutions,optional"`

	// Requests are rendered in declaration order.
	Requests []Request `yaml:"renders" json:"renders" hcl:"render,block"`
}

// Load reads a manifest file. The format is chosen by file
// extension: .yaml/.yml, .json, or .hcl. HCL manifests may
// reference environment variables through the env object,
// e.g. env.HOME.
func Load(path string) (*Manifest, error) {
	const errCtx = "loading manifest"

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		mf, err := loadYAML(path)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return mf, nil
	case ".json":
		mf, err := loadJSON(path)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return mf, nil
	case ".hcl":
		mf, err := loadHCL(path)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return mf, nil
	default:
		return nil, fmt.Errorf(
			"%s: unsupported manifest format %q",
			errCtx, path,
		)
	}
}

// Spec converts the request into a renderer.TemplateSpec,
// layering the request substitutions over the shared ones.
func (rq Request) Spec(
	shared map[string]string,
) renderer.TemplateSpec {
	subs := make(
		map[string]string,
		len(shared)+len(rq.Substitutions),
	)

	for key, val := range shared {
		subs[key] = val
	}

	for key, val := range rq.Substitutions {
		subs[key] = val
	}

	return renderer.TemplateSpec{
		TemplatePath:   rq.Template,
		TemplateSuffix: rq.TemplateSuffix,
		LogicPath:      rq.Logic,
		LogicSuffix:    rq.LogicSuffix,
		Substitutions:  subs,
	}
}

// RenderAll renders every request in declaration order,
// stopping at the first failure. Requests share no state, so
// a failed request leaves earlier outputs in place.
func (mf *Manifest) RenderAll(en *renderer.Engine) error {
	const errCtx = "rendering manifest"

	for _, rq := range mf.Requests {
		spec := rq.Spec(mf.Substitutions)

		err := en.Render(spec, rq.Output, rq.Executable)
		if err != nil {
			return fmt.Errorf(
				"%s: %s: %w",
				errCtx, rq.Template, err,
			)
		}
	}

	return nil
}

// loadYAML decodes a YAML manifest.
func loadYAML(path string) (*Manifest, error) {
	const errCtx = "decoding yaml manifest"

	content, err := os.ReadFile(path) //nolint:gosec // path from CLI flag
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	var mf Manifest

	if err := yaml.Unmarshal(content, &mf); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return &mf, nil
}

// loadJSON decodes a JSON manifest.
func loadJSON(path string) (*Manifest, error) {
	const errCtx = "decoding json manifest"

	content, err := os.ReadFile(path) //nolint:gosec // path from CLI flag
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	var mf Manifest

	if err := json.Unmarshal(content, &mf); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return &mf, nil
}

// loadHCL parses and decodes an HCL manifest. Render
// requests are repeated render blocks. Expressions may
// reference process environment variables through the env
// object.
func loadHCL(path string) (*Manifest, error) {
	const errCtx = "decoding hcl manifest"

	parser := hclparse.NewParser()

	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf(
			"%s: %s", errCtx, diags.Error(),
		)
	}

	var mf Manifest

	diags = gohcl.DecodeBody(
		file.Body, envContext(), &mf,
	)
	if diags.HasErrors() {
		return nil, fmt.Errorf(
			"%s: %s", errCtx, diags.Error(),
		)
	}

	return &mf, nil
}

// envContext exposes the process environment to HCL
// expressions as an object named env.
func envContext() *hcl.EvalContext {
	envVars := make(map[string]cty.Value)

	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			envVars[parts[0]] = cty.StringVal(parts[1])
		}
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(envVars),
		},
	}
}
