package renderer

import (
	"fmt"
	"io"
	"os"

	"github.com/valyala/fasttemplate"

	"github.com/byte4ever/scriptgen/logicfile"
	"github.com/byte4ever/scriptgen/varfile"
)

// TemplateSpec describes one render request. It is built
// once per request and never modified afterwards.
type TemplateSpec struct {
	// TemplatePath is the template file to expand.
	TemplatePath string

	// TemplateSuffix is stripped from TemplatePath when
	// deriving the logic file path.
	TemplateSuffix string

	// LogicPath, when non-empty, names the logic file
	// verbatim and disables derivation.
	LogicPath string

	// LogicSuffix is appended to the derived logic path.
	LogicSuffix string

	// Substitutions are caller-supplied variables merged
	// into the render context.
	Substitutions map[string]string
}

// Engine expands script templates with a logic file injected
// as the "logic" variable. An Engine is safe for concurrent
// use once constructed.
type Engine struct {
	StartTag string
	EndTag   string

	// VarFiles are KEY VALUE substitution files loaded as
	// the base variable layer; spec substitutions override
	// them.
	VarFiles []string
}

// Render expands the template described by spec and writes
// the result. If outPath is empty it writes to stdout. If
// executable is true the output file receives mode 0777
// instead of 0666.
//
// Processing order:
//  1. Resolve the logic file path (explicit path wins,
//     otherwise derive from the template path).
//  2. Read the logic file; a missing file propagates as a
//     wrapped file-not-found error.
//  3. Load var files, layer spec substitutions over them.
//  4. Merge in the logic contents under the reserved
//     "logic" key (computed value wins).
//  5. Expand the template with the configured tags.
func (en *Engine) Render(
	spec TemplateSpec,
	outPath string,
	executable bool,
) error {
	const errCtx = "rendering template"

	ctx, err := en.buildContext(spec)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	tplContent, err := en.readTemplate(spec.TemplatePath)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	startTag, endTag := en.tags()

	out, closer, err := en.openOutput(outPath, executable)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	if closer != nil {
		defer closer()
	}

	_, err = fasttemplate.ExecuteStd(
		string(tplContent), startTag, endTag, out, ctx,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// RenderString expands the template described by spec and
// returns the rendered text.
func (en *Engine) RenderString(
	spec TemplateSpec,
) (string, error) {
	const errCtx = "rendering template"

	ctx, err := en.buildContext(spec)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	tplContent, err := en.readTemplate(spec.TemplatePath)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	startTag, endTag := en.tags()

	return fasttemplate.ExecuteStringStd(
		string(tplContent), startTag, endTag, ctx,
	), nil
}

// buildContext resolves and reads the logic file, layers the
// spec substitutions over the var file variables, and merges
// everything into the final render context.
func (en *Engine) buildContext(
	spec TemplateSpec,
) (map[string]interface{}, error) {
	const errCtx = "building render context"

	logicPath := logicfile.Resolve(
		spec.TemplatePath,
		spec.TemplateSuffix,
		spec.LogicPath,
		spec.LogicSuffix,
	)

	logicContents, err := os.ReadFile(logicPath) //nolint:gosec // paths from render specs
	if err != nil {
		return nil, fmt.Errorf(
			"%s: reading logic file: %w", errCtx, err,
		)
	}

	base, err := varfile.Load(en.VarFiles)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	for key, val := range spec.Substitutions {
		base[key] = val
	}

	return BuildVariables(base, string(logicContents)), nil
}

// tags returns the configured start/end tags, falling back
// to double-brace defaults.
func (en *Engine) tags() (string, string) {
	startTag := en.StartTag
	if startTag == "" {
		startTag = "{{"
	}

	endTag := en.EndTag
	if endTag == "" {
		endTag = "}}"
	}

	return startTag, endTag
}

// readTemplate reads the template from a file path. If
// tplPath is empty it reads from stdin.
func (en *Engine) readTemplate(
	tplPath string,
) ([]byte, error) {
	const errCtx = "reading template"

	if tplPath != "" {
		content, err := os.ReadFile(tplPath) //nolint:gosec // paths from render specs
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return content, nil
	}

	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: reading stdin: %w", errCtx, err,
		)
	}

	return content, nil
}

// openOutput returns a writer for the result. When outPath
// is empty it returns stdout. The returned closer function
// must be called to finalize the file (may be nil for
// stdout).
func (en *Engine) openOutput(
	outPath string,
	executable bool,
) (io.Writer, func(), error) {
	const errCtx = "opening output"

	if outPath == "" {
		return os.Stdout, nil, nil
	}

	var perm os.FileMode = 0o666
	if executable {
		perm = 0o777
	}

	fi, err := os.OpenFile( //nolint:gosec // paths from render specs
		outPath,
		os.O_RDWR|os.O_CREATE|os.O_TRUNC,
		perm,
	)
	if err != nil {
		return nil, nil, fmt.Errorf(
			"%s: %w", errCtx, err,
		)
	}

	return fi, func() {
		_ = fi.Close() //nolint:errcheck // best-effort close
	}, nil
}
