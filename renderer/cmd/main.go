// Binary scriptgen renders script templates, injecting the
// contents of a logic file as the "logic" variable. It
// renders a single template described by flags, or every
// request of a declarative manifest file.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/byte4ever/scriptgen/manifest"
	"github.com/byte4ever/scriptgen/renderer"
)

type arrayFlags []string

func (af *arrayFlags) String() string {
	return ""
}

func (af *arrayFlags) Set(value string) error {
	*af = append(*af, value)
	return nil
}

func run() error {
	const errCtx = "scriptgen"

	var (
		substitutions arrayFlags
		varFiles      arrayFlags
	)

	var (
		manifestPath   string
		template       string
		templateSuffix string
		logic          string
		logicSuffix    string
		output         string
		executable     bool
		startTag       string
		endTag         string
	)

	flag.StringVar(
		&manifestPath, "manifest", "",
		"render manifest file (.yaml/.json/.hcl)",
	)

	flag.StringVar(
		&template, "template", "",
		"input template file path",
	)

	flag.StringVar(
		&templateSuffix, "template-suffix", ".tmpl",
		"suffix stripped when deriving the logic path",
	)

	flag.StringVar(
		&logic, "logic", "",
		"logic file path (derived from template if empty)",
	)

	flag.StringVar(
		&logicSuffix, "logic-suffix", ".logic",
		"suffix appended to the derived logic path",
	)

	flag.Var(
		&substitutions,
		"substitution",
		"substitution in NAME=VALUE format (repeatable)",
	)

	flag.Var(
		&varFiles,
		"var-file",
		"KEY VALUE substitution file path (repeatable)",
	)

	flag.StringVar(
		&output, "output", "",
		"output file path (stdout if empty)",
	)

	flag.BoolVar(
		&executable, "executable", false,
		"set executable bit on output file",
	)

	flag.StringVar(
		&startTag, "start-tag", "{{",
		"start tag for template placeholders",
	)

	flag.StringVar(
		&endTag, "end-tag", "}}",
		"end tag for template placeholders",
	)

	flag.Parse()

	if manifestPath != "" && template != "" {
		return fmt.Errorf(
			"%s: only one of --manifest or"+
				" --template may be specified",
			errCtx,
		)
	}

	en := renderer.Engine{
		StartTag: startTag,
		EndTag:   endTag,
		VarFiles: varFiles,
	}

	if manifestPath != "" {
		mf, err := manifest.Load(manifestPath)
		if err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		if err := mf.RenderAll(&en); err != nil {
			return fmt.Errorf("%s: %w", errCtx, err)
		}

		return nil
	}

	subs, err := parseSubstitutions(substitutions)
	if err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	spec := renderer.TemplateSpec{
		TemplatePath:   template,
		TemplateSuffix: templateSuffix,
		LogicPath:      logic,
		LogicSuffix:    logicSuffix,
		Substitutions:  subs,
	}

	if err := en.Render(
		spec, output, executable,
	); err != nil {
		return fmt.Errorf("%s: %w", errCtx, err)
	}

	return nil
}

// parseSubstitutions splits repeated NAME=VALUE flags into a
// map. Later flags override earlier ones.
func parseSubstitutions(
	raw []string,
) (map[string]string, error) {
	const errCtx = "parsing substitutions"

	subs := make(map[string]string, len(raw))

	for _, sb := range raw {
		parts := strings.SplitN(sb, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf(
				"%s: substitution must be"+
					" NAME=VALUE, got %s",
				errCtx, sb,
			)
		}

		subs[parts[0]] = parts[1]
	}

	return subs, nil
}

func main() {
	if err := run(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
