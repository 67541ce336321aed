package logicfile

import (
	"log/slog"
	"strings"
)

// Source selects the logic file for a render request. It is
// a tagged choice between an explicit path and a derivation
// from the template path, so "not provided" and
// "deliberately empty" cannot be confused.
type Source struct {
	explicit bool
	path     string

	templatePath   string
	templateSuffix string
	logicSuffix    string
}

// Explicit returns a Source that uses path verbatim.
func Explicit(path string) Source {
	return Source{
		explicit: true,
		path:     path,
	}
}

// Derived returns a Source that derives the logic path from
// the template path: templateSuffix is stripped from the end
// of templatePath when present, and logicSuffix is appended.
func Derived(
	templatePath string,
	templateSuffix string,
	logicSuffix string,
) Source {
	return Source{
		templatePath:   templatePath,
		templateSuffix: templateSuffix,
		logicSuffix:    logicSuffix,
	}
}

// Path returns the resolved logic file path. It never fails
// and performs no existence check; a path that names no
// readable file surfaces later, when the engine reads it.
//
// When the declared template suffix is not actually a suffix
// of the template path the strip is a no-op and derivation
// proceeds on the full path. That silent fallback is kept
// for compatibility, but a warning is logged because the
// resulting path is usually not the one the caller meant.
func (so Source) Path() string {
	if so.explicit {
		return so.path
	}

	base, ok := strings.CutSuffix(
		so.templatePath, so.templateSuffix,
	)
	if !ok {
		slog.Warn(
			"template suffix does not match template path",
			"template", so.templatePath,
			"suffix", so.templateSuffix,
		)
	}

	return base + so.logicSuffix
}

// Resolve maps the empty-string convention used by manifest
// inputs onto the tagged Source form: a non-empty logicPath
// is used verbatim, otherwise the path is derived from
// templatePath.
func Resolve(
	templatePath string,
	templateSuffix string,
	logicPath string,
	logicSuffix string,
) string {
	if logicPath != "" {
		return Explicit(logicPath).Path()
	}

	return Derived(
		templatePath, templateSuffix, logicSuffix,
	).Path()
}
