// Package renderer expands script templates for CI and
// infrastructure pipelines. Each render request names a
// template file and, explicitly or by suffix derivation, a
// logic file whose full contents are injected as the
// reserved "logic" variable alongside caller-supplied
// substitutions. It uses valyala/fasttemplate with
// configurable delimiters (default "{{" and "}}").
package renderer
