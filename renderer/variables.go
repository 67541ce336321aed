package renderer

// LogicKey is the reserved substitution key that receives
// the logic file contents.
const LogicKey = "logic"

// BuildVariables merges caller substitutions with the logic
// file contents into a fresh map. Every caller key is
// carried over with its value unchanged; the reserved
// "logic" key is written last, so the computed value wins
// over any caller-supplied entry. The input map is never
// mutated.
func BuildVariables(
	substitutions map[string]string,
	logicContents string,
) map[string]interface{} {
	vars := make(
		map[string]interface{}, len(substitutions)+1,
	)

	for key, val := range substitutions {
		vars[key] = val
	}

	vars[LogicKey] = logicContents

	return vars
}
