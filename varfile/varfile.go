package varfile

import (
	"fmt"
	"os"
	"strings"
)

// Load reads substitution variable files and merges them
// into a single map. Each line is "KEY VALUE" with the first
// space as delimiter; lines without a space are silently
// skipped. Later files override earlier ones. Values may
// reference environment variables as ${VAR}; a reference to
// an unset variable is an error.
func Load(paths []string) (map[string]string, error) {
	const errCtx = "loading var files"

	vars := make(map[string]string)

	for _, pa := range paths {
		content, err := os.ReadFile(pa) //nolint:gosec // paths from CLI flags
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		for _, line := range strings.Split(
			string(content), "\n",
		) {
			parts := strings.SplitN(line, " ", 2)
			if len(parts) != 2 {
				continue
			}

			val, err := ExpandEnv(
				parts[1], os.LookupEnv,
			)
			if err != nil {
				return nil, fmt.Errorf(
					"%s: %s: %w", errCtx, pa, err,
				)
			}

			vars[parts[0]] = val
		}
	}

	return vars, nil
}

// ExpandEnv replaces ${VAR} references in value using
// lookup. A reference to an unset variable is an error
// naming the variable. Text that merely resembles a
// reference (empty or non-identifier name, unterminated
// brace) is preserved as-is.
func ExpandEnv(
	value string,
	lookup func(string) (string, bool),
) (string, error) {
	const errCtx = "expanding environment references"

	var bu strings.Builder

	rest := value

	for {
		idx := strings.Index(rest, "${")
		if idx < 0 {
			bu.WriteString(rest)

			return bu.String(), nil
		}

		end := strings.Index(rest[idx:], "}")
		if end < 0 {
			bu.WriteString(rest)

			return bu.String(), nil
		}

		name := rest[idx+2 : idx+end]
		if !isEnvName(name) {
			bu.WriteString(rest[:idx+end+1])
			rest = rest[idx+end+1:]

			continue
		}

		val, ok := lookup(name)
		if !ok {
			return "", fmt.Errorf(
				"%s: %q is not set", errCtx, name,
			)
		}

		bu.WriteString(rest[:idx])
		bu.WriteString(val)
		rest = rest[idx+end+1:]
	}
}

// isEnvName reports whether name is a non-empty identifier
// made of letters, digits, and underscores.
func isEnvName(name string) bool {
	if name == "" {
		return false
	}

	for _, ru := range name {
		switch {
		case ru >= 'a' && ru <= 'z':
		case ru >= 'A' && ru <= 'Z':
		case ru >= '0' && ru <= '9':
		case ru == '_':
		default:
			return false
		}
	}

	return true
}
