package config

import (
	"os"
	"regexp"
)

// envVarRegex matches ${NAME} and ${NAME:-fallback}.
var envVarRegex = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// substituteEnvVars expands environment references before the YAML is
// parsed. With a fallback, an unset or empty variable takes the
// fallback; without one, an unset variable is left as written so that
// validation reports it.
func substituteEnvVars(content []byte) []byte {
	return envVarRegex.ReplaceAllFunc(content, func(match []byte) []byte {
		groups := envVarRegex.FindSubmatch(match)
		name, hasFallback, fallback := string(groups[1]), len(groups[2]) > 0, groups[3]

		value, set := os.LookupEnv(name)
		switch {
		case hasFallback && value == "":
			return fallback
		case set:
			return []byte(value)
		default:
			return match
		}
	})
}
