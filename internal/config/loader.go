package config

import (
	"os"
	"regexp"

	"github.com/m96-chan/ASRMixingRouter/internal/verr"
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// interpolateEnvVars replaces every ${VAR} occurrence with the named
// environment variable's value. The first variable that is unset aborts
// the whole interpolation — partial substitution is never returned.
func interpolateEnvVars(input string) (string, error) {
	var firstMissing string
	result := envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		val, ok := os.LookupEnv(name)
		if !ok {
			if firstMissing == "" {
				firstMissing = name
			}
			return match
		}
		return val
	})
	if firstMissing != "" {
		return "", verr.NewConfigEnvVarNotFound(firstMissing)
	}
	return result, nil
}

// FromTOMLString parses s (with ${VAR} interpolation applied first) into
// an AppConfig. Exposed primarily for tests.
func FromTOMLString(s string) (AppConfig, error) {
	interpolated, err := interpolateEnvVars(s)
	if err != nil {
		return AppConfig{}, err
	}
	cfg, err := FromTOMLBytes([]byte(interpolated))
	if err != nil {
		return AppConfig{}, verr.NewConfigTomlParse(err)
	}
	return cfg, nil
}

// LoadFromFile reads path, interpolates ${VAR} references, and parses the
// result into an AppConfig.
func LoadFromFile(path string) (AppConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, verr.NewConfigFileRead(err)
	}
	return FromTOMLString(string(content))
}
