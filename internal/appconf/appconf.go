// Package appconf holds application-level configuration shared by the API
// server, the transit data manager, and the web UI.
package appconf

import "strings"

// Environment describes which mode the application is running in.
type Environment int

const (
	Development Environment = iota
	Test
	Production
)

// String returns the lowercase name of the environment.
func (e Environment) String() string {
	switch e {
	case Test:
		return "test"
	case Production:
		return "production"
	default:
		return "development"
	}
}

// EnvFlagToEnvironment converts an environment flag value ("development",
// "test", "production") into an Environment. Unknown values map to
// Development.
func EnvFlagToEnvironment(flag string) Environment {
	switch strings.ToLower(strings.TrimSpace(flag)) {
	case "test":
		return Test
	case "production", "prod":
		return Production
	default:
		return Development
	}
}

// Config holds the settings the application reads from command-line flags.
type Config struct {
	Port      int
	Env       Environment
	ApiKeys   []string
	RateLimit int
	Verbose   bool
}

// NewConfig builds a Config, trimming whitespace from the provided API keys.
func NewConfig(port int, env Environment, apiKeys []string, rateLimit int, verbose bool) Config {
	keys := make([]string, 0, len(apiKeys))
	for _, key := range apiKeys {
		key = strings.TrimSpace(key)
		if key != "" {
			keys = append(keys, key)
		}
	}
	return Config{
		Port:      port,
		Env:       env,
		ApiKeys:   keys,
		RateLimit: rateLimit,
		Verbose:   verbose,
	}
}
