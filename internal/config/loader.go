package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "autocrud.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "autocrud.yml"

// EnvPrefix prefixes every environment variable read by Load.
// Nested keys are separated by a double underscore: AUTOCRUD_TARGET__TYPE.
const EnvPrefix = "AUTOCRUD_"

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

// Default configuration values.
const (
	DefaultTargetType        = "sqlite"
	DefaultDatabase          = "autocrud.db"
	DefaultAddr              = ":8080"
	DefaultMaxBodyBytes      = 1 << 20
	DefaultReadHeaderTimeout = "10s"
	DefaultShutdownTimeout   = "5s"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
	DefaultOutput            = "auto" // TTY=table, otherwise json
)

// flagKeys maps command-line flag names to config keys.
// Flags not listed here are not configuration and are ignored by Load.
var flagKeys = map[string]string{
	"output":         "output",
	"log-level":      "log.level",
	"log-format":     "log.format",
	"target-type":    "target.type",
	"database":       "target.database",
	"schema":         "target.schema",
	"addr":           "server.addr",
	"max-body-bytes": "server.max_body_bytes",
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func defaults() map[string]any {
	return map[string]any{
		"target.type":                DefaultTargetType,
		"target.database":            DefaultDatabase,
		"server.addr":                DefaultAddr,
		"server.max_body_bytes":      DefaultMaxBodyBytes,
		"server.read_header_timeout": DefaultReadHeaderTimeout,
		"server.shutdown_timeout":    DefaultShutdownTimeout,
		"log.level":                  DefaultLogLevel,
		"log.format":                 DefaultLogFormat,
		"output":                     DefaultOutput,
	}
}

// Load reads configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// cfgFile may be empty, in which case autocrud.yaml is searched for upward from
// the working directory. flags may be nil; only flags that were explicitly set
// override lower layers.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	path := cfgFile
	if path == "" {
		if cwd, err := os.Getwd(); err == nil {
			path = findConfigFileUpward(cwd)
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// 3. Environment: AUTOCRUD_SERVER__ADDR -> server.addr
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = path

	expandTargetEnvVars(&cfg.Target)
	cfg.Target.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// findConfigFile finds the config file in the given directory.
// Returns empty string if not found.
func findConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// findConfigFileUpward searches startDir and its parents for a config file.
func findConfigFileUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if p := findConfigFile(dir); p != "" {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// expandEnvVars expands ${VAR} patterns with environment variable values.
// Unset variables are left as written.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if val, ok := os.LookupEnv(match[2 : len(match)-1]); ok {
			return val
		}
		return match
	})
}

// expandTargetEnvVars expands environment variables in credential fields.
func expandTargetEnvVars(t *TargetConfig) {
	t.Host = expandEnvVars(t.Host)
	t.User = expandEnvVars(t.User)
	t.Password = expandEnvVars(t.Password)
	t.Database = expandEnvVars(t.Database)
}
