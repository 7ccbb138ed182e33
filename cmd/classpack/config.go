package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	"github.com/yacobolo/classpack"
	core "github.com/yacobolo/classpack/internal/classpack"
)

const defaultConfigPath = ".classpack.yaml"

var k = koanf.New(".")

// validate checks detection settings before a run.
// Initialized in init() with custom validators.
var validate *validator.Validate

var cssIdentPrefix = regexp.MustCompile(`^-?[A-Za-z_][A-Za-z0-9_-]*$`)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	_ = validate.RegisterValidation("cssident", func(fl validator.FieldLevel) bool {
		return cssIdentPrefix.MatchString(fl.Field().String())
	})
}

// settingKeys maps validated fields to their config keys for error messages
var settingKeys = map[string]string{
	"MinOccurrences": "min-occurrences",
	"MinClasses":     "min-classes",
	"MinBytesSaved":  "min-bytes-saved",
	"HashPrefix":     "hash-prefix",
	"HashLength":     "hash-length",
	"Naming":         "naming",
}

// listKeys are split on commas when they come from the environment
var listKeys = map[string]bool{
	"include":          true,
	"exclude.prefixes": true,
	"exclude.suffixes": true,
	"exclude.classes":  true,
	"exclude.patterns": true,
}

var envKeyReplacer = strings.NewReplacer("__", ".", "_", "-")

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	// Resolve config file path from flag
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	// Load config file and env vars
	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// 3. CLI flags (highest precedence, defaults only fill missing keys)
	if err := k.Load(posflag.Provider(cmd.Flags(), ".", k), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// 2. Environment variables (CLASSPACK_* prefix)
	if err := k.Load(env.ProviderWithValue("CLASSPACK_", ".", func(key, value string) (string, interface{}) {
		// CLASSPACK_MIN_OCCURRENCES -> min-occurrences
		// CLASSPACK_EXCLUDE__PREFIXES -> exclude.prefixes
		name := envKeyReplacer.Replace(strings.ToLower(strings.TrimPrefix(key, "CLASSPACK_")))
		if listKeys[name] {
			return name, splitList(value)
		}
		return name, value
	}), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// buildConfig constructs the library's Config struct from koanf state.
func buildConfig() (classpack.Config, error) {
	config := classpack.DefaultConfig()
	config.BuildDir = getString("build-dir", config.BuildDir)
	config.Stylesheet = getString("stylesheet", "")
	config.CSSOut = getString("css-out", config.CSSOut)
	config.Manifest = getString("manifest", "")
	config.DryRun = getBool("dry-run", false)

	if includes := k.Strings("include"); len(includes) > 0 {
		config.Includes = includes
	}

	d := &config.Detection
	d.MinOccurrences = getInt("min-occurrences", d.MinOccurrences)
	d.MinClasses = getInt("min-classes", d.MinClasses)
	d.MinBytesSaved = getInt("min-bytes-saved", d.MinBytesSaved)
	d.HashPrefix = getString("hash-prefix", d.HashPrefix)
	d.HashLength = getInt("hash-length", d.HashLength)
	d.Naming = core.NamingMode(getString("naming", string(d.Naming)))
	d.SSR = getBool("ssr", false)
	d.ForceAll = getBool("force-all", false)
	d.SkipPatternsWithExcludedClasses = getBool("skip-patterns-with-excluded-classes", false)

	rules, err := core.CompileExcludeRules(
		getStringsWithFallback("exclude-prefix", "exclude.prefixes"),
		getStringsWithFallback("exclude-suffix", "exclude.suffixes"),
		getStringsWithFallback("exclude-class", "exclude.classes"),
		getStringsWithFallback("exclude-pattern", "exclude.patterns"),
	)
	if err != nil {
		return config, fmt.Errorf("invalid configuration: %w", err)
	}
	d.Exclude = rules

	if err := validateDetection(*d); err != nil {
		return config, err
	}

	config.Logger = newLogger(getBool("verbose", false), getBool("quiet", false))
	return config, nil
}

// validateDetection reports the first invalid detection setting by config key
func validateDetection(d core.Config) error {
	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			key := settingKeys[fe.Field()]
			if key == "" {
				key = fe.Field()
			}
			return fmt.Errorf("invalid configuration: %s=%v fails %q", key, fe.Value(), constraint(fe))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := validate.Var(d.HashPrefix, "cssident"); err != nil {
		return fmt.Errorf("invalid configuration: hash-prefix %q is not a valid class name start", d.HashPrefix)
	}
	return nil
}

func constraint(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// newLogger builds the stderr logger for the run
func newLogger(verbose, quiet bool) *slog.Logger {
	if quiet {
		return slog.New(slog.DiscardHandler)
	}
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// splitList splits a comma-separated value, dropping empty entries
func splitList(value string) []string {
	if value == "" {
		return []string{}
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// getString returns the key's value, or the default when unset or empty.
func getString(key, defaultVal string) string {
	if v := k.String(key); v != "" {
		return v
	}
	return defaultVal
}

// getBool returns the key's value, or the default when unset.
func getBool(key string, defaultVal bool) bool {
	if k.Exists(key) {
		return k.Bool(key)
	}
	return defaultVal
}

// getInt returns the key's value, or the default when unset.
func getInt(key string, defaultVal int) int {
	if k.Exists(key) {
		return k.Int(key)
	}
	return defaultVal
}

// getStringsWithFallback checks the flag key first, then the config file key.
func getStringsWithFallback(flagKey, configKey string) []string {
	if v := k.Strings(flagKey); len(v) > 0 {
		return v
	}
	return k.Strings(configKey)
}
