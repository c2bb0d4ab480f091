// Package config loads warpack settings from a TOML file.
//
// The file is named by the --config flag or, failing that, the
// WARPACK_CONFIG environment variable. Without either, built-in defaults
// apply. Command-line flags override whatever the file sets.
//
//	repository = "${HOME}/.m2/repository"
//
//	[boot]
//	coordinate = "com.invirgance:convirgance-boot:0.2.0"
//	main_class = "com.invirgance.convirgance.boot.ConvirganceBoot"
//
//	[resolve]
//	enforce_exclusions = true
//
//	[quickstart]
//	command = ["java", "-jar", "/opt/jetty/preconfigure.jar"]
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/warpack/pkg/deps"
	"github.com/matzehuels/warpack/pkg/errors"
)

// EnvVar names the environment variable holding the config file path.
const EnvVar = "WARPACK_CONFIG"

// Bootstrap runtime defaults.
const (
	DefaultBootCoordinate = "com.invirgance:convirgance-boot:0.2.0"
	DefaultMainClass      = "com.invirgance.convirgance.boot.ConvirganceBoot"
	DefaultSkipSuffix     = "Startup.class"
)

// Config is the complete warpack configuration.
type Config struct {
	// Repository is the local Maven repository root.
	// Default: ~/.m2/repository
	Repository string `toml:"repository"`

	Boot       BootConfig       `toml:"boot"`
	Resolve    ResolveConfig    `toml:"resolve"`
	Quickstart QuickstartConfig `toml:"quickstart"`
}

// BootConfig selects the bootstrap runtime embedded in every archive.
type BootConfig struct {
	// Coordinate of the bootstrap runtime; also the root of dependency
	// resolution.
	Coordinate string `toml:"coordinate"`

	// MainClass is written as the archive's Main-Class.
	MainClass string `toml:"main_class"`

	// SkipSuffix excludes matching bootstrap classes from the archive.
	SkipSuffix string `toml:"skip_suffix"`
}

// ResolveConfig toggles optional resolution behavior.
type ResolveConfig struct {
	EnforceExclusions bool `toml:"enforce_exclusions"`
	RevisitUpgrades   bool `toml:"revisit_upgrades"`
}

// QuickstartConfig selects how the quickstart descriptor is produced.
type QuickstartConfig struct {
	// Command renders the descriptor; the application directory is appended
	// as the last argument. Empty means the build already produced it.
	Command []string `toml:"command"`

	// Dir is the working directory for Command.
	Dir string `toml:"dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	repo := ""
	if home, err := os.UserHomeDir(); err == nil {
		repo = filepath.Join(home, ".m2", "repository")
	}
	return &Config{
		Repository: repo,
		Boot: BootConfig{
			Coordinate: DefaultBootCoordinate,
			MainClass:  DefaultMainClass,
			SkipSuffix: DefaultSkipSuffix,
		},
	}
}

// Load loads the file at path, or the one named by WARPACK_CONFIG when path
// is empty. With neither, it returns [Default].
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file, layered over the
// defaults. Unknown keys are rejected so typos do not go unnoticed.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "config file %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	cfg.expandVariables()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid %s", path)
	}
	return cfg, nil
}

// expandVariables expands ${VAR} and a leading ~ in paths.
func (c *Config) expandVariables() {
	c.Repository = expandPath(c.Repository)
	c.Quickstart.Dir = expandPath(c.Quickstart.Dir)
	for i, arg := range c.Quickstart.Command {
		c.Quickstart.Command[i] = os.ExpandEnv(arg)
	}
}

func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	return p
}

// Validate checks the settings that can be checked without touching disk.
func (c *Config) Validate() error {
	if _, err := deps.ParseCoordinate(c.Boot.Coordinate); err != nil {
		return err
	}
	if err := errors.ValidateClassName(c.Boot.MainClass); err != nil {
		return err
	}
	if len(c.Quickstart.Command) > 0 && c.Quickstart.Command[0] == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "quickstart command has an empty program name")
	}
	return nil
}
