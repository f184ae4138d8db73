// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
//  1. Built-in defaults
//  2. User config file (~/.taskpad/taskpad.toml or OS-specific config dir)
//  3. Project config file (taskpad.toml or .taskpad.toml in the current directory)
//  4. Environment variables (TASKPAD_*)
//  5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultStoreFile  = "~/.taskpad/tasks.json"
	DefaultLogDir     = "~/.taskpad"
	DefaultSessionLog = true
)

// Config holds the full configuration for taskpad.
type Config struct {
	// StoreFile is the single slot file holding the serialized task array.
	StoreFile string `toml:"store_file"`
	// SchemaFile optionally overrides the built-in slot schema.
	SchemaFile string `toml:"schema_file"`
	// LogDir is where session logs are written.
	LogDir string `toml:"log_dir"`
	// SessionLog enables the per-session JSONL mutation log.
	SessionLog bool `toml:"session_log"`

	// ConfigFile is the file the values came from, when one was used.
	ConfigFile string `toml:"-"`
}

// Load builds the configuration from defaults, config files, environment
// variables, and flags registered on fs, in that order.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	// An explicit -config file replaces discovery of user/project files.
	explicit := scanConfigFlag(args)
	if explicit != "" {
		if err := loadConfigFile(cfg, explicit); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", explicit, err)
		}
		cfg.ConfigFile = explicit
	} else {
		if userFile := findUserConfigFile(); userFile != "" {
			if err := loadConfigFile(cfg, userFile); err != nil {
				return nil, fmt.Errorf("loading user config file %s: %w", userFile, err)
			}
			cfg.ConfigFile = userFile
		}
		if projFile := findProjectConfigFile(); projFile != "" {
			if err := loadConfigFile(cfg, projFile); err != nil {
				return nil, fmt.Errorf("loading project config file %s: %w", projFile, err)
			}
			cfg.ConfigFile = projFile
		}
	}

	loadFromEnv(cfg)

	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	finalize(cfg)
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.StoreFile = DefaultStoreFile
	cfg.LogDir = DefaultLogDir
	cfg.SessionLog = DefaultSessionLog
}

func loadConfigFile(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return err
	}
	return nil
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TASKPAD_STORE"); v != "" {
		cfg.StoreFile = v
	}
	if v := os.Getenv("TASKPAD_SCHEMA"); v != "" {
		cfg.SchemaFile = v
	}
	if v := os.Getenv("TASKPAD_LOG_DIR"); v != "" {
		cfg.LogDir = v
	}
	if v := os.Getenv("TASKPAD_SESSION_LOG"); v != "" {
		cfg.SessionLog = boolFromString(v)
	}
}

// parseFlags registers the shared flags on fs and parses args. Flags
// override everything loaded before them.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	fs.String("config", "", "Config file (overrides discovery)")
	store := fs.String("store", "", "Slot file holding the task list")
	schema := fs.String("schema", "", "Schema file overriding the built-in slot schema")
	logDir := fs.String("log-dir", "", "Directory for session logs")
	noLog := fs.Bool("no-log", false, "Disable the session log")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *store != "" {
		cfg.StoreFile = *store
	}
	if *schema != "" {
		cfg.SchemaFile = *schema
	}
	if *logDir != "" {
		cfg.LogDir = *logDir
	}
	if *noLog {
		cfg.SessionLog = false
	}
	return nil
}

// scanConfigFlag pulls -config out of args before the full flag parse, so
// the file can participate in the layered load order.
func scanConfigFlag(args []string) string {
	for i, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		arg = strings.TrimPrefix(strings.TrimPrefix(arg, "-"), "-")
		if arg == "config" && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(arg, "config="); ok {
			return v
		}
	}
	return ""
}

func finalize(cfg *Config) {
	cfg.StoreFile = ExpandPath(cfg.StoreFile)
	cfg.SchemaFile = ExpandPath(cfg.SchemaFile)
	cfg.LogDir = ExpandPath(cfg.LogDir)
}

func boolFromString(v string) bool {
	switch v {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	}
	return false
}

// findUserConfigFile looks for the user-level config file.
// Preferred: ~/.taskpad/taskpad.toml, then the OS config dir.
func findUserConfigFile() string {
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".taskpad", "taskpad.toml")
		if fileExists(path) {
			return path
		}
	}
	if dir, err := os.UserConfigDir(); err == nil {
		path := filepath.Join(dir, "taskpad", "taskpad.toml")
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	for _, name := range []string{"taskpad.toml", ".taskpad.toml"} {
		if fileExists(name) {
			return name
		}
	}
	return ""
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
