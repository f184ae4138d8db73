// Package cmd implements the CLI command structure for taskpad.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"taskpad/internal/config"
	"taskpad/internal/logging"
	"taskpad/internal/storage"
	"taskpad/internal/task"
	"taskpad/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the taskpad CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("taskpad", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// If no args or first arg is a flag, run the TUI
	subcommand := "run"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "run":
		return runCommand(ctx, cfg, remainingArgs)
	case "doctor":
		return doctorCommand(cfg, remainingArgs)
	case "config":
		return configCommand(cfg, remainingArgs)
	case "version", "--version", "-v":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// runCommand loads the slot, hydrates the store, and starts the TUI.
func runCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}

	logger := consoleLogger()

	adapter, err := storage.New(cfg.StoreFile, cfg.SchemaFile)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	tasks, err := adapter.Load()
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}
	store := task.NewStore()
	store.Replace(tasks)

	var session *logging.SessionLogger
	if cfg.SessionLog {
		session, err = logging.NewSessionLogger(cfg.LogDir)
		if err != nil {
			// The task list works fine without its session log.
			logger.Warn("session log disabled", "err", err)
			session = nil
		}
	}
	defer session.Close()
	session.Log(logging.Event{Type: logging.EventLoad, Count: len(tasks)})

	return ui.Run(ctx, store, adapter, session)
}

// doctorCommand checks config, the slot file, and the log directory.
func doctorCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskpad doctor", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	fmt.Println("Taskpad Doctor")
	fmt.Println("==============")
	fmt.Println()

	allOK := true

	fmt.Printf("Config file: ")
	if cfg.ConfigFile != "" {
		fmt.Println(cfg.ConfigFile)
		fmt.Println("  ✅ OK")
	} else {
		fmt.Println("(none, using defaults)")
	}
	fmt.Println()

	fmt.Printf("Slot file: %s\n", cfg.StoreFile)
	adapter, err := storage.New(cfg.StoreFile, cfg.SchemaFile)
	if err != nil {
		fmt.Printf("  ❌ Schema error: %v\n", err)
		allOK = false
	} else if _, statErr := os.Stat(cfg.StoreFile); statErr != nil {
		if os.IsNotExist(statErr) {
			fmt.Println("  ⚠️  Not found (will be created on first add)")
		} else {
			fmt.Printf("  ❌ Error: %v\n", statErr)
			allOK = false
		}
	} else if tasks, loadErr := adapter.LoadStrict(); loadErr != nil {
		fmt.Printf("  ❌ %v\n", loadErr)
		fmt.Println("     (taskpad will fall back to an empty list)")
		allOK = false
	} else {
		fmt.Printf("  ✅ OK (%d tasks)\n", len(tasks))
	}
	fmt.Println()

	fmt.Printf("Log dir: %s\n", cfg.LogDir)
	if !cfg.SessionLog {
		fmt.Println("  ⚠️  Session log disabled")
	} else if err := checkWritable(cfg.LogDir); err != nil {
		fmt.Printf("  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Println("  ✅ OK")
		if latest, err := logging.FindLatestLog(cfg.LogDir); err == nil && latest != "" {
			fmt.Printf("  Latest session: %s\n", filepath.Base(latest))
		}
	}
	fmt.Println()

	if !allOK {
		return fmt.Errorf("doctor found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}

// configCommand prints the effective config, or writes an example file
// with --init.
func configCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskpad config", flag.ContinueOnError)
	initFile := fs.Bool("init", false, "Write an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *initFile {
		path := "taskpad.toml"
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := os.WriteFile(path, []byte(config.ExampleConfig()), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	}

	fmt.Printf("store_file  = %q\n", cfg.StoreFile)
	fmt.Printf("schema_file = %q\n", cfg.SchemaFile)
	fmt.Printf("log_dir     = %q\n", cfg.LogDir)
	fmt.Printf("session_log = %v\n", cfg.SessionLog)
	return nil
}

func versionCommand() error {
	fmt.Printf("taskpad %s\n", Version)
	return nil
}

// consoleLogger returns the stderr diagnostics logger.
func consoleLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:  log.InfoLevel,
		Prefix: "taskpad",
	})
}

// checkWritable verifies the directory exists (creating it if needed) and
// accepts a write.
func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	probe := filepath.Join(dir, ".doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		return err
	}
	return os.Remove(probe)
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, `taskpad - a local task list in your terminal

Usage:
  taskpad [flags]            Run the TUI (default)
  taskpad run                Run the TUI
  taskpad doctor             Check config, slot file, and log directory
  taskpad config [--init]    Show effective config, or write an example file
  taskpad version            Show version

Flags:
`)
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintf(w, `
Keys (in the TUI):
  a            add a task
  enter/space  toggle the selected task
  d            delete the selected task
  /            search (filters as you type)
  esc          clear the search
  q            quit
`)
}
