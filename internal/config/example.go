package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# Taskpad configuration file
# Values can be overridden by environment variables (TASKPAD_*) or CLI flags

# Slot file holding the task list (supports ~ expansion)
store_file = "~/.taskpad/tasks.json"

# Optional schema file overriding the built-in slot schema
# schema_file = "tasks.schema.json"

# Directory for session logs
log_dir = "~/.taskpad"

# Write a per-session JSONL log of mutations
session_log = true
`
}
