// Package config provides configuration management for Portage.
//
// Configuration is read from a YAML file, completed with defaults, optionally
// overridden from the environment and validated as a whole:
//
//	cfg, err := config.LoadConfigWithEnvOverrides("portage.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention PORTAGE_SECTION_FIELD:
//
//   - PORTAGE_EXPORT_STORAGE_PATH overrides export.storage_path
//   - PORTAGE_STORAGE_SQLITE_PATH overrides storage.sqlite.path
//   - PORTAGE_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
//  1. Default values (defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides
//  4. Validation (all field errors are reported together)
//
// The attribute rule file referenced by export.attributes_file is a separate
// document owned by package attributes; this package only records its path.
package config
