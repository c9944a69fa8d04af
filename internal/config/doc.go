// Package config provides configuration management for the rulecfg CLI.
//
// This package handles loading, saving, and validating rulecfg's own
// settings. It is distinct from the rule configuration documents rulecfg
// edits, which are handled by internal/ruleconfig.
//
// # Configuration File
//
// The default location is $XDG_CONFIG_HOME/rulecfg/config.yaml
// (RULECFG_CONFIG_DIR overrides the directory):
//
//	version: 1
//	indent_width: 2
//	file_name: rulecfg.json
//	rules_path: analyzers.core.rules
//	default_level: warning
//	backup:
//	  enabled: true
//	  retention: 5
//
// Every key can also be set from the environment with the RULECFG_ prefix,
// dots replaced by underscores (RULECFG_BACKUP_RETENTION=10).
//
// # Loading Configuration
//
//	config.Init()
//	cfg, err := config.Load("")
//
// [Load] validates what it reads and wraps the first failure. [Validate]
// returns every failure as a [KeyError].
package config
