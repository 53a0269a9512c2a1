// Package config loads service configuration from an optional YAML file
// overlaid by RKIT_-prefixed environment variables.
//
// Defaults come from Default(), a config file (config.yaml, configs/config.yaml
// or the file named by RKIT_CONFIG) refines them, and environment variables
// win over both. Load validates the merged result before anything starts.
package config
