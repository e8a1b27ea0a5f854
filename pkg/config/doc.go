// Package config loads pactkit settings.
//
// Values are layered with the following precedence (highest to lowest):
//
//  1. Command-line flags (applied by the caller with Set)
//  2. Environment variables (PACTKIT_* prefix)
//  3. Config file (.pactkit.yaml in the working directory, or PACTKIT_CONFIG)
//  4. Default values
//
// The source of every value is tracked in Config.Sources for diagnostics.
package config
