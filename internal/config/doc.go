// Package config provides configuration management for fbxmon.
//
// Configuration is assembled from defaults, the FREEBOX_PASSWORD
// environment variable, an optional YAML config file, and CLI flags, in
// that order of increasing precedence. Paths for persisted state follow
// the XDG Base Directory Specification.
package config
