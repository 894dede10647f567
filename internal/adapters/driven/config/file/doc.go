// Package file provides TOML-backed configuration loading for the CLI.
package file
