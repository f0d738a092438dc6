// Package cli defines the command-line surface: flag definitions, the cobra
// command tree, configuration file handling, and API key lookup.
package cli
