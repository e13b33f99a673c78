// Package file provides file-based configuration for the corpus tools.
// Settings live in a TOML file under the corpus config directory; every
// field has a working default, so a missing file is not an error.
package file
