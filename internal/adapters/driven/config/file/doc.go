// Package file provides file-based configuration for medagent.
//
// ConfigStore reads a TOML file into dot-notation keys ("llm.model") and
// layers bound environment variables on top. LoadDotEnv pulls a .env file
// into the environment beforehand so keys can live next to the binary.
package file
