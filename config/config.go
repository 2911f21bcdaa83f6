// Package config loads the small JSON configuration cmd/mimescan runs
// with. It is a trimmed descendant of the teacher's root config.go,
// which loaded the SMTP server/backend configuration; there is no
// server or backend here, only a parser to size and tune.
package config

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
)

// CLIConfig holds the knobs cmd/mimescan exposes to the parser and the
// logger.
type CLIConfig struct {
	// MaxHeaderLen caps a single header line's length, in bytes. 0 means
	// the engine's built-in default.
	MaxHeaderLen int `json:"max_header_len"`
	// MaxPartLen is read from the config file but is not passed to the
	// parser: body parts are not size-capped.
	MaxPartLen int `json:"max_part_len"`
	// MaxDepth caps multipart nesting depth. 0 means unlimited.
	MaxDepth int `json:"max_depth"`
	// ChunkSize is the size of each read passed to Parser.Receive when
	// streaming a file or stdin.
	ChunkSize int `json:"chunk_size"`
	// SMTPUTF8 enables the process-wide SMTPUTF8 switch described in
	// mail/message.WithSMTPUTF8.
	SMTPUTF8 bool `json:"smtputf8"`
	// LogDest is passed to log.GetLogger: "stderr", "stdout", or a file
	// path.
	LogDest string `json:"log_dest"`
	// LogLevel is one of logrus's level names ("debug", "info", ...).
	LogLevel string `json:"log_level"`
}

// Default returns the configuration cmd/mimescan uses when no config
// file is given.
func Default() *CLIConfig {
	return &CLIConfig{
		MaxHeaderLen: 64 * 1024,
		MaxPartLen:   0,
		MaxDepth:     64,
		ChunkSize:    32 * 1024,
		SMTPUTF8:     true,
		LogDest:      "stderr",
		LogLevel:     "info",
	}
}

// Load reads and parses the JSON configuration file at path, starting
// from Default() so a partial file only overrides the fields it sets.
func Load(path string) (*CLIConfig, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %s", err)
	}
	cfg := Default()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config file: %s", err)
	}
	return cfg, nil
}
