// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
)

// Options holds the configuration values for the application.
type Options struct {
	// APIBaseURL is the base URL of the backend REST API, including any
	// path prefix (e.g. http://localhost:3001/api).
	APIBaseURL string

	// ChatURL is the websocket endpoint of the real-time chat server.
	ChatURL string

	// TokenFile is the path of the file holding the bearer credential.
	TokenFile string

	// LogLevel sets the minimum level for structured logging.
	LogLevel string

	// Config is the path to the Config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.APIBaseURL, "api", "http://localhost:3001/api", "backend API base URL")
	flag.StringVar(&options.ChatURL, "chat", "ws://localhost:3001/chat", "chat websocket URL")
	flag.StringVar(&options.TokenFile, "token-file", "token", "path to the stored credential file")
	flag.StringVar(&options.LogLevel, "log-level", "info", "log level: debug, info, warn, error")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if apiURL := os.Getenv("API_BASE_URL"); apiURL != "" {
		options.APIBaseURL = apiURL
	}
	if chatURL := os.Getenv("CHAT_URL"); chatURL != "" {
		options.ChatURL = chatURL
	}
	if tokenFile := os.Getenv("TOKEN_FILE"); tokenFile != "" {
		options.TokenFile = tokenFile
	}

	return options
}
