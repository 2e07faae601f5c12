package adapter

import (
	"fmt"
	"os"
	"strings"
)

// Mode represents the host runtime the process is running in
type Mode int

const (
	ModeUnknown Mode = iota
	ModeLambda
	ModeHTTPServer
	ModeWAGI
)

func (m Mode) String() string {
	switch m {
	case ModeLambda:
		return "lambda"
	case ModeHTTPServer:
		return "httpserver"
	case ModeWAGI:
		return "wagi"
	default:
		return "unknown"
	}
}

// ParseMode converts a mode name into a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lambda":
		return ModeLambda, nil
	case "httpserver", "http", "server":
		return ModeHTTPServer, nil
	case "wagi", "cgi", "edge":
		return ModeWAGI, nil
	default:
		return ModeUnknown, fmt.Errorf("unknown mode: %s", name)
	}
}

// DetectMode determines the runtime mode from the environment. An explicit
// FULLSTACK_MODE wins over detection.
func DetectMode() Mode {
	if explicit := os.Getenv("FULLSTACK_MODE"); explicit != "" {
		if mode, err := ParseMode(explicit); err == nil {
			return mode
		}
	}
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		return ModeLambda
	}
	if os.Getenv("GATEWAY_INTERFACE") != "" {
		return ModeWAGI
	}
	return ModeHTTPServer
}
