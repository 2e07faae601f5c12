package logger

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Console is a level-aware text sink, such as the browser's console object.
type Console interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// ConsoleSink adapts a Console to an hclog sink. Each entry is written as the
// bare message followed by its key/value pairs; the level selects the
// console method rather than appearing in the text.
type ConsoleSink struct {
	Console Console
}

var _ hclog.SinkAdapter = (*ConsoleSink)(nil)

func (s *ConsoleSink) Accept(name string, level hclog.Level, msg string, args ...interface{}) {
	line := formatConsoleLine(name, msg, args)
	switch {
	case level <= hclog.Debug:
		s.Console.Debug(line)
	case level == hclog.Info:
		s.Console.Info(line)
	case level == hclog.Warn:
		s.Console.Warn(line)
	default:
		s.Console.Error(line)
	}
}

func formatConsoleLine(name, msg string, args []interface{}) string {
	var sb strings.Builder
	if name != "" {
		sb.WriteString(name)
		sb.WriteString(": ")
	}
	sb.WriteString(msg)
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(&sb, " %v=%v", args[i], args[i+1])
	}
	if len(args)%2 == 1 {
		fmt.Fprintf(&sb, " EXTRA_VALUE_AT_END=%v", args[len(args)-1])
	}
	return sb.String()
}
