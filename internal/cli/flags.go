package cli

import (
	"flag"
	"io"
	"strings"
)

// RootFlags apply to every command and come before it.
type RootFlags struct {
	Theme   string
	NoColor bool
	Debug   bool
	Config  string
}

// ParseRoot consumes leading --flags and returns the rest untouched.
// Single-dash words such as -i, -u and -? are commands, not flags.
func ParseRoot(args []string, errOut io.Writer) (RootFlags, []string, error) {
	var rf RootFlags
	fs := flag.NewFlagSet("taskz", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&rf.Theme, "theme", "", "color theme: classic, neon or mono")
	fs.BoolVar(&rf.NoColor, "no-color", false, "disable colored output")
	fs.BoolVar(&rf.Debug, "debug", false, "log diagnostics to stderr")
	fs.StringVar(&rf.Config, "config", "", "path to config.toml")

	n := 0
	for n < len(args) && strings.HasPrefix(args[n], "--") && args[n] != "--help" {
		if args[n] == "--" {
			n++
			break
		}
		name := strings.TrimPrefix(args[n], "--")
		n++
		// --theme neon / --config path take the next word as the value.
		if !strings.Contains(name, "=") && (name == "theme" || name == "config") && n < len(args) {
			n++
		}
	}
	if err := fs.Parse(args[:n]); err != nil {
		return rf, nil, err
	}
	return rf, args[n:], nil
}
