//go:build !unix

package config

import (
	"os"

	"golang.org/x/term"
)

const (
	UNIX = false
)

func targetSpecificInit() {
	if home, err := os.UserHomeDir(); err == nil {
		USER_HOME = home
	}

	if s, ok := os.LookupEnv("NO_COLOR"); ok {
		NO_COLOR = len(s) != 0 && s != "false" && s != "0"
	}

	STDOUT_IS_TERMINAL = term.IsTerminal(int(os.Stdout.Fd()))
	SHOULD_COLORIZE = false
}
