//go:build unix

package config

import (
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	UNIX = true
)

func targetSpecificInit() {
	// HOME

	HOME, err := os.UserHomeDir()
	if err == nil {
		if HOME[len(HOME)-1] != '/' {
			HOME += "/"
		}
		USER_HOME = HOME
	}

	// FORCE COLOR

	if s, ok := os.LookupEnv("FORCE_COLOR"); ok {
		FORCE_COLOR = isEnabled(s)
	}

	//TERMCOLOR

	TRUECOLOR_COLORTERM = os.Getenv("COLORTERM") == "truecolor"

	//NO_COLOR

	if s, ok := os.LookupEnv("NO_COLOR"); ok {
		NO_COLOR = isEnabled(s)
	}

	//TERM

	if strings.Contains(os.Getenv("TERM"), "256color") {
		TERM_256COLOR_CAPABLE = true
	}

	STDOUT_IS_TERMINAL = term.IsTerminal(int(os.Stdout.Fd()))

	//

	SHOULD_COLORIZE = !NO_COLOR && (FORCE_COLOR || (STDOUT_IS_TERMINAL && (TRUECOLOR_COLORTERM || TERM_256COLOR_CAPABLE)))

	if SHOULD_COLORIZE && STDOUT_IS_TERMINAL {
		INITIAL_COLORS_SET = true
		INITIAL_BG_COLOR = termenv.BackgroundColor()
		INITIAL_FG_COLOR = termenv.ForegroundColor()
	}
}

func isEnabled(envValue string) bool {
	return len(envValue) != 0 && envValue != "false" && envValue != "0"
}
