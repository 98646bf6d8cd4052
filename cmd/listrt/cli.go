package main

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strconv"
)

const (
	RUN_SUBCMD                   = "run"
	EVAL_SUBCMD                  = "eval"
	EVAL_ALIAS_SUBCMD            = "e"
	METHODS_SUBCMD               = "methods"
	CONFIG_SUBCMD                = "config"
	INSTALL_COMPLETIONS_SUBCMD   = "install-completions"
	UNINSTALL_COMPLETIONS_SUBCMD = "uninstall-completions"
	HELP_SUBCMD                  = "help"
)

var (
	SUBCOMMANDS = []string{
		RUN_SUBCMD, EVAL_SUBCMD, EVAL_ALIAS_SUBCMD, METHODS_SUBCMD, CONFIG_SUBCMD, HELP_SUBCMD,
		INSTALL_COMPLETIONS_SUBCMD, UNINSTALL_COMPLETIONS_SUBCMD,
	}

	HELP_SUBCMD_EQUIVALENTS = []string{"--help", "-help", "-h"}

	CLI_SUBCOMMAND_DESCRIPTIONS = [][2]string{
		{RUN_SUBCMD, "run a list script (.yaml or .json): an initial list and a sequence of method calls"},
		{EVAL_SUBCMD, "call a single method on a list literal, example: listrt eval '[3,1,2]' sort"},
		{EVAL_ALIAS_SUBCMD, "alias for eval"},
		{METHODS_SUBCMD, "list the methods supported by lists and list iterators"},
		{CONFIG_SUBCMD, "print the path of the configuration file, the file is created if it does not exist"},

		{INSTALL_COMPLETIONS_SUBCMD, "install CLI completions by addding the completion command to the detected rc file (supported shells are bash, zsh and fish)"},
		{UNINSTALL_COMPLETIONS_SUBCMD, "uninstall CLI completions by removing the completion command from the detected rc file"},
		{HELP_SUBCMD, "show the general help or command-specific help"},
	}

	CLI_SUBCOMMAND_DESCRIPTION_MAP = map[string]string{}

	LISTRT_CMD_HELP = "commands:\n"
)

func init() {
	for _, entry := range CLI_SUBCOMMAND_DESCRIPTIONS {
		cmd, desc := entry[0], entry[1]
		CLI_SUBCOMMAND_DESCRIPTION_MAP[cmd] = desc
		LISTRT_CMD_HELP += "\t" + cmd + " - " + desc + "\n"
	}
	LISTRT_CMD_HELP += "\nType `listrt help <command>` to get command-specific help.\n"
}

func isHelpArg(arg string) bool {
	return slices.Contains(HELP_SUBCMD_EQUIVALENTS, arg)
}

func showHelp(flags *flag.FlagSet, args []string, out io.Writer) bool {
	//only show help
	if slices.ContainsFunc(args, isHelpArg) {

		cmd := flags.Name()
		if desc, ok := CLI_SUBCOMMAND_DESCRIPTION_MAP[cmd]; ok {
			fmt.Fprintln(out, desc)
		}

		flags.SetOutput(out)
		fmt.Fprint(out, "\noptions:\n")
		flags.PrintDefaults()

		return true
	}

	return false
}

// parseInterspersedFlags parses args and returns the positional arguments, flags are allowed after
// positional arguments unless they follow "--". Negative numbers are positional arguments.
func parseInterspersedFlags(flags *flag.FlagSet, args []string) (positional []string, err error) {
	rest := args
	for {
		if len(rest) > 0 && isNegativeNumber(rest[0]) {
			positional = append(positional, rest[0])
			rest = rest[1:]
			continue
		}

		if err := flags.Parse(rest); err != nil {
			return nil, err
		}
		if flags.NArg() == 0 {
			return
		}

		//flag.Parse stops after a "--" argument.
		if len(rest) > len(flags.Args()) && rest[len(rest)-len(flags.Args())-1] == "--" {
			return append(positional, flags.Args()...), nil
		}

		positional = append(positional, flags.Arg(0))
		rest = flags.Args()[1:]
	}
}

func isNegativeNumber(arg string) bool {
	if len(arg) < 2 || arg[0] != '-' {
		return false
	}
	_, err := strconv.ParseFloat(arg, 64)
	return err == nil
}
