package main

import (
	// ====================== LISTRT IMPORTS ============================
	"github.com/listrt/listrt/internal/config"
	"github.com/listrt/listrt/internal/core"
	"github.com/listrt/listrt/internal/utils"

	// ====================== STDLIB ============================
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"unicode"

	// ====================== THIRD PARTY ============================
	"github.com/posener/complete/v2/install"
	"github.com/rs/zerolog"
)

const (
	ERROR_STATUS_CODE = 1

	COMMAND_NAME = "listrt"
)

func main() {
	//handle completions
	completer.Complete(COMMAND_NAME)

	statusCode := _main(os.Args, os.Stdout, os.Stderr)
	if statusCode != 0 {
		os.Exit(statusCode)
	}
}

func _main(args []string, outW io.Writer, errW io.Writer) (statusCode int) {
	mainSubCommand := ""
	var mainSubCommandArgs []string

	if len(args) == 1 { //no subcommand specified
		mainSubCommand = HELP_SUBCMD
	} else {
		mainSubCommand = args[1]
		mainSubCommandArgs = args[2:]
	}

	//if the command has the shape help <subcommand> ... we modify the arguments to ask the subcommand to print its help message.
	if mainSubCommand == HELP_SUBCMD && len(mainSubCommandArgs) > 0 && mainSubCommandArgs[0] != "" && unicode.IsLetter(rune(mainSubCommandArgs[0][0])) {
		mainSubCommand = mainSubCommandArgs[0]
		mainSubCommandArgs = []string{"-h"}
	}

	if isHelpArg(mainSubCommand) {
		mainSubCommand = HELP_SUBCMD
	}

	//unknown command
	if !slices.Contains(SUBCOMMANDS, mainSubCommand) {
		fmt.Fprintf(errW, "unknown command '%s'", mainSubCommand)

		closest, _, ok := utils.FindClosestString(context.Background(), SUBCOMMANDS, mainSubCommand, 2)
		if ok {
			fmt.Fprintf(errW, ", did you mean '%s' ?\n", closest)
		} else {
			fmt.Fprint(errW, "\n"+LISTRT_CMD_HELP)
		}
		return ERROR_STATUS_CODE
	}

	switch mainSubCommand {
	case HELP_SUBCMD:
		fmt.Fprint(outW, LISTRT_CMD_HELP)
		return
	case INSTALL_COMPLETIONS_SUBCMD:
		err := install.Install(COMMAND_NAME)
		if err != nil {
			fmt.Fprintln(errW, err)
			return ERROR_STATUS_CODE
		}
		fmt.Fprintln(outW, "installed")
		return
	case UNINSTALL_COMPLETIONS_SUBCMD:
		err := install.Uninstall(COMMAND_NAME)
		if err != nil {
			fmt.Fprintln(errW, err)
			return ERROR_STATUS_CODE
		}
		fmt.Fprintln(outW, "uninstalled")
		return
	case METHODS_SUBCMD:
		flags := flag.NewFlagSet(mainSubCommand, flag.ContinueOnError)
		if showHelp(flags, mainSubCommandArgs, outW) {
			return
		}
		fmt.Fprintln(outW, "list:")
		for _, name := range core.LIST_METHOD_NAMES {
			fmt.Fprintln(outW, "\t"+name)
		}
		fmt.Fprintln(outW, "list_iterator:")
		for _, name := range core.LIST_ITERATOR_METHOD_NAMES {
			fmt.Fprintln(outW, "\t"+name)
		}
		return
	case CONFIG_SUBCMD:
		flags := flag.NewFlagSet(mainSubCommand, flag.ContinueOnError)
		if showHelp(flags, mainSubCommandArgs, outW) {
			return
		}
		path, err := config.GetConfigFilePath()
		if err != nil {
			fmt.Fprintln(errW, err)
			return ERROR_STATUS_CODE
		}
		fmt.Fprintln(outW, path)
		return
	case RUN_SUBCMD:
		return RunScript(mainSubCommand, mainSubCommandArgs, outW, errW)
	case EVAL_SUBCMD, EVAL_ALIAS_SUBCMD:
		return EvalMethodCall(mainSubCommand, mainSubCommandArgs, outW, errW)
	}

	fmt.Fprintf(errW, "command '%s' is not implemented\n", mainSubCommand)
	return ERROR_STATUS_CODE
}

// loadConfig loads the configuration and applies the log level passed on the command line (if not empty).
func loadConfig(logLevel string, errW io.Writer) (config.Config, bool) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(errW, "failed to load the configuration:", err)
		return config.Config{}, false
	}

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, true
}

func createLogger(cfg config.Config, errW io.Writer) (zerolog.Logger, error) {
	level, err := cfg.ZerologLevel()
	if err != nil {
		return zerolog.Nop(), err
	}

	if cfg.JSONLogs {
		return zerolog.New(errW).Level(level).With().Timestamp().Logger(), nil
	}

	consoleWriter := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = errW
		w.NoColor = !cfg.Colorize()
		w.TimeFormat = "15:04:05"
		w.FieldsExclude = []string{core.SOURCE_LOG_FIELD_NAME}
	})
	return zerolog.New(consoleWriter).Level(level).With().Timestamp().Logger(), nil
}

func createContext(cfg config.Config, errW io.Writer) (*core.Context, bool) {
	logger, err := createLogger(cfg, errW)
	if err != nil {
		fmt.Fprintln(errW, err)
		return nil, false
	}

	ctx := core.NewContext(core.ContextConfig{
		ParentContext: context.Background(),
		Logger:        &logger,
	})
	return ctx, true
}

func formatArgs(ctx *core.Context, args []core.Value) string {
	reprs := make([]string, len(args))
	for i, arg := range args {
		repr, err := ctx.Runtime().Repr(ctx, arg)
		if err != nil {
			repr = "<?>"
		}
		reprs[i] = repr
	}
	return strings.Join(reprs, ", ")
}
