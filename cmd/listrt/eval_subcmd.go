package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// EvalMethodCall creates a list from a JSON literal and calls a single method on it,
// the arguments are JSON literals as well.
func EvalMethodCall(mainSubCommand string, mainSubCommandArgs []string, outW, errW io.Writer) (exitCode int) {
	flags := flag.NewFlagSet(mainSubCommand, flag.ContinueOnError)
	flags.SetOutput(errW)

	var jsonOutput bool
	var logLevel string

	flags.BoolVar(&jsonOutput, "json", false, "print the result as JSON lines")
	flags.StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error), overrides the configuration")

	if showHelp(flags, mainSubCommandArgs, outW) {
		fmt.Fprint(outW, "\nusage: listrt eval [options] <list> <method> [<argument>...]\n")
		return
	}

	positionalArgs, err := parseInterspersedFlags(flags, mainSubCommandArgs)
	if err != nil {
		fmt.Fprintln(errW, err)
		return ERROR_STATUS_CODE
	}

	if len(positionalArgs) < 2 {
		fmt.Fprintln(errW, "a list literal and a method name are expected")
		return ERROR_STATUS_CODE
	}

	initial, err := parseJSONLiteral(positionalArgs[0])
	if err != nil {
		fmt.Fprintf(errW, "invalid list literal: %s\n", err)
		return ERROR_STATUS_CODE
	}
	elements, ok := initial.([]any)
	if !ok {
		fmt.Fprintln(errW, "invalid list literal: an array is expected")
		return ERROR_STATUS_CODE
	}

	step := Step{Method: positionalArgs[1]}
	for i, arg := range positionalArgs[2:] {
		literal, err := parseJSONLiteral(arg)
		if err != nil {
			fmt.Fprintf(errW, "invalid argument %d: %s\n", i, err)
			return ERROR_STATUS_CODE
		}
		step.Args = append(step.Args, literal)
	}

	cfg, ok := loadConfig(logLevel, errW)
	if !ok {
		return ERROR_STATUS_CODE
	}

	ctx, ok := createContext(cfg, errW)
	if !ok {
		return ERROR_STATUS_CODE
	}

	runner := &scriptRunner{
		ctx:        ctx,
		out:        outW,
		jsonOutput: jsonOutput || cfg.JSONOutput,
	}

	if err := runner.run(&Script{Init: elements, Steps: []Step{step}}); err != nil {
		fmt.Fprintln(errW, err)
		return ERROR_STATUS_CODE
	}

	if runner.callErrors > 0 {
		return ERROR_STATUS_CODE
	}
	return
}

func parseJSONLiteral(s string) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader([]byte(s)))
	decoder.UseNumber()

	var v any
	if err := decoder.Decode(&v); err != nil {
		return nil, err
	}
	if decoder.More() {
		return nil, fmt.Errorf("unexpected data after the literal")
	}
	return v, nil
}
