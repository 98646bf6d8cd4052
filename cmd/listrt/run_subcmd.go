package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/listrt/listrt/internal/core"
	"github.com/listrt/listrt/internal/utils"
	jsoniter "github.com/json-iterator/go"
)

var (
	ErrUnexpectedResult = errors.New("unexpected result")
)

func RunScript(mainSubCommand string, mainSubCommandArgs []string, outW, errW io.Writer) (exitCode int) {
	//read and check arguments

	flags := flag.NewFlagSet(mainSubCommand, flag.ContinueOnError)
	flags.SetOutput(errW)

	var jsonOutput bool
	var failFast bool
	var logLevel string

	flags.BoolVar(&jsonOutput, "json", false, "print the results as JSON lines")
	flags.BoolVar(&failFast, "fail-fast", false, "stop at the first step whose outcome is not the expected one")
	flags.StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error), overrides the configuration")

	if showHelp(flags, mainSubCommandArgs, outW) {
		return
	}

	positionalArgs, err := parseInterspersedFlags(flags, mainSubCommandArgs)
	if err != nil {
		fmt.Fprintln(errW, err)
		return ERROR_STATUS_CODE
	}

	if len(positionalArgs) == 0 || positionalArgs[0] == "" {
		fmt.Fprintf(errW, "missing script path\n")
		return ERROR_STATUS_CODE
	}
	if len(positionalArgs) > 1 {
		fmt.Fprintf(errW, "a single script path is expected\n")
		return ERROR_STATUS_CODE
	}
	fpath := positionalArgs[0]

	cfg, ok := loadConfig(logLevel, errW)
	if !ok {
		return ERROR_STATUS_CODE
	}
	jsonOutput = jsonOutput || cfg.JSONOutput

	ctx, ok := createContext(cfg, errW)
	if !ok {
		return ERROR_STATUS_CODE
	}

	//parse the script

	data, err := os.ReadFile(fpath)
	if err != nil {
		fmt.Fprintln(errW, err)
		return ERROR_STATUS_CODE
	}

	script, err := ParseScript(fpath, data)
	if err != nil {
		fmt.Fprintf(errW, "%s: %s\n", fpath, err)
		return ERROR_STATUS_CODE
	}

	//run the script

	runner := &scriptRunner{
		ctx:        ctx,
		out:        outW,
		jsonOutput: jsonOutput,
		failFast:   failFast,
	}

	if err := runner.run(script); err != nil {
		fmt.Fprintln(errW, err)
		return ERROR_STATUS_CODE
	}

	if runner.failures > 0 {
		fmt.Fprintf(errW, "%d step(s) with an unexpected outcome\n", runner.failures)
		return ERROR_STATUS_CODE
	}
	return
}

type scriptRunner struct {
	ctx        *core.Context
	out        io.Writer
	jsonOutput bool
	failFast   bool

	list       *core.List
	failures   int //steps with an unexpected outcome
	callErrors int //failed calls, expected or not
}

// stepOutcome is the outcome of a method call, err is also set if the call panicked.
type stepOutcome struct {
	method   string
	args     []core.Value
	result   core.Value
	err      error
	mismatch error
}

func (r *scriptRunner) run(script *Script) error {
	r.list = core.NewList()
	decoder := literalDecoder{self: r.list}

	initial, err := decoder.decodeAll(script.Init)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if err := r.list.Extend(r.ctx, initial); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	logger := r.ctx.Logger()
	logger.Debug().Int("steps", len(script.Steps)).Int("init-length", r.list.Len()).Msg("run script")

	for i, step := range script.Steps {
		outcome, err := r.runStep(decoder, step)
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i, step.Method, err)
		}

		if outcome.err != nil {
			r.callErrors++
		}

		if err := r.printOutcome(outcome); err != nil {
			return err
		}

		if outcome.mismatch != nil {
			r.failures++
			logger.Warn().Int("step", i).Str("method", step.Method).Err(outcome.mismatch).Send()
			if r.failFast {
				break
			}
		}
	}

	return r.printFinalList()
}

// runStep calls the step's method, aliasing violations are recovered and reported as errors.
// The returned error is only set if the step is invalid.
func (r *scriptRunner) runStep(decoder literalDecoder, step Step) (stepOutcome, error) {
	args, err := decoder.decodeAll(step.Args)
	if err != nil {
		return stepOutcome{}, err
	}

	outcome := stepOutcome{method: step.Method, args: args}

	outcome.err = utils.Recover(func() error {
		result, err := r.list.CallMethod(r.ctx, step.Method, args...)
		outcome.result = result
		return err
	})

	outcome.mismatch, err = r.checkExpectations(decoder, step, outcome)
	if err != nil {
		return stepOutcome{}, err
	}
	return outcome, nil
}

func (r *scriptRunner) checkExpectations(decoder literalDecoder, step Step, outcome stepOutcome) (mismatch error, invalid error) {
	if step.ExpectError != "" {
		if outcome.err == nil {
			return fmt.Errorf("%w: expected a %s error", ErrUnexpectedResult, step.ExpectError), nil
		}
		if kind := core.ErrorKindOf(outcome.err).String(); kind != step.ExpectError {
			return fmt.Errorf("%w: expected a %s error but got a %s error", ErrUnexpectedResult, step.ExpectError, kind), nil
		}
		return nil, nil
	}

	if outcome.err != nil {
		if step.Expect != nil || step.ExpectList != nil {
			return fmt.Errorf("%w: unexpected error: %w", ErrUnexpectedResult, outcome.err), nil
		}
		return nil, nil
	}

	if step.Expect != nil {
		expected, err := decoder.decode(step.Expect)
		if err != nil {
			return nil, fmt.Errorf("expect: %w", err)
		}
		if ok, err := r.equal(expected, outcome.result); err != nil || !ok {
			return fmt.Errorf("%w: expected %s", ErrUnexpectedResult, r.repr(expected)), nil
		}
	}

	if step.ExpectList != nil {
		expected, err := decoder.decodeAll(step.ExpectList)
		if err != nil {
			return nil, fmt.Errorf("expect-list: %w", err)
		}
		expectedList := core.NewList(expected...)
		if ok, err := r.equal(expectedList, r.list); err != nil || !ok {
			return fmt.Errorf("%w: expected the list to be %s", ErrUnexpectedResult, r.repr(expectedList)), nil
		}
	}

	return nil, nil
}

func (r *scriptRunner) equal(a, b core.Value) (result bool, err error) {
	err = utils.Recover(func() error {
		result, err = r.ctx.Runtime().Equal(r.ctx, a, b)
		return err
	})
	return
}

func (r *scriptRunner) repr(v core.Value) string {
	var repr string
	err := utils.Recover(func() error {
		var err error
		repr, err = r.ctx.Runtime().Repr(r.ctx, v)
		return err
	})
	if err != nil {
		return "<?>"
	}
	return repr
}

func (r *scriptRunner) printOutcome(outcome stepOutcome) error {
	if !r.jsonOutput {
		call := outcome.method + "(" + formatArgs(r.ctx, outcome.args) + ")"

		if outcome.err != nil {
			fmt.Fprintf(r.out, "%s !! %s: %s\n", call, core.ErrorKindOf(outcome.err), outcome.err)
		} else {
			fmt.Fprintf(r.out, "%s -> %s\n", call, r.repr(outcome.result))
		}
		if outcome.mismatch != nil {
			fmt.Fprintf(r.out, "\t%s\n", outcome.mismatch)
		}
		return nil
	}

	stream := jsoniter.NewStream(jsoniter.ConfigCompatibleWithStandardLibrary, r.out, 512)
	stream.WriteObjectStart()

	stream.WriteObjectField("method")
	stream.WriteString(outcome.method)

	if outcome.err != nil {
		stream.WriteMore()
		stream.WriteObjectField("error")
		stream.WriteString(outcome.err.Error())
		stream.WriteMore()
		stream.WriteObjectField("kind")
		stream.WriteString(core.ErrorKindOf(outcome.err).String())
	} else {
		stream.WriteMore()
		stream.WriteObjectField("result")
		r.writeJSONValue(stream, outcome.result)
	}

	if outcome.mismatch != nil {
		stream.WriteMore()
		stream.WriteObjectField("mismatch")
		stream.WriteString(outcome.mismatch.Error())
	}

	stream.WriteObjectEnd()
	stream.WriteRaw("\n")
	return stream.Flush()
}

// writeJSONValue writes the JSON representation of v, or its repr as a string if v has no JSON representation.
func (r *scriptRunner) writeJSONValue(stream *jsoniter.Stream, v core.Value) {
	var repr string
	err := utils.Recover(func() error {
		var err error
		repr, err = core.GetJSONRepresentation(r.ctx, v)
		return err
	})

	if err != nil {
		stream.WriteString(r.repr(v))
		return
	}
	stream.WriteRaw(repr)
}

func (r *scriptRunner) printFinalList() error {
	if !r.jsonOutput {
		_, err := fmt.Fprintf(r.out, "=> %s\n", r.repr(r.list))
		return err
	}

	stream := jsoniter.NewStream(jsoniter.ConfigCompatibleWithStandardLibrary, r.out, 512)
	stream.WriteObjectStart()
	stream.WriteObjectField("final")
	r.writeJSONValue(stream, r.list)
	stream.WriteObjectEnd()
	stream.WriteRaw("\n")
	return stream.Flush()
}
