package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/listrt/listrt/internal/core"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

var (
	predictScriptFiles = predict.Files("*.yaml")
	predictJSONScripts = predict.Files("*.json")

	completer = CreateCompleter(func(c *Completer) *complete.Command {
		return &complete.Command{
			Sub: map[string]*complete.Command{
				RUN_SUBCMD: {
					Flags: map[string]complete.Predictor{
						"json":      predict.Nothing,
						"fail-fast": predict.Nothing,
						"log-level": predict.Set{"trace", "debug", "info", "warn", "error"},
					},
					Args: complete.PredictFunc(c.predictScriptPath),
				},
				EVAL_SUBCMD: {
					Flags: map[string]complete.Predictor{
						"json": predict.Nothing,
					},
					Args: complete.PredictFunc(c.predictMethodName),
				},
				EVAL_ALIAS_SUBCMD: {
					Flags: map[string]complete.Predictor{
						"json": predict.Nothing,
					},
					Args: complete.PredictFunc(c.predictMethodName),
				},
				METHODS_SUBCMD:               {},
				CONFIG_SUBCMD:                {},
				HELP_SUBCMD:                  {Args: predict.Set(SUBCOMMANDS)},
				INSTALL_COMPLETIONS_SUBCMD:   {},
				UNINSTALL_COMPLETIONS_SUBCMD: {},
			},
		}
	})
)

type Completer struct {
	*complete.Command
	currentCompLine  string
	currentCompPoint int //-1 if not retrieved
}

func CreateCompleter(create func(c *Completer) *complete.Command) *Completer {
	c := &Completer{}
	c.Command = create(c)
	return c
}

func (c *Completer) Complete(name string) {
	c.currentCompLine = os.Getenv("COMP_LINE")
	c.currentCompPoint, _ = strconv.Atoi(os.Getenv("COMP_POINT")) //ignore error because .Command.Complete will also check the value

	if c.currentCompPoint > len(c.currentCompLine) {
		c.currentCompPoint = len(c.currentCompLine)
	}
	if c.currentCompPoint < 0 {
		c.currentCompPoint = 0
	}

	c.Command.Complete(name)
}

func (c *Completer) beforeCursorPoint() string {
	return c.currentCompLine[:c.currentCompPoint]
}

func (c *Completer) predictScriptPath(prefix string) []string {
	return append(predictScriptFiles.Predict(prefix), predictJSONScripts.Predict(prefix)...)
}

// predictMethodName predicts a method name after the list literal of an eval command.
func (c *Completer) predictMethodName(prefix string) (results []string) {
	fields := strings.Fields(c.beforeCursorPoint())
	if prefix == "" {
		fields = append(fields, "")
	}

	//listrt eval <list> <method>
	if len(fields) != 4 {
		return
	}

	for _, name := range core.LIST_METHOD_NAMES {
		if strings.HasPrefix(name, prefix) {
			results = append(results, name)
		}
	}
	return
}
