package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runMain(t *testing.T, args ...string) (statusCode int, out string, errOut string) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	statusCode = _main(append([]string{COMMAND_NAME}, args...), &outBuf, &errBuf)
	return statusCode, outBuf.String(), errBuf.String()
}

func writeScript(t *testing.T, name string, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCLI(t *testing.T) {

	t.Run("no subcommand", func(t *testing.T) {
		code, out, _ := runMain(t)
		assert.Zero(t, code)
		assert.Equal(t, LISTRT_CMD_HELP, out)
	})

	t.Run("unknown subcommand with a close match", func(t *testing.T) {
		code, _, errOut := runMain(t, "rnu")
		assert.Equal(t, ERROR_STATUS_CODE, code)
		assert.Equal(t, "unknown command 'rnu', did you mean 'run' ?\n", errOut)
	})

	t.Run("unknown subcommand", func(t *testing.T) {
		code, _, errOut := runMain(t, "xxxxxxxx")
		assert.Equal(t, ERROR_STATUS_CODE, code)
		assert.Contains(t, errOut, "unknown command 'xxxxxxxx'\n")
		assert.Contains(t, errOut, LISTRT_CMD_HELP)
	})

	t.Run("help <subcommand>", func(t *testing.T) {
		code, out, _ := runMain(t, "help", "run")
		assert.Zero(t, code)
		assert.Contains(t, out, CLI_SUBCOMMAND_DESCRIPTION_MAP[RUN_SUBCMD])
		assert.Contains(t, out, "-fail-fast")
	})

	t.Run("methods", func(t *testing.T) {
		code, out, _ := runMain(t, "methods")
		assert.Zero(t, code)
		assert.Contains(t, out, "\tappend\n")
		assert.Contains(t, out, "\t__next__\n")
	})
}

func TestEvalSubcommand(t *testing.T) {

	t.Run("sort", func(t *testing.T) {
		code, out, _ := runMain(t, EVAL_SUBCMD, "[3, 1, 2]", "sort")
		assert.Zero(t, code)
		assert.Equal(t, "sort() -> None\n=> [1, 2, 3]\n", out)
	})

	t.Run("alias", func(t *testing.T) {
		code, out, _ := runMain(t, EVAL_ALIAS_SUBCMD, "[1]", "append", `"a"`)
		assert.Zero(t, code)
		assert.Equal(t, "append(\"a\") -> None\n=> [1, \"a\"]\n", out)
	})

	t.Run("stepped slice deletion", func(t *testing.T) {
		code, out, _ := runMain(t, EVAL_SUBCMD, "[0,1,2,3,4,5,6,7,8,9]", "__delitem__", `{"slice": [2, 9, 2]}`)
		assert.Zero(t, code)
		assert.Equal(t, "__delitem__(slice(2, 9, 2)) -> None\n=> [0, 1, 3, 5, 7, 9]\n", out)
	})

	t.Run("negative argument", func(t *testing.T) {
		code, out, _ := runMain(t, EVAL_SUBCMD, "[1, 2, 3]", "pop", "-3")
		assert.Zero(t, code)
		assert.Equal(t, "pop(-3) -> 1\n=> [2, 3]\n", out)
	})

	t.Run("failed call", func(t *testing.T) {
		code, out, _ := runMain(t, EVAL_SUBCMD, "[]", "pop")
		assert.Equal(t, ERROR_STATUS_CODE, code)
		assert.Contains(t, out, "pop() !! OutOfRange: ")
		assert.Contains(t, out, "=> []\n")
	})

	t.Run("extending a list with itself", func(t *testing.T) {
		code, out, _ := runMain(t, EVAL_SUBCMD, "[1, 2]", "extend", `{"ref": "self"}`)
		assert.Zero(t, code)
		assert.Contains(t, out, "=> [1, 2, 1, 2]\n")
	})

	t.Run("JSON output", func(t *testing.T) {
		code, out, _ := runMain(t, EVAL_SUBCMD, "--json", "[1, 2]", "append", "3")
		assert.Zero(t, code)
		assert.Equal(t, "{\"method\":\"append\",\"result\":null}\n{\"final\":[1,2,3]}\n", out)
	})

	t.Run("flags after the positional arguments", func(t *testing.T) {
		code, out, _ := runMain(t, EVAL_SUBCMD, "[1, 2]", "pop", "--json")
		assert.Zero(t, code)
		assert.Equal(t, "{\"method\":\"pop\",\"result\":2}\n{\"final\":[1]}\n", out)
	})

	t.Run("invalid list literal", func(t *testing.T) {
		code, _, errOut := runMain(t, EVAL_SUBCMD, "{}", "sort")
		assert.Equal(t, ERROR_STATUS_CODE, code)
		assert.Contains(t, errOut, "an array is expected")
	})

	t.Run("missing method", func(t *testing.T) {
		code, _, _ := runMain(t, EVAL_SUBCMD, "[]")
		assert.Equal(t, ERROR_STATUS_CODE, code)
	})
}

func TestRunSubcommand(t *testing.T) {

	t.Run("YAML script", func(t *testing.T) {
		path := writeScript(t, "script.yaml", strings.Join([]string{
			"init: [3, 1, 2]",
			"steps:",
			"- method: sort",
			"  expect-list: [1, 2, 3]",
			"- method: sort",
			"  args: [{func: append_self}]",
			"  expect-error: MutationConflict",
			"- method: pop",
			"  args: [10]",
			"  expect-error: OutOfRange",
			"- method: index",
			"  args: [2]",
			"  expect: 1",
		}, "\n"))

		code, out, errOut := runMain(t, RUN_SUBCMD, path)
		assert.Zero(t, code, errOut)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 5)
		assert.Equal(t, "sort() -> None", lines[0])
		assert.True(t, strings.HasPrefix(lines[1], "sort(<function append_self>) !! MutationConflict: "), lines[1])
		assert.True(t, strings.HasPrefix(lines[2], "pop(10) !! OutOfRange: "), lines[2])
		assert.Equal(t, "index(2) -> 1", lines[3])
		assert.Equal(t, "=> [1, 2, 3]", lines[4])
	})

	t.Run("JSON script", func(t *testing.T) {
		path := writeScript(t, "script.json", `{
			"init": [1, 2, 3, 4],
			"steps": [
				{"method": "__getitem__", "args": [{"slice": [null, null, -1]}], "expect": [4, 3, 2, 1]},
				{"method": "remove", "args": [5], "expect-error": "NotFound"}
			]
		}`)

		code, out, errOut := runMain(t, RUN_SUBCMD, "--json", path)
		assert.Zero(t, code, errOut)

		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, `{"method":"__getitem__","result":[4,3,2,1]}`, lines[0])
		assert.Contains(t, lines[1], `"kind":"NotFound"`)
		assert.Equal(t, `{"final":[1,2,3,4]}`, lines[2])
	})

	t.Run("unexpected outcome", func(t *testing.T) {
		path := writeScript(t, "script.yaml", strings.Join([]string{
			"init: [1]",
			"steps:",
			"- method: pop",
			"  expect: 2",
			"- method: pop",
			"  expect-error: OutOfRange",
		}, "\n"))

		code, out, errOut := runMain(t, RUN_SUBCMD, path)
		assert.Equal(t, ERROR_STATUS_CODE, code)
		assert.Contains(t, out, "unexpected result: expected 2")
		assert.Contains(t, errOut, "1 step(s) with an unexpected outcome")
	})

	t.Run("fail fast", func(t *testing.T) {
		path := writeScript(t, "script.yaml", strings.Join([]string{
			"init: []",
			"steps:",
			"- method: pop",
			"- method: append",
			"  args: [1]",
			"  expect-error: OutOfRange",
			"- method: append",
			"  args: [2]",
		}, "\n"))

		code, out, _ := runMain(t, RUN_SUBCMD, "--fail-fast", path)
		assert.Equal(t, ERROR_STATUS_CODE, code)
		assert.NotContains(t, out, "append(2)")
		assert.Contains(t, out, "=> [1]\n")
	})

	t.Run("invalid script", func(t *testing.T) {
		path := writeScript(t, "script.yaml", "init: []\nstep: []\n")

		code, _, errOut := runMain(t, RUN_SUBCMD, path)
		assert.Equal(t, ERROR_STATUS_CODE, code)
		assert.Contains(t, errOut, ErrInvalidScript.Error())
	})

	t.Run("missing script path", func(t *testing.T) {
		code, _, errOut := runMain(t, RUN_SUBCMD)
		assert.Equal(t, ERROR_STATUS_CODE, code)
		assert.Contains(t, errOut, "missing script path")
	})

	t.Run("non existing script", func(t *testing.T) {
		code, _, _ := runMain(t, RUN_SUBCMD, filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Equal(t, ERROR_STATUS_CODE, code)
	})
}
