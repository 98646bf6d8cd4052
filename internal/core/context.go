package core

import (
	"context"

	"github.com/rs/zerolog"
)

// A Context is passed to every list operation that may call back into the host runtime.
// It is not safe for concurrent use: the runtime is single-threaded and reentrant.
type Context struct {
	context.Context

	runtime Runtime
	logger  zerolog.Logger

	// lists whose repr is being computed, used to print self-containing lists as [...].
	reprGuard map[*List]struct{}

	// pairs of lists being compared for equality, an already compared pair is considered equal.
	comparedPairs   map[listPair]struct{}
	comparisonDepth int
}

type listPair struct {
	a, b *List
}

type ContextConfig struct {
	ParentContext context.Context

	// defaults to a *BasicRuntime.
	Runtime Runtime

	// defaults to a no-op logger.
	Logger *zerolog.Logger
}

func NewContext(config ContextConfig) *Context {
	parent := config.ParentContext
	if parent == nil {
		parent = context.Background()
	}

	runtime := config.Runtime
	if runtime == nil {
		runtime = NewBasicRuntime()
	}

	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = ChildLoggerForSource(*config.Logger, LIST_LOG_SRC)
	}

	return &Context{
		Context:   parent,
		runtime:   runtime,
		logger:    logger,
		reprGuard: map[*List]struct{}{},

		comparedPairs: map[listPair]struct{}{},
	}
}

func (ctx *Context) Runtime() Runtime {
	return ctx.runtime
}

func (ctx *Context) Logger() *zerolog.Logger {
	return &ctx.logger
}

// enterRepr returns false if the repr of list is already being computed.
func (ctx *Context) enterRepr(list *List) bool {
	if _, ok := ctx.reprGuard[list]; ok {
		return false
	}
	ctx.reprGuard[list] = struct{}{}
	return true
}

func (ctx *Context) leaveRepr(list *List) {
	delete(ctx.reprGuard, list)
}

// enterComparison fails if the nesting of the lists being compared is too deep.
func (ctx *Context) enterComparison() error {
	if ctx.comparisonDepth >= MAX_COMPARISON_DEPTH {
		return ErrComparisonTooDeep
	}
	ctx.comparisonDepth++
	return nil
}

func (ctx *Context) leaveComparison() {
	ctx.comparisonDepth--
}

// enterEquality returns false if a and b are already being compared for equality.
func (ctx *Context) enterEquality(a, b *List) bool {
	if _, ok := ctx.comparedPairs[listPair{a, b}]; ok {
		return false
	}
	if _, ok := ctx.comparedPairs[listPair{b, a}]; ok {
		return false
	}
	ctx.comparedPairs[listPair{a, b}] = struct{}{}
	return true
}

func (ctx *Context) leaveEquality(a, b *List) {
	delete(ctx.comparedPairs, listPair{a, b})
}
