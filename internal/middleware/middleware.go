// Package middleware provides wrappers around interactive menu commands.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Context key type for command-scoped values.
type contextKey string

// Context keys.
const (
	OperationIDKey contextKey = "operation_id"
	CommandKey     contextKey = "command"
)

// Command results used as metric label values and log fields.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// ErrCommandPanic is returned when a command panicked and was recovered.
var ErrCommandPanic = errors.New("command panicked")

// Prometheus metrics.
var (
	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menu_commands_total",
			Help: "Total number of menu commands executed",
		},
		[]string{"command", "result"},
	)

	commandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "menu_command_duration_seconds",
			Help:    "Menu command duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
)

// Command is a single menu action.
type Command func(ctx context.Context) error

// Middleware is a function that wraps a Command.
type Middleware func(Command) Command

// Chain creates a single middleware from multiple middlewares.
// The first middleware is the outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(next Command) Command {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

// readOnlyCommands are logged at Debug level.
var readOnlyCommands = map[string]bool{
	"search": true,
	"list":   true,
}

// WithCommand stores the command name in ctx.
func WithCommand(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, CommandKey, name)
}

// CommandName returns the command name stored in ctx, or "unknown".
func CommandName(ctx context.Context) string {
	if name, ok := ctx.Value(CommandKey).(string); ok && name != "" {
		return name
	}
	return "unknown"
}

// OperationID returns the operation ID stored in ctx.
func OperationID(ctx context.Context) string {
	id, _ := ctx.Value(OperationIDKey).(string)
	return id
}

// Logging returns a middleware that logs every command.
func Logging(logger *zap.Logger) Middleware {
	return func(next Command) Command {
		return func(ctx context.Context) error {
			start := time.Now()

			err := next(ctx)

			command := CommandName(ctx)
			fields := []zap.Field{
				zap.String("command", command),
				zap.String("result", result(err)),
				zap.Duration("duration", time.Since(start)),
				zap.String("operation_id", OperationID(ctx)),
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}

			if readOnlyCommands[command] && err == nil {
				logger.Debug("menu command", fields...)
			} else {
				logger.Info("menu command", fields...)
			}

			return err
		}
	}
}

// Recovery returns a middleware that turns a panic into ErrCommandPanic.
func Recovery(logger *zap.Logger) Middleware {
	return func(next Command) Command {
		return func(ctx context.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("panic recovered",
						zap.Any("error", r),
						zap.String("stack", string(debug.Stack())),
						zap.String("command", CommandName(ctx)),
						zap.String("operation_id", OperationID(ctx)),
					)
					err = fmt.Errorf("%w: %v", ErrCommandPanic, r)
				}
			}()
			return next(ctx)
		}
	}
}

// AssignOperationID returns a middleware that adds a unique operation ID
// to the command context unless one is already present.
func AssignOperationID() Middleware {
	return func(next Command) Command {
		return func(ctx context.Context) error {
			if OperationID(ctx) == "" {
				ctx = context.WithValue(ctx, OperationIDKey, uuid.New().String())
			}
			return next(ctx)
		}
	}
}

// Metrics returns a middleware that records Prometheus metrics.
func Metrics() Middleware {
	return func(next Command) Command {
		return func(ctx context.Context) error {
			start := time.Now()

			err := next(ctx)

			command := CommandName(ctx)
			commandsTotal.WithLabelValues(command, result(err)).Inc()
			commandDuration.WithLabelValues(command).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
