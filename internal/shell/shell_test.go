package shell_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
	"go.uber.org/zap/zaptest"

	"github.com/lambda-feedback/gatewayproxy/internal/shell"
)

// shutdownWith stops the app as soon as it started.
func shutdownWith(code int) fx.Option {
	return fx.Invoke(func(lc fx.Lifecycle, shutdowner fx.Shutdowner) {
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				return shutdowner.Shutdown(fx.ExitCode(code))
			},
		})
	})
}

func TestShell_Run(t *testing.T) {
	var started bool

	s := shell.New(zaptest.NewLogger(t), fx.Invoke(func(ctx context.Context) {
		started = ctx != nil
	}))

	err := s.Run(context.Background(), shutdownWith(0))

	assert.NoError(t, err)
	assert.True(t, started)
}

func TestShell_Run_ExitCode(t *testing.T) {
	s := shell.New(zaptest.NewLogger(t))

	err := s.Run(context.Background(), shutdownWith(3))

	var exitErr *shell.ExitError
	if assert.ErrorAs(t, err, &exitErr) {
		assert.Equal(t, 3, exitErr.ExitCode)
	}
	assert.True(t, shell.IsExitError(err))
}

func TestShell_Run_StartError(t *testing.T) {
	s := shell.New(zaptest.NewLogger(t), fx.Invoke(func(lc fx.Lifecycle) {
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				return assert.AnError
			},
		})
	}))

	err := s.Run(context.Background())

	assert.True(t, shell.IsExitError(err))
}
