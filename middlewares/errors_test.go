package middlewares_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/jobrpc/middlewares"
)

func TestPanicError(t *testing.T) {
	t.Parallel()

	require.Equal(t, "panic: boom", (&middlewares.PanicError{Value: "boom"}).Error())
	require.Equal(t, "panic: 42", (&middlewares.PanicError{Value: 42}).Error())
}

func TestTimeoutError(t *testing.T) {
	t.Parallel()

	err := &middlewares.TimeoutError{Duration: 100 * time.Millisecond}
	require.Equal(t, "request timeout after 100ms", err.Error())

	require.True(t, middlewares.IsTimeoutError(err))
	require.True(t, middlewares.IsTimeoutError(fmt.Errorf("store: %w", err)))
	require.False(t, middlewares.IsTimeoutError(errors.New("other")))
	require.False(t, middlewares.IsTimeoutError(nil))
}
