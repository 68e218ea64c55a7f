package obs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTimeLogsFailureWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(NewLogger(&buf, "debug"))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx := WithRequestID(context.Background(), "req-42")
	err := errors.New("boom")
	func() (err error) {
		defer Time(ctx, "unit.op")(&err)
		return errors.New("boom")
	}()

	out := buf.String()
	require.Contains(t, out, `"req_id":"req-42"`)
	require.Contains(t, out, `"op":"unit.op"`)
	require.Contains(t, out, err.Error())
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "warn")
	log.Info("hidden")
	log.Warn("shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
	require.Equal(t, "", RequestID(context.Background()))
}
