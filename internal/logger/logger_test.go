package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	std := logrus.StandardLogger()
	prevOut, prevFormatter := std.Out, std.Formatter
	std.SetOutput(buf)
	std.SetFormatter(&logrus.JSONFormatter{})
	t.Cleanup(func() {
		std.SetOutput(prevOut)
		std.SetFormatter(prevFormatter)
	})
	return buf
}

func TestWithContext(t *testing.T) {
	t.Run("Includes user and request id", func(t *testing.T) {
		buf := captureOutput(t)
		ctx := ContextWithRequestID(ContextWithUserID(context.Background(), "user-1"), "req-9")

		WithContext(ctx).WithField("team_id", "t-1").Info("join request submitted")

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "user-1", entry["user"])
		assert.Equal(t, "req-9", entry["request_id"])
		assert.Equal(t, "t-1", entry["team_id"])
		assert.Equal(t, "join request submitted", entry["msg"])
	})

	t.Run("Unknown user without context values", func(t *testing.T) {
		buf := captureOutput(t)

		WithContext(context.Background()).WithError(errors.New("boom")).Warn("notification dispatch failed")

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "unknown", entry["user"])
		assert.Equal(t, "boom", entry["error"])
		assert.NotContains(t, entry, "request_id")
	})
}
