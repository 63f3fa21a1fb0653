package sl_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pasarkampus/pasar/internal/lib/sl"
)

func TestErr_ReturnsErrorAttr(t *testing.T) {
	attr := sl.Err(errors.New("koneksi terputus"))

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, slog.StringValue("koneksi terputus"), attr.Value)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, sl.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, sl.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, sl.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, sl.ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, sl.ParseLevel("verbose"))
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := sl.New(&buf, "warn")

	log.Info("hidden")
	log.Warn("shown", sl.Err(errors.New("boom")))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "error=boom")
}
