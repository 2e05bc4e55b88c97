package database

import (
	"bytes"
	"context"
	"testing"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestQueryLoggerDropsArguments(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	queryLogger(log)(context.Background(), tracelog.LogLevelInfo, "Query", map[string]any{
		"sql":  "UPDATE users SET refresh_token_hash = $2 WHERE id = $1",
		"args": []any{"id", []byte("digest")},
	})

	out := buf.String()
	assert.Contains(t, out, `"sql":"UPDATE users`)
	assert.Contains(t, out, `"component":"postgres"`)
	assert.NotContains(t, out, "args")
	assert.Contains(t, out, `"level":"info"`)
}

func TestZerologLevel(t *testing.T) {
	assert.Equal(t, zerolog.ErrorLevel, zerologLevel(tracelog.LogLevelError))
	assert.Equal(t, zerolog.DebugLevel, zerologLevel(tracelog.LogLevelDebug))
	assert.Equal(t, zerolog.NoLevel, zerologLevel(tracelog.LogLevelNone))
}
