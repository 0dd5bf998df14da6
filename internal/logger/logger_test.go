package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew(t *testing.T) {
	log := New("debug", "json")
	assert.Equal(t, zerolog.DebugLevel, log.GetLevel())

	log = New("nonsense", "console")
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Str("path", "export.csv").Msg("test message")

	assert.Contains(t, buf.String(), "test message")
	assert.Contains(t, buf.String(), `"path":"export.csv"`)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	log := FromContext(ctx)
	log.Info().Msg("test")
	assert.NotZero(t, buf.Len())

	fallback := FromContext(context.Background())
	assert.Equal(t, zerolog.Disabled, fallback.GetLevel())
}

func TestGorm(t *testing.T) {
	buf := &bytes.Buffer{}
	gl := Gorm(NewWithWriter(buf), gormlogger.Info)

	gl.Info(context.Background(), "migrated %d tables", 5)

	assert.Contains(t, buf.String(), "migrated 5 tables")
	assert.Contains(t, buf.String(), `"component":"gorm"`)
}

func TestGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, GormLevel(zerolog.DebugLevel))
	assert.Equal(t, gormlogger.Warn, GormLevel(zerolog.InfoLevel))
	assert.Equal(t, gormlogger.Error, GormLevel(zerolog.ErrorLevel))
	assert.Equal(t, gormlogger.Silent, GormLevel(zerolog.Disabled))
}
