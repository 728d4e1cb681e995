package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel(LOG_LEVEL_DEBUG))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel(LOG_LEVEL_ERROR))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}
