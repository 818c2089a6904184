package clitext

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/outfield-lang/outfieldc/internal/config"
)

func TestWriteIsPlainWhenNotColorized(t *testing.T) {
	var buf bytes.Buffer
	Write(&buf, "a.of\n  1:1: error: boom\n", false)
	assert.Equal(t, "a.of\n  1:1: error: boom\n", buf.String())
}

func TestWriteIsPlainInTestMode(t *testing.T) {
	config.IsTestMode = true
	defer func() { config.IsTestMode = false }()

	var buf bytes.Buffer
	Write(&buf, "a.of\n  1:1: error: boom\n", true)
	assert.Equal(t, "a.of\n  1:1: error: boom\n", buf.String())
}

func TestSummaryCounts(t *testing.T) {
	assert.Equal(t, "0 errors, 0 warnings", Summary(0, 0, false))
	assert.Equal(t, "1 error, 2 warnings", Summary(1, 2, false))
}
