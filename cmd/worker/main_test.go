package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_RejectsUsageBeforeBootstrap(t *testing.T) {
	// Nothing is configured here; reaching config.Load would fail with 1.
	t.Setenv("DB_DSN", "")

	assert.Equal(t, 2, run(nil))
	assert.Equal(t, 2, run([]string{"analyze"}))
	assert.Equal(t, 2, run([]string{"run", "extra"}))
}
