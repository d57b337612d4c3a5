// Package testutil provides testing utilities for orcvector
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/orcvector/pkg/logger"
	"github.com/ajitpratap0/orcvector/pkg/memory"
)

// TestLogger creates a test logger that writes to the test output.
// The logger is automatically cleaned up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// UseTestLogger installs a test logger as the global logger for the duration
// of the test and restores the previous one afterwards.
func UseTestLogger(t *testing.T) *zap.Logger {
	t.Helper()

	prev := logger.Get()
	l := zaptest.NewLogger(t)
	logger.Set(l)
	t.Cleanup(func() { logger.Set(prev) })
	return l
}

// NewLeakCheckedPool returns a pool that fails the test if any bytes are
// still reserved when the test completes.
func NewLeakCheckedPool(t *testing.T) *memory.DefaultPool {
	t.Helper()
	return newCheckedPool(t, memory.Config{RecycleBytes: true})
}

// NewLimitedPool is NewLeakCheckedPool with a byte limit.
func NewLimitedPool(t *testing.T, limit int64) *memory.DefaultPool {
	t.Helper()
	return newCheckedPool(t, memory.Config{LimitBytes: limit, RecycleBytes: true})
}

func newCheckedPool(t *testing.T, cfg memory.Config) *memory.DefaultPool {
	pool := memory.NewPool(cfg)
	t.Cleanup(func() {
		stats := pool.Stats()
		assert.Zero(t, stats.BytesInUse, "pool leaked memory: %+v", stats)
	})
	return pool
}

// WriteTempFile writes content to name inside a per-test temporary
// directory and returns the full path.
func WriteTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}
