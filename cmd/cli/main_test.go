package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoyle1974/openhours"
	"github.com/hoyle1974/openhours/temporal"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestCLIDiskRoundTrip(t *testing.T) {
	dir := t.TempDir()
	base := []string{"--source", "disk", "--uri", dir, "--tz", "UTC"}

	out, err := runCLI(t, append(base, "put", "bar", "20:00-02:00")...)
	require.NoError(t, err)
	assert.Contains(t, out, "bar: 20:00-02:00")

	out, err = runCLI(t, append(base, "get", "bar")...)
	require.NoError(t, err)
	assert.Contains(t, out, "bar: 20:00-02:00")

	out, err = runCLI(t, append(base, "list")...)
	require.NoError(t, err)
	assert.Equal(t, "bar\n", out)

	out, err = runCLI(t, append(base, "open", "bar", "2024-01-01T23:00")...)
	require.NoError(t, err)
	assert.Contains(t, out, "bar is open at 2024-01-01T23:00:00Z")
	assert.Contains(t, out, "closes at 2024-01-02T02:00:00Z")

	out, err = runCLI(t, append(base, "open", "bar", "2024-01-01T12:00")...)
	require.NoError(t, err)
	assert.Contains(t, out, "bar is closed at 2024-01-01T12:00:00Z")
	assert.Contains(t, out, "opens at 2024-01-01T20:00:00Z")

	_, err = runCLI(t, append(base, "delete", "bar")...)
	require.NoError(t, err)

	_, err = runCLI(t, append(base, "get", "bar")...)
	assert.True(t, errors.Is(err, openhours.ErrNotFound))
}

func TestCLICheck(t *testing.T) {
	out, err := runCLI(t, "--source", "memory", "--tz", "UTC", "check", "22:00-02:00", "2024-01-01T23:00:00Z")
	require.NoError(t, err)

	assert.Contains(t, out, "range      22:00-02:00")
	assert.Contains(t, out, "reversed   true")
	assert.Contains(t, out, "contains   true")
	assert.Contains(t, out, "start next 2024-01-02T22:00:00Z")
	assert.Contains(t, out, "end next   2024-01-02T02:00:00Z")
	assert.Contains(t, out, "start prev 2024-01-01T22:00:00Z")
}

func TestCLIErrors(t *testing.T) {
	_, err := runCLI(t)
	assert.Error(t, err)

	_, err = runCLI(t, "--source", "memory", "frobnicate")
	assert.Error(t, err)

	_, err = runCLI(t, "--source", "memory", "check", "22:00")
	assert.True(t, errors.Is(err, temporal.ErrInvalidTimeRangeString))

	_, err = runCLI(t, "--source", "memory", "put", "bar", "nope")
	assert.True(t, errors.Is(err, temporal.ErrInvalidTimeRangeString))

	_, err = runCLI(t, "--source", "tape", "list")
	assert.Error(t, err)

	_, err = runCLI(t, "--source", "s3", "list")
	assert.Error(t, err)

	_, err = runCLI(t, "--tz", "Nowhere/Special", "--source", "memory", "list")
	assert.Error(t, err)
}

func TestCLIDebugPrintsCacheStats(t *testing.T) {
	dir := t.TempDir()
	base := []string{"--source", "disk", "--uri", dir, "--tz", "UTC", "--debug"}

	_, err := runCLI(t, append(base, "put", "bar", "20:00-02:00")...)
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	err = run(context.Background(), append(base, "open", "bar", "2024-01-01T23:00"), &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), "CacheStats(Hits: 1, Misses: 1)")

	stderr.Reset()
	err = run(context.Background(), []string{"--source", "memory", "list"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.NotContains(t, stderr.String(), "CacheStats")
}
