package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/pingone-import/internal/cli"
)

func TestRun_HelpExitsCleanly(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when help is requested")
	require.True(t, strings.Contains(out.String(), "Options:"), "Expected help text to be printed to the output buffer")
}

func TestRun_InvalidFlagReturnsExitError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"-workers", "notanumber"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
}

func TestRun_MissingInputFileIsFatal(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{
		"-csv-file", "does-not-exist.csv",
		"-environment-id", "0a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9",
		"-population-id", "1b2c3d4e-5f60-7182-93a4-b5c6d7e8f90a",
		"-client-id", "2c3d4e5f-6071-8293-a4b5-c6d7e8f90a1b",
		"-client-secret", "s3cret",
	}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(out, args)

	// --- Assert ---
	require.Error(t, err)
	require.Contains(t, err.Error(), "CSV file")
}
