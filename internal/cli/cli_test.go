package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/pingone-import/internal/app"
)

const (
	envID    = "0a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9"
	popID    = "1b2c3d4e-5f60-7182-93a4-b5c6d7e8f90a"
	clientID = "2c3d4e5f-6071-8293-a4b5-c6d7e8f90a1b"
)

func baseArgs() []string {
	return []string{
		"-csv-file", "users.csv",
		"-environment-id", envID,
		"-population-id", popID,
		"-client-id", clientID,
		"-client-secret", "s3cret",
	}
}

func TestParseDefaults(t *testing.T) {
	out := &bytes.Buffer{}
	cfg, shouldExit, err := Parse(baseArgs(), out)

	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, "users.csv", cfg.CSVFile)
	assert.Equal(t, app.DefaultRejectsFile, cfg.RejectsFile)
	assert.Equal(t, app.DefaultAuthHost, cfg.AuthHost)
	assert.Equal(t, app.DefaultAPIHost, cfg.APIHost)
	assert.Equal(t, app.DefaultWorkers, cfg.Workers)
	assert.Equal(t, app.DefaultRatePerSecond, cfg.RatePerSecond)
	assert.False(t, cfg.ForcePasswordChange)
}

func TestParseNoArgsPrintsUsage(t *testing.T) {
	out := &bytes.Buffer{}
	_, shouldExit, err := Parse(nil, out)

	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Contains(t, out.String(), "Imports users into PingOne")
}

func TestParseHelpFlag(t *testing.T) {
	out := &bytes.Buffer{}
	_, shouldExit, err := Parse([]string{"-h"}, out)

	require.NoError(t, err)
	assert.True(t, shouldExit)
}

func TestParseRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"-bogus"}, "flag provided but not defined"},
		{"bad log format", append(baseArgs(), "-log-format", "yaml"), "invalid log-format"},
		{"bad log level", append(baseArgs(), "-log-level", "loud"), "invalid log-level"},
		{"non-uuid environment", []string{"-csv-file", "u.csv", "-environment-id", "prod", "-population-id", popID, "-client-id", clientID, "-client-secret", "x"}, "not a valid UUID"},
		{"missing secret", []string{"-csv-file", "u.csv", "-environment-id", envID, "-population-id", popID, "-client-id", clientID}, "client-secret is required"},
		{"workers out of range", append(baseArgs(), "-workers", "5000"), "workers must be between"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			_, _, err := Parse(tc.args, out)

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.want)
		})
	}
}

func TestParseProfileFillsUnsetFlags(t *testing.T) {
	profilePath := filepath.Join(t.TempDir(), "profile.hcl")
	require.NoError(t, os.WriteFile(profilePath, []byte(`
environment_id = "`+envID+`"
population_id  = "`+popID+`"
client_id      = "`+clientID+`"
client_secret  = "from-profile"
api_host       = "api.pingone.eu"
`), 0600))

	t.Run("profile supplies missing values", func(t *testing.T) {
		out := &bytes.Buffer{}
		cfg, shouldExit, err := Parse([]string{"-csv-file", "users.csv", "-profile", profilePath}, out)

		require.NoError(t, err)
		require.False(t, shouldExit)
		assert.Equal(t, envID, cfg.EnvironmentID)
		assert.Equal(t, "from-profile", cfg.ClientSecret)
		assert.Equal(t, "api.pingone.eu", cfg.APIHost)
		assert.Equal(t, app.DefaultAuthHost, cfg.AuthHost, "profile leaves unset hosts at defaults")
	})

	t.Run("explicit flags win over the profile", func(t *testing.T) {
		out := &bytes.Buffer{}
		cfg, _, err := Parse([]string{
			"-csv-file", "users.csv",
			"-profile", profilePath,
			"-client-secret", "from-flag",
		}, out)

		require.NoError(t, err)
		assert.Equal(t, "from-flag", cfg.ClientSecret)
	})

	t.Run("unreadable profile is a CLI error", func(t *testing.T) {
		out := &bytes.Buffer{}
		_, _, err := Parse([]string{"-csv-file", "users.csv", "-profile", filepath.Join(t.TempDir(), "gone.hcl")}, out)

		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})
}
