package cli

import (
	"flag"
	"fmt"
	"io"

	"github.com/vk/pingone-import/internal/app"
	"github.com/vk/pingone-import/internal/profile"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a validated
// app.Config, a boolean indicating if the program should exit cleanly
// (help requested or no input given), or an ExitError for invalid input.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("pingone-import", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
pingone-import - Imports users into PingOne from a CSV file.

Before using the tool, create a Worker application with the Identity Data
Admin role for the target environment. Rejected users are written to a
rejects CSV file that can be corrected and reprocessed by the tool.

Supported CSV headers ('username' is required; 'enabled' defaults to true
when the column is omitted):
  username, email, primaryPhone, mobilePhone, password, enabled,
  name.honorificPrefix, name.given, name.middle, name.family,
  name.honorificSuffix, name.formatted

Options:
`)
		flagSet.PrintDefaults()
	}

	csvFile := flagSet.String("csv-file", "", "Path to the CSV file that includes user data. Required.")
	rejectsFile := flagSet.String("rejects-file", app.DefaultRejectsFile, "Path to the CSV file where rejects will be written.")
	environmentID := flagSet.String("environment-id", "", "The ID of the environment to import users into.")
	populationID := flagSet.String("population-id", "", "The ID of the population to import users into.")
	clientID := flagSet.String("client-id", "", "The ID of the PingOne Worker application.")
	clientSecret := flagSet.String("client-secret", "", "The secret of the PingOne Worker application.")
	authHost := flagSet.String("auth-host", app.DefaultAuthHost, "Auth host base, e.g. auth.pingone.com.")
	apiHost := flagSet.String("api-host", app.DefaultAPIHost, "Platform API host base, e.g. api.pingone.com.")
	forcePasswordChange := flagSet.Bool("force-password-change", false, "Require all imported users to change their password on next login.")
	workers := flagSet.Int("workers", app.DefaultWorkers, "Number of concurrent import workers. The request rate is capped separately.")
	ratePerSecond := flagSet.Int("rate-per-second", app.DefaultRatePerSecond, "Maximum aggregate requests per second across all workers.")
	profilePath := flagSet.String("profile", "", "Optional HCL profile file supplying connection settings. Explicit flags win.")
	logFormat := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevel := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	switch *logFormat {
	case "text", "json":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	switch *logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	// Record which flags the user set explicitly; profile values only fill
	// the rest.
	set := map[string]bool{}
	flagSet.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if *profilePath != "" {
		p, err := profile.Load(*profilePath)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		fill := func(name string, dst *string, value string) {
			if !set[name] && value != "" {
				*dst = value
			}
		}
		fill("environment-id", environmentID, p.EnvironmentID)
		fill("population-id", populationID, p.PopulationID)
		fill("client-id", clientID, p.ClientID)
		fill("client-secret", clientSecret, p.ClientSecret)
		fill("auth-host", authHost, p.AuthHost)
		fill("api-host", apiHost, p.APIHost)
	}

	if *csvFile == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	config, err := app.NewConfig(app.Config{
		CSVFile:             *csvFile,
		RejectsFile:         *rejectsFile,
		EnvironmentID:       *environmentID,
		PopulationID:        *populationID,
		ClientID:            *clientID,
		ClientSecret:        *clientSecret,
		AuthHost:            *authHost,
		APIHost:             *apiHost,
		ForcePasswordChange: *forcePasswordChange,
		Workers:             *workers,
		RatePerSecond:       *ratePerSecond,
		LogFormat:           *logFormat,
		LogLevel:            *logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
