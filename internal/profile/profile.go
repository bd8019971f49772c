// Package profile loads an optional HCL connection profile. A profile
// keeps per-environment settings (hosts, IDs, credentials) out of shell
// history; values reference process environment variables through the
// `env` object so secrets never need to live in the file itself:
//
//	environment_id = "4f0fe9ca-..."
//	client_id      = "87ba2d4b-..."
//	client_secret  = env.PING_CLIENT_SECRET
//
// Explicit command-line flags always win over profile values.
package profile

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// Profile holds the connection settings a profile file may supply. Every
// attribute is optional; zero values mean "not set".
type Profile struct {
	EnvironmentID string `hcl:"environment_id,optional"`
	PopulationID  string `hcl:"population_id,optional"`
	ClientID      string `hcl:"client_id,optional"`
	ClientSecret  string `hcl:"client_secret,optional"`
	AuthHost      string `hcl:"auth_host,optional"`
	APIHost       string `hcl:"api_host,optional"`
}

// Load parses the profile file at path. Expressions are evaluated against
// an `env` object exposing the process environment.
func Load(path string) (*Profile, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse profile %q: %w", path, diags)
	}

	var p Profile
	if diags := gohcl.DecodeBody(file.Body, evalContext(), &p); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode profile %q: %w", path, diags)
	}
	return &p, nil
}

// evalContext builds the evaluation context available to profile
// expressions: a single `env` object mapping variable names to strings.
func evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = cty.StringVal(value)
	}

	env := cty.EmptyObjectVal
	if len(vars) > 0 {
		env = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": env},
	}
}
