// Package payload builds the user document submitted to the PingOne API
// from a CSV record. Construction is table-driven: each recognized column
// maps to an attribute path in the document, and a column contributes a
// value only when it exists in the header set and its trimmed cell is
// non-blank.
package payload

import (
	"strings"

	"github.com/vk/pingone-import/internal/csvsource"
)

// User is the nested key/value document for a single create-user call.
type User map[string]any

// mapping ties a CSV column to the API attribute it populates.
type mapping struct {
	column    string
	attribute string
}

// topLevelAttrs are optional scalar attributes at the document root.
var topLevelAttrs = []mapping{
	{"username", "username"},
	{"email", "email"},
	{"primaryPhone", "primaryPhone"},
	{"mobilePhone", "mobilePhone"},
}

// nameAttrs populate the nested "name" object.
var nameAttrs = []mapping{
	{"name.honorificPrefix", "honorificPrefix"},
	{"name.given", "given"},
	{"name.middle", "middle"},
	{"name.family", "family"},
	{"name.honorificSuffix", "honorificSuffix"},
	{"name.formatted", "formatted"},
}

// Builder converts records into User documents. It carries the run-wide
// configuration that applies to every record: the header set of the input
// file, the target population, and whether imported passwords must be
// changed on first login. A Builder is read-only after construction and
// safe for concurrent use.
type Builder struct {
	headers             csvsource.HeaderSet
	populationID        string
	forcePasswordChange bool
}

// NewBuilder returns a Builder for the given run configuration.
func NewBuilder(headers csvsource.HeaderSet, populationID string, forcePasswordChange bool) *Builder {
	return &Builder{
		headers:             headers,
		populationID:        populationID,
		forcePasswordChange: forcePasswordChange,
	}
}

// Build produces the User document for one record. It performs no I/O and
// never fails: cells that are absent or blank are simply omitted.
func (b *Builder) Build(rec csvsource.Record) User {
	user := User{}
	for _, m := range topLevelAttrs {
		b.put(user, rec, m)
	}

	user["population"] = map[string]any{"id": b.populationID}

	if b.headers.Has("password") {
		if pw := strings.TrimSpace(rec.Get("password")); pw != "" {
			password := map[string]any{"value": pw}
			if b.forcePasswordChange {
				password["forceChange"] = true
			}
			user["password"] = password
		}
	}

	// A blank cell under an "enabled" header means enabled; if the column
	// is missing entirely the flag is omitted and the server default
	// applies.
	if b.headers.Has("enabled") {
		enabled := strings.TrimSpace(rec.Get("enabled"))
		user["enabled"] = enabled == "" || strings.EqualFold(enabled, "true")
	}

	name := map[string]any{}
	for _, m := range nameAttrs {
		b.put(name, rec, m)
	}
	if len(name) > 0 {
		user["name"] = name
	}

	return user
}

// put copies one mapped cell into obj, trimming whitespace and skipping
// absent columns and blank values.
func (b *Builder) put(obj map[string]any, rec csvsource.Record, m mapping) {
	if !b.headers.Has(m.column) {
		return
	}
	if v := strings.TrimSpace(rec.Get(m.column)); v != "" {
		obj[m.attribute] = v
	}
}
