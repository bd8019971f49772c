package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/pingone-import/internal/csvsource"
	"github.com/vk/pingone-import/internal/payload"
	"github.com/vk/pingone-import/internal/pingone"
	"github.com/vk/pingone-import/internal/ratelimit"
)

// fakeSubmitter rejects any user whose username is in the reject set and
// records every submission it sees.
type fakeSubmitter struct {
	mu        sync.Mutex
	submitted []payload.User
	reject    map[string]struct{}
}

func (f *fakeSubmitter) CreateUser(ctx context.Context, user payload.User) error {
	f.mu.Lock()
	f.submitted = append(f.submitted, user)
	f.mu.Unlock()

	username, _ := user["username"].(string)
	if _, bad := f.reject[username]; bad {
		return &pingone.APIError{StatusCode: 422, Body: `{"code":"INVALID_DATA"}`}
	}
	return nil
}

func newTestImporter(t *testing.T, csvContent string, workers int, submitter Submitter) *Importer {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvContent), 0600))

	src, err := csvsource.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { src.Close() })

	builder := payload.NewBuilder(src.Headers(), "3a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9", false)
	return New(csvsource.NewDispatcher(src), ratelimit.New(1000), builder, submitter, workers)
}

func TestRunCountsEveryRecordExactlyOnce(t *testing.T) {
	const records = 100
	var b strings.Builder
	b.WriteString("username\n")
	for i := 0; i < records; i++ {
		fmt.Fprintf(&b, "user%d\n", i)
	}

	sub := &fakeSubmitter{}
	imp := newTestImporter(t, b.String(), 8, sub)

	stats := imp.Run(context.Background())

	assert.Equal(t, int64(records), stats.Total())
	assert.Equal(t, int64(records), stats.Success())
	assert.Equal(t, int64(0), stats.Errors())
	assert.Equal(t, stats.Total(), stats.Success()+stats.Errors())
	assert.Empty(t, stats.RejectedLines())
	assert.Len(t, sub.submitted, records)
}

func TestRunIsolatesFailuresToTheirLines(t *testing.T) {
	csv := "username,email\n" +
		"good1,good1@example.com\n" + // line 2
		"bad,not-an-email\n" + // line 3
		"good2,good2@example.com\n" // line 4

	sub := &fakeSubmitter{reject: map[string]struct{}{"bad": {}}}
	imp := newTestImporter(t, csv, 4, sub)

	stats := imp.Run(context.Background())

	assert.Equal(t, int64(3), stats.Total())
	assert.Equal(t, int64(2), stats.Success())
	assert.Equal(t, int64(1), stats.Errors())
	assert.Equal(t, map[int]struct{}{3: {}}, stats.RejectedLines())
}

func TestRunWithMoreWorkersThanRecords(t *testing.T) {
	sub := &fakeSubmitter{}
	imp := newTestImporter(t, "username\nonly\n", 50, sub)

	stats := imp.Run(context.Background())

	assert.Equal(t, int64(1), stats.Total())
	assert.Equal(t, int64(1), stats.Success())
}

func TestRunHeaderOnlyInputDoesNothing(t *testing.T) {
	sub := &fakeSubmitter{}
	imp := newTestImporter(t, "username,email\n", 4, sub)

	stats := imp.Run(context.Background())

	assert.Equal(t, int64(0), stats.Total())
	assert.Equal(t, int64(0), stats.Success())
	assert.Equal(t, int64(0), stats.Errors())
	assert.Empty(t, sub.submitted)
}

func TestRunAllRecordsFailing(t *testing.T) {
	csv := "username\na\nb\nc\n"
	sub := &fakeSubmitter{reject: map[string]struct{}{"a": {}, "b": {}, "c": {}}}
	imp := newTestImporter(t, csv, 2, sub)

	stats := imp.Run(context.Background())

	assert.Equal(t, int64(3), stats.Total())
	assert.Equal(t, int64(0), stats.Success())
	assert.Equal(t, int64(3), stats.Errors())
	assert.Equal(t, map[int]struct{}{2: {}, 3: {}, 4: {}}, stats.RejectedLines())
}
