package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"github.com/yigit/unihub/internal/pkg/blobstore"
)

func TestDumpKey_IndentsJSON(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "clubs_list_v1", []byte(`[{"id":1}]`)))

	var out bytes.Buffer
	require.NoError(t, dumpKey(ctx, store, "clubs_list_v1", &out))
	assert.Equal(t, "[\n  {\n    \"id\": 1\n  }\n]\n", out.String())
}

func TestDumpKey_RawWhenNotJSON(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "post_data", []byte("not json")))

	var out bytes.Buffer
	require.NoError(t, dumpKey(ctx, store, "post_data", &out))
	assert.Equal(t, "not json\n", out.String())
}

func TestDumpKey_Missing(t *testing.T) {
	err := dumpKey(context.Background(), blobstore.NewMemoryStore(), "nope", &bytes.Buffer{})
	var exit cli.ExitCoder
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 2, exit.ExitCode())
}

func TestSeedThenDump_LocalStore(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	body := "storage:\n  driver: local\n  path: " + filepath.Join(dir, "blobs") + "\nlogging:\n  level: disabled\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))

	run := func(args ...string) string {
		var out bytes.Buffer
		app := newApp()
		app.Writer = &out
		require.NoError(t, app.Run(append([]string{"hubctl", "--config", cfgPath}, args...)))
		return out.String()
	}

	assert.Contains(t, run("seed"), "clubs=true queue=true announcements=true")
	assert.Contains(t, run("dump", "club_queue_v1"), `"student": "Dacar"`)
	assert.Equal(t, "recovered 0 club(s)\n", run("recover"))
	assert.Contains(t, run("seed"), "clubs=false queue=false announcements=false")
}
