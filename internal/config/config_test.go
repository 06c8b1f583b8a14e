package config

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/comalice/presenterx"
	"github.com/comalice/presenterx/journal"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PRESENTERX_CONFIG", "")
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	c, err := Load()
	require.NoError(t, err)
	require.False(t, c.Presenter.Verbose)
	require.Equal(t, "while_subscribed", c.Presenter.Sharing)
	require.Equal(t, presenterx.DefaultLinger, c.Presenter.Linger)
	require.Equal(t, "json", c.Journal.Format)
	require.Equal(t, journal.DefaultCapacity, c.Journal.Capacity)
	require.Equal(t, time.Second, c.Demo.Tick)
}

func TestLoad_FileAndEnv(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "presenterx.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
presenter:
  verbose: true
  sharing: lazily
journal:
  format: yaml
  capacity: 32
demo:
  tick: 250ms
`), 0o644))
	t.Setenv("PRESENTERX_CONFIG", path)
	t.Setenv("PRESENTERX_JOURNAL_CAPACITY", "64")

	c, err := Load()
	require.NoError(t, err)
	require.True(t, c.Presenter.Verbose)
	require.Equal(t, "lazily", c.Presenter.Sharing)
	require.Equal(t, "yaml", c.Journal.Format)
	require.Equal(t, 64, c.Journal.Capacity)
	require.Equal(t, 250*time.Millisecond, c.Demo.Tick)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	t.Setenv("PRESENTERX_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_RejectsUnknownSharing(t *testing.T) {
	isolate(t)
	t.Setenv("PRESENTERX_PRESENTER_SHARING", "sometimes")

	_, err := Load()
	require.ErrorContains(t, err, "presenter.sharing")
}

func TestPresenterOptions(t *testing.T) {
	c := Config{Presenter: PresenterConfig{Sharing: "eagerly"}}
	opts, err := c.PresenterOptions()
	require.NoError(t, err)
	require.Len(t, opts, 2)

	c.Presenter.Sharing = "bogus"
	_, err = c.PresenterOptions()
	require.Error(t, err)
}

func TestJournalConfig_OpenStore(t *testing.T) {
	ctx := context.Background()

	store, err := JournalConfig{}.OpenStore(ctx)
	require.NoError(t, err)
	require.Nil(t, store)

	for _, format := range []string{"json", "yaml", "sqlite"} {
		store, err := JournalConfig{Dir: filepath.Join(t.TempDir(), format), Format: format}.OpenStore(ctx)
		require.NoError(t, err, format)
		require.NotNil(t, store, format)

		id := uuid.NewString()
		require.NoError(t, store.Save(ctx, journal.Snapshot{PresenterID: id, SavedAt: time.Now()}))
		_, err = store.Load(ctx, id)
		require.NoError(t, err, format)

		if c, ok := store.(io.Closer); ok {
			require.NoError(t, c.Close())
		}
	}
}
