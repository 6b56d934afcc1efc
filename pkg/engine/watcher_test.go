package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reveal/pkg/config"
)

func TestParamsWatcherDeliversEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, config.SaveEffect(config.DefaultEffect(), path))

	w, err := NewParamsWatcher(path, config.DefaultEffect())
	require.NoError(t, err)
	defer w.Close()

	edited := config.DefaultEffect()
	edited.Blur = 6
	require.NoError(t, config.SaveEffect(edited, path))

	assert.Eventually(t, func() bool {
		effect, _ := w.Poll()
		return effect != nil && effect.Blur == 6
	}, 5*time.Second, 20*time.Millisecond)
}

func TestParamsWatcherSkipsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, config.SaveEffect(config.DefaultEffect(), path))

	w, err := NewParamsWatcher(path, config.DefaultEffect())
	require.NoError(t, err)
	defer w.Close()

	edited := config.DefaultEffect()
	edited.Blur = 6
	require.NoError(t, config.SaveEffect(edited, path))
	require.Eventually(t, func() bool {
		effect, _ := w.Poll()
		return effect != nil && effect.Blur == 6
	}, 5*time.Second, 20*time.Millisecond)

	// a truncated file must not revert the live values to the base set
	require.NoError(t, os.WriteFile(path, nil, 0644))
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0644))
	time.Sleep(200 * time.Millisecond)

	// a late event from the earlier save may still carry blur 6
	effect, err := w.Poll()
	assert.NoError(t, err)
	if effect != nil {
		assert.Equal(t, float32(6), effect.Blur)
	}
}

func TestParamsWatcherReportsParseErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, config.SaveEffect(config.DefaultEffect(), path))

	w, err := NewParamsWatcher(path, config.DefaultEffect())
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("blur: [oops"), 0644))

	assert.Eventually(t, func() bool {
		_, err := w.Poll()
		return err != nil
	}, 5*time.Second, 20*time.Millisecond)
}

func TestParamsWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.yaml")
	require.NoError(t, config.SaveEffect(config.DefaultEffect(), path))

	w, err := NewParamsWatcher(path, config.DefaultEffect())
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("blur: 9\n"), 0644))
	time.Sleep(200 * time.Millisecond)

	effect, err := w.Poll()
	assert.Nil(t, effect)
	assert.NoError(t, err)
}

func TestSendLatestKeepsNewest(t *testing.T) {
	ch := make(chan int, 1)
	sendLatest(ch, 1)
	sendLatest(ch, 2)
	assert.Equal(t, 2, <-ch)
}
