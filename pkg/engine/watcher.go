package engine

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"reveal/pkg/config"
)

// ParamsWatcher reloads the params file whenever it changes on disk.
// Results are delivered on channels; the render loop drains them with
// Poll so Params is never written from the watcher goroutine.
type ParamsWatcher struct {
	path    string
	base    config.EffectConfig
	watcher *fsnotify.Watcher

	updates chan config.EffectConfig
	errors  chan error
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewParamsWatcher starts watching path. Keys missing from the file take
// their value from base. The directory is watched rather than the file so
// editors that replace the file on save are followed.
func NewParamsWatcher(path string, base config.EffectConfig) (*ParamsWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create params watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	pw := &ParamsWatcher{
		path:    abs,
		base:    base,
		watcher: w,
		updates: make(chan config.EffectConfig, 1),
		errors:  make(chan error, 1),
		done:    make(chan struct{}),
	}
	pw.wg.Add(1)
	go pw.loop()
	return pw, nil
}

func (pw *ParamsWatcher) loop() {
	defer pw.wg.Done()
	for {
		select {
		case <-pw.done:
			return
		case event, ok := <-pw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != pw.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			effect, err := config.LoadEffect(pw.path, pw.base)
			if errors.Is(err, config.ErrEmptyParams) {
				// mid-write; the write that follows carries the content
				continue
			}
			if err != nil {
				sendLatest(pw.errors, err)
				continue
			}
			sendLatest(pw.updates, effect)
		case err, ok := <-pw.watcher.Errors:
			if !ok {
				return
			}
			sendLatest(pw.errors, err)
		}
	}
}

// sendLatest replaces any undelivered value so the reader sees the newest
func sendLatest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

// Poll returns the newest reloaded parameter set and any error since the
// last call, without blocking
func (pw *ParamsWatcher) Poll() (effect *config.EffectConfig, err error) {
	select {
	case e := <-pw.updates:
		effect = &e
	default:
	}
	select {
	case err = <-pw.errors:
	default:
	}
	return effect, err
}

// Close stops watching and waits for the goroutine to exit
func (pw *ParamsWatcher) Close() error {
	close(pw.done)
	err := pw.watcher.Close()
	pw.wg.Wait()
	return err
}
