// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// CONFIG WATCHER
// =============================================================================

// debounceWindow absorbs the write/rename burst an atomic save produces.
const debounceWindow = 250 * time.Millisecond

// Watcher reloads the config when the file changes on disk and delivers the
// result on C. Errors during reload are swallowed; the previous config
// simply stays in effect.
type Watcher struct {
	C chan *Config

	fw   *fsnotify.Watcher
	done chan struct{}
}

// Watch starts watching the config directory. The directory (not the file)
// is watched because atomic saves replace the file inode.
func Watch() (*Watcher, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		C:    make(chan *Config, 1),
		fw:   fw,
		done: make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}

func (w *Watcher) loop() {
	defer close(w.C)

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != "config.toml" {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			// Debounce: reload once after the burst settles.
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
				timerC = timer.C
			} else {
				timer.Reset(debounceWindow)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			cfg, err := Load()
			if err != nil {
				continue
			}
			// Drop the previous pending config if the consumer is slow.
			select {
			case w.C <- cfg:
			default:
				select {
				case <-w.C:
				default:
				}
				w.C <- cfg
			}

		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
		}
	}
}
