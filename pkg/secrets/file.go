package secrets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileProvider reads the credential from a single file, in the style of
// Kubernetes secret mounts. The value is cached after the first read and
// the cache is invalidated when the watcher reports a change to the file,
// so rotated secrets are picked up without a restart.
type FileProvider struct {
	path string

	mu     sync.RWMutex
	cached string
	loaded bool

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
}

// NewFileProvider creates a provider for the secret file at path and starts
// watching its directory for changes.
func NewFileProvider(path string) (*FileProvider, error) {
	if path == "" {
		return nil, fmt.Errorf("secret file path is required")
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat secret file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("secret path is not a regular file: %s", path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	// Watch the directory rather than the file itself so atomic
	// replace-by-rename rotations are observed.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watching secret directory: %w", err)
	}

	p := &FileProvider{
		path:    path,
		watcher: watcher,
		stopCh:  make(chan struct{}),
	}
	go p.watchLoop()

	slog.Info("file-based credential provider started", "path", path)

	return p, nil
}

// Credential returns the cached credential, reading the file on first use
// or after a change was observed.
func (p *FileProvider) Credential(_ context.Context) (string, error) {
	p.mu.RLock()
	if p.loaded {
		value := p.cached
		p.mu.RUnlock()
		return value, nil
	}
	p.mu.RUnlock()

	return p.reload()
}

// Refresh drops the cached value, forcing a re-read on the next call.
func (p *FileProvider) Refresh() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loaded = false
	p.cached = ""
}

// Close stops the file watcher.
func (p *FileProvider) Close() error {
	close(p.stopCh)
	return p.watcher.Close()
}

func (p *FileProvider) reload() (string, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return "", fmt.Errorf("reading secret file: %w", err)
	}

	value := strings.TrimSpace(string(data))

	p.mu.Lock()
	p.cached = value
	p.loaded = true
	p.mu.Unlock()

	return value, nil
}

func (p *FileProvider) watchLoop() {
	for {
		select {
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(p.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				slog.Debug("credential file changed, refreshing",
					"file", filepath.Base(event.Name),
					"op", event.Op.String(),
				)
				p.Refresh()
			}

		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("credential file watcher error", "error", err)

		case <-p.stopCh:
			return
		}
	}
}
