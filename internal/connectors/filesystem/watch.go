package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/compass-embed/internal/logger"
)

// ChangeType describes what happened to a watched file.
type ChangeType int

const (
	// ChangeCreated is a new file.
	ChangeCreated ChangeType = iota
	// ChangeUpdated is a modified file.
	ChangeUpdated
	// ChangeDeleted is a removed or renamed file.
	ChangeDeleted
)

func (t ChangeType) String() string {
	switch t {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Change is a single file change under the root.
type Change struct {
	Type    ChangeType
	Path    string
	RelPath string
}

// DefaultSettle is how long a file must stay quiet before its change is
// delivered. Editors and copies emit several events per save.
const DefaultSettle = 200 * time.Millisecond

// Watch reports changes to matching files until ctx is cancelled or the
// connector is closed, then closes the channel. Subdirectories are watched
// too, including ones created later.
func (c *Connector) Watch(ctx context.Context) (<-chan Change, error) {
	return c.WatchSettle(ctx, DefaultSettle)
}

// WatchSettle is Watch with an explicit settle delay. Zero delivers every
// event immediately.
func (c *Connector) WatchSettle(ctx context.Context, settle time.Duration) (<-chan Change, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, fmt.Errorf("watch: %w", ErrClosed)
	}
	c.mu.Unlock()

	info, err := os.Stat(c.root)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path error: %s is not a directory", c.root)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := c.addTree(watcher, c.root); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancels = append(c.cancels, cancel)
	c.mu.Unlock()

	out := make(chan Change)
	go c.watchLoop(ctx, watcher, settle, out)
	return out, nil
}

func (c *Connector) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, settle time.Duration, out chan<- Change) {
	defer close(out)
	defer watcher.Close()

	pending := make(map[string]Change)
	var order []string
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	flush := func() bool {
		for _, path := range order {
			select {
			case out <- pending[path]:
			case <-ctx.Done():
				return false
			}
		}
		pending = make(map[string]Change)
		order = order[:0]
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			change, ok := c.handleFsEvent(watcher, event)
			if !ok {
				continue
			}
			if settle <= 0 {
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
				continue
			}
			if prev, seen := pending[change.Path]; seen {
				// A create followed by writes is still a create.
				if prev.Type == ChangeCreated && change.Type == ChangeUpdated {
					change.Type = ChangeCreated
				}
			} else {
				order = append(order, change.Path)
			}
			pending[change.Path] = change
			timer.Reset(settle)

		case <-timer.C:
			if !flush() {
				return
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watch %s: %v", c.root, err)
		}
	}
}

// handleFsEvent converts an fsnotify event into a change. New directories
// are added to the watcher and produce no change.
func (c *Connector) handleFsEvent(watcher *fsnotify.Watcher, event fsnotify.Event) (Change, bool) {
	rel, err := c.rel(event.Name)
	if err != nil || isHidden(rel) {
		return Change{}, false
	}

	var changeType ChangeType
	switch {
	case event.Has(fsnotify.Create):
		info, err := os.Stat(event.Name)
		if err != nil {
			return Change{}, false
		}
		if info.IsDir() {
			if watcher != nil {
				if err := c.addTree(watcher, event.Name); err != nil {
					logger.Warn("watch %s: %v", event.Name, err)
				}
			}
			return Change{}, false
		}
		changeType = ChangeCreated
	case event.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil || info.IsDir() {
			return Change{}, false
		}
		changeType = ChangeUpdated
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		changeType = ChangeDeleted
	default:
		return Change{}, false
	}

	if !c.Matches(rel) {
		return Change{}, false
	}
	return Change{Type: changeType, Path: event.Name, RelPath: rel}, true
}

// addTree watches dir and every non-hidden directory below it.
func (c *Connector) addTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if rel, _ := c.rel(path); rel != "." && isHidden(rel) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}
