package schedule

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v2"
)

// Store is a YAML-file-backed collection of schedules under a single
// directory, one file per schedule named "<sanitized-name>.yaml". It
// mirrors Schedule::all/by_name/new/update/delete from the original
// implementation, with a cached, fsnotify-invalidated directory listing.
type Store struct {
	dir string

	mu      sync.Mutex
	cache   []string
	watcher *fsnotify.Watcher
}

// NewStore opens a Store rooted at dir. dir must already exist and be a
// directory; config loading validates this before constructing a Store.
func NewStore(dir string) (*Store, error) {
	s := &Store{dir: dir}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		// A missing filesystem-watch facility degrades to an uncached
		// listing on every call; it is not fatal to the store.
		log.Printf("schedule: fsnotify unavailable, listings will not be cached: %v", err)
		return s, nil
	}
	if err := watcher.Add(dir); err != nil {
		log.Printf("schedule: unable to watch %s: %v", dir, err)
		watcher.Close()
		return s, nil
	}
	s.watcher = watcher
	go s.watch()
	return s, nil
}

func (s *Store) watch() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) != 0 {
				s.invalidate()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("schedule: watch error: %v", err)
		}
	}
}

func (s *Store) invalidate() {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".yaml")
}

// List returns the sanitized names of every stored schedule, sorted.
func (s *Store) List() ([]string, error) {
	s.mu.Lock()
	if s.cache != nil {
		defer s.mu.Unlock()
		return append([]string(nil), s.cache...), nil
	}
	s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &Error{Kind: IOError, Detail: err.Error()}
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)

	s.mu.Lock()
	s.cache = names
	s.mu.Unlock()
	return append([]string(nil), names...), nil
}

// Get reads and decodes the schedule stored under name.
func (s *Store) Get(name string) (Schedule, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return Schedule{}, &Error{Kind: IOError, Detail: err.Error()}
	}
	var sched Schedule
	if err := yaml.Unmarshal(data, &sched); err != nil {
		return Schedule{}, &Error{Kind: InvalidYAML, Detail: err.Error()}
	}
	return sched, nil
}

// Create validates and writes a new schedule file, returning its sanitized
// id (filename stem).
func (s *Store) Create(sched Schedule) (string, error) {
	id := Sanitize(sched.Name)
	if err := Validate(sched); err != nil {
		return "", err
	}

	out, err := yaml.Marshal(sched)
	if err != nil {
		return "", &Error{Kind: InvalidYAML, Detail: err.Error()}
	}
	if err := os.WriteFile(s.path(id), out, 0o644); err != nil {
		return "", &Error{Kind: IOError, Detail: err.Error()}
	}
	s.invalidate()
	return id, nil
}

// Update validates and overwrites the schedule stored under name.
func (s *Store) Update(name string, sched Schedule) (string, error) {
	if err := Validate(sched); err != nil {
		return "", err
	}
	out, err := yaml.Marshal(sched)
	if err != nil {
		return "", &Error{Kind: InvalidYAML, Detail: err.Error()}
	}
	if err := os.WriteFile(s.path(name), out, 0o644); err != nil {
		return "", &Error{Kind: IOError, Detail: err.Error()}
	}
	s.invalidate()
	return name, nil
}

// Delete removes the schedule stored under name.
func (s *Store) Delete(name string) error {
	if err := os.Remove(s.path(name)); err != nil {
		return &Error{Kind: IOError, Detail: err.Error()}
	}
	s.invalidate()
	return nil
}

// Close releases the store's filesystem watch.
func (s *Store) Close() error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Close()
}
