package config

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

// LoadScenario reads a scenario file on top of DefaultScenario.
// A missing file yields the defaults.
func LoadScenario(path string) (Scenario, error) {
	sc := DefaultScenario()
	if path == "" {
		return sc, nil
	}
	if err := loadYAML(path, &sc); err != nil {
		if os.IsNotExist(err) {
			return DefaultScenario(), nil
		}
		return sc, fmt.Errorf("loading scenario %s: %w", path, err)
	}
	return sc, nil
}

// Loader keeps the latest scenario read from a file and can watch it for changes.
type Loader struct {
	path     string
	mu       sync.RWMutex
	current  Scenario
	onChange []func(Scenario)
}

func NewLoader(path string) (*Loader, error) {
	sc, err := LoadScenario(path)
	if err != nil {
		return nil, err
	}
	return &Loader{path: path, current: sc}, nil
}

func (l *Loader) Path() string { return l.path }

// Scenario returns a copy of the current scenario.
func (l *Loader) Scenario() Scenario {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// OnChange registers a callback invoked after every successful reload.
func (l *Loader) OnChange(fn func(Scenario)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// Reload re-reads the file and notifies listeners.
func (l *Loader) Reload() (Scenario, error) {
	sc, err := LoadScenario(l.path)
	if err != nil {
		return sc, err
	}
	l.mu.Lock()
	l.current = sc
	callbacks := make([]func(Scenario), len(l.onChange))
	copy(callbacks, l.onChange)
	l.mu.Unlock()
	for _, fn := range callbacks {
		fn(sc)
	}
	return sc, nil
}

// Watch reloads the scenario whenever the file is written or recreated.
// Call the returned stop function to release the watcher.
func (l *Loader) Watch() (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("scenario watcher: %w", err)
	}
	if err := w.Add(l.path); err != nil {
		w.Close()
		return nil, fmt.Errorf("scenario watcher add %s: %w", l.path, err)
	}

	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					if _, err := l.Reload(); err != nil {
						slog.Warn("scenario reload failed, keeping previous", "path", l.path, "err", err)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Warn("scenario watcher error", "err", err)
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }, nil
}
