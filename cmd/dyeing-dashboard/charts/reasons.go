// Copyright 2023 UMH Systems GmbH
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package charts

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ReasonMapping maps reason codes to display names. It can follow its file
// and reload on change.
type ReasonMapping struct {
	watcher *fsnotify.Watcher
	names   map[string]string
	path    string
	mu      sync.RWMutex
	stopCh  chan struct{}
	once    sync.Once
	gen     atomic.Uint64
}

// NewReasonMapping returns a fixed mapping.
func NewReasonMapping(names map[string]string) *ReasonMapping {
	if names == nil {
		names = map[string]string{}
	}
	return &ReasonMapping{names: names, stopCh: make(chan struct{})}
}

// LoadReasonMapping reads the YAML mapping at path.
func LoadReasonMapping(path string) (*ReasonMapping, error) {
	m := NewReasonMapping(nil)
	m.path = path
	if err := m.reload(); err != nil {
		return m, err
	}
	return m, nil
}

// ParseReasonMapping decodes `code: name` pairs. Codes may be written as
// integers or strings.
func ParseReasonMapping(b []byte) (map[string]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse reason mapping: %w", err)
	}
	names := map[string]string{}
	if len(doc.Content) == 0 {
		return names, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("reason mapping must be a mapping, got %v", root.Tag)
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		names[root.Content[i].Value] = root.Content[i+1].Value
	}
	return names, nil
}

func (m *ReasonMapping) reload() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read reason mapping: %w", err)
	}
	names, err := ParseReasonMapping(data)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.names = names
	m.mu.Unlock()
	m.gen.Add(1)
	zap.S().Infof("Loaded %d reason names from %s", len(names), m.path)
	return nil
}

// Name returns the display name of code, or fallback formatted with it.
func (m *ReasonMapping) Name(code, fallback string) string {
	if m != nil {
		m.mu.RLock()
		n, ok := m.names[code]
		m.mu.RUnlock()
		if ok && n != "" {
			return n
		}
	}
	if fallback == "" {
		fallback = "Reason %s"
	}
	return fmt.Sprintf(fallback, code)
}

// Generation changes on every successful reload.
func (m *ReasonMapping) Generation() uint64 {
	if m == nil {
		return 0
	}
	return m.gen.Load()
}

// Watch reloads the mapping whenever its file is written or replaced. The
// directory is watched so editors that rename files are followed too.
func (m *ReasonMapping) Watch() error {
	if m.path == "" {
		return fmt.Errorf("reason mapping has no file")
	}
	var err error
	m.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err = m.watcher.Add(filepath.Dir(m.path)); err != nil {
		_ = m.watcher.Close()
		return fmt.Errorf("failed to watch reason mapping: %w", err)
	}
	go m.watchLoop()
	return nil
}

// Stop ends Watch.
func (m *ReasonMapping) Stop() error {
	var err error
	m.once.Do(func() {
		close(m.stopCh)
		if m.watcher != nil {
			err = m.watcher.Close()
		}
	})
	return err
}

func (m *ReasonMapping) watchLoop() {
	target := filepath.Clean(m.path)
	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if err := m.reload(); err != nil {
					zap.S().Warnf("Keeping previous reason mapping: %s", err)
				}
			}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			zap.S().Warnf("Reason mapping watcher error: %s", err)
		case <-m.stopCh:
			return
		}
	}
}
