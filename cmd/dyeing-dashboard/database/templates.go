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

package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// PeriodToken pairs a period name with the SQL token substituted for
// {period_replace}. In most files both are the same.
type PeriodToken struct {
	Name  string
	Token string
}

var placeholderRegex = regexp.MustCompile(`\{\{|\}\}|\{([A-Za-z_][A-Za-z0-9_]*)\}`)

type cachedTemplate struct {
	modTime time.Time
	text    string
}

// TemplateStore loads SQL templates and their _replace.yml companions from a
// directory. Files are cached and reread when they change on disk.
type TemplateStore struct {
	cache *lru.ARCCache
	dir   string
}

func NewTemplateStore(dir string) (*TemplateStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: template directory: %w", ErrConfig, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrConfig, dir)
	}
	cache, err := lru.NewARC(64)
	if err != nil {
		return nil, err
	}
	return &TemplateStore{dir: dir, cache: cache}, nil
}

// Dir is the template directory.
func (s *TemplateStore) Dir() string { return s.dir }

func (s *TemplateStore) readFile(file string) (string, error) {
	path := filepath.Join(s.dir, file)
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if v, ok := s.cache.Get(file); ok {
		if c := v.(cachedTemplate); c.modTime.Equal(info.ModTime()) {
			return c.text, nil
		}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrConfig, err)
	}
	text := strings.TrimPrefix(string(b), "\ufeff")
	s.cache.Add(file, cachedTemplate{modTime: info.ModTime(), text: text})
	return text, nil
}

// Read returns the raw text of <name>.sql.
func (s *TemplateStore) Read(name string) (string, error) {
	return s.readFile(name + ".sql")
}

// Render reads <name>.sql and substitutes {placeholder} tokens. {{ and }}
// stand for literal braces.
func (s *TemplateStore) Render(name string, substitutions map[string]string) (string, error) {
	text, err := s.Read(name)
	if err != nil {
		return "", err
	}
	out, err := Substitute(text, substitutions)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// Substitute replaces {placeholder} tokens. Every placeholder in text must
// have a substitution.
func Substitute(text string, substitutions map[string]string) (string, error) {
	var missing []string
	out := placeholderRegex.ReplaceAllStringFunc(text, func(m string) string {
		switch m {
		case "{{":
			return "{"
		case "}}":
			return "}"
		}
		key := m[1 : len(m)-1]
		v, ok := substitutions[key]
		if !ok {
			missing = append(missing, key)
			return m
		}
		return v
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: missing substitution for %s", ErrConfig, strings.Join(missing, ", "))
	}
	return out, nil
}

type replaceFile struct {
	PeriodReplace yaml.Node `yaml:"period_replace"`
}

// Periods returns the period tokens of <name>_replace.yml. A template
// without companion file gets the default periods.
func (s *TemplateStore) Periods(name string, defaults []string) ([]PeriodToken, error) {
	text, err := s.readFile(name + "_replace.yml")
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			zap.S().Debugf("No replace file for %s, using default periods", name)
			return tokensOf(defaults), nil
		}
		return nil, err
	}
	var rf replaceFile
	if err = yaml.Unmarshal([]byte(text), &rf); err != nil {
		return nil, fmt.Errorf("%w: %s_replace.yml: %w", ErrConfig, name, err)
	}

	switch rf.PeriodReplace.Kind {
	case yaml.SequenceNode:
		var names []string
		if err = rf.PeriodReplace.Decode(&names); err != nil {
			return nil, fmt.Errorf("%w: %s_replace.yml: %w", ErrConfig, name, err)
		}
		return tokensOf(names), nil
	case yaml.MappingNode:
		// keep the file order
		var tokens []PeriodToken
		for i := 0; i+1 < len(rf.PeriodReplace.Content); i += 2 {
			tokens = append(tokens, PeriodToken{
				Name:  rf.PeriodReplace.Content[i].Value,
				Token: rf.PeriodReplace.Content[i+1].Value,
			})
		}
		return tokens, nil
	}
	return nil, fmt.Errorf("%w: %s_replace.yml has no period_replace list", ErrConfig, name)
}

func tokensOf(names []string) []PeriodToken {
	out := make([]PeriodToken, 0, len(names))
	for _, n := range names {
		out = append(out, PeriodToken{Name: n, Token: n})
	}
	return out
}
