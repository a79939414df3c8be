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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstitute(t *testing.T) {
	out, err := Substitute("SELECT '{{a}}' WHERE p = '{period_replace}' AND q = {period_replace}", map[string]string{"period_replace": "today"})
	require.NoError(t, err)
	assert.Equal(t, "SELECT '{a}' WHERE p = 'today' AND q = today", out)

	_, err = Substitute("SELECT {x}, {y}", map[string]string{"x": "1"})
	assert.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "y")

	out, err = Substitute("SELECT 1", nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", out)
}

func TestPeriods(t *testing.T) {
	store := writeTemplates(t, map[string]string{
		"1_machine_usage_replace.yml": "period_replace:\n  - today\n  - this_week\n  - this_month\n",
		"4_machine_waste_replace.yml": "period_replace:\n  today: day\n  this_week: week\n",
		"6_machine_idle_replace.yml":  "something_else: 1\n",
	})

	tokens, err := store.Periods("1_machine_usage", nil)
	require.NoError(t, err)
	assert.Equal(t, []PeriodToken{{"today", "today"}, {"this_week", "this_week"}, {"this_month", "this_month"}}, tokens)

	tokens, err = store.Periods("4_machine_waste", nil)
	require.NoError(t, err)
	assert.Equal(t, []PeriodToken{{"today", "day"}, {"this_week", "week"}}, tokens)

	tokens, err = store.Periods("3_production_volume", []string{"today"})
	require.NoError(t, err)
	assert.Equal(t, []PeriodToken{{"today", "today"}}, tokens)

	_, err = store.Periods("6_machine_idle", nil)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestTemplateReloadsChangedFile(t *testing.T) {
	store := writeTemplates(t, map[string]string{"x.sql": "SELECT 1"})
	text, err := store.Read("x")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", text)

	path := filepath.Join(store.Dir(), "x.sql")
	require.NoError(t, os.WriteFile(path, []byte("SELECT 2"), 0o600))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	text, err = store.Read("x")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 2", text)
}

func TestNewTemplateStoreMissingDir(t *testing.T) {
	_, err := NewTemplateStore(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, ErrConfig)
}
