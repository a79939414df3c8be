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

package models

import "golang.org/x/exp/maps"

const (
	ThemeBlack    = "black"
	ThemeDarkBlue = "dark_blue"
	ThemeWhite    = "white"
)

// Theme is a color scheme of the page and the status table.
type Theme struct {
	Name       string `json:"name"`
	Background string `json:"background"`
	Text       string `json:"text"`
	Card       string `json:"card"`
	Border     string `json:"border"`

	TableHeader     string `json:"table_header"`
	TableHeaderText string `json:"table_header_text"`
	TableOddRow     string `json:"table_odd_row"`
	TableEvenRow    string `json:"table_even_row"`
}

var themes = map[string]Theme{
	ThemeDarkBlue: {
		Name:            ThemeDarkBlue,
		Background:      "#061023",
		Text:            "#fdfefe",
		Card:            "#16213e",
		Border:          "#3c3c3c",
		TableHeader:     "#16213e",
		TableHeaderText: "#ffffff",
		TableOddRow:     "#061023",
		TableEvenRow:    "#0c2149",
	},
	ThemeBlack: {
		Name:            ThemeBlack,
		Background:      "#202020",
		Text:            "#fdfefe",
		Card:            "#1a1a1a",
		Border:          "#3c3c3c",
		TableHeader:     "#999999",
		TableHeaderText: "#ffffff",
		TableOddRow:     "#202020",
		TableEvenRow:    "#464646",
	},
	ThemeWhite: {
		Name:            ThemeWhite,
		Background:      "#fdfefe",
		Text:            "#000000",
		Card:            "#f0f0f0",
		Border:          "#3c3c3c",
		TableHeader:     "#d0d0d0",
		TableHeaderText: "#000000",
		TableOddRow:     "#ffffff",
		TableEvenRow:    "#f0f0f0",
	},
}

// ThemeOrder is the order of the theme buttons.
var ThemeOrder = []string{ThemeBlack, ThemeDarkBlue, ThemeWhite}

// IsTheme reports whether name is a known theme.
func IsTheme(name string) bool {
	_, ok := themes[name]
	return ok
}

// GetTheme returns the theme called name, or black.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes[ThemeBlack]
}

// ThemeNames lists every theme.
func ThemeNames() []string {
	names := maps.Keys(themes)
	return sortedLike(names, ThemeOrder)
}

func sortedLike(names, order []string) []string {
	out := make([]string, 0, len(names))
	for _, o := range order {
		for _, n := range names {
			if n == o {
				out = append(out, n)
			}
		}
	}
	return out
}

// ContentStyle is the style of the page container.
func (t Theme) ContentStyle() map[string]string {
	return map[string]string{
		"backgroundColor": t.Background,
		"color":           t.Text,
		"width":           "100vw",
		"minHeight":       "100vh",
		"overflowY":       "auto",
		"position":        "relative",
	}
}

// CardStyle is the style of a chart card.
func (t Theme) CardStyle() map[string]string {
	return map[string]string{
		"backgroundColor": t.Card,
		"color":           t.Text,
		"border":          "1px solid " + t.Border,
	}
}
