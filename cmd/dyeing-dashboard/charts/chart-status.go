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
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/models"
	"github.com/united-manufacturing-hub/dyeing-dashboard/pkg/datamodel"
)

// Page sizes of the status table.
const (
	StatusPageSizeDesktop = 6
	StatusPageSizeMobile  = 4
)

// TableStyle is the theme dependent part of the status table.
type TableStyle struct {
	Header     string `json:"header"`
	HeaderText string `json:"header_text"`
	OddRow     string `json:"odd_row"`
	EvenRow    string `json:"even_row"`
	Text       string `json:"text"`
	Border     string `json:"border"`
}

// StatusTable is one page of the machine status list.
type StatusTable struct {
	Title     string     `json:"title"`
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	Page      int        `json:"page"`
	PageCount int        `json:"page_count"`
	// StateColumn is the position of the state column, -1 if absent.
	StateColumn int `json:"state_column"`
	// StateColors holds one color per row of the page.
	StateColors []string   `json:"state_colors"`
	Style       TableStyle `json:"style"`
	Empty       string     `json:"empty,omitempty"`
}

// StyleOf derives the table style of a theme.
func StyleOf(t models.Theme) TableStyle {
	return TableStyle{
		Header:     t.TableHeader,
		HeaderText: t.TableHeaderText,
		OddRow:     t.TableOddRow,
		EvenRow:    t.TableEvenRow,
		Text:       t.Text,
		Border:     t.Border,
	}
}

// PageCount is the number of pages of rows. An empty table still has one
// page.
func PageCount(rows, size int) int {
	if size <= 0 || rows <= 0 {
		return 1
	}
	return (rows + size - 1) / size
}

// PageOf maps the page turn counter onto a page.
func PageOf(n, pageCount int) int {
	if pageCount <= 0 {
		pageCount = 1
	}
	p := n % pageCount
	if p < 0 {
		p += pageCount
	}
	return p
}

// MachineStatus renders the page of the status table selected by o.N. The
// detail variant shows the whole desktop table.
func MachineStatus(d datamodel.ChartPeriodDict, o Options) StatusTable {
	key, size := datamodel.VariantDesktop, StatusPageSizeDesktop
	if o.mobile() {
		key, size = datamodel.VariantMobile, StatusPageSizeMobile
	}
	t := d.Period(key).Table(datamodel.RoleAllMachine)

	out := StatusTable{
		Title:       o.Language.StatusTitle,
		Columns:     append([]string{}, t.Columns...),
		Rows:        [][]string{},
		StateColors: []string{},
		Style:       StyleOf(o.Theme),
		StateColumn: t.ColumnIndex(stateColumn(o.Language)),
	}
	if out.StateColumn < 0 {
		out.StateColumn = t.ColumnIndex("state")
	}
	if t.IsEmpty() {
		out.PageCount = 1
		out.Empty = NoData(datamodel.PeriodToday, o).Layout.Title.Text
		return out
	}

	from, to := 0, t.Len()
	if o.Variant != models.VariantDetail {
		out.PageCount = PageCount(t.Len(), size)
		out.Page = PageOf(o.N, out.PageCount)
		from = out.Page * size
		if to > from+size {
			to = from + size
		}
	} else {
		out.PageCount = 1
	}

	for i := from; i < to; i++ {
		row := make([]string, len(t.Columns))
		for j, c := range t.Columns {
			row[j] = formatCell(t.Get(i, c))
		}
		out.Rows = append(out.Rows, row)
		color := ""
		if out.StateColumn >= 0 {
			color = datamodel.ParseState(row[out.StateColumn]).Color()
		}
		out.StateColors = append(out.StateColors, color)
	}
	return out
}

func stateColumn(l models.Language) string {
	if n, ok := l.StatusRenames["state"]; ok {
		return n
	}
	return "state"
}

func formatCell(c datamodel.Cell) string {
	if ts, ok := c.Time(); ok {
		return ts.Format("2006-01-02 15:04")
	}
	return c.String()
}
