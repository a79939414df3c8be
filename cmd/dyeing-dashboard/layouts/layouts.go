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

// Package layouts holds the page templates and the browser side of the
// reactive bindings.
package layouts

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

// PlotlyURL is loaded by every page.
const PlotlyURL = "https://cdn.plot.ly/plotly-2.27.0.min.js"

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Template names.
const (
	Dashboard = "dashboard.html"
	Detail    = "detail.html"
	NotFound  = "notfound.html"
)

var funcs = template.FuncMap{
	"plotly": func() string { return PlotlyURL },
}

// Templates parses all page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// MustTemplates is Templates for program start.
func MustTemplates() *template.Template {
	return template.Must(Templates())
}

// Static serves the scripts and style sheets below /static.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
