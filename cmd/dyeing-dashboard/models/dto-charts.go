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

import "github.com/united-manufacturing-hub/dyeing-dashboard/pkg/datamodel"

// Chart identifiers used in URLs and element ids.
const (
	Chart1 = "chart-1"
	Chart2 = "chart-2"
	Chart3 = "chart-3"
	Chart4 = "chart-4"
	Chart5 = "chart-5"
	Chart6 = "chart-6"
)

// ChartIDs lists the charts in grid order.
var ChartIDs = []string{Chart1, Chart2, Chart3, Chart4, Chart5, Chart6}

var storeKeys = map[string]string{
	Chart1: datamodel.Chart1Key,
	Chart2: datamodel.Chart2Key,
	Chart3: datamodel.Chart3Key,
	Chart4: datamodel.Chart4Key,
	Chart5: datamodel.Chart5Key,
	Chart6: datamodel.Chart6Key,
}

// StoreKey returns the data store key of a chart id.
func StoreKey(chartID string) (string, bool) {
	k, ok := storeKeys[chartID]
	return k, ok
}

// IsChartID reports whether id names one of the six charts.
func IsChartID(id string) bool {
	_, ok := storeKeys[id]
	return ok
}

// Variants of a page.
const (
	VariantDesktop = datamodel.VariantDesktop
	VariantMobile  = datamodel.VariantMobile
	VariantDetail  = "detail"
)

// IsPeriod reports whether p is a selectable period of the period buttons.
func IsPeriod(p string) bool {
	for _, v := range datamodel.DefaultPeriods {
		if v == p {
			return true
		}
	}
	return false
}

// IsTimeframe reports whether p is a timeline window.
func IsTimeframe(p string) bool {
	for _, v := range datamodel.Timeframes {
		if v == p {
			return true
		}
	}
	return false
}
