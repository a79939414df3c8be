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

import "strings"

const (
	LanguageEnglish    = "en"
	LanguageSimplified = "zh_cn"
	LanguageHongKong   = "zh_hk"
)

// UsageLabels are the texts of the usage pies.
type UsageLabels struct {
	MainTitle     string
	SubplotTitles [3]string
	// Legend follows the order running, idle, down, repair
	Legend [4]string
}

// ResourceLabels are the texts of the resource consumption bars.
type ResourceLabels struct {
	MainTitle     string
	SubplotTitles [3]string
	// Metrics follows the order steam, power, water
	Metrics [3]string
}

// TimelineLabels are the texts of the activity timeline.
type TimelineLabels struct {
	Title      string
	NoData     string
	DataError  string
	Now        string
	BatchLabel string
	EndLabel   string
}

// ProductionLabels are the texts of the production trend and its cards.
type ProductionLabels struct {
	Title        string
	Weight       string
	TotalWeight  string
	DailyAverage string
	TopMachine   string
}

// IdleLabels are the texts of the stop reason bars and their cards.
type IdleLabels struct {
	Title          string
	Highest        string
	Lowest         string
	Overall        string
	TotalHours     string
	AveragePerUnit string
	MachineCount   string
	Hours          string
	ReasonFallback string
}

// Language bundles every translated text of the dashboard.
type Language struct {
	Code          string
	Title         string
	Periods       map[string]string
	NoData        string
	CheckData     string
	Back          string
	NotFound      string
	StatusTitle   string
	StatusRenames map[string]string
	Usage         UsageLabels
	Resource      ResourceLabels
	Timeline      TimelineLabels
	Production    ProductionLabels
	Idle          IdleLabels
	Themes        map[string]string
}

var languages = map[string]Language{
	LanguageEnglish: {
		Code:  LanguageEnglish,
		Title: "Dyeing Factory Dashboard",
		Periods: map[string]string{
			"today": "Today", "this_week": "This Week", "this_month": "This Month",
			"24_hrs": "24 Hours", "48_hrs": "48 Hours", "72_hrs": "72 Hours",
		},
		NoData:      "No data to display for %s",
		CheckData:   "Please check data availability or report the issue.",
		Back:        "Back to dashboard",
		NotFound:    "Chart %s does not exist",
		StatusTitle: "Machine Status",
		Usage: UsageLabels{
			MainTitle:     "Machine Usage",
			SubplotTitles: [3]string{"Average", "Best", "Worst"},
			Legend:        [4]string{"Running", "Idle", "Down", "Repair"},
		},
		Resource: ResourceLabels{
			MainTitle:     "Machine Resource Consumption",
			SubplotTitles: [3]string{"Average", "Best", "Worst"},
			Metrics:       [3]string{"Steam (ton)", "Power (kWh)", "Water (ton)"},
		},
		Timeline: TimelineLabels{
			Title:      "Machine Activity Timeline",
			NoData:     "No activity data to display.",
			DataError:  "Data Error for Timeline",
			Now:        "Now",
			BatchLabel: "Batch",
			EndLabel:   "Expected end",
		},
		Production: ProductionLabels{
			Title:        "Production Volume",
			Weight:       "Weight (kg)",
			TotalWeight:  "Total weight",
			DailyAverage: "Daily average",
			TopMachine:   "Top machine",
		},
		Idle: IdleLabels{
			Title:          "Machine Idle Reasons",
			Highest:        "Longest idle machine",
			Lowest:         "Shortest idle machine",
			Overall:        "%s overall",
			TotalHours:     "Total idle hours",
			AveragePerUnit: "Average idle hours",
			MachineCount:   "Machines",
			Hours:          "h",
			ReasonFallback: "Reason %s",
		},
		Themes: map[string]string{"black": "Black", "dark_blue": "Dark Blue", "white": "White"},
	},
	LanguageSimplified: {
		Code:  LanguageSimplified,
		Title: "染厂生产看板",
		Periods: map[string]string{
			"today": "今日", "this_week": "本周", "this_month": "本月",
			"24_hrs": "24小时", "48_hrs": "48小时", "72_hrs": "72小时",
		},
		NoData:      "%s 无数据显示",
		CheckData:   "请检查数据可用性或报告问题。",
		Back:        "返回主页",
		NotFound:    "图表 %s 不存在",
		StatusTitle: "设备状态",
		StatusRenames: map[string]string{
			"machine_name":         "机号",
			"state":                "状态",
			"user_prompt":          "叫人",
			"num_of_alarms":        "警报",
			"mt_temperature":       "温度C",
			"batch_no":             "批次号",
			"program_name":         "程序名",
			"current_step":         "当前步骤",
			"next_step":            "下一步",
			"minutes_run":          "运行(分钟)",
			"expected_finish_time": "预计完成时间",
			"steps":                "步骤",
		},
		Usage: UsageLabels{
			MainTitle:     "设备使用率",
			SubplotTitles: [3]string{"平均", "最佳", "最差"},
			Legend:        [4]string{"运行", "闲置", "停机", "维修"},
		},
		Resource: ResourceLabels{
			MainTitle:     "能耗/KG",
			SubplotTitles: [3]string{"平均", "最佳", "最差"},
			Metrics:       [3]string{"汽", "电", "水"},
		},
		Timeline: TimelineLabels{
			Title:      "设备活动时间线",
			NoData:     "无活动数据显示。",
			DataError:  "时间线数据错误",
			Now:        "现在",
			BatchLabel: "批次",
			EndLabel:   "预计结束",
		},
		Production: ProductionLabels{
			Title:        "生产量",
			Weight:       "重量 (公斤)",
			TotalWeight:  "总产量",
			DailyAverage: "日均产量",
			TopMachine:   "最高产量机台",
		},
		Idle: IdleLabels{
			Title:          "待机原因",
			Highest:        "最长待机机台",
			Lowest:         "最短待机机台",
			Overall:        "%s 整体统计",
			TotalHours:     "总待机时数",
			AveragePerUnit: "平均待机时数",
			MachineCount:   "机台数",
			Hours:          "小时",
			ReasonFallback: "原因 %s",
		},
		Themes: map[string]string{"black": "黑色", "dark_blue": "深蓝", "white": "白色"},
	},
	LanguageHongKong: {
		Code:  LanguageHongKong,
		Title: "染廠生產看板",
		Periods: map[string]string{
			"today": "今日", "this_week": "本週", "this_month": "本月",
			"24_hrs": "24小時", "48_hrs": "48小時", "72_hrs": "72小時",
		},
		NoData:      "%s 沒有數據顯示",
		CheckData:   "請檢查數據可用性或報告問題。",
		Back:        "返回主頁",
		NotFound:    "圖表 %s 不存在",
		StatusTitle: "設備狀態",
		StatusRenames: map[string]string{
			"machine_name":         "機號",
			"state":                "狀態",
			"user_prompt":          "叫人",
			"num_of_alarms":        "警報",
			"mt_temperature":       "溫度C",
			"batch_no":             "批次號",
			"program_name":         "程序名",
			"current_step":         "當前步驟",
			"next_step":            "下一步",
			"minutes_run":          "運行(分鐘)",
			"expected_finish_time": "預計完成時間",
			"steps":                "步驟",
		},
		Usage: UsageLabels{
			MainTitle:     "設備使用率",
			SubplotTitles: [3]string{"平均", "最佳", "最差"},
			Legend:        [4]string{"運行", "閒置", "停機", "維修"},
		},
		Resource: ResourceLabels{
			MainTitle:     "能耗/KG",
			SubplotTitles: [3]string{"平均", "最佳", "最差"},
			Metrics:       [3]string{"蒸汽量 (噸)", "用電量 (kWh)", "用水量 (噸)"},
		},
		Timeline: TimelineLabels{
			Title:      "設備活動時間線",
			NoData:     "沒有活動數據顯示。",
			DataError:  "時間線數據錯誤",
			Now:        "現在",
			BatchLabel: "批次",
			EndLabel:   "預計結束",
		},
		Production: ProductionLabels{
			Title:        "生產量",
			Weight:       "重量 (公斤)",
			TotalWeight:  "總產量",
			DailyAverage: "日均產量",
			TopMachine:   "最高產量機台",
		},
		Idle: IdleLabels{
			Title:          "待機原因",
			Highest:        "最長待機機台",
			Lowest:         "最短待機機台",
			Overall:        "%s 整體統計",
			TotalHours:     "總待機時數",
			AveragePerUnit: "平均待機時數",
			MachineCount:   "機台數",
			Hours:          "小時",
			ReasonFallback: "原因 %s",
		},
		Themes: map[string]string{"black": "黑色", "dark_blue": "深藍", "white": "白色"},
	},
}

// normalizeLanguage accepts the aliases used by older configurations.
func normalizeLanguage(code string) string {
	c := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(code), "-", "_"))
	switch c {
	case "zh_hant", "zh_tw":
		return LanguageHongKong
	case "zh", "zh_hans":
		return LanguageSimplified
	}
	return c
}

// IsLanguage reports whether code names a known language.
func IsLanguage(code string) bool {
	_, ok := languages[normalizeLanguage(code)]
	return ok
}

// GetLanguage returns the labels of code. Unknown codes fall back to English.
func GetLanguage(code string) Language {
	if l, ok := languages[normalizeLanguage(code)]; ok {
		return l
	}
	return languages[LanguageEnglish]
}

// StatusColumnRenames returns the chart 2 column renames of code.
func StatusColumnRenames(code string) map[string]string {
	return GetLanguage(code).StatusRenames
}

// PeriodName returns the display name of a period.
func (l Language) PeriodName(period string) string {
	if n, ok := l.Periods[period]; ok {
		return n
	}
	return period
}
