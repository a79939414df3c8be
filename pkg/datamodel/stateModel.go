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

package datamodel

import (
	"strings"

	"golang.org/x/exp/slices"
)

// MachineState is the abstract state of a dyeing machine.
type MachineState int

const (
	// UnknownState is used for labels that match no known state
	UnknownState MachineState = iota
	// RunningState means the machine is dyeing
	RunningState
	// StoppedState means the machine stopped without being switched off
	StoppedState
	// PausedState means the operator paused the running program
	PausedState
	// ShutdownState means the machine is switched off
	ShutdownState
	// RepairState means the machine is under maintenance
	RepairState
)

// State colors shared by the usage pies, the status table and the timeline labels.
const (
	ColorRunning = "#2ecc71"
	ColorIdle    = "#f1c40f"
	ColorDown    = "#e74c3c"
	ColorRepair  = "#3498db"
	ColorUnknown = "#ffffff"
)

var stateLabels = map[string]MachineState{
	"行机": RunningState, "行機": RunningState, "运行": RunningState, "運行": RunningState,
	"running": RunningState, "run": RunningState,
	"停机": StoppedState, "停機": StoppedState, "stopped": StoppedState, "stop": StoppedState, "down": StoppedState,
	"暂停": PausedState, "暫停": PausedState, "paused": PausedState, "pause": PausedState,
	"关机": ShutdownState, "關機": ShutdownState, "shutdown": ShutdownState, "off": ShutdownState,
	"维修": RepairState, "維修": RepairState, "repair": RepairState,
}

// ParseState maps a source label, Chinese or English, to a MachineState.
func ParseState(label string) MachineState {
	if s, ok := stateLabels[strings.ToLower(strings.TrimSpace(label))]; ok {
		return s
	}
	return UnknownState
}

// Color returns the display color of the state.
func (s MachineState) Color() string {
	switch s {
	case RunningState:
		return ColorRunning
	case PausedState:
		return ColorIdle
	case StoppedState, ShutdownState:
		return ColorDown
	case RepairState:
		return ColorRepair
	}
	return ColorUnknown
}

// StateLabels returns every source label of the state, used to build
// conditional table styles.
func StateLabels(s MachineState) []string {
	var out []string
	for label, st := range stateLabels {
		if st == s {
			out = append(out, label)
		}
	}
	slices.Sort(out)
	return out
}
