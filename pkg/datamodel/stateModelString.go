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

// ConvertStateToString converts a state to a human readable string
func ConvertStateToString(state MachineState, language string) (stateString string) {
	switch language {
	case "zh_cn":
		switch state {
		case RunningState:
			stateString = "行机"
		case StoppedState:
			stateString = "停机"
		case PausedState:
			stateString = "暂停"
		case ShutdownState:
			stateString = "关机"
		case RepairState:
			stateString = "维修"
		default:
			stateString = "未知"
		}
	case "zh_hk":
		switch state {
		case RunningState:
			stateString = "行機"
		case StoppedState:
			stateString = "停機"
		case PausedState:
			stateString = "暫停"
		case ShutdownState:
			stateString = "關機"
		case RepairState:
			stateString = "維修"
		default:
			stateString = "未知"
		}
	default: //ENGLISH
		switch state {
		case RunningState:
			stateString = "Running"
		case StoppedState:
			stateString = "Stopped"
		case PausedState:
			stateString = "Paused"
		case ShutdownState:
			stateString = "Shutdown"
		case RepairState:
			stateString = "Repair"
		default:
			stateString = "Unknown"
		}
	}
	return
}
