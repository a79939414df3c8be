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

package internal

import "time"

const (
	// RedisSnapshotKey holds the latest serialized all-chart-data-store.
	RedisSnapshotKey = "dyeing-dashboard:snapshot"
	// RedisSnapshotVersionKey holds the fingerprint of RedisSnapshotKey.
	RedisSnapshotVersionKey = "dyeing-dashboard:snapshot:version"

	// QueryTimeout bounds every query, including waiting for a pooled connection.
	QueryTimeout = 30 * time.Second
	// MaxInFlightQueries is the pool size plus its overflow.
	MaxInFlightQueries = 15
)
