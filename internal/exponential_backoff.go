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

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Backoff computes randomized exponential delays between reconnect attempts.
// The n-th attempt waits a random multiple of Slot in [0, 2^n), capped at Max.
type Backoff struct {
	Slot time.Duration
	Max  time.Duration
}

// DefaultBackoff is used by the query layer between retries.
var DefaultBackoff = Backoff{Slot: 100 * time.Millisecond, Max: 2 * time.Second}

// GetBackoffTime returns the delay for the given attempt.
func GetBackoffTime(retries int64, slotTime time.Duration, maximum time.Duration) time.Duration {
	if slotTime <= 0 || retries <= 0 {
		return 0
	}
	// 2^retries overflows int64 from 63 on
	if retries >= 63 {
		return maximum
	}
	limit := int64(1) << retries
	n := rand.Int63n(limit) //nolint:gosec

	if n > 0 && slotTime.Nanoseconds() > math.MaxInt64/n {
		return maximum
	}
	backoff := time.Duration(n) * slotTime
	if backoff > maximum {
		backoff = maximum
	}
	return backoff
}

// Delay returns the delay for attempt.
func (b Backoff) Delay(attempt int64) time.Duration {
	return GetBackoffTime(attempt, b.Slot, b.Max)
}

// Sleep blocks for the delay of attempt or until ctx is done.
func (b Backoff) Sleep(ctx context.Context, attempt int64) error {
	d := b.Delay(attempt)
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
