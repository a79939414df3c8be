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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTieredCacheMemoryOnly(t *testing.T) {
	c := NewTieredCache("", "", "", "", 0, false, time.Minute)
	defer c.Close()

	ctx := context.Background()
	_, found := c.Get(ctx, "missing")
	assert.False(t, found)

	c.Set(ctx, "k", []byte("v"))
	v, found := c.Get(ctx, "k")
	assert.True(t, found)
	assert.Equal(t, []byte("v"), v)
	assert.False(t, c.IsRedisAvailable(ctx))
}

func TestTieredCacheDryRun(t *testing.T) {
	c := NewTieredCache("localhost:26379", "", "", "", 0, true, time.Minute)
	assert.Nil(t, c.rdb)
}
