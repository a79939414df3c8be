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

package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// SessionCookie carries the session id.
const SessionCookie = "dyeing_session"

// Session is the server side copy of the browser stores of one client.
type Session struct {
	ID        string `json:"id"`
	Period    string `json:"period"`
	Timeframe string `json:"timeframe"`
	Theme     string `json:"theme"`
	Variant   string `json:"variant"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
}

// Sessions expire after ttl without access.
type Sessions struct {
	cache    *cache.Cache
	ttl      time.Duration
	defaults Session
}

func NewSessions(ttl time.Duration, defaults Session) *Sessions {
	return &Sessions{
		cache:    cache.New(ttl, ttl/2),
		ttl:      ttl,
		defaults: defaults,
	}
}

// Get returns the session id or false if it is unknown or expired.
func (s *Sessions) Get(id string) (Session, bool) {
	v, ok := s.cache.Get(id)
	if !ok {
		return Session{}, false
	}
	sess, ok := v.(Session)
	return sess, ok
}

// Save stores sess and restarts its expiry.
func (s *Sessions) Save(sess Session) {
	s.cache.SetDefault(sess.ID, sess)
}

// Count is the number of live sessions.
func (s *Sessions) Count() int {
	return s.cache.ItemCount()
}

// FromRequest returns the session of the cookie, or starts a new one and
// sets the cookie.
func (s *Sessions) FromRequest(c *gin.Context) Session {
	if id, err := c.Cookie(SessionCookie); err == nil && id != "" {
		if sess, ok := s.Get(id); ok {
			return sess
		}
	}
	sess := s.defaults
	sess.ID = uuid.NewString()
	s.Save(sess)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, sess.ID, int(s.ttl.Seconds()), "/", "", false, true)
	zap.S().Debugf("Started session %s", sess.ID)
	return sess
}
