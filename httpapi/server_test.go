// Copyright © 2016 Abcum Ltd
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

package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abcum/logstuff/aggregate"
)

func newTestServer() *Server {
	return New(Config{ListenAddress: ":0"}, aggregate.New(nil, "logs"))
}

func TestHandleEventsRejectsMissingWindow(t *testing.T) {

	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/events?query=a%3D1", nil)
	rec := httptest.NewRecorder()

	s.handleEvents(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rec.Code)
	}
}

func TestHandleEventsRejectsMalformedQuery(t *testing.T) {

	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/events?start=2024-03-01T00:00:00Z&end=2024-03-02T00:00:00Z&query=id+%3D", nil)
	rec := httptest.NewRecorder()

	s.handleEvents(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rec.Code)
	}
}

func TestHandleEventsRejectsNonGet(t *testing.T) {

	s := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/events", nil)
	rec := httptest.NewRecorder()

	s.handleEvents(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", rec.Code)
	}
}

func TestHandleCountsRejectsValueWithoutAggregate(t *testing.T) {

	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/counts?start=2024-03-01T00:00:00Z&end=2024-03-02T00:00:00Z&value=bytes", nil)
	rec := httptest.NewRecorder()

	s.handleCounts(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rec.Code)
	}
}

func TestHandleCountsRejectsBadMaxBuckets(t *testing.T) {

	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/counts?start=2024-03-01T00:00:00Z&end=2024-03-02T00:00:00Z&max_buckets=nope", nil)
	rec := httptest.NewRecorder()

	s.handleCounts(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", rec.Code)
	}
}

func TestUnknownPathIsNotFound(t *testing.T) {

	s := New(Config{ListenAddress: ":0"}, aggregate.New(nil, "logs"))
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()

	s.inner.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", rec.Code)
	}
}

func TestEveryResponseCarriesARequestID(t *testing.T) {

	s := New(Config{ListenAddress: ":0"}, aggregate.New(nil, "logs"))
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()

	s.inner.Handler.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected a non-empty X-Request-Id header")
	}
}
