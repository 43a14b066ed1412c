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
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/abcum/logstuff/aggregate"
	"github.com/abcum/logstuff/log"
	"github.com/abcum/logstuff/query"
)

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func parseWindow(q map[string][]string) (start, end time.Time, err error) {

	get := func(key string) string {
		if v, ok := q[key]; ok && len(v) > 0 {
			return v[0]
		}
		return ""
	}

	start, err = time.Parse(time.RFC3339, get("start"))
	if err != nil {
		return start, end, err
	}

	end, err = time.Parse(time.RFC3339, get("end"))
	if err != nil {
		return start, end, err
	}

	return start, end, nil
}

// handleEvents answers GET /events, per spec §6. Query-parameter decoding
// failures (including a malformed query expression) yield 400 before any
// byte of the body is written; once the envelope starts streaming, a
// sub-query failure is logged and simply truncates the body, per §7.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodGet {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	values := r.URL.Query()

	start, end, err := parseWindow(values)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid or missing start/end parameter")
		return
	}

	queryExpr := values.Get("query")
	if _, _, err := query.Compile(queryExpr, 1); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var limitEvents int64
	if v := values.Get("limit_events"); v != "" {
		limitEvents, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit_events parameter")
			return
		}
	}

	req := aggregate.EventsRequest{
		Start:       start,
		End:         end,
		Query:       queryExpr,
		LimitEvents: limitEvents,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := s.agg.Events(r.Context(), w, req); err != nil {
		log.Errorf("events request failed: %s", err)
	}
}

// handleCounts answers GET /counts, per spec §6.
func (s *Server) handleCounts(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodGet {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	values := r.URL.Query()

	start, end, err := parseWindow(values)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid or missing start/end parameter")
		return
	}

	queryExpr := values.Get("query")
	if _, _, err := query.Compile(queryExpr, 1); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var maxBuckets int64
	if v := values.Get("max_buckets"); v != "" {
		maxBuckets, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid max_buckets parameter")
			return
		}
	}

	var missingIsZero bool
	if v := values.Get("missing_value_is_zero"); v != "" {
		missingIsZero, err = strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid missing_value_is_zero parameter")
			return
		}
	}

	req := aggregate.CountsRequest{
		Start:              start,
		End:                end,
		Query:              queryExpr,
		SplitBy:            values.Get("split_by"),
		MaxBuckets:         maxBuckets,
		Value:              values.Get("value"),
		Aggregate:          values.Get("aggregate"),
		MissingValueIsZero: missingIsZero,
	}

	if req.Value != "" && req.Aggregate == "" {
		writeError(w, http.StatusBadRequest, "value given without aggregate")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := s.agg.Counts(r.Context(), w, req); err != nil {
		log.Errorf("counts request failed: %s", err)
	}
}
