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
	"time"

	"github.com/google/uuid"

	"github.com/abcum/logstuff/log"
)

// requestIDHeader is the header a request's correlation id is echoed
// back on, for a client or reverse proxy that wants to tie its own logs
// to a line in this process's log output.
const requestIDHeader = "X-Request-Id"

// recoverAndLog logs each request's method, path, status and duration
// under a per-request correlation id, and turns a panic inside a handler
// into a 500 instead of taking the listener down.
func recoverAndLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		reqID := uuid.New().String()
		w.Header().Set(requestIDHeader, reqID)

		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if p := recover(); p != nil {
				log.Errorf("[%s] panic handling %s %s: %v", reqID, r.Method, r.URL.Path, p)
				if !rec.wroteHeader {
					writeError(rec, http.StatusInternalServerError, "internal server error")
				}
			}
		}()

		next.ServeHTTP(rec, r)

		log.Debugf("[%s] %s %s -> %d (%s)", reqID, r.Method, r.URL.Path, rec.status, time.Since(started))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(code)
}
