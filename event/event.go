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

// Package event normalizes raw rsyslog jsonmesg records into the canonical
// document shape the logs table stores.
package event

import (
	"encoding/json"
	"fmt"
	"time"
)

// ftsFields are the scalar doc keys folded into the derived search string
// verbatim; every vars.* key is folded in as a k=v pair alongside them.
var ftsFields = map[string]bool{
	"hostname":  true,
	"syslogtag": true,
	"msg":       true,
}

// Event is the canonical in-memory record. It is built once per ingest
// line and never mutated afterwards, except for one clone-and-swap that
// may exchange the msg and vars.msg fields.
type Event struct {
	Timestamp time.Time
	Doc       map[string]interface{}
}

// raw mirrors the rsyslog "jsonmesg" property shape read from stdin.
type raw struct {
	Msg              string          `json:"msg"`
	Rawmsg           string          `json:"rawmsg"`
	TimeReported     time.Time       `json:"timereported"`
	TimeGenerated    time.Time       `json:"timegenerated"`
	Hostname         string          `json:"hostname"`
	Syslogtag        string          `json:"syslogtag"`
	Inputname        string          `json:"inputname"`
	Fromhost         string          `json:"fromhost"`
	FromhostIP       string          `json:"fromhost-ip"`
	Pri              string          `json:"pri"`
	Syslogseverity   string          `json:"syslogseverity"`
	Syslogfacility   string          `json:"syslogfacility"`
	Programname      string          `json:"programname"`
	ProtocolVersion  string          `json:"protocol-version"`
	StructuredData   string          `json:"structured-data"`
	AppName          string          `json:"app-name"`
	Procid           *string         `json:"procid,omitempty"`
	Msgid            *string         `json:"msgid,omitempty"`
	UUID             *string         `json:"uuid,omitempty"`
	MessageVariables json.RawMessage `json:"$!,omitempty"`
}

// FromRaw parses one ingest line and builds its canonical Event. Recognized
// scalar fields are copied verbatim; rawmsg, pri and structured-data are
// deliberately not carried into doc, since they duplicate information
// already present in the other fields. The $! object, if present, is
// flattened into vars.<dotted.path> keys.
func FromRaw(line []byte) (*Event, error) {

	var r raw

	if err := json.Unmarshal(line, &r); err != nil {
		return nil, err
	}

	severity, err := severityName(r.Syslogseverity)
	if err != nil {
		return nil, err
	}

	facility, err := facilityName(r.Syslogfacility)
	if err != nil {
		return nil, err
	}

	doc := map[string]interface{}{
		"hostname":         r.Hostname,
		"syslogtag":        r.Syslogtag,
		"msg":              r.Msg,
		"timereported":     r.TimeReported.Format(time.RFC3339),
		"timegenerated":    r.TimeGenerated.Format(time.RFC3339),
		"programname":      r.Programname,
		"fromhost":         r.Fromhost,
		"fromhost_ip":      r.FromhostIP,
		"syslogfacility":   facility,
		"syslogseverity":   severity,
		"inputname":        r.Inputname,
		"app_name":         r.AppName,
		"protocol_version": r.ProtocolVersion,
	}

	if r.Procid != nil {
		doc["procid"] = *r.Procid
	}
	if r.Msgid != nil {
		doc["msgid"] = *r.Msgid
	}
	if r.UUID != nil {
		doc["uuid"] = *r.UUID
	}

	if len(r.MessageVariables) > 0 {
		var vars interface{}
		if err := json.Unmarshal(r.MessageVariables, &vars); err != nil {
			return nil, err
		}
		flattenInto(doc, "vars", vars)
	}

	return &Event{
		Timestamp: r.TimeReported,
		Doc:       doc,
	}, nil
}

// SwapMsgVars exchanges the msg and vars.msg fields, so a daemon-provided
// application message takes the primary msg slot. It is a no-op when
// vars.msg is absent.
func (e *Event) SwapMsgVars() {
	v, ok := e.Doc["vars.msg"]
	if !ok {
		return
	}
	old := e.Doc["msg"]
	e.Doc["msg"] = v
	e.Doc["vars.msg"] = old
}

// SearchString builds the full-text-search source for the event: the
// JSON-serialized form of hostname, syslogtag and msg, plus a "k=v" pair
// per vars.* entry, all space-joined.
func (e *Event) SearchString() string {

	var parts []string

	for k, v := range e.Doc {
		switch {
		case ftsFields[k]:
			parts = append(parts, toJSONString(v))
		case len(k) > 5 && k[:5] == "vars.":
			parts = append(parts, fmt.Sprintf("%s=%s", k, toJSONString(v)))
		}
	}

	return join(parts, " ")
}

// GetPrintable renders doc[key] as a human-readable string: scalars in
// their natural form, arrays and objects as a flattened "k=v" listing.
func (e *Event) GetPrintable(key string) (string, bool) {

	v, ok := e.Doc[key]
	if !ok {
		return "", false
	}

	switch x := v.(type) {
	case string:
		return x, true
	case nil:
		return "null", true
	case bool:
		if x {
			return "true", true
		}
		return "false", true
	case map[string]interface{}, []interface{}:
		return flatten(x), true
	default:
		return fmt.Sprint(x), true
	}
}

// String renders the event the way logtail prints a replayed line:
// "<time> <hostname> <syslogtag> <msg>".
func (e *Event) String() string {

	s := e.Timestamp.Format("2006-01-02 15:04:05")

	for _, key := range []string{"hostname", "syslogtag", "msg"} {
		if v, ok := e.GetPrintable(key); ok {
			s += " " + v
		}
	}

	return s
}

func toJSONString(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func join(parts []string, sep string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return out
}
