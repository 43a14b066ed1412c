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

package main

import (
	"bytes"
	"strings"
	"testing"
)

const tailFixtureLine = `{` +
	`"msg":"boot complete","rawmsg":"r","timereported":"2024-03-01T10:00:00Z",` +
	`"timegenerated":"2024-03-01T10:00:01Z","hostname":"db1","syslogtag":"kernel",` +
	`"inputname":"imtcp","fromhost":"db1","fromhost-ip":"10.0.0.1","pri":"13",` +
	`"syslogseverity":"6","syslogfacility":"1","programname":"p",` +
	`"protocol-version":"1","structured-data":"-","app-name":"p"` +
	`}`

func TestTailPrintsParsedLines(t *testing.T) {

	in := strings.NewReader(tailFixtureLine + "\n")
	var out bytes.Buffer

	if err := tail(in, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "db1") || !strings.Contains(got, "boot complete") {
		t.Fatalf("got output %q", got)
	}
}

func TestTailSkipsMalformedLines(t *testing.T) {

	in := strings.NewReader("not json\n" + tailFixtureLine + "\n")
	var out bytes.Buffer

	if err := tail(in, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Count(out.String(), "\n") != 1 {
		t.Fatalf("got output %q", out.String())
	}
}
