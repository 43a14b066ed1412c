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

package event

import (
	"fmt"
	"sort"
)

// flattenInto walks value and writes every scalar leaf into doc under a
// dotted key built from prefix and the traversed path. Nested objects are
// descended into; arrays are indexed by position.
func flattenInto(doc map[string]interface{}, prefix string, value interface{}) {
	switch v := value.(type) {
	case map[string]interface{}:
		for k, sub := range v {
			flattenInto(doc, prefix+"."+k, sub)
		}
	case []interface{}:
		for i, sub := range v {
			flattenInto(doc, fmt.Sprintf("%s.%d", prefix, i), sub)
		}
	default:
		doc[prefix] = v
	}
}

// flatten renders a nested JSON value as a space-joined, key-sorted list of
// "k=v" pairs, used by GetPrintable for array- and object-valued fields.
func flatten(value interface{}) string {

	unnested := map[string]interface{}{}
	flattenInto(unnested, "", value)

	keys := make([]string, 0, len(unnested))
	for k := range unnested {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		key := k
		if len(key) > 0 && key[0] == '.' {
			key = key[1:]
		}
		parts = append(parts, fmt.Sprintf("%s=%v", key, unnested[k]))
	}

	return join(parts, " ")
}

// severityNames maps rsyslog's decimal severity codes to lowercase names.
var severityNames = map[string]string{
	"0": "emergency",
	"1": "alert",
	"2": "critical",
	"3": "error",
	"4": "warning",
	"5": "notice",
	"6": "info",
	"7": "debug",
}

// facilityNames maps rsyslog's decimal facility codes to lowercase names.
var facilityNames = map[string]string{
	"0":  "kern",
	"1":  "user",
	"2":  "mail",
	"3":  "daemon",
	"4":  "auth",
	"5":  "syslog",
	"6":  "lpr",
	"7":  "news",
	"8":  "uucp",
	"9":  "cron",
	"10": "authpriv",
	"11": "ftp",
	"12": "ntp",
	"13": "security",
	"14": "console",
	"15": "solariscron",
	"16": "local0",
	"17": "local1",
	"18": "local2",
	"19": "local3",
	"20": "local4",
	"21": "local5",
	"22": "local6",
	"23": "local7",
}

func severityName(code string) (string, error) {
	name, ok := severityNames[code]
	if !ok {
		return "", fmt.Errorf("invalid syslogseverity %q", code)
	}
	return name, nil
}

func facilityName(code string) (string, error) {
	name, ok := facilityNames[code]
	if !ok {
		return "", fmt.Errorf("invalid syslogfacility %q", code)
	}
	return name, nil
}
