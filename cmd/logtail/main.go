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

// Command logtail replays a local rsyslog-formatted log file through the
// same line parser logimport uses, printing each event to stdout instead
// of inserting it into Postgres. It is a sibling to logimport for local
// inspection of a file before piping it at the real ingest daemon, not a
// substitute for it.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abcum/logstuff/event"
)

func main() {

	path := flag.String("file", "", "Path to a log file to replay (default: stdin)")
	flag.Parse()

	in := io.Reader(os.Stdin)

	if *path != "" {
		f, err := os.Open(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	if err := tail(in, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func tail(in io.Reader, out io.Writer) error {

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		e, err := event.FromRaw([]byte(line))
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping malformed line: %s\n", err)
			continue
		}

		if _, err := fmt.Fprintln(out, e.String()); err != nil {
			return err
		}
	}

	return scanner.Err()
}
