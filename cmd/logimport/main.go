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

// Command logimport is the ingest daemon: it reads newline-delimited
// rsyslog JSON events from stdin, inserts them into Postgres, and
// acknowledges each one on stdout.
package main

import (
	"os"

	"github.com/abcum/logstuff/cli"
	"github.com/abcum/logstuff/cnf"
	"github.com/abcum/logstuff/ingest"
	"github.com/abcum/logstuff/log"
	"github.com/abcum/logstuff/storage"
)

func main() {
	cmd := cli.NewRootCommand("logimport", "Ingest rsyslog events into Postgres", run)
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(f *cli.Flags) error {

	opts, err := cnf.Load(f.Config)
	if err != nil {
		return err
	}

	dsn, err := opts.DSN()
	if err != nil {
		return err
	}

	pool, err := storage.Open(dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	ingestCfg, err := opts.IngestConfig()
	if err != nil {
		return err
	}

	pipeline := ingest.New(pool, ingestCfg)

	// A clean EOF on stdin normally ends the process; when auto_restart
	// is set the loop is re-entered instead, so a reattached stdin (for
	// example after the upstream rsyslog process respawns its pipe) is
	// picked back up rather than requiring an external process
	// supervisor to notice the exit and relaunch logimport itself.
	for {
		if err := pipeline.Run(os.Stdin, os.Stdout); err != nil {
			return err
		}
		if !ingestCfg.AutoRestart {
			return nil
		}
		log.Info("stdin reached EOF, auto_restart is set: resuming ingest loop")
	}
}
