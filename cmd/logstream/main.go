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

// Command logstream serves the /events and /counts query HTTP API over
// the events a logimport daemon has written to Postgres.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/abcum/logstuff/aggregate"
	"github.com/abcum/logstuff/cli"
	"github.com/abcum/logstuff/cnf"
	"github.com/abcum/logstuff/httpapi"
	"github.com/abcum/logstuff/log"
	"github.com/abcum/logstuff/storage"
)

func main() {
	cmd := cli.NewRootCommand("logstream", "Serve the log query HTTP API", run)
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

	httpCfg, err := opts.HTTPConfig()
	if err != nil {
		return err
	}

	agg := aggregate.New(pool, opts.RootTableName)
	server := httpapi.New(httpCfg, agg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		return server.Close()
	case err := <-errCh:
		return err
	}
}
