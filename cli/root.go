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

// Package cli provides the shared cobra root command both the ingest and
// query binaries build on: config-path and logging flags, a colored
// startup banner, and a version subcommand.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/abcum/logstuff/log"
)

// Flags holds the values of the persistent flags every logstuff command
// shares.
type Flags struct {
	Config    string
	LogLevel  string
	LogOutput string
	LogFormat string
}

// NewRootCommand builds the root command for a binary named use, with
// short as its one-line description. run receives the parsed Flags once
// cobra has validated arguments; it is the binary's actual entry point.
func NewRootCommand(use, short string, run func(*Flags) error) *cobra.Command {

	f := &Flags{}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		PreRun: func(cmd *cobra.Command, args []string) {
			printBanner(use)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			log.SetLevel(f.LogLevel)
			log.SetOutput(f.LogOutput)
			log.SetFormat(f.LogFormat)
			return run(f)
		},
	}

	cmd.PersistentFlags().StringVarP(&f.Config, "config", "c", "config.yaml", flags["config"])
	cmd.PersistentFlags().StringVar(&f.LogLevel, "log-level", "info", flags["log-level"])
	cmd.PersistentFlags().StringVar(&f.LogOutput, "log-output", "stdout", flags["log-output"])
	cmd.PersistentFlags().StringVar(&f.LogFormat, "log-format", "text", flags["log-format"])

	cmd.AddCommand(newVersionCommand())

	return cmd
}
