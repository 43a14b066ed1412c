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

package cli

import (
	"fmt"

	"github.com/fatih/color"
)

const logo = `
 888      .d88888b.   .d8888b.   .d8888b. 888                .d888 8888888888
 888     d88P" "Y88b d88P  Y88b d88P  Y88b888               d88P"  888
 888     888     888 888    888 Y88b.     888               888    888
 888     888     888 888         "Y888b.  888888 888  888 888888 8888888
 888     888     888 888  88888     "Y88b.888    888  888 888    888
 888     888     888 888    888       "888888    888  888 888    888
 888     Y88b. .d88P Y88b  d88P Y88b  d88P888    Y88b 888 888    888
 88888888 "Y88888P"   "Y8888P88  "Y8888P" 888     "Y88888 888    8888888888
`

// printBanner prints the startup banner for name, coloring it the way
// the teacher's own cli.logo did with a single accent color.
func printBanner(name string) {
	fmt.Println(color.CyanString(logo))
	fmt.Printf("%s — log ingest and query service\n\n", color.New(color.Bold).Sprint(name))
}
