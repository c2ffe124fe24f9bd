// Copyright 2025 walteh LLC
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
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/retree/cmd/retree/commands"
	"github.com/walteh/retree/cmd/retree/opts"
	"github.com/walteh/retree/pkg/log"
)

// newRootCmd wires every command to o. Fields left nil in o are filled in
// before the first command runs.
func newRootCmd(o *opts.RootOpts) *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "retree",
		Short: "Refactor a directory tree with search/replace rules",
		Long: `retree rewrites file contents and file paths under a directory using
ordered search/replace rules, in place or into a separate destination.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if o.Logger == nil {
				nop := zerolog.Nop()
				o.Logger = &nop
			}
			if debug {
				l := o.Logger.Level(zerolog.DebugLevel)
				o.Logger = &l
			}
			if o.Console == nil {
				o.Console = log.New(o.Stdout, *o.Logger)
			}
			cmd.SetContext(o.Logger.WithContext(cmd.Context()))
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	rootCmd.AddCommand(
		commands.NewRefactorCmd(o),
		commands.NewDiffCmd(o),
		commands.NewFixPermissionsCmd(o),
		commands.NewVersionCmd(o),
	)

	return rootCmd
}
