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

package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/retree/cmd/retree/opts"
	"github.com/walteh/retree/pkg/permissions"
)

func NewFixPermissionsCmd(o *opts.RootOpts) *cobra.Command {
	var (
		executables []string
		skipDirs    []string
	)

	cmd := &cobra.Command{
		Use:   "fix-permissions [path]",
		Short: "Normalize directory and file modes under a tree",
		Long: `Directories become 0755. Files with any execute bit, and the listed
executables, become 0755. Every other file becomes 0644.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := workingDir(args)
			if err != nil {
				return err
			}

			var popts permissions.Options
			if cmd.Flags().Changed("executable") {
				popts.Executables = executables
			}
			if cmd.Flags().Changed("skip-dir") {
				popts.SkipDirs = skipDirs
			}

			res, err := permissions.Fix(cmd.Context(), root, popts)
			if err != nil {
				return err
			}

			if o.Console != nil {
				o.Console.Successf("checked %d directories and %d files, changed %d", res.Dirs, res.Files, res.Changed)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&executables, "executable", permissions.DefaultExecutables, "path forced to 0755 (repeatable)")
	cmd.Flags().StringSliceVar(&skipDirs, "skip-dir", permissions.DefaultSkipDirs, "directory name to leave alone (repeatable)")

	return cmd
}
