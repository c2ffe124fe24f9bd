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
	"github.com/walteh/retree/pkg/diff"
)

func NewDiffCmd(o *opts.RootOpts) *cobra.Command {
	var (
		run          runFlags
		contextLines int
		colorFlag    string
	)

	cmd := &cobra.Command{
		Use:   "diff <path> <rules>",
		Short: "Preview a refactor as unified diffs without touching the tree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			mode, err := diff.ParseColorMode(colorFlag)
			if err != nil {
				return err
			}

			cfg, err := loadRules(ctx, o, args[1])
			if err != nil {
				return err
			}
			run.apply(cmd, cfg)

			report, err := diff.Run(ctx, diff.Options{
				Source:           args[0],
				Rules:            cfg.Rules,
				Context:          contextLines,
				Workers:          cfg.Workers,
				Ignore:           cfg.Ignore,
				BinaryExtensions: cfg.BinaryExtensions,
				Logger:           o.Logger,
			})
			if err != nil {
				return err
			}

			return report.Write(o.Stdout, mode.Enabled(o.Stdout))
		},
	}

	run.register(cmd)
	cmd.Flags().IntVarP(&contextLines, "context", "U", diff.DefaultContext, "lines of context around each change")
	cmd.Flags().StringVar(&colorFlag, "color", string(diff.ColorAuto), "colorize output: auto, on or off")

	return cmd
}
