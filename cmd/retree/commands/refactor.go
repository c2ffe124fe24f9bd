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
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/walteh/retree/cmd/retree/opts"
	"github.com/walteh/retree/pkg/config"
	"github.com/walteh/retree/pkg/operation"
	"github.com/walteh/retree/pkg/rules"
	"gitlab.com/tozd/go/errors"
)

// ErrFilesFailed is returned when a run finished but some files failed.
var ErrFilesFailed = errors.Base("some files failed")

type runFlags struct {
	workers          int
	ignore           []string
	binaryExtensions []string
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 uses all CPUs)")
	cmd.Flags().StringSliceVar(&f.ignore, "ignore", nil, "extra glob of paths to skip, relative to the source (repeatable)")
	cmd.Flags().StringSliceVar(&f.binaryExtensions, "binary-ext", nil, "extra extension whose content is never rewritten (repeatable)")
}

// apply lets flags override the rule file's settings.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("workers") {
		cfg.Workers = f.workers
	}
	cfg.Ignore = append(cfg.Ignore, f.ignore...)
	cfg.BinaryExtensions = append(cfg.BinaryExtensions, f.binaryExtensions...)
}

func NewRefactorCmd(o *opts.RootOpts) *cobra.Command {
	var (
		run             runFlags
		destination     string
		allowEmpty      bool
		strictEncoding  bool
		failOnCollision bool
	)

	cmd := &cobra.Command{
		Use:   "refactor <path> [rules]",
		Short: "Rewrite file contents and paths under a directory",
		Long: `Refactor applies search/replace rules to the content of every text file and
to every path under <path>. Longer searches apply first.

[rules] names a rule file (.json, .yaml, .yml or .hcl), found as given or in
~/.retree, or a github:<owner>/<repo>/<path>[@ref] reference. Without it the
rules are read interactively.

Without --dest files are rewritten in place and originals of renamed files
are removed. With --dest the source is left untouched.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var ruleArg string
			if len(args) == 2 {
				ruleArg = args[1]
			}
			cfg, err := loadRules(ctx, o, ruleArg)
			if err != nil {
				return err
			}
			run.apply(cmd, cfg)

			eng, err := operation.New(operation.Options{
				Source:           args[0],
				Destination:      destination,
				Rules:            cfg.Rules,
				AllowEmptyRules:  allowEmpty,
				Workers:          cfg.Workers,
				Ignore:           cfg.Ignore,
				BinaryExtensions: cfg.BinaryExtensions,
				StrictEncoding:   strictEncoding,
				FailOnCollision:  failOnCollision,
				Logger:           o.Logger,
				Console:          o.Console,
			})
			if err != nil {
				return err
			}

			summary, err := eng.Run(ctx)
			if err != nil {
				return err
			}
			if summary.Failed > 0 {
				return errors.Errorf("%w: %d of %d", ErrFilesFailed, summary.Failed, summary.Processed)
			}
			return nil
		},
	}

	run.register(cmd)
	cmd.Flags().StringVarP(&destination, "dest", "o", "", "write the rewritten tree here instead of in place")
	cmd.Flags().BoolVar(&allowEmpty, "allow-empty", false, "run even with zero rules (copies or walks without rewriting)")
	cmd.Flags().BoolVar(&strictEncoding, "strict-encoding", false, "fail files that are not valid UTF-8 instead of dropping invalid bytes")
	cmd.Flags().BoolVar(&failOnCollision, "fail-on-collision", false, "abort when two files would be rewritten to the same path")

	return cmd
}

// loadRules reads a rule file, or prompts when none is named and stdin is a
// terminal.
func loadRules(ctx context.Context, o *opts.RootOpts, arg string) (*config.Config, error) {
	if arg != "" {
		cfg, err := config.Load(ctx, arg, config.LoadOptions{HomeDir: o.HomeDir, Fetcher: o.Fetcher})
		if err != nil {
			return nil, err
		}
		if o.Console != nil {
			o.Console.Infof("using rules from %s", cfg.Location)
		}
		return cfg, nil
	}

	if o.IsTerminal == nil || !o.IsTerminal() {
		return nil, errors.Errorf("%w: no rule file given and stdin is not a terminal", rules.ErrConfiguration)
	}

	rs, err := config.Interactive(o.Stdin, o.Stdout)
	if err != nil {
		return nil, err
	}
	return &config.Config{Rules: rs, Location: "interactive"}, nil
}

func workingDir(args []string) (string, error) {
	if len(args) > 0 {
		return filepath.Abs(args[0])
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", errors.Errorf("getting working directory: %w", err)
	}
	return wd, nil
}
