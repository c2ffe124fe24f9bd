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

package operation

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/retree/pkg/decode"
	"github.com/walteh/retree/pkg/status"
	"github.com/walteh/retree/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// ErrLossyRepair marks a file refused under strict encoding.
var ErrLossyRepair = errors.Base("content is not valid UTF-8")

// task is one discovered file
type task struct {
	source string // absolute
	rel    string // relative to the source root
}

// 🔄 rewriter processes one file at a time. It holds no per-run state, so
// one value is shared by every worker.
type rewriter struct {
	replacer   *text.Replacer
	classifier *decode.Classifier
	source     status.FileManager
	output     status.FileManager
	inPlace    bool
	strict     bool
}

func (rw *rewriter) targetRel(rel string) (string, error) {
	return rw.replacer.ReplacePath(rel)
}

// process runs classify, decode, content rewrite, path rewrite, write and
// the conditional delete of the original, in that order. It never returns an
// error: failures become an OutcomeFailed result.
func (rw *rewriter) process(ctx context.Context, t task) status.FileResult {
	res := status.FileResult{
		Source: t.source,
		Rel:    t.rel,
		Kind:   rw.classifier.Classify(t.source),
	}

	targetRel, err := rw.targetRel(t.rel)
	if err != nil {
		return failed(res, err)
	}
	res.TargetRel = targetRel
	res.Target = rw.output.Abs(targetRel)

	renamed := targetRel != t.rel
	// In destination mode every file lands somewhere new, so it is always
	// written even when neither content nor path changed.
	relocate := res.Target != t.source

	if res.Kind == decode.BinaryByExtension {
		return rw.processBinary(ctx, t, res, renamed, relocate)
	}
	return rw.processText(ctx, t, res, renamed, relocate)
}

func (rw *rewriter) processBinary(ctx context.Context, t task, res status.FileResult, renamed, relocate bool) status.FileResult {
	res.Outcome = status.Classify(renamed, false)
	if !relocate {
		return res
	}

	if rw.inPlace {
		if err := rw.output.MoveFile(ctx, t.source, res.TargetRel); err != nil {
			return failed(res, err)
		}
	} else {
		if err := rw.output.CopyFile(ctx, t.source, res.TargetRel); err != nil {
			return failed(res, err)
		}
	}

	res.Written = true
	return res
}

func (rw *rewriter) processText(ctx context.Context, t task, res status.FileResult, renamed, relocate bool) status.FileResult {
	logger := zerolog.Ctx(ctx)

	info, err := os.Stat(t.source)
	if err != nil {
		return failed(res, errors.Errorf("reading file mode: %w", err))
	}

	raw, err := rw.source.ReadFile(ctx, t.rel)
	if err != nil {
		return failed(res, err)
	}
	decoded := decode.DecodeBytes(raw)
	if decoded.Repaired {
		if rw.strict {
			return failed(res, errors.Errorf("%w: %d invalid bytes", ErrLossyRepair, decoded.DroppedBytes))
		}
		res.Repaired = true
		res.DroppedBytes = decoded.DroppedBytes
		logger.Warn().
			Str("file", t.rel).
			Int("dropped_bytes", decoded.DroppedBytes).
			Msg("content was not valid UTF-8, invalid bytes dropped")
	}

	replaced := rw.replacer.ReplaceText(decoded.Content)
	res.Replacements = replaced.ReplacementCount
	res.Outcome = status.Classify(renamed, replaced.WasModified)

	if !replaced.WasModified && !relocate {
		return res
	}

	if err := rw.output.WriteFileAtomic(ctx, res.TargetRel, []byte(replaced.ModifiedContent), info.Mode().Perm()); err != nil {
		return failed(res, err)
	}
	res.Written = true

	// a case-only rename on a case-insensitive filesystem leaves the
	// original path naming the file just written
	if rw.inPlace && renamed && !sameFile(t.source, res.Target) {
		if err := rw.source.DeleteFile(ctx, t.rel); err != nil {
			return failed(res, errors.Errorf("removing original after rename: %w", err))
		}
	}

	return res
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

func failed(res status.FileResult, err error) status.FileResult {
	res.Outcome = status.OutcomeFailed
	res.Err = err
	return res
}
