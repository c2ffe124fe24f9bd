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

/*
Package operation runs a refactor over a directory tree.

	+-------------+      +-------------+      +-------------+
	|   Walker    | ---> |   Engine    | ---> |   Pruner    |
	| (enumerate) |      | (dispatch)  |      | (empty dirs)|
	+-------------+      +------+------+      +-------------+
	                            |
	                +-----------+-----------+
	                |  rewriter (per file)  |
	                | classify -> decode -> |
	                | content -> path ->    |
	                | write -> delete       |
	                +-----------------------+

🎯 Purpose:
- Rewrites every file's content and every path under a source root with one rule set
- Writes in place, or mirrors the rewritten tree into a destination root
- Removes directories the run left empty

🔄 Flow:
1. Walk the source root into a complete task list
2. Compute every target up front and report collisions
3. Run the rewriter for each task on a bounded worker pool
4. Prune empty directories in the tree that was written to

⚡ Failure model:
Configuration problems (rules, roots, ignore globs, collisions when they are
fatal) are returned by New or Run before any file is touched. A failure while
rewriting one file is recorded as that file's result and never stops the
other files. Cancelling the context stops dispatch; files already running
finish, and pruning is skipped.

There is no rollback. An interrupted in-place run leaves a mix of rewritten
and original files.

🔍 Example:

	eng, err := operation.New(operation.Options{
		Source: "./template",
		Rules:  rs,
	})
	if err != nil {
		return err
	}
	summary, err := eng.Run(ctx)
*/
package operation
