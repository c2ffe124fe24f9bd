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
Package config turns a rule source into a rule set and run settings.

	     +------------------------------+
	     |            Load              |
	     | github:o/r/p@ref | file name |
	     +------+----------------+------+
	            |                |
	     +------+-----+    +-----+------+
	     |  Fetcher   |    |   Find     |
	     | (remote)   |    | (lookup)   |
	     +------+-----+    +-----+------+
	            |                |
	            +-------+--------+
	                    |
	     +--------------+---------------+
	     |    Parser (by extension)     |
	     |   JSON  |  YAML  |   HCL     |
	     +------------------------------+

🎯 Purpose:
- Finds rule files by name in the working directory and ~/.retree
- Parses JSON, YAML and HCL rule files into an ordered rule set
- Collects rules interactively when no file is given

📝 Formats:

JSON accepts the flat form, one search string per key:

	{"old_name": "new_name", "OldName": "NewName"}

or a structured object:

	{"rules": {"old_name": "new_name"}, "ignore": ["vendor/**"], "workers": 4}

YAML uses the structured form only. HCL declares one block per rule and can
read environment variables through env:

	rule "old_name" {
	  replace = env.PROJECT_NAME
	}
	ignore = ["vendor/**"]

Rule order in the file is kept; it only breaks ties between searches of the
same length.

Every failure here wraps rules.ErrConfiguration.
*/
package config
