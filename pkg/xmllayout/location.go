// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package xmllayout

import (
	"path/filepath"
	"strconv"
	"strings"
)

// LocationFromFrame builds a LocationInfo from a Go call frame. The fully
// qualified function name is split at its last dot, so
// "example.com/pkg.(*Server).Serve" becomes class "example.com/pkg.(*Server)"
// and method "Serve". Missing parts are reported as NA.
func LocationFromFrame(function, file string, line int) *LocationInfo {
	loc := UnknownLocation()

	if function != "" {
		slash := strings.LastIndex(function, "/")
		if dot := strings.LastIndex(function[slash+1:], "."); dot >= 0 {
			dot += slash + 1
			loc.ClassName = function[:dot]
			loc.MethodName = function[dot+1:]
		} else {
			loc.MethodName = function
		}
	}
	if file != "" {
		loc.FileName = filepath.Base(file)
	}
	if line > 0 {
		loc.LineNumber = strconv.Itoa(line)
	}
	return loc
}

// ThrowableLines splits a multi-line stack or error rendering into the
// per-line form carried by Record.ThrowableStrRep. Trailing blank lines are
// dropped and an empty input yields nil.
func ThrowableLines(s string) []string {
	s = strings.TrimRight(s, "\r\n")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
