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

// NA is the value log4j uses for location fields that could not be resolved.
const NA = "?"

// Record is the read-only view of a log event consumed by Layout.
// Required accessors must return usable values; the layout does not
// substitute defaults for them.
type Record interface {
	LoggerName() string
	// TimeStamp is milliseconds since the Unix epoch.
	TimeStamp() int64
	SequenceNumber() int64
	Level() string
	ThreadName() string
	RenderedMessage() string

	// NDC returns the nested diagnostic context and whether one is set.
	NDC() (string, bool)

	// ThrowableStrRep returns one string per stack or cause line, or nil.
	ThrowableStrRep() []string

	// LocationInformation returns the caller location. It is only consulted
	// when the layout's LocationInfo option is enabled.
	LocationInformation() *LocationInfo

	// PropertyKeys lists property keys in the order they are emitted.
	PropertyKeys() []string
	Property(key string) any
}

// LocationInfo identifies the statement that produced an event.
type LocationInfo struct {
	ClassName  string `json:"class"`
	MethodName string `json:"method"`
	FileName   string `json:"file"`
	LineNumber string `json:"line"`
}

// UnknownLocation returns a LocationInfo with every field set to NA.
func UnknownLocation() *LocationInfo {
	return &LocationInfo{ClassName: NA, MethodName: NA, FileName: NA, LineNumber: NA}
}
