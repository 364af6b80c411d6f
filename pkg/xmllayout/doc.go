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

// Package xmllayout renders log events as log4j:event XML fragments, the
// format defined by log4j.dtd and read by Chainsaw and similar viewers.
//
// A fragment is not a well-formed document on its own. Fragments are meant
// to be concatenated into a file that an enclosing document pulls in as an
// external entity, for example:
//
//	<?xml version="1.0" ?>
//	<!DOCTYPE log4j:eventSet SYSTEM "log4j.dtd" [<!ENTITY data SYSTEM "abc">]>
//	<log4j:eventSet version="1.2" xmlns:log4j="http://jakarta.apache.org/log4j/">
//	  &data;
//	</log4j:eventSet>
//
// The Layout reads events through the narrow Record interface, so any type
// exposing the required accessors can be formatted. Event is the concrete
// implementation used by the CLI and by the zapxml, logrusxml and slogxml
// adapters.
//
// Example usage:
//
//	layout := xmllayout.New(xmllayout.Options{LocationInfo: true})
//	if err := layout.Format(os.Stdout, event); err != nil {
//	    return err
//	}
//
// Layout holds no mutable state and may be shared between goroutines. Callers
// writing to a shared sink must serialize Format calls themselves.
package xmllayout
