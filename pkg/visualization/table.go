// Copyright (c) 2017 Intel Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package visualization renders aggregation reports on the console.
package visualization

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// Table is a model for data.
type Table struct {
	caption string
	headers []string
	data    [][]string
}

// NewTable creates new model of data representation.
func NewTable(caption string, headers []string) *Table {
	return &Table{
		caption: caption,
		headers: headers,
	}
}

// Append adds a row.
func (t *Table) Append(row ...string) {
	t.data = append(t.data, row)
}

// Len returns number of rows.
func (t *Table) Len() int {
	return len(t.data)
}

// Draw renders table with a caption line above it.
func (t *Table) Draw(w io.Writer) {
	if t.caption != "" {
		fmt.Fprintln(w, t.caption)
	}
	output := tablewriter.NewWriter(w)
	output.SetHeader(t.headers)
	output.SetAutoFormatHeaders(false)
	output.AppendBulk(t.data)
	output.Render()
}

// List is a model for data.
type List struct {
	elements []string
	label    string
}

// NewList creates new model of data representation.
func NewList(elements []string, label string) *List {
	return &List{
		elements,
		label,
	}
}

// Print writes every element prefixed with the label in a separate line.
func (l *List) Print(w io.Writer) {
	for _, value := range l.elements {
		fmt.Fprintln(w, l.label+value)
	}
}
