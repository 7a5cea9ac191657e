// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package trace

import (
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/consensys/go-zkvm/pkg/util/field"
)

// Printer is responsible for printing matrices in a human-readable form.
type Printer struct {
	// First row to print
	startRow uint
	// Last row to print
	endRow uint
	// Column names (if known)
	names []string
	// Determine maximum width to print
	maxCellWidth uint
	// Determine maximum width of the table as a whole
	maxWidth uint
	// Print values as signed integers (or not)
	signed bool
}

// NewPrinter constructs a default printer which prints every row of a matrix.
func NewPrinter() *Printer {
	return &Printer{0, math.MaxUint, nil, math.MaxUint, math.MaxUint, false}
}

// Start sets the first row to print.
func (p *Printer) Start(start uint) *Printer {
	p.startRow = start
	return p
}

// End sets the last row to print.
func (p *Printer) End(end uint) *Printer {
	p.endRow = end
	return p
}

// Names sets the column headers to print.
func (p *Printer) Names(names []string) *Printer {
	p.names = names
	return p
}

// MaxCellWidth sets the maximum width of any cell, beyond which the cell is
// truncated.
func (p *Printer) MaxCellWidth(width uint) *Printer {
	p.maxCellWidth = width
	return p
}

// MaxWidth sets the maximum width of a printed line (e.g. the width of the
// terminal).  Columns which do not fit are omitted.
func (p *Printer) MaxWidth(width uint) *Printer {
	p.maxWidth = width
	return p
}

// Signed determines whether values are shown as signed integers.
func (p *Printer) Signed(signed bool) *Printer {
	p.signed = signed
	return p
}

// Print a given matrix to the given writer.
func Print[F field.Element[F]](out io.Writer, p *Printer, matrix *Matrix[F]) {
	var (
		start = min(p.startRow, matrix.Height())
		end   = matrix.Height()
		// One column for row indices
		cells = make([][]string, 1+matrix.Width())
	)
	// End is inclusive, and may be unbounded
	if p.endRow < end {
		end = p.endRow + 1
	}
	// Row indices
	cells[0] = append(cells[0], "")
	//
	for row := start; row < end; row++ {
		cells[0] = append(cells[0], fmt.Sprintf("%d", row))
	}
	// Contents
	for col := range matrix.Width() {
		cells[col+1] = append(cells[col+1], p.columnName(col))
		//
		for row := start; row < end; row++ {
			cells[col+1] = append(cells[col+1], cellText(p, matrix.Get(row, col)))
		}
	}
	//
	printColumns(out, p.fitColumns(cells))
}

func (p *Printer) columnName(col uint) string {
	if col < uint(len(p.names)) {
		return p.names[col]
	}
	//
	return fmt.Sprintf("#%d", col)
}

func cellText[F field.Element[F]](p *Printer, val F) string {
	var text string
	//
	if p.signed {
		text = field.Signed(val)
	} else {
		text = val.Text(10)
	}
	//
	if uint(utf8.RuneCountInString(text)) > p.maxCellWidth {
		runes := []rune(text)
		text = string(runes[:p.maxCellWidth])
	}
	//
	return text
}

// Remove columns from the right until the table fits within the maximum
// width.
func (p *Printer) fitColumns(cells [][]string) [][]string {
	var total uint
	//
	for i, column := range cells {
		total += columnWidth(column) + 3
		//
		if total > p.maxWidth && i > 0 {
			return cells[:i]
		}
	}
	//
	return cells
}

func columnWidth(column []string) uint {
	var width int
	//
	for _, cell := range column {
		width = max(width, utf8.RuneCountInString(cell))
	}
	//
	return uint(width)
}

func printColumns(out io.Writer, columns [][]string) {
	if len(columns) == 0 {
		return
	}
	//
	var (
		widths = make([]uint, len(columns))
		height = len(columns[0])
	)
	//
	for i, column := range columns {
		widths[i] = columnWidth(column)
	}
	//
	printHorizontalRule(out, widths)
	//
	for row := range height {
		var builder strings.Builder
		//
		for i, column := range columns {
			fmt.Fprintf(&builder, " %*s |", widths[i], column[row])
		}
		//
		fmt.Fprintln(out, builder.String())
		// Separate header from contents
		if row == 0 {
			printHorizontalRule(out, widths)
		}
	}
	//
	printHorizontalRule(out, widths)
}

func printHorizontalRule(out io.Writer, widths []uint) {
	var builder strings.Builder
	//
	for _, w := range widths {
		builder.WriteString("-")
		builder.WriteString(strings.Repeat("-", int(w)))
		builder.WriteString("-+")
	}
	//
	fmt.Fprintln(out, builder.String())
}
