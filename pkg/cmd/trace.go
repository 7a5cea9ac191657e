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
package cmd

import (
	"fmt"
	"os"

	"github.com/consensys/go-zkvm/pkg/chips"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/trace"
	"github.com/consensys/go-zkvm/pkg/util/field"
	"github.com/consensys/go-zkvm/pkg/util/field/bls12_377"
	"github.com/consensys/go-zkvm/pkg/util/field/bn254"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// traceCmd represents the trace command
var traceCmd = &cobra.Command{
	Use:   "trace [flags] [records_file]",
	Short: "Print the trace of a chip.",
	Long: `Print the main (or preprocessed) trace generated by a chip for a given
	shard of a sequence of execution records.  Dependencies of the shard
	(e.g. byte lookups) are generated first.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			cfg    = readConfig(cmd)
			shards = readShards(cmd, args, cfg)
			index  = getUint(cmd, "shard")
		)
		//
		if index == 0 || index > uint(len(shards)) {
			fmt.Printf("shard %d does not exist (%d shards)\n", index, len(shards))
			os.Exit(2)
		}
		//
		printer := trace.NewPrinter().
			Start(getUint(cmd, "start")).
			End(getUint(cmd, "end")).
			MaxCellWidth(getUint(cmd, "cell-width")).
			Signed(getFlag(cmd, "signed"))
		// Fit the terminal, if there is one
		if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
			if width, _, err := term.GetSize(fd); err == nil {
				printer.MaxWidth(uint(width))
			}
		}
		//
		switch name := getString(cmd, "field"); name {
		case "bls12-377":
			printChipTrace[bls12_377.Element](cmd, shards[index-1], printer, cfg.MaxConstraintDegree)
		case "bn254":
			printChipTrace[bn254.Element](cmd, shards[index-1], printer, cfg.MaxConstraintDegree)
		default:
			fmt.Printf("unknown field %s\n", name)
			os.Exit(2)
		}
	},
}

func printChipTrace[F field.Element[F]](cmd *cobra.Command, shard *record.Record, printer *trace.Printer,
	maxDegree uint) {
	var (
		machine = chips.DefaultMachine[F](maxDegree)
		name    = getString(cmd, "chip")
		chip    = machine.Chip(name)
	)
	//
	if chip == nil {
		fmt.Printf("unknown chip %s\n", name)
		os.Exit(2)
	}
	//
	machine.GenerateDependencies(shard)
	//
	if getFlag(cmd, "prep") {
		prep := chip.GeneratePreprocessedTrace()
		//
		if prep == nil {
			fmt.Printf("chip %s has no preprocessed trace\n", name)
			os.Exit(2)
		} else if named, ok := chip.Air().(interface{ PreprocessedColumnNames() []string }); ok {
			printer.Names(named.PreprocessedColumnNames())
		}
		//
		trace.Print(os.Stdout, printer, prep)
	} else if !chip.Included(shard) {
		fmt.Printf("chip %s is not included in shard %d\n", name, shard.Shard)
	} else {
		trace.Print(os.Stdout, printer.Names(chips.ColumnNames(chip)), chip.GenerateTrace(shard))
	}
}

func init() {
	rootCmd.AddCommand(traceCmd)
	traceCmd.Flags().String("chip", "Cpu", "name of the chip whose trace to print")
	traceCmd.Flags().Uint("shard", 1, "index of the shard to use (starting from 1)")
	traceCmd.Flags().Bool("prep", false, "print the preprocessed trace")
	traceCmd.Flags().Uint("start", 0, "first row to print")
	traceCmd.Flags().Uint("end", 15, "last row to print")
	traceCmd.Flags().Uint("cell-width", 16, "maximum width of a cell")
	traceCmd.Flags().Bool("signed", false, "print values as signed integers")
}
