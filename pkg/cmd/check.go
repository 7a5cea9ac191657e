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
	"runtime"

	"github.com/consensys/go-zkvm/pkg/challenger"
	"github.com/consensys/go-zkvm/pkg/chips"
	"github.com/consensys/go-zkvm/pkg/commit"
	"github.com/consensys/go-zkvm/pkg/config"
	"github.com/consensys/go-zkvm/pkg/metrics"
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/stark"
	"github.com/consensys/go-zkvm/pkg/util"
	"github.com/consensys/go-zkvm/pkg/util/field"
	"github.com/consensys/go-zkvm/pkg/util/field/bls12_377"
	"github.com/consensys/go-zkvm/pkg/util/field/bn254"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [flags] [records_file]",
	Short: "Prove a sequence of execution records.",
	Long: `Prove a sequence of execution records, and verify the resulting proof.
	Records are given as a JSON file of shards or, using --random, produced
	by executing a random program.  A rejected proof is reported, along with
	the failing constraint or unbalanced interactions under --debug.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			cfg    = readConfig(cmd)
			shards = readShards(cmd, args, cfg)
		)
		//
		if filename := getString(cmd, "emit"); filename != "" {
			writeRecordsFile(filename, shards)
		}
		//
		if cfg.Workers != 0 {
			runtime.GOMAXPROCS(int(cfg.Workers))
		}
		//
		registry := prometheus.NewRegistry()
		//
		switch name := getString(cmd, "field"); name {
		case "bls12-377":
			checkShards[bls12_377.Element](shards, cfg, registry)
		case "bn254":
			checkShards[bn254.Element](shards, cfg, registry)
		default:
			fmt.Printf("unknown field %s\n", name)
			os.Exit(2)
		}
		//
		if filename := getString(cmd, "metrics"); filename != "" {
			if err := prometheus.WriteToTextfile(filename, registry); err != nil {
				fmt.Println(err)
				os.Exit(2)
			}
		}
	},
}

// Prove and then verify a given set of shards, exiting on failure.
func checkShards[F field.Element[F]](shards []*record.Record, cfg config.Config, registry prometheus.Registerer) {
	var (
		stats   = util.NewPerfStats()
		machine = chips.DefaultMachine[F](cfg.MaxConstraintDegree)
		prover  = stark.NewProver(machine, challenger.New[F]("zkvm"), commit.New[F]()).
			Workers(cfg.Workers).
			Debug(cfg.Debug).
			Metrics(metrics.NewProver(registry))
	)
	//
	proof, err := prover.Prove(shards)
	if err != nil {
		fmt.Printf("proof rejected: %s\n", err)
		os.Exit(1)
	}
	//
	if err = stark.Verify(proof); err != nil {
		fmt.Printf("proof does not verify: %s\n", err)
		os.Exit(1)
	}
	//
	stats.Log("Proving")
	//
	for _, shard := range proof.Shards {
		log.Debugf("shard %d: %d chips", shard.Shard, len(shard.Chips))
	}
	//
	fmt.Printf("proved %d shard(s)\n", len(proof.Shards))
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Uint("workers", 0, "number of workers (zero for one per processor)")
	checkCmd.Flags().Bool("debug", false, "report failing constraints and unbalanced interactions")
	checkCmd.Flags().String("emit", "", "write the records being proved to a JSON file")
	checkCmd.Flags().String("metrics", "", "write prover metrics to a file (in prometheus text format)")
}
