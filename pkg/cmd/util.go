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
	"math/rand/v2"
	"os"

	"github.com/consensys/go-zkvm/pkg/config"
	"github.com/consensys/go-zkvm/pkg/executor"
	"github.com/consensys/go-zkvm/pkg/record"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Get an expected flag, or panic if an error arises.
func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected unsigned integer, or panic if an error arises.
func getUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected 64-bit unsigned integer, or panic if an error arises.
func getUint64(cmd *cobra.Command, flag string) uint64 {
	r, err := cmd.Flags().GetUint64(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected string, or panic if an error arises.
func getString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Read the configuration file (if given), and apply any flags which override
// it.
func readConfig(cmd *cobra.Command) config.Config {
	var cfg = config.Default()
	//
	if filename := getString(cmd, "config"); filename != "" {
		var err error
		//
		if cfg, err = config.Load(filename); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	}
	//
	if cmd.Flags().Changed("workers") {
		cfg.Workers = getUint(cmd, "workers")
	}
	//
	if cmd.Flags().Changed("debug") {
		cfg.Debug = getFlag(cmd, "debug")
	}
	//
	if cmd.Flags().Changed("shard-size") {
		cfg.ShardSize = getUint(cmd, "shard-size")
	}
	//
	if err := cfg.Validate(); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return cfg
}

// Determine the shards to operate on.  These are either read from a JSON
// records file, or obtained by executing a random program.
func readShards(cmd *cobra.Command, args []string, cfg config.Config) []*record.Record {
	var (
		shards []*record.Record
		n      = getUint(cmd, "random")
	)
	//
	switch {
	case len(args) == 1 && n == 0:
		shards = readRecordsFile(args[0])
	case len(args) == 0 && n != 0:
		rng := rand.New(rand.NewPCG(getUint64(cmd, "seed"), 0))
		shards = executor.NewExecutor(cfg.ShardSize).Execute(executor.RandomProgram(rng, n))
	default:
		fmt.Println(cmd.UsageString())
		os.Exit(1)
	}
	//
	cfg.Apply(shards)
	log.Debugf("read %d shards", len(shards))
	//
	return shards
}

// Parse a file of execution records.
func readRecordsFile(filename string) []*record.Record {
	file, err := os.Open(filename)
	if err == nil {
		defer file.Close()
		//
		var shards []*record.Record
		//
		if shards, err = record.ReadRecords(file); err == nil {
			return shards
		}
	}
	// Handle error
	fmt.Println(err)
	os.Exit(2)
	// unreachable
	return nil
}

// Write a file of execution records.
func writeRecordsFile(filename string, shards []*record.Record) {
	file, err := os.Create(filename)
	if err == nil {
		err = record.WriteRecords(file, shards)
		//
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}
	//
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
}
