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
package config

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/consensys/go-zkvm/pkg/record"
	"gopkg.in/yaml.v3"
)

// DefaultMaxConstraintDegree is the constraint degree bound used when none is
// configured.
const DefaultMaxConstraintDegree = 3

// DefaultShardSize is the number of instructions per shard used when none is
// configured.
const DefaultShardSize = 1 << 10

// Config determines how shards are produced and proved.
type Config struct {
	// Number of workers used for trace generation.  Zero means one per
	// available processor.
	Workers uint `yaml:"workers"`
	// Check constraints row by row, and report unbalanced interactions, when
	// a proof is rejected.
	Debug bool `yaml:"debug"`
	// Bound on the degree of any constraint.
	MaxConstraintDegree uint `yaml:"max_constraint_degree"`
	// Fixed log2 heights of chips, by name.  Chips not listed are padded to
	// the next power of two.
	FixedLog2Rows map[string]uint `yaml:"fixed_log2_rows"`
	// Number of instructions executed per shard.
	ShardSize uint `yaml:"shard_size"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Workers:             uint(runtime.GOMAXPROCS(0)),
		MaxConstraintDegree: DefaultMaxConstraintDegree,
		ShardSize:           DefaultShardSize,
	}
}

// Read parses a YAML configuration.  Fields which are not given take their
// default values.
func Read(reader io.Reader) (Config, error) {
	var (
		cfg     = Default()
		decoder = yaml.NewDecoder(reader)
	)
	//
	decoder.KnownFields(true)
	//
	if err := decoder.Decode(&cfg); err != nil && err != io.EOF {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	//
	return cfg, cfg.Validate()
}

// Load reads a YAML configuration file.
func Load(filename string) (Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return Default(), err
	}
	//
	defer file.Close()
	//
	cfg, err := Read(file)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", filename, err)
	}
	//
	return cfg, nil
}

// Validate checks that a configuration is usable.
func (c *Config) Validate() error {
	if c.MaxConstraintDegree < 2 {
		return fmt.Errorf("constraint degree bound %d is too small", c.MaxConstraintDegree)
	} else if c.ShardSize == 0 {
		return fmt.Errorf("shard size must be positive")
	}
	//
	for chip, log2 := range c.FixedLog2Rows {
		if log2 >= 32 {
			return fmt.Errorf("fixed height 2^%d of chip %s is too large", log2, chip)
		}
	}
	//
	return nil
}

// Apply records the fixed chip heights of this configuration in the shape of
// each given shard.
func (c *Config) Apply(shards []*record.Record) {
	for _, shard := range shards {
		for chip, log2 := range c.FixedLog2Rows {
			shard.Shape[chip] = log2
		}
	}
}
