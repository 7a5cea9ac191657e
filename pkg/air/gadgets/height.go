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
package gadgets

import (
	"github.com/consensys/go-zkvm/pkg/record"
	"github.com/consensys/go-zkvm/pkg/trace"
)

// Height determines the height of a chip's trace holding n rows in a given
// shard.  This is the fixed height recorded in the shard's shape for that
// chip, if there is one, or otherwise the next power of two.
func Height(r *record.Record, chip string, n uint) uint {
	if log2, ok := r.FixedLog2Rows(chip); ok {
		return trace.FixedHeight(n, log2)
	}
	//
	return trace.PaddedHeight(n)
}
