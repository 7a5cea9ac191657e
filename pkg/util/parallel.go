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
package util

import (
	"runtime"
	"sync"
)

// Workers returns the default number of workers to use for data-parallel
// operations.  This is determined by GOMAXPROCS.
func Workers() uint {
	return uint(runtime.GOMAXPROCS(0))
}

// ParChunks splits the index range [0,n) into at most workers contiguous
// chunks, and invokes fn on each chunk in its own go-routine.  This returns
// only once every chunk has completed.  Each invocation is given exclusive
// ownership of its chunk, hence fn may write to the corresponding range of a
// shared output without further synchronisation.  A workers value of 0 means
// "use the default".
func ParChunks(n uint, workers uint, fn func(start, end uint)) {
	if workers == 0 {
		workers = Workers()
	}
	// Sanity check
	if n == 0 {
		return
	} else if workers == 1 || n == 1 {
		fn(0, n)
		return
	}
	//
	var (
		wg sync.WaitGroup
		// Ceiling division
		size = (n + workers - 1) / workers
	)
	//
	for start := uint(0); start < n; start += size {
		end := min(n, start+size)
		//
		wg.Add(1)
		//
		go func() {
			defer wg.Done()
			fn(start, end)
		}()
	}
	// Barrier
	wg.Wait()
}

// ParMap applies fn to every index in [0,n) in parallel, writing the result
// into the corresponding position of the returned array.  The order of
// results matches the order of indices, irrespective of how work was
// scheduled.
func ParMap[T any](n uint, workers uint, fn func(uint) T) []T {
	results := make([]T, n)
	//
	ParChunks(n, workers, func(start, end uint) {
		for i := start; i < end; i++ {
			results[i] = fn(i)
		}
	})
	//
	return results
}

// ParFor runs one go-routine for each index in [0,n), and waits for them all
// to complete.
func ParFor(n uint, fn func(uint)) {
	var wg sync.WaitGroup
	//
	for i := range n {
		wg.Add(1)
		//
		go func() {
			defer wg.Done()
			fn(i)
		}()
	}
	//
	wg.Wait()
}

// ParEach runs one go-routine for each of the given jobs, and waits for them
// all to complete.  The result of job i is stored at index i.
func ParEach[T any](n uint, fn func(uint) T) []T {
	var (
		wg      sync.WaitGroup
		results = make([]T, n)
	)
	//
	for i := range n {
		wg.Add(1)
		//
		go func() {
			defer wg.Done()
			results[i] = fn(i)
		}()
	}
	//
	wg.Wait()
	//
	return results
}
