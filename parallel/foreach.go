// Package parallel runs bounded worker loops over index ranges.
package parallel

import (
	"sync"
	"sync/atomic"
)

// ForEach calls body for every i in [0, length), spread over at most limit
// goroutines. Workers pull indices from a shared atomic counter, so uneven
// bodies still balance. It returns once every call has finished.
func ForEach(length, limit int, body func(i int)) {
	if length <= 0 {
		return
	}
	if limit <= 0 {
		limit = 1
	}
	if limit > length {
		limit = length
	}
	if limit == 1 {
		for i := 0; i < length; i++ {
			body(i)
		}
		return
	}
	var next int64
	var wg sync.WaitGroup
	for w := 0; w < limit; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&next, 1)) - 1
				if i >= length {
					return
				}
				body(i)
			}
		}()
	}
	wg.Wait()
}
