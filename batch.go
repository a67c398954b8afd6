package robotsyr

import (
	"context"
	"runtime"
	"sync"
)

// DefaultMaxWorkers is the parallelism BuildAll uses when given no limit.
var DefaultMaxWorkers = runtime.NumCPU()

// BuildResult is the outcome of one genotype of a batch.
type BuildResult struct {
	Blueprint *RobotBlueprint
	Err       error
}

// splits cuts n items into at most maxWorkers contiguous sections of size or
// size+1 items; the first rem sections get the extra one.
func splits(n, maxWorkers int) (count, size, rem int) {
	switch {
	case n == 0:
		return 0, 0, 0
	case maxWorkers <= 0:
		maxWorkers = DefaultMaxWorkers
	}
	count = maxWorkers
	if n < count {
		count = n
	}
	return count, n / count, n % count
}

// BuildAll builds every genotype of the batch on up to maxWorkers goroutines
// (DefaultMaxWorkers if maxWorkers <= 0). Results come back in input order.
// Once ctx is done, genotypes not yet started fail with ctx.Err().
func (in *Interpreter) BuildAll(ctx context.Context, genotypes []Genotype, maxWorkers int) []BuildResult {
	results := make([]BuildResult, len(genotypes))
	count, size, rem := splits(len(genotypes), maxWorkers)

	var wg sync.WaitGroup
	wg.Add(count)
	for i, cursor := 0, 0; i < count; i++ {
		thisSize := size
		if i < rem {
			thisSize++
		}

		go func(section []Genotype, out []BuildResult) {
			defer wg.Done()
			for j, g := range section {
				if err := ctx.Err(); err != nil {
					out[j].Err = err
					continue
				}
				out[j].Blueprint, out[j].Err = in.Build(g)
			}
		}(genotypes[cursor:cursor+thisSize], results[cursor:cursor+thisSize])

		cursor += thisSize
	}
	wg.Wait()
	return results
}
