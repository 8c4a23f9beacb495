// Profiling:
// go build ./profile/queries
// go tool pprof -http=":8000" -nodefraction=0.001 ./queries cpu.pprof

package main

import (
	"fmt"

	"github.com/edwinsyarief/sekai"
	"github.com/pkg/profile"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

type comp3 struct {
	V int64
	W int64
}

type comp4 struct {
	V int64
	W int64
}

func main() {
	count := 50
	iters := 10000
	entities := 10000
	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	stats := run(count, iters, entities)
	p.Stop()
	fmt.Printf("hits=%d recomputations=%d invalidations=%d pruned=%d\n",
		stats.Hits, stats.Recomputations, stats.Invalidations, stats.PrunedKeys)
}

// run mixes a hot read path with a steady trickle of mutations. Most ticks
// only touch comp4, which none of the iterated queries require.
func run(rounds, iters, numEntities int) sekai.QueryStats {
	var total sekai.QueryStats
	for range rounds {
		w := sekai.NewWorld(sekai.Config{InitialCapacity: numEntities, Diagnostics: true, Quiet: true})
		c1 := sekai.Register[comp1](w, "comp1")
		c2 := sekai.Register[comp2](w, "comp2")
		c3 := sekai.Register[comp3](w, "comp3")
		c4 := sekai.Register[comp4](w, "comp4")
		for i := range numEntities {
			e := w.CreateEntity()
			_ = c1.Add(e, comp1{})
			_ = c2.Add(e, comp2{V: 1, W: 1})
			if i%3 == 0 {
				_ = c3.Add(e, comp3{})
			}
		}

		moving := sekai.NewFilter2(c1, c2)
		tagged := sekai.NewFilter(c3, c1.Type())
		for i := range iters {
			moving.Reset()
			for moving.Next() {
				comp1, comp2 := moving.Get()
				comp1.V += comp2.V
				comp1.W += comp2.W
			}
			tagged.Reset()
			for tagged.Next() {
				tagged.Get().V++
			}

			e := sekai.Entity(i % numEntities)
			if c4.Has(e) {
				c4.Remove(e)
			} else {
				_ = c4.Add(e, comp4{})
			}
			if i%100 == 0 {
				c3.Remove(e)
			}
		}

		s := w.Stats()
		total.Hits += s.Hits
		total.Recomputations += s.Recomputations
		total.Invalidations += s.Invalidations
		total.PrunedKeys += s.PrunedKeys
	}
	return total
}
