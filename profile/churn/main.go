// Profiling:
// go build ./profile/churn
// go tool pprof -http=":8000" -nodefraction=0.001 ./churn mem.pprof

package main

import (
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

func main() {
	count := 50
	iters := 1000
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		w := sekai.NewWorld(sekai.Config{InitialCapacity: numEntities, Quiet: true})
		c1 := sekai.Register[comp1](w, "comp1")
		c2 := sekai.Register[comp2](w, "comp2")
		query := sekai.NewFilter2(c1, c2)
		batch := sekai.NewBuilder2(c1, c2)

		for range iters {
			batch.NewEntitiesWithValueSet(numEntities, comp1{V: 1}, comp2{V: 1, W: 1})
			query.Reset()
			for query.Next() {
				comp1, comp2 := query.Get()
				comp1.V += comp2.V
				comp1.W += comp2.W
			}
			query.Reset()
			for query.Next() {
				w.RemoveEntity(query.Entity())
			}
		}
	}
}
