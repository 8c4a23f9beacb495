package main

import (
	"errors"
	"image/color"
	"math/rand/v2"
	"time"

	"github.com/edwinsyarief/sekai"
	"github.com/hajimehoshi/ebiten/v2"
)

// Body is the position and velocity of a box, in pixels and pixels per second.
type Body struct {
	X, Y   float64
	VX, VY float64
	Size   float64
}

// Sprite is the fill color of a box.
type Sprite struct {
	Color color.RGBA
}

// Arena is the world resource describing the playable area.
type Arena struct {
	Width, Height float64
}

// Lifetime removes the entity once Remaining drops to zero.
type Lifetime struct {
	Remaining time.Duration
}

type spawner struct {
	w         *sekai.World
	bodies    sekai.Component[Body]
	sprites   sekai.Component[Sprite]
	lifetimes sekai.Component[Lifetime]
	rng       *rand.Rand
	perTick   int
	limit     int
}

func newSpawner(w *sekai.World, bodies sekai.Component[Body], sprites sekai.Component[Sprite],
	lifetimes sekai.Component[Lifetime], perTick, limit int) *spawner {
	return &spawner{
		w:         w,
		bodies:    bodies,
		sprites:   sprites,
		lifetimes: lifetimes,
		rng:       rand.New(rand.NewPCG(1, 2)),
		perTick:   perTick,
		limit:     limit,
	}
}

func (s *spawner) Name() string { return "spawner" }

func (s *spawner) Update(time.Duration) error {
	arena, ok := sekai.GetResource[Arena](s.w)
	if !ok {
		return errors.New("no arena resource")
	}
	for i := 0; i < s.perTick && s.bodies.Len() < s.limit; i++ {
		e := s.w.CreateEntity()
		err := errors.Join(
			s.bodies.Add(e, Body{
				X:    arena.Width / 2,
				Y:    arena.Height / 2,
				VX:   s.rng.Float64()*400 - 200,
				VY:   s.rng.Float64()*400 - 200,
				Size: 2 + s.rng.Float64()*6,
			}),
			s.sprites.Add(e, Sprite{Color: color.RGBA{
				R: uint8(128 + s.rng.IntN(128)),
				G: uint8(64 + s.rng.IntN(192)),
				B: uint8(s.rng.IntN(256)),
				A: 255,
			}}),
			s.lifetimes.Add(e, Lifetime{Remaining: time.Duration(2+s.rng.IntN(6)) * time.Second}),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

type motion struct {
	query *sekai.Filter[Body]
}

func (m *motion) Name() string { return "motion" }

func (m *motion) Update(dt time.Duration) error {
	secs := dt.Seconds()
	m.query.Reset()
	for m.query.Next() {
		b := m.query.Get()
		b.X += b.VX * secs
		b.Y += b.VY * secs
	}
	return nil
}

// bounds reflects boxes off the arena edges. It runs after motion.
type bounds struct {
	w     *sekai.World
	query *sekai.Filter[Body]
}

func (b *bounds) Name() string { return "bounds" }

func (b *bounds) Update(time.Duration) error {
	arena, ok := sekai.GetResource[Arena](b.w)
	if !ok {
		return errors.New("no arena resource")
	}
	b.query.Reset()
	for b.query.Next() {
		body := b.query.Get()
		if body.X < 0 || body.X+body.Size > arena.Width {
			body.VX = -body.VX
			body.X = min(max(body.X, 0), arena.Width-body.Size)
		}
		if body.Y < 0 || body.Y+body.Size > arena.Height {
			body.VY = -body.VY
			body.Y = min(max(body.Y, 0), arena.Height-body.Size)
		}
	}
	return nil
}

type reaper struct {
	w     *sekai.World
	query *sekai.Filter[Lifetime]
	dead  []sekai.Entity
}

func (r *reaper) Name() string { return "reaper" }

func (r *reaper) Update(dt time.Duration) error {
	r.dead = r.dead[:0]
	r.query.Reset()
	for r.query.Next() {
		l := r.query.Get()
		l.Remaining -= dt
		if l.Remaining <= 0 {
			r.dead = append(r.dead, r.query.Entity())
		}
	}
	for _, e := range r.dead {
		r.w.RemoveEntity(e)
	}
	return nil
}

type renderer struct {
	query *sekai.Filter2[Body, Sprite]
	pixel *ebiten.Image
	op    ebiten.DrawImageOptions
}

func newRenderer(query *sekai.Filter2[Body, Sprite]) *renderer {
	pixel := ebiten.NewImage(1, 1)
	pixel.Fill(color.White)
	return &renderer{query: query, pixel: pixel}
}

func (r *renderer) Name() string { return "renderer" }

func (r *renderer) Update(time.Duration) error { return nil }

func (r *renderer) Render(ctx any) error {
	screen, ok := ctx.(*ebiten.Image)
	if !ok {
		return errors.New("renderer needs an *ebiten.Image")
	}
	r.query.Reset()
	for r.query.Next() {
		b, s := r.query.Get()
		r.op.GeoM.Reset()
		r.op.GeoM.Scale(b.Size, b.Size)
		r.op.GeoM.Translate(b.X, b.Y)
		r.op.ColorScale.Reset()
		r.op.ColorScale.ScaleWithColor(s.Color)
		screen.DrawImage(r.pixel, &r.op)
	}
	return nil
}

func (r *renderer) Teardown() error {
	r.pixel.Deallocate()
	return nil
}

// faulty panics once a second to show that the other systems keep running.
type faulty struct {
	elapsed time.Duration
}

func (f *faulty) Name() string { return "faulty" }

func (f *faulty) Update(dt time.Duration) error {
	f.elapsed += dt
	if f.elapsed >= time.Second {
		f.elapsed = 0
		panic("faulty system tripped")
	}
	return nil
}
