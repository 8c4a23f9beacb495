package sekai

import (
	"io"
	"log"
	"slices"
	"testing"

	"github.com/rotisserie/eris"
)

// --- Test Components ---
type Position struct{ X, Y float32 }
type Velocity struct{ VX, VY float32 }
type Health struct{ Current, Max int }
type Tag struct{}

// --- Test Suite Setup ---
func newTestWorld(t testing.TB) (*World, Component[Position], Component[Velocity], Component[Health]) {
	t.Helper()
	w := NewWorld(Config{
		InitialCapacity: 64,
		Diagnostics:     true,
		Logger:          log.New(io.Discard, "", 0),
	})
	return w, Register[Position](w, "Position"), Register[Velocity](w, "Velocity"), Register[Health](w, "Health")
}

// go test -run ^TestCreateEntity$ . -count 1
func TestCreateEntity(t *testing.T) {
	w, _, _, _ := newTestWorld(t)
	for want := Entity(0); want < 3; want++ {
		if got := w.CreateEntity(); got != want {
			t.Fatalf("expected entity %d, got %d", want, got)
		}
	}
	if w.Len() != 3 {
		t.Errorf("expected 3 live entities, got %d", w.Len())
	}
}

func TestIDsAreNotReused(t *testing.T) {
	w, _, _, _ := newTestWorld(t)
	e0 := w.CreateEntity()
	w.RemoveEntity(e0)
	if e1 := w.CreateEntity(); e1 == e0 {
		t.Errorf("entity id %d was reused", e0)
	}
}

func TestRemoveEntityIdempotent(t *testing.T) {
	w, pos, vel, _ := newTestWorld(t)
	e := w.CreateEntity()
	other := w.CreateEntity()
	if err := pos.Add(e, Position{X: 1}); err != nil {
		t.Fatal(err)
	}
	if err := vel.Add(other, Velocity{VX: 1}); err != nil {
		t.Fatal(err)
	}

	w.RemoveEntity(e)
	w.RemoveEntity(e)
	w.RemoveEntity(Entity(999))

	if w.EntityExists(e) {
		t.Error("removed entity still exists")
	}
	if pos.Has(e) || pos.Len() != 0 {
		t.Error("components of removed entity were not cascaded")
	}
	if !w.EntityExists(other) || !vel.Has(other) {
		t.Error("unrelated entity was affected")
	}
	if got := w.Query(); !slices.Equal(got, []Entity{other}) {
		t.Errorf("expected [%d], got %v", other, got)
	}
}

func TestLookup(t *testing.T) {
	w, _, _, _ := newTestWorld(t)
	e := w.CreateEntity()
	h, ok := w.Lookup(e)
	if !ok || h.ID() != e {
		t.Fatalf("lookup of live entity failed: %v %v", h, ok)
	}
	if _, ok := w.Lookup(e + 1); ok {
		t.Error("lookup of unknown entity succeeded")
	}
}

func TestAddComponentToMissingEntity(t *testing.T) {
	w, pos, _, _ := newTestWorld(t)
	e := w.CreateEntity()
	w.RemoveEntity(e)

	if err := pos.Add(e, Position{}); !eris.Is(err, ErrEntityNotFound) {
		t.Errorf("typed add: expected ErrEntityNotFound, got %v", err)
	}
	if err := w.AddComponent(Entity(42), pos.Type(), Position{}); !eris.Is(err, ErrEntityNotFound) {
		t.Errorf("untyped add: expected ErrEntityNotFound, got %v", err)
	}
	if err := w.AddComponent(e, ComponentType(200), Position{}); !eris.Is(err, ErrEntityNotFound) {
		t.Errorf("unknown tag on removed entity: expected ErrEntityNotFound, got %v", err)
	}
}

func TestAddComponentUntyped(t *testing.T) {
	w, pos, _, _ := newTestWorld(t)
	e := w.CreateEntity()

	t.Run("RoundTrip", func(t *testing.T) {
		if err := w.AddComponent(e, pos.Type(), Position{X: 3, Y: 4}); err != nil {
			t.Fatal(err)
		}
		v, ok := w.GetComponent(e, pos.Type())
		if !ok || v.(Position) != (Position{X: 3, Y: 4}) {
			t.Errorf("unexpected component %v %v", v, ok)
		}
		if p := pos.Get(e); p == nil || p.X != 3 {
			t.Errorf("typed accessor does not see untyped write: %v", p)
		}
	})

	t.Run("TypeMismatch", func(t *testing.T) {
		err := w.AddComponent(e, pos.Type(), Velocity{})
		if !eris.Is(err, ErrTypeMismatch) {
			t.Errorf("expected ErrTypeMismatch, got %v", err)
		}
		if v, _ := w.GetComponent(e, pos.Type()); v.(Position).X != 3 {
			t.Error("failed add overwrote the stored value")
		}
	})

	t.Run("NotRegistered", func(t *testing.T) {
		err := w.AddComponent(e, ComponentType(200), Position{})
		if !eris.Is(err, ErrTypeNotRegistered) {
			t.Errorf("expected ErrTypeNotRegistered, got %v", err)
		}
		if _, ok := w.GetComponent(e, ComponentType(200)); ok {
			t.Error("unregistered type reported a value")
		}
		if w.HasComponent(e, ComponentType(200)) {
			t.Error("unregistered type reported present")
		}
	})

	t.Run("Remove", func(t *testing.T) {
		w.RemoveComponent(e, pos.Type())
		if _, ok := w.GetComponent(e, pos.Type()); ok {
			t.Error("component still present after removal")
		}
		w.RemoveComponent(e, pos.Type())
		w.RemoveComponent(Entity(1234), pos.Type())
	})
}

func TestTypedComponentRoundTrip(t *testing.T) {
	w, pos, _, health := newTestWorld(t)
	e := w.CreateEntity()

	if err := pos.Add(e, Position{X: 10, Y: 20}); err != nil {
		t.Fatal(err)
	}
	p := pos.Get(e)
	if p == nil || p.X != 10 || p.Y != 20 {
		t.Fatalf("component data is incorrect after adding. Got %+v", p)
	}
	p.X = 11
	if v, ok := pos.Value(e); !ok || v.X != 11 {
		t.Errorf("in-place write not visible: %+v", v)
	}

	if err := pos.Add(e, Position{X: 555, Y: 777}); err != nil {
		t.Fatal(err)
	}
	if v, _ := pos.Value(e); v != (Position{X: 555, Y: 777}) {
		t.Errorf("overwrite failed: %+v", v)
	}

	if health.Has(e) || health.Get(e) != nil {
		t.Error("absent component reported present")
	}
	if _, ok := health.Value(e); ok {
		t.Error("absent component returned a value")
	}

	pos.Remove(e)
	if pos.Has(e) || w.HasComponent(e, pos.Type()) {
		t.Error("component still present after Remove")
	}
}

func TestSparseStoreSwapRemove(t *testing.T) {
	w, pos, _, _ := newTestWorld(t)
	var ents []Entity
	for i := range 5 {
		e := w.CreateEntity()
		ents = append(ents, e)
		if err := pos.Add(e, Position{X: float32(i)}); err != nil {
			t.Fatal(err)
		}
	}
	pos.Remove(ents[1])
	w.RemoveEntity(ents[3])
	for i, e := range ents {
		if i == 1 || i == 3 {
			continue
		}
		if v, ok := pos.Value(e); !ok || v.X != float32(i) {
			t.Errorf("entity %d: expected X=%d, got %+v %v", e, i, v, ok)
		}
	}
	if pos.Len() != 3 {
		t.Errorf("expected 3 stored components, got %d", pos.Len())
	}
}

func TestRegister(t *testing.T) {
	w, pos, _, _ := newTestWorld(t)

	again := Register[Position](w, "Position")
	if again.Type() != pos.Type() {
		t.Errorf("re-registering returned a new tag %d", again.Type())
	}
	if typ, ok := w.ComponentType("Velocity"); !ok || w.TypeName(typ) != "Velocity" {
		t.Errorf("name lookup failed: %d %v", typ, ok)
	}
	tag := Register[Tag](w, "")
	if tag.Name() != "sekai.Tag" {
		t.Errorf("expected default name sekai.Tag, got %q", tag.Name())
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for a duplicate name")
		}
	}()
	Register[struct{ N int }](w, "Position")
}

func TestRegisterTooManyTypes(t *testing.T) {
	w := NewWorld(Config{Quiet: true})
	w.components.next = MaxComponentTypes
	defer func() {
		if recover() == nil {
			t.Error("expected panic once the type table is full")
		}
	}()
	Register[Position](w, "Position")
}

func TestEndToEnd(t *testing.T) {
	w, pos, vel, _ := newTestWorld(t)
	e0, e1, e2 := w.CreateEntity(), w.CreateEntity(), w.CreateEntity()
	if e0 != 0 || e1 != 1 || e2 != 2 {
		t.Fatalf("unexpected ids %d %d %d", e0, e1, e2)
	}
	mustAdd(t, w, e0, pos.Type(), Position{})
	mustAdd(t, w, e1, pos.Type(), Position{})
	mustAdd(t, w, e1, vel.Type(), Velocity{})

	if got := w.Query(pos.Type()); !slices.Equal(got, []Entity{0, 1}) {
		t.Errorf("query(Position) = %v, want [0 1]", got)
	}
	if got := w.Query(pos.Type(), vel.Type()); !slices.Equal(got, []Entity{1}) {
		t.Errorf("query(Position, Velocity) = %v, want [1]", got)
	}
	w.RemoveEntity(e1)
	if got := w.Query(pos.Type()); !slices.Equal(got, []Entity{0}) {
		t.Errorf("query(Position) after removal = %v, want [0]", got)
	}
}

func TestLifecycleEvents(t *testing.T) {
	w, _, _, _ := newTestWorld(t)
	var created, removed []Entity
	Subscribe(w.Events(), func(ev EntityCreated) { created = append(created, ev.Entity) })
	Subscribe(w.Events(), func(ev EntityRemoved) { removed = append(removed, ev.Entity) })

	e := w.CreateEntity()
	w.RemoveEntity(e)
	w.RemoveEntity(e)

	if !slices.Equal(created, []Entity{e}) || !slices.Equal(removed, []Entity{e}) {
		t.Errorf("unexpected events: created %v removed %v", created, removed)
	}
}

func mustAdd(t testing.TB, w *World, e Entity, typ ComponentType, v any) {
	t.Helper()
	if err := w.AddComponent(e, typ, v); err != nil {
		t.Fatalf("add %s to %d: %v", w.TypeName(typ), e, err)
	}
}
