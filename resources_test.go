package sekai

import "testing"

func TestResources(t *testing.T) {
	type testStruct1 struct{}
	type testStruct2 struct{}

	t.Run("Add and Get", func(t *testing.T) {
		r := &Resources{}
		res1 := &testStruct1{}
		id := r.Add(res1)
		if id != 0 {
			t.Errorf("expected id 0, got %d", id)
		}
		if got := r.Get(0); got != res1 {
			t.Errorf("expected %v, got %v", res1, got)
		}
		if r.Has(1) || r.Has(-1) || r.Get(5) != nil {
			t.Error("unexpected slot reported present")
		}
	})

	t.Run("Add same type panics", func(t *testing.T) {
		r := &Resources{}
		r.Add(&testStruct1{})
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		r.Add(&testStruct1{})
	})

	t.Run("Add non-pointer panics", func(t *testing.T) {
		r := &Resources{}
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		r.Add(testStruct1{})
	})

	t.Run("Remove reuses slot", func(t *testing.T) {
		r := &Resources{}
		id1 := r.Add(&testStruct1{})
		r.Add(&testStruct2{})
		r.Remove(id1)
		r.Remove(id1)
		if r.Has(id1) || r.Len() != 1 {
			t.Errorf("expected slot %d to be free, len %d", id1, r.Len())
		}
		if id2 := r.Add(&testStruct1{}); id2 != id1 {
			t.Errorf("expected reused id %d, got %d", id1, id2)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		r := &Resources{}
		r.Add(&testStruct1{})
		r.Add(&testStruct2{})
		r.Clear()
		if r.Len() != 0 || r.Has(0) {
			t.Error("expected empty resources")
		}
		if id := r.Add(&testStruct1{}); id != 0 {
			t.Errorf("expected id 0 after clear, got %d", id)
		}
	})
}

func TestWorldResources(t *testing.T) {
	type bounds struct{ W, H float64 }
	w, pos, _, _ := newTestWorld(t)

	if _, ok := GetResource[bounds](w); ok {
		t.Fatal("resource present before SetResource")
	}
	SetResource(w, &bounds{W: 800, H: 600})
	b, ok := GetResource[bounds](w)
	if !ok || b.W != 800 {
		t.Fatalf("unexpected resource %+v %v", b, ok)
	}
	b.H = 480
	SetResource(w, &bounds{W: 640, H: 480})
	if b, _ := GetResource[bounds](w); b.W != 640 || w.Resources().Len() != 1 {
		t.Errorf("SetResource did not replace: %+v", b)
	}
	if w.View(pos.Type()).Len() != 0 || w.Len() != 0 {
		t.Error("resources leaked into queries")
	}

	RemoveResource[bounds](w)
	if _, ok := GetResource[bounds](w); ok {
		t.Error("resource still present after removal")
	}
}
