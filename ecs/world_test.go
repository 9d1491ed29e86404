package ecs

import (
	"testing"

	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs/component"
)

func TestSparseWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex >= 0 {
				if !DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if IsAlive(w, ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return false the second time")
				}
			}
		})
	}
}

func TestStaleHandleDoesNotResolveRecycledID(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]()

	old := CreateEntity(w)
	if !DestroyEntity(w, old) {
		t.Fatal("destroy failed")
	}
	reused := CreateEntity(w)
	if reused.id() != old.id() {
		t.Fatalf("expected id reuse, got %d and %d", old.id(), reused.id())
	}
	if reused == old {
		t.Fatalf("expected a new generation for the recycled id")
	}
	if err := Add(w, reused, h.Kind(), intPtr(7)); err != nil {
		t.Fatal(err)
	}
	if IsAlive(w, old) {
		t.Fatalf("stale handle must not be alive")
	}
	if _, ok := Get(w, old, h.Kind()); ok {
		t.Fatalf("stale handle must not resolve components")
	}
	if err := Add(w, old, h.Kind(), intPtr(1)); err != component.ErrEntityNotAlive {
		t.Fatalf("expected ErrEntityNotAlive, got %v", err)
	}
}

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func float64Ptr(f float64) *float64 {
	return &f
}

func TestSparseWorldComponentsAndQueries(t *testing.T) {
	t.Run("component_table", func(t *testing.T) {
		w := NewWorld()

		h1 := component.NewComponent[int]()
		h2 := component.NewComponent[string]()
		h3 := component.NewComponent[float64]()

		e1 := CreateEntity(w)
		e2 := CreateEntity(w)

		tests := []struct {
			name     string
			setup    func() error
			check    func(t *testing.T)
			teardown func() bool
		}{
			{
				name:  "add_int_to_e1",
				setup: func() error { return Add(w, e1, h1.Kind(), intPtr(10)) },
				check: func(t *testing.T) {
					v, ok := Get(w, e1, h1.Kind())
					if !ok || *v != 10 {
						t.Fatalf("expected 10, got %v ok=%v", v, ok)
					}
				},
				teardown: func() bool { return Remove(w, e1, h1.Kind()) },
			},
			{
				name: "add_str_to_e1_and_e2",
				setup: func() error {
					if err := Add(w, e1, h2.Kind(), stringPtr("a")); err != nil {
						return err
					}
					return Add(w, e2, h2.Kind(), stringPtr("b"))
				},
				check: func(t *testing.T) {
					if !Has(w, e1, h2.Kind()) || !Has(w, e2, h2.Kind()) {
						t.Fatalf("expected both entities to have string component")
					}
					if Count(w, h2.Kind()) != 2 {
						t.Fatalf("expected count 2, got %d", Count(w, h2.Kind()))
					}
				},
				teardown: func() bool { return Remove(w, e1, h2.Kind()) },
			},
			{
				name:  "add_float_and_remove",
				setup: func() error { return Add(w, e1, h3.Kind(), float64Ptr(1.23)) },
				check: func(t *testing.T) {
					if _, ok := Get(w, e1, h3.Kind()); !ok {
						t.Fatalf("expected float present")
					}
				},
				teardown: func() bool { return Remove(w, e1, h3.Kind()) },
			},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				if err := tc.setup(); err != nil {
					t.Fatalf("setup failed: %v", err)
				}
				tc.check(t)
				if !tc.teardown() {
					t.Fatalf("teardown failed for %s", tc.name)
				}
			})
		}
	})

	t.Run("rejects_nil_and_invalid_kind", func(t *testing.T) {
		w := NewWorld()
		e := CreateEntity(w)
		if err := Add(w, e, component.NewComponentKind[int](), nil); err != component.ErrNilComponent {
			t.Fatalf("expected ErrNilComponent, got %v", err)
		}
		if err := Add(w, e, component.ComponentKind[int]{}, intPtr(1)); err != component.ErrInvalidComponentKind {
			t.Fatalf("expected ErrInvalidComponentKind, got %v", err)
		}
	})
}

func TestForEach(t *testing.T) {
	t.Run("basic", func(t *testing.T) {
		w := NewWorld()
		h := component.NewComponent[int]()

		e1 := CreateEntity(w)
		e2 := CreateEntity(w)
		e3 := CreateEntity(w)

		if err := Add(w, e1, h.Kind(), intPtr(1)); err != nil {
			t.Fatalf("add failed: %v", err)
		}
		if err := Add(w, e3, h.Kind(), intPtr(3)); err != nil {
			t.Fatalf("add failed: %v", err)
		}

		got := Query(w, h.Kind())
		if len(got) != 2 || got[0] != e1 || got[1] != e3 {
			t.Fatalf("expected [e1 e3], got %v (e2=%v)", got, e2)
		}
	})

	t.Run("destroy_during_iteration", func(t *testing.T) {
		w := NewWorld()
		h := component.NewComponent[int]()
		ents := []Entity{CreateEntity(w), CreateEntity(w), CreateEntity(w)}
		for i, e := range ents {
			if err := Add(w, e, h.Kind(), intPtr(i)); err != nil {
				t.Fatal(err)
			}
		}

		visited := 0
		ForEach(w, h.Kind(), func(e Entity, _ *int) {
			visited++
			for _, other := range ents {
				if other != e {
					DestroyEntity(w, other)
				}
			}
		})
		if visited != 1 {
			t.Fatalf("expected destroyed entities to be skipped, visited %d", visited)
		}
	})
}

func TestForEach3(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "intersection",
			run: func(t *testing.T) {
				w := NewWorld()
				e1 := CreateEntity(w)
				e2 := CreateEntity(w)
				e3 := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()

				for _, step := range []struct {
					e Entity
					k component.ComponentKind[int]
				}{{e1, ka}, {e2, ka}, {e2, kb}, {e2, kc}, {e3, kb}} {
					if err := Add(w, step.e, step.k, intPtr(1)); err != nil {
						t.Fatal(err)
					}
				}

				var res []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 1 || res[0] != e2 {
					t.Fatalf("expected only e2, got %v", res)
				}
			},
		},
		{
			name: "missing_store_returns_nothing",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)
				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()
				kc := component.NewComponentKind[int]()
				if err := Add(w, e, ka, intPtr(1)); err != nil {
					t.Fatal(err)
				}

				var res []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 0 {
					t.Fatalf("expected empty when other store missing, got %v", res)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.run)
	}
}

type countingSystem struct{ calls int }

func (s *countingSystem) Update(w *World) { s.calls++ }

func TestWorldUpdateRunsSystemsInOrder(t *testing.T) {
	w := NewWorld()
	a := &countingSystem{}
	w.AddSystem(a)
	w.AddSystem(nil)
	w.Update()
	w.Update()
	if a.calls != 2 || w.Tick() != 2 {
		t.Fatalf("expected 2 calls and tick 2, got %d and %d", a.calls, w.Tick())
	}
	if len(w.Systems()) != 1 {
		t.Fatalf("nil system should be ignored")
	}
}

func TestSpatialIndexQueryCircle(t *testing.T) {
	w := NewWorld()
	near := CreateEntity(w)
	far := CreateEntity(w)
	tied := CreateEntity(w)
	outside := CreateEntity(w)

	idx := NewSpatialIndex()
	idx.Insert(far, common.Pt(3, 0), 0.5)
	idx.Insert(near, common.Pt(1, 0), 0.5)
	idx.Insert(tied, common.Pt(0, 3), 0.5)
	idx.Insert(outside, common.Pt(10, 10), 0.5)

	hits := idx.QueryCircle(common.Pt(0, 0), 3)
	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %v", hits)
	}
	if hits[0].Entity != near {
		t.Fatalf("expected nearest first, got %v", hits)
	}
	if hits[1].Entity != far || hits[2].Entity != tied {
		t.Fatalf("expected tie broken by handle, got %v", hits)
	}

	again := idx.QueryCircle(common.Pt(0, 0), 3)
	for i := range hits {
		if hits[i] != again[i] {
			t.Fatalf("query not repeatable: %v vs %v", hits, again)
		}
	}

	idx.Remove(near)
	if got, ok := idx.Nearest(common.Pt(0, 0), 5, nil); !ok || got.Entity != far {
		t.Fatalf("expected far after removal, got %v %v", got, ok)
	}
	if _, ok := idx.Nearest(common.Pt(0, 0), 5, func(e Entity) bool { return e == outside }); ok {
		t.Fatalf("outside is beyond range")
	}
	if idx.Len() != 3 {
		t.Fatalf("expected 3 indexed, got %d", idx.Len())
	}
}
