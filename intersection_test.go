package probe

import "testing"

func TestIntersectionPointKeyDefaultsToZeroWhenOwnerNil(t *testing.T) {
	p := &IntersectionPoint{}
	eid, tid := p.Key()
	if eid != 0 || tid != 0 {
		t.Fatalf("Key() with nil owners = (%d,%d), want (0,0)", eid, tid)
	}
}

func TestIntersectionPointKeyUsesOwnerIdentities(t *testing.T) {
	e := newElement(7, "e")
	tt := &Touch{ID: 3}
	p := &IntersectionPoint{OwningElement: e, OwningTouch: tt}
	eid, tid := p.Key()
	if eid != 7 || tid != 3 {
		t.Fatalf("Key() = (%d,%d), want (7,3)", eid, tid)
	}
}

func TestIntersectionPointEqualIgnoresGeometry(t *testing.T) {
	e := newElement(1, "e")
	tt := &Touch{ID: 1}
	a := &IntersectionPoint{OwningElement: e, OwningTouch: tt, World: Vec3{1, 2, 3}}
	b := &IntersectionPoint{OwningElement: e, OwningTouch: tt, World: Vec3{9, 9, 9}}
	if !a.Equal(b) {
		t.Fatalf("expected equal intersection points sharing (element, touch) identity")
	}
}

func TestIntersectionPointEqualDiffersOnTouch(t *testing.T) {
	e := newElement(1, "e")
	a := &IntersectionPoint{OwningElement: e, OwningTouch: &Touch{ID: 1}}
	b := &IntersectionPoint{OwningElement: e, OwningTouch: &Touch{ID: 2}}
	if a.Equal(b) {
		t.Fatalf("expected inequality for differing touch ids")
	}
}

func TestIntersectionPointEqualNilHandling(t *testing.T) {
	var a, b *IntersectionPoint
	if !a.Equal(b) {
		t.Fatalf("two nil intersection points should be equal")
	}
	c := &IntersectionPoint{}
	if a.Equal(c) || c.Equal(a) {
		t.Fatalf("nil should not equal non-nil")
	}
}
