package probe

import "testing"

type fakeAux struct {
	val int
}

func (f *fakeAux) Copy() AuxiliaryObject { return &fakeAux{val: f.val} }
func (f *fakeAux) UpdateFrom(other AuxiliaryObject) {
	if o, ok := other.(*fakeAux); ok {
		f.val = o.val
	}
}

func TestBehaviorAuxKeyIsPrefixed(t *testing.T) {
	k := BehaviorAuxKey("sliding-1")
	if k != "Internal.Behavior:sliding-1" {
		t.Fatalf("unexpected key: %s", k)
	}
}

func TestAttachedValuesFillValuesPreservesOverlap(t *testing.T) {
	a := NewAttachedValues()
	a.Values = []float64{1, 2, 3}
	a.FillValues(5)
	want := []float64{1, 2, 3, 0, 0}
	for i, v := range want {
		if a.Values[i] != v {
			t.Fatalf("FillValues(5) = %v, want %v", a.Values, want)
		}
	}

	a.FillValues(2)
	want2 := []float64{1, 2}
	for i, v := range want2 {
		if a.Values[i] != v {
			t.Fatalf("FillValues(2) = %v, want %v", a.Values, want2)
		}
	}
}

func TestAttachedValuesObjectAbsentIsNilNotPanic(t *testing.T) {
	a := NewAttachedValues()
	if a.Object("missing") != nil {
		t.Fatalf("expected nil for absent key")
	}
}

func TestAttachedValuesCopyIsDeep(t *testing.T) {
	a := NewAttachedValues()
	a.Values = []float64{1, 2}
	a.Strings = []string{"x"}
	a.SetObject("k", &fakeAux{val: 7})

	b := a.Copy()
	b.Values[0] = 99
	b.Strings[0] = "y"
	b.Object("k").(*fakeAux).val = 100

	if a.Values[0] == 99 || a.Strings[0] == "y" {
		t.Fatalf("Copy shared backing slices with source")
	}
	if a.Object("k").(*fakeAux).val == 100 {
		t.Fatalf("Copy shared an AuxiliaryObject with source")
	}
}

func TestAttachedValuesUpdateFromMergesObjects(t *testing.T) {
	dst := NewAttachedValues()
	dst.SetObject("existing", &fakeAux{val: 1})

	src := NewAttachedValues()
	src.Values = []float64{1, 2, 3}
	src.SetObject("existing", &fakeAux{val: 2})
	src.SetObject("new", &fakeAux{val: 3})

	dst.UpdateFrom(src)

	if len(dst.Values) != 3 || dst.Values[2] != 3 {
		t.Fatalf("Values not overwritten from source: %v", dst.Values)
	}
	if dst.Object("existing").(*fakeAux).val != 2 {
		t.Fatalf("existing object not updated in place")
	}
	if dst.Object("new").(*fakeAux).val != 3 {
		t.Fatalf("new object not copied in")
	}

	// existing object's identity survived (UpdateFrom, not replace)
	src.Object("existing").(*fakeAux).val = 999
	if dst.Object("existing").(*fakeAux).val == 999 {
		t.Fatalf("dst object aliases src object after UpdateFrom")
	}
}
