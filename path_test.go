package probe

import "testing"

func buildPathTestTree() *Context {
	c := NewContext(DefaultContextConfig())
	root := newElement(1, "root")
	a := newElement(2, "a")
	b := newElement(3, "b")
	a1 := newElement(4, "child")
	a2 := newElement(5, "child")
	b1 := newElement(6, "leaf")

	a.Parent, b.Parent = root, root
	a1.Parent, a2.Parent = a, a
	b1.Parent = b

	a.addChild(a1)
	a.addChild(a2)
	b.addChild(b1)
	root.addChild(a)
	root.addChild(b)

	c.roots[root.id] = root
	c.rebuildFlatList()
	return c
}

func byID(elements []*Element, ids ...int) bool {
	if len(elements) != len(ids) {
		return false
	}
	want := map[int]bool{}
	for _, id := range ids {
		want[id] = true
	}
	for _, e := range elements {
		if !want[e.id] {
			return false
		}
	}
	return true
}

func TestQueryLiteralSegments(t *testing.T) {
	c := buildPathTestTree()
	got := c.Query("root/a/child", false)
	if !byID(got, 4, 5) {
		t.Fatalf("root/a/child = %v, want ids {4,5}", idsOf(got))
	}
}

func TestQueryStarMatchesOneLevel(t *testing.T) {
	c := buildPathTestTree()
	got := c.Query("root/*/child", false)
	if !byID(got, 4, 5) {
		t.Fatalf("root/*/child = %v, want {4,5}", idsOf(got))
	}
}

func TestQueryStarStarMatchesAnyDepth(t *testing.T) {
	c := buildPathTestTree()
	got := c.Query("root/**/child", false)
	if !byID(got, 4, 5) {
		t.Fatalf("root/**/child = %v, want {4,5}", idsOf(got))
	}

	got2 := c.Query("**/leaf", false)
	if !byID(got2, 6) {
		t.Fatalf("**/leaf = %v, want {6}", idsOf(got2))
	}
}

func TestQueryStarStarIncludesZeroLevels(t *testing.T) {
	c := buildPathTestTree()
	got := c.Query("root/**/a", false)
	if !byID(got, 2) {
		t.Fatalf("root/**/a should match a directly (zero extra levels): %v", idsOf(got))
	}
}

func TestQueryAlternation(t *testing.T) {
	c := buildPathTestTree()
	got := c.Query("root/a|b", false)
	if !byID(got, 2, 3) {
		t.Fatalf("root/a|b = %v, want {2,3}", idsOf(got))
	}
}

func TestQueryMatchByID(t *testing.T) {
	c := buildPathTestTree()
	got := c.Query("1/2", true)
	if !byID(got, 2) {
		t.Fatalf("id-matched 1/2 = %v, want {2}", idsOf(got))
	}
}

func TestElementQueryResolvesAgainstOwnChildren(t *testing.T) {
	c := buildPathTestTree()
	root := c.roots[1]
	a := root.children[2]

	got := a.Query("child", false)
	if !byID(got, 4, 5) {
		t.Fatalf("a.Query(child) = %v, want {4,5}", idsOf(got))
	}
}

func TestQueryNoMatchReturnsEmpty(t *testing.T) {
	c := buildPathTestTree()
	got := c.Query("nonexistent", false)
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %v", idsOf(got))
	}
}

func idsOf(elements []*Element) []int {
	out := make([]int, 0, len(elements))
	for _, e := range elements {
		out = append(out, e.id)
	}
	return out
}
