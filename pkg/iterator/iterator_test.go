package iterator

import (
	"bytes"
	"slices"
	"testing"

	"memlsm/pkg/memtable"
)

// table builds a memtable; a nil value writes a tombstone.
func table(pairs map[string]*string) *memtable.Table {
	tbl := memtable.New()
	for k, v := range pairs {
		if v == nil {
			tbl.Upsert(k, memtable.Deleted())
			continue
		}
		tbl.Upsert(k, memtable.Present([]byte(*v)))
	}
	return tbl
}

func str(s string) *string { return &s }

func merge(prefix string, tables []*memtable.Table, opts ...Option) *MergeIterator {
	sources := make([]Source, 0, len(tables))
	for _, tbl := range tables {
		sources = append(sources, tbl.Seek(prefix))
	}
	return NewMerge(prefix, sources, opts...)
}

func pairs(items []KV) []string {
	result := make([]string, 0, len(items))
	for _, it := range items {
		result = append(result, it.Key+"="+string(it.Value))
	}
	return result
}

func expectPairs(t *testing.T, got []KV, want ...string) {
	t.Helper()
	if p := pairs(got); !slices.Equal(p, want) {
		t.Fatalf("expected %q, got %q", want, p)
	}
}

func TestMerge_NewestWinsOnEqualKeys(t *testing.T) {
	active := table(map[string]*string{
		"/user/adam":      str("new"),
		"/user/catherine": nil,
	})
	frozen := table(map[string]*string{
		"/user/adam":      str("old"),
		"/user/catherine": str("catherine"),
		"/user/vardhan":   str("vardhan"),
	})

	got := merge("/user/", []*memtable.Table{active, frozen}).Collect()
	expectPairs(t, got, "/user/adam=new", "/user/vardhan=vardhan")
}

func TestMerge_ActiveTombstoneOverFrozenValue(t *testing.T) {
	active := table(map[string]*string{"k": nil})
	frozen := table(map[string]*string{"k": str("v")})

	expectPairs(t, merge("", []*memtable.Table{active, frozen}).Collect())
}

func TestMerge_ActiveValueOverFrozenTombstone(t *testing.T) {
	active := table(map[string]*string{"k": str("v")})
	frozen := table(map[string]*string{"k": nil})

	got := merge("", []*memtable.Table{active, frozen}).Collect()
	expectPairs(t, got, "k=v")
}

func TestMerge_InterleavesAscending(t *testing.T) {
	active := table(map[string]*string{"a": str("1"), "c": str("3"), "e": str("5")})
	frozen := table(map[string]*string{"b": str("2"), "d": str("4"), "f": str("6")})

	got := merge("", []*memtable.Table{active, frozen}).Collect()
	expectPairs(t, got, "a=1", "b=2", "c=3", "d=4", "e=5", "f=6")
}

func TestMerge_StopsAtFirstKeyOutsidePrefix(t *testing.T) {
	active := table(map[string]*string{"p/1": str("1"), "q": str("q"), "p/3": str("3")})
	frozen := table(map[string]*string{"p/2": str("2"), "pz": str("z")})

	it := merge("p/", []*memtable.Table{active, frozen})
	got := it.Collect()
	expectPairs(t, got, "p/1=1", "p/2=2", "p/3=3")
	if it.Next() {
		t.Fatalf("iterator advanced past the prefix range")
	}
}

func TestMerge_SkipsTombstonesInsidePrefix(t *testing.T) {
	active := table(map[string]*string{"a/1": nil, "a/2": nil, "a/3": str("3")})

	got := merge("a/", []*memtable.Table{active}).Collect()
	expectPairs(t, got, "a/3=3")
}

func TestMerge_EmptyPrefixMatchesEverything(t *testing.T) {
	active := table(map[string]*string{"": str("empty"), "\xff": str("high")})
	frozen := table(map[string]*string{"m": str("mid")})

	got := merge("", []*memtable.Table{active, frozen}).Collect()
	expectPairs(t, got, "=empty", "m=mid", "\xff=high")
}

func TestMerge_ThreeSourcesMostRecentWins(t *testing.T) {
	newest := table(map[string]*string{"k1": str("n1")})
	middle := table(map[string]*string{"k1": str("m1"), "k2": str("m2"), "k3": nil})
	oldest := table(map[string]*string{"k1": str("o1"), "k2": str("o2"), "k3": str("o3"), "k4": str("o4")})

	got := merge("k", []*memtable.Table{newest, middle, oldest}).Collect()
	expectPairs(t, got, "k1=n1", "k2=m2", "k4=o4")
}

func TestMerge_CustomTieBreak(t *testing.T) {
	first := table(map[string]*string{"k": str("first")})
	last := table(map[string]*string{"k": str("last")})

	oldestWins := func(candidates []int) int {
		return candidates[len(candidates)-1]
	}

	got := merge("", []*memtable.Table{first, last}, WithTieBreak(oldestWins)).Collect()
	expectPairs(t, got, "k=last")
}

func TestMerge_NoSources(t *testing.T) {
	it := NewMerge("", nil)
	if it.Next() {
		t.Fatalf("merge of no sources yielded %q", it.Key())
	}
	expectPairs(t, it.Collect())
}

func TestMerge_ValueIsCopied(t *testing.T) {
	tbl := table(map[string]*string{"k": str("abc")})

	it := merge("", []*memtable.Table{tbl})
	if !it.Next() || it.Key() != "k" {
		t.Fatalf("expected key 'k'")
	}
	it.Value()[0] = 'x'

	e, ok := tbl.Get("k")
	if !ok || !bytes.Equal(e.Value(), []byte("abc")) {
		t.Fatalf("stored value changed through the iterator: %q", e.Value())
	}
}

func TestMerge_AllStopsOnBreak(t *testing.T) {
	tbl := table(map[string]*string{"a": str("1"), "b": str("2"), "c": str("3")})

	it := merge("", []*memtable.Table{tbl})
	for key := range it.All() {
		if key == "b" {
			break
		}
	}

	if !it.Next() || it.Key() != "c" {
		t.Fatalf("expected iteration to resume at 'c'")
	}
}
