package memtable

import (
	"bytes"
	"slices"
	"testing"
)

func TestEntry(t *testing.T) {
	p := Present([]byte("hello"))
	if p.IsDeleted() {
		t.Fatalf("present entry reported as deleted")
	}
	if p.Len() != 5 {
		t.Fatalf("expected len 5, got %d", p.Len())
	}
	if !bytes.Equal(p.Value(), []byte("hello")) {
		t.Fatalf("expected 'hello', got %q", p.Value())
	}

	d := Deleted()
	if !d.IsDeleted() {
		t.Fatalf("tombstone not reported as deleted")
	}
	if d.Len() != TombstoneLen {
		t.Fatalf("expected tombstone len %d, got %d", TombstoneLen, d.Len())
	}
	if d.Value() != nil {
		t.Fatalf("expected nil tombstone value, got %q", d.Value())
	}

	empty := Present(nil)
	if empty.IsDeleted() {
		t.Fatalf("an empty payload is not a tombstone")
	}
	if empty.Len() != 0 {
		t.Fatalf("expected len 0, got %d", empty.Len())
	}
}

func TestTable_UpsertAccounting(t *testing.T) {
	tbl := New()

	if _, replaced := tbl.Upsert("key", Present([]byte("value"))); replaced {
		t.Fatalf("first insert reported a replacement")
	}
	if tbl.Size() != 8 {
		t.Fatalf("expected size 8, got %d", tbl.Size())
	}

	old, replaced := tbl.Upsert("key", Present([]byte("v")))
	if !replaced {
		t.Fatalf("overwrite not reported as a replacement")
	}
	if !bytes.Equal(old.Value(), []byte("value")) {
		t.Fatalf("expected old value 'value', got %q", old.Value())
	}
	if tbl.Size() != 4 {
		t.Fatalf("expected size 4, got %d", tbl.Size())
	}

	old, replaced = tbl.Upsert("key", Deleted())
	if !replaced {
		t.Fatalf("delete not reported as a replacement")
	}
	if !bytes.Equal(old.Value(), []byte("v")) {
		t.Fatalf("expected old value 'v', got %q", old.Value())
	}
	if tbl.Size() != 4 || tbl.Len() != 1 {
		t.Fatalf("expected size 4 and 1 key, got %d and %d", tbl.Size(), tbl.Len())
	}

	e, ok := tbl.Get("key")
	if !ok || !e.IsDeleted() {
		t.Fatalf("expected a tombstone for 'key', got %v %v", e, ok)
	}

	if _, ok := tbl.Get("missing"); ok {
		t.Fatalf("missing key found")
	}
}

func TestTable_SortedIsByteOrdered(t *testing.T) {
	tbl := New()
	for _, k := range []string{"b", "a", "B", "ab", "", "\xff", "a\x00"} {
		tbl.Upsert(k, Present([]byte(k)))
	}

	var keys []string
	for _, it := range tbl.Sorted() {
		keys = append(keys, it.Key)
	}

	want := []string{"", "B", "a", "a\x00", "ab", "b", "\xff"}
	if !slices.Equal(keys, want) {
		t.Fatalf("expected %q, got %q", want, keys)
	}
}

func TestCursor_SeekPeekNext(t *testing.T) {
	tbl := New()
	for _, k := range []string{"/abc", "/user/a", "/user/b", "/xyz"} {
		tbl.Upsert(k, Present([]byte(k)))
	}

	c := tbl.Seek("/user/")

	// peek does not consume
	for range 2 {
		key, _, ok := c.Peek()
		if !ok || key != "/user/a" {
			t.Fatalf("expected peek at '/user/a', got %q %v", key, ok)
		}
	}

	var got []string
	for {
		key, e, ok := c.Next()
		if !ok {
			break
		}
		if string(e.Value()) != key {
			t.Fatalf("key %q carries value %q", key, e.Value())
		}
		got = append(got, key)
	}

	want := []string{"/user/a", "/user/b", "/xyz"}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %q, got %q", want, got)
	}

	if _, _, ok := c.Peek(); ok {
		t.Fatalf("exhausted cursor still peeks")
	}
}

func TestCursor_SeekBounds(t *testing.T) {
	tbl := New()

	if _, _, ok := tbl.Seek("").Peek(); ok {
		t.Fatalf("cursor over an empty table has an entry")
	}

	tbl.Upsert("m", Present(nil))

	tests := []struct {
		seek string
		want string
		ok   bool
	}{
		{seek: "", want: "m", ok: true},
		{seek: "m", want: "m", ok: true},
		{seek: "n", ok: false},
	}

	for _, tt := range tests {
		key, _, ok := tbl.Seek(tt.seek).Peek()
		if ok != tt.ok || key != tt.want {
			t.Fatalf("seek %q: expected %q %v, got %q %v", tt.seek, tt.want, tt.ok, key, ok)
		}
	}
}
