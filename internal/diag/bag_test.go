package diag

import "testing"

func TestBagSortOrdersByCrateThenFeature(t *testing.T) {
	b := NewBag(10)
	b.Add(New(SevError, PropagateMissing, Span{}, "b first").WithNote(Span{}, "x"))
	b.Add(Diagnostic{CrateName: "a", Feature: "z", Code: PropagateMissing})
	b.Add(Diagnostic{CrateName: "a", Feature: "a", Code: PropagateMissing})

	b.Sort()
	items := b.Items()
	if items[0].CrateName != "" || items[1].Feature != "a" || items[2].Feature != "z" {
		t.Fatalf("unexpected sort order: %+v", items)
	}
}

func TestBagAddRespectsCapacity(t *testing.T) {
	b := NewBag(1)
	if !b.Add(New(SevInfo, UnknownCode, Span{}, "first")) {
		t.Fatalf("expected first Add to succeed")
	}
	if b.Add(New(SevInfo, UnknownCode, Span{}, "second")) {
		t.Fatalf("expected second Add to be rejected at capacity")
	}
	if b.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", b.Len())
	}
}

func TestBagHasErrors(t *testing.T) {
	b := NewBag(10)
	b.Add(New(SevWarning, UnknownCode, Span{}, "warn"))
	if b.HasErrors() {
		t.Fatalf("expected no errors yet")
	}
	b.Add(New(SevError, UnknownCode, Span{}, "err"))
	if !b.HasErrors() {
		t.Fatalf("expected HasErrors true after adding an error")
	}
}
