package model

import (
	"errors"
	"testing"
)

func TestShoppingListRoundTrip(t *testing.T) {
	items := []ShoppingItem{
		{ID: "b", Name: "Coffee", IsCompleted: false},
		{ID: "a", Name: "Tea", IsCompleted: true},
	}
	raw, err := EncodeShoppingList(items)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeShoppingList(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0] != items[0] || got[1] != items[1] {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestEncodeShoppingListNilIsEmptyArray(t *testing.T) {
	raw, err := EncodeShoppingList(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if raw != "[]" {
		t.Fatalf("expected [], got %s", raw)
	}
}

func TestDecodeShoppingListRejectsInvalid(t *testing.T) {
	for _, raw := range []string{"", "null", "{}", `[{"id":"","name":"x"}]`, `[{"id":"1","name":"  "}]`} {
		if _, err := DecodeShoppingList(raw); !errors.Is(err, ErrMalformedShoppingList) {
			t.Fatalf("decode %q: expected ErrMalformedShoppingList, got %v", raw, err)
		}
	}
}
