package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNewTagSet(t *testing.T) {
	set, err := NewTagSet(" Travel", "food", "travel", "", "Work ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := TagSet{"food", "travel", "work"}
	if !reflect.DeepEqual(set, want) {
		t.Errorf("expected %v, got %v", want, set)
	}
	if !set.Contains("TRAVEL") {
		t.Error("Contains should be case-insensitive")
	}
	if set.Contains("trav") {
		t.Error("Contains should match whole tags only")
	}

	if _, err := NewTagSet("a,b"); err == nil {
		t.Error("expected error for tag with comma")
	}
}

func TestTagSetStorageRoundTrip(t *testing.T) {
	set, _ := NewTagSet("b", "a")
	v, err := set.Value()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "a,b" {
		t.Errorf("expected a,b, got %v", v)
	}

	var scanned TagSet
	if err := scanned.Scan(""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scanned) != 0 {
		t.Errorf("expected empty set, got %v", scanned)
	}
}

func TestTagSetJSON(t *testing.T) {
	var empty TagSet
	out, _ := json.Marshal(empty)
	if string(out) != "[]" {
		t.Errorf("expected [], got %s", out)
	}

	var set TagSet
	if err := json.Unmarshal([]byte(`["Rent","rent","home"]`), &set); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(set, TagSet{"home", "rent"}) {
		t.Errorf("unexpected set %v", set)
	}
}
