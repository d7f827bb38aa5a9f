package uuid

import (
	"testing"
	"time"

	googleuuid "github.com/google/uuid"
)

func TestNewIsVersion7(t *testing.T) {
	id, err := googleuuid.Parse(New())
	if err != nil {
		t.Fatalf("invalid uuid: %v", err)
	}
	if id.Version() != 7 {
		t.Errorf("expected version 7, got %d", id.Version())
	}
}

func TestNewSortsByTime(t *testing.T) {
	first := New()
	time.Sleep(2 * time.Millisecond)
	second := New()
	if first >= second {
		t.Errorf("expected %s < %s", first, second)
	}
}

func TestIsValid(t *testing.T) {
	if !IsValid(New()) {
		t.Error("generated id should be valid")
	}
	if IsValid("not-a-uuid") {
		t.Error("garbage should be invalid")
	}
}
