package services

import (
	"testing"

	"pocketledger/internal/testutil"
)

func TestAuditLog(t *testing.T) {
	env := newTestEnv(t)

	env.audit.Log("create", "transaction", "1", map[string]any{"amount": -1250})
	env.audit.Log("delete", "goal", "7", nil)

	entries, err := env.audit.Recent(10)
	testutil.AssertNoError(t, err)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Action != "delete" || entries[0].ResourceID != "7" || entries[0].Changes != "" {
		t.Errorf("unexpected newest entry %+v", entries[0])
	}
	if entries[1].Changes != `{"amount":-1250}` {
		t.Errorf("unexpected changes %q", entries[1].Changes)
	}
}

func TestAuditLogNeverFails(t *testing.T) {
	env := newTestEnv(t)
	testutil.TeardownTestDB(t, env.store.DB())

	// A closed database is logged, not returned or panicked on.
	env.audit.Log("create", "transaction", "1", map[string]any{"bad": make(chan int)})
}
