package services

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"pocketledger/internal/models"
	"pocketledger/internal/storage"
	"pocketledger/internal/testutil"
)

func TestImportCSV(t *testing.T) {
	t.Run("partial_success", func(t *testing.T) {
		env := newTestEnv(t).withCategories(t)
		input := strings.Join([]string{
			"date,amount,category,tags,method,note",
			"2024-06-01,-12.50,Food,\"lunch,work\",card,noodles",
			"2024-06-02,2500,Salary,,transfer,",
			"2024-02-30,-3.00,Food,,cash,bad date",
			"2024-06-03,-4.25,Food,,,",
			"2024-06-04,-1,Travel,,cash,",
			"2024-06-05,7,Food,,cash,wrong sign",
			"2024-06-06,\"-1,234\",Food,,cash,thousands separator",
		}, "\n")

		summary, err := env.transfer.ImportCSV(strings.NewReader(input))
		testutil.AssertNoError(t, err)

		if summary.Imported != 3 {
			t.Errorf("expected 3 imported, got %d", summary.Imported)
		}
		if len(summary.Rejected) != 4 {
			t.Fatalf("expected 4 rejected rows, got %+v", summary.Rejected)
		}
		wantRows := []int{3, 5, 6, 7}
		for i, r := range summary.Rejected {
			if r.Row != wantRows[i] {
				t.Errorf("rejection %d: expected row %d, got %d (%s)", i, wantRows[i], r.Row, r.Reason)
			}
			if r.Reason == "" {
				t.Errorf("rejection %d has no reason", i)
			}
		}
		if !strings.Contains(summary.Rejected[0].Reason, "date") {
			t.Errorf("expected a date reason, got %q", summary.Rejected[0].Reason)
		}
		if !strings.Contains(summary.Rejected[1].Reason, "unknown category") {
			t.Errorf("expected an unknown category reason, got %q", summary.Rejected[1].Reason)
		}
		if !strings.Contains(summary.Rejected[3].Reason, "amount") {
			t.Errorf("expected an amount reason, got %q", summary.Rejected[3].Reason)
		}

		rows, err := env.ledger.ListTransactions(storage.TransactionFilter{})
		testutil.AssertNoError(t, err)
		if len(rows) != 3 {
			t.Fatalf("expected 3 stored rows, got %d", len(rows))
		}
		lunch := rows[2]
		if lunch.Amount != -1250 || lunch.Tags.String() != "lunch,work" || lunch.Method != models.PaymentMethodCard {
			t.Errorf("unexpected imported row %+v", lunch)
		}
		if rows[0].Method != models.PaymentMethodCash {
			t.Errorf("empty method should default to cash, got %s", rows[0].Method)
		}

		if _, err := env.categories.GetCategory("Travel"); err == nil {
			t.Error("unknown categories must not be created by import")
		}
	})

	t.Run("columns_in_any_order", func(t *testing.T) {
		env := newTestEnv(t).withCategories(t)
		input := "category,amount,date\nFood,-1.00,2024-06-01\n"

		summary, err := env.transfer.ImportCSV(strings.NewReader(input))
		testutil.AssertNoError(t, err)
		if summary.Imported != 1 || len(summary.Rejected) != 0 {
			t.Errorf("unexpected summary %+v", summary)
		}
	})

	t.Run("field_count_mismatch_is_a_row_error", func(t *testing.T) {
		env := newTestEnv(t).withCategories(t)
		input := "date,amount,category\n2024-06-01,-1\n2024-06-01,-1,Food\n"

		summary, err := env.transfer.ImportCSV(strings.NewReader(input))
		testutil.AssertNoError(t, err)
		if summary.Imported != 1 || len(summary.Rejected) != 1 || summary.Rejected[0].Row != 1 {
			t.Errorf("unexpected summary %+v", summary)
		}
	})

	t.Run("bad_header_aborts", func(t *testing.T) {
		env := newTestEnv(t).withCategories(t)

		for _, input := range []string{"", "when,amount,category\n", "date,amount\n", "date,date,amount,category\n"} {
			_, err := env.transfer.ImportCSV(strings.NewReader(input))
			testutil.AssertAppError(t, err, "VALIDATION_ERROR")
			testutil.AssertField(t, err, "header")
		}
	})
}

func TestExportCSV(t *testing.T) {
	env := newTestEnv(t).withCategories(t)
	_, err := env.ledger.RecordTransaction(TransactionInput{
		Date: day(2024, 6, 2), Amount: -1250, Category: "Food", Tags: []string{"lunch", "work"}, Location: " Cafe Roma ",
	})
	testutil.AssertNoError(t, err)
	env.record(t, day(2024, 6, 1), 250000, "Salary")

	var buf bytes.Buffer
	n, err := env.transfer.ExportCSV(&buf, storage.TransactionFilter{})
	testutil.AssertNoError(t, err)
	if n != 2 {
		t.Errorf("expected 2 rows, got %d", n)
	}

	want := "date,amount,category,tags,method,note,location\n" +
		"2024-06-01,2500.00,Salary,,cash,,\n" +
		"2024-06-02,-12.50,Food,\"lunch,work\",cash,,Cafe Roma\n"
	if buf.String() != want {
		t.Errorf("unexpected CSV:\n%s", buf.String())
	}

	// Round trip into an empty ledger with the same categories.
	other := newTestEnv(t).withCategories(t)
	summary, err := other.transfer.ImportCSV(&buf)
	testutil.AssertNoError(t, err)
	if summary.Imported != 2 || len(summary.Rejected) != 0 {
		t.Errorf("round trip failed: %+v", summary)
	}
	rows, err := other.ledger.ListTransactions(storage.TransactionFilter{Category: "Food"})
	testutil.AssertNoError(t, err)
	if len(rows) != 1 || rows[0].Location != "Cafe Roma" {
		t.Errorf("location lost in round trip: %+v", rows)
	}
}

func TestJSONBackup(t *testing.T) {
	t.Run("export_then_restore", func(t *testing.T) {
		env := newTestEnv(t).withCategories(t)
		env.record(t, day(2024, 6, 1), 100000, "Salary")
		food := env.record(t, day(2024, 6, 2), -2000, "Food", "market")
		_, err := env.budgets.CreateBudget(BudgetInput{Category: "Food", Year: 2024, Month: 6, Limit: 10000})
		testutil.AssertNoError(t, err)
		deadline := day(2024, 12, 31)
		_, err = env.goals.CreateGoal(GoalInput{Name: "Trip", Target: 5000, Current: 1000, Deadline: &deadline})
		testutil.AssertNoError(t, err)

		var buf bytes.Buffer
		testutil.AssertNoError(t, env.transfer.ExportJSON(&buf))

		var doc map[string]json.RawMessage
		if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatalf("export is not valid JSON: %v", err)
		}
		for _, key := range []string{"version", "exported_at", "categories", "transactions", "budgets", "goals"} {
			if _, ok := doc[key]; !ok {
				t.Errorf("export is missing %q", key)
			}
		}

		target := newTestEnv(t)
		summary, err := target.transfer.ImportJSON(bytes.NewReader(buf.Bytes()))
		testutil.AssertNoError(t, err)
		if summary.Categories != 3 || summary.Transactions != 2 || summary.Budgets != 1 || summary.Goals != 1 {
			t.Errorf("unexpected restore summary %+v", summary)
		}

		restored, err := target.ledger.GetTransaction(food.ID)
		testutil.AssertNoError(t, err)
		if restored.Amount != -2000 || !restored.Tags.Contains("market") {
			t.Errorf("unexpected restored transaction %+v", restored)
		}
		worth, _ := target.ledger.NetWorth(day(2024, 6, 30))
		if worth != 98000 {
			t.Errorf("expected restored net worth 98000, got %d", worth)
		}
		goals, _ := target.goals.ListGoals()
		if len(goals) != 1 || goals[0].Deadline == nil || goals[0].Deadline.String() != "2024-12-31" {
			t.Errorf("unexpected restored goals %+v", goals)
		}
	})

	t.Run("one_bad_row_leaves_state_unchanged", func(t *testing.T) {
		env := newTestEnv(t).withCategories(t)
		env.record(t, day(2024, 6, 1), 100000, "Salary")

		doc := `{
			"version": 1,
			"categories": [{"name": "Food", "kind": "expense"}],
			"transactions": [
				{"id": 1, "date": "2024-01-01", "amount": -100, "category": "Food", "tags": [], "method": "cash"},
				{"id": 2, "date": "2024-01-02", "amount": -100, "category": "Ghost", "tags": [], "method": "cash"}
			],
			"budgets": [],
			"goals": []
		}`
		_, err := env.transfer.ImportJSON(strings.NewReader(doc))
		testutil.AssertAppError(t, err, "UNKNOWN_CATEGORY")
		testutil.AssertField(t, err, "transactions[1].category")

		rows, _ := env.ledger.ListTransactions(storage.TransactionFilter{})
		cats, _ := env.categories.ListCategories("")
		if len(rows) != 1 || rows[0].Category != "Salary" || len(cats) != 3 {
			t.Errorf("prior state changed: %d rows, %d categories", len(rows), len(cats))
		}
	})

	t.Run("document_validation", func(t *testing.T) {
		env := newTestEnv(t)

		tests := []struct {
			name  string
			doc   string
			field string
		}{
			{"not_json", `{"version":`, "document"},
			{"wrong_version", `{"version": 2}`, "version"},
			{"sign_mismatch", `{"version":1,"categories":[{"name":"Pay","kind":"income"}],"transactions":[{"id":1,"date":"2024-01-01","amount":-5,"category":"Pay"}]}`, "transactions[0].amount"},
			{"duplicate_ids", `{"version":1,"categories":[{"name":"F","kind":"expense"}],"transactions":[{"id":1,"date":"2024-01-01","amount":-5,"category":"F"},{"id":1,"date":"2024-01-01","amount":-5,"category":"F"}]}`, "transactions[1].id"},
			{"income_budget", `{"version":1,"categories":[{"name":"Pay","kind":"income"}],"budgets":[{"id":1,"category":"Pay","year":2024,"month":1,"limit":10}]}`, "budgets[0].category"},
			{"goal_over_target", `{"version":1,"goals":[{"id":1,"name":"G","target":10,"current":11}]}`, "goals[0].current"},
			{"goal_negative_priority", `{"version":1,"goals":[{"id":1,"name":"G","priority":-2,"target":10}]}`, "goals[0].priority"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := env.transfer.ImportJSON(strings.NewReader(tt.doc))
				if err == nil {
					t.Fatal("expected error")
				}
				testutil.AssertField(t, err, tt.field)
			})
		}
	})

	t.Run("status_is_derived_from_amounts", func(t *testing.T) {
		env := newTestEnv(t)
		doc := `{"version":1,"goals":[{"id":3,"name":"G","target":10,"current":10,"status":"in_progress"}]}`

		_, err := env.transfer.ImportJSON(strings.NewReader(doc))
		testutil.AssertNoError(t, err)

		goal, err := env.goals.GetGoal(3)
		testutil.AssertNoError(t, err)
		if !goal.IsCompleted() {
			t.Errorf("expected completed status, got %s", goal.Status)
		}
		if goal.Priority != models.DefaultGoalPriority {
			t.Errorf("missing priority should default to %d, got %d", models.DefaultGoalPriority, goal.Priority)
		}
	})

	t.Run("goal_priority_and_description_survive", func(t *testing.T) {
		env := newTestEnv(t)
		doc := `{"version":1,"goals":[{"id":4,"name":"House","description":"down payment","priority":3,"target":10}]}`

		_, err := env.transfer.ImportJSON(strings.NewReader(doc))
		testutil.AssertNoError(t, err)

		goal, err := env.goals.GetGoal(4)
		testutil.AssertNoError(t, err)
		if goal.Priority != 3 || goal.Description != "down payment" {
			t.Errorf("unexpected restored goal %+v", goal)
		}
	})
}
