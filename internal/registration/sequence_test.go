package registration_test

import (
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/csmc-contest/backend/internal/category"
	"github.com/csmc-contest/backend/internal/registration"
	"github.com/csmc-contest/backend/internal/testutil"
)

func TestAllocateNextIncrements(t *testing.T) {
	db := testutil.SetupTestDB(t)

	for want := 1; want <= 3; want++ {
		tx, err := db.Beginx()
		if err != nil {
			t.Fatalf("begin: %v", err)
		}
		got, err := registration.AllocateNext(tx, category.Primary)
		if err != nil {
			t.Fatalf("AllocateNext: %v", err)
		}
		if err := tx.Commit(); err != nil {
			t.Fatalf("commit: %v", err)
		}
		if got != want {
			t.Errorf("allocation %d returned %d", want, got)
		}
	}
}

func TestAllocateNextIsolatedPerCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)

	for _, cat := range []category.Category{category.Primary, category.Junior, category.Senior} {
		tx, err := db.Beginx()
		if err != nil {
			t.Fatalf("begin: %v", err)
		}
		got, err := registration.AllocateNext(tx, cat)
		if err != nil {
			t.Fatalf("AllocateNext(%s): %v", cat, err)
		}
		if err := tx.Commit(); err != nil {
			t.Fatalf("commit: %v", err)
		}
		if got != 1 {
			t.Errorf("first allocation for %s = %d, want 1", cat, got)
		}
	}
}

func TestAllocateNextConcurrent(t *testing.T) {
	db := testutil.SetupTestDB(t)

	const n = 20
	results := make(chan int, n)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tx, err := db.Beginx()
			if err != nil {
				t.Errorf("begin: %v", err)
				return
			}
			seq, err := registration.AllocateNext(tx, category.Senior)
			if err != nil {
				tx.Rollback()
				t.Errorf("AllocateNext: %v", err)
				return
			}
			if err := tx.Commit(); err != nil {
				t.Errorf("commit: %v", err)
				return
			}
			results <- seq
		}()
	}

	wg.Wait()
	close(results)

	var got []int
	for seq := range results {
		got = append(got, seq)
	}
	if len(got) != n {
		t.Fatalf("expected %d allocations, got %d", n, len(got))
	}

	sort.Ints(got)
	for i, seq := range got {
		if seq != i+1 {
			t.Fatalf("allocations are not gap-free: %v", got)
		}
	}
}

func TestAllocateNextRollbackReleasesNumber(t *testing.T) {
	db := testutil.SetupTestDB(t)

	tx, err := db.Beginx()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := registration.AllocateNext(tx, category.Junior); err != nil {
		t.Fatalf("AllocateNext: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	var counter int
	if err := db.Get(&counter, `SELECT current_number FROM username_sequences WHERE category = 'J'`); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	if counter != 0 {
		t.Errorf("counter = %d after rollback, want 0", counter)
	}
}

func TestAllocateNextSeedsMissingRow(t *testing.T) {
	db := testutil.SetupTestDB(t)

	if _, err := db.Exec(`DELETE FROM username_sequences WHERE category = 'P'`); err != nil {
		t.Fatalf("delete counter row: %v", err)
	}

	tx, err := db.Beginx()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	got, err := registration.AllocateNext(tx, category.Primary)
	if err != nil {
		t.Fatalf("AllocateNext on unseeded category: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if got != 1 {
		t.Errorf("allocation on unseeded category = %d, want 1", got)
	}
}

func TestAllocateNextExhaustion(t *testing.T) {
	db := testutil.SetupTestDB(t)

	if _, err := db.Exec(`UPDATE username_sequences SET current_number = 9999 WHERE category = 'S'`); err != nil {
		t.Fatalf("set counter: %v", err)
	}

	tx, err := db.Beginx()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback()

	_, err = registration.AllocateNext(tx, category.Senior)
	if !errors.Is(err, registration.ErrSequenceExhausted) {
		t.Errorf("expected ErrSequenceExhausted, got %v", err)
	}
}
