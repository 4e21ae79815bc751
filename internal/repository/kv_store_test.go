package repository

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nossamoto/backend/internal/model"
)

func openTestStore(t *testing.T) *KVStore {
	t.Helper()
	store, err := OpenKVStore(filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("OpenKVStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// ---------------------------------------------------------------------------
// KVStore
// ---------------------------------------------------------------------------

func TestKVStore_GetMissingKey(t *testing.T) {
	store := openTestStore(t)
	raw, err := store.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != nil {
		t.Errorf("expected nil, got %q", raw)
	}
}

func TestKVStore_PutOverwrites(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	if err := store.Put(ctx, "k", []byte("[1]")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Put(ctx, "k", []byte("[2]")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	raw, _ := store.Get(ctx, "k")
	if string(raw) != "[2]" {
		t.Errorf("expected [2], got %s", raw)
	}
}

// ---------------------------------------------------------------------------
// Motorcycles
// ---------------------------------------------------------------------------

func TestKVMotorcycleRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewKVMotorcycleRepository(openTestStore(t))

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty catalog, got %d", len(list))
	}

	bros := &model.Motorcycle{ID: "m1", Name: "Bros 160", Price: 2199000}
	pop := &model.Motorcycle{ID: "m2", Name: "Pop 110i", Price: 990000}
	if err := repo.Create(ctx, bros); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, pop); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, bros); !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict for duplicate id, got %v", err)
	}

	list, _ = repo.List(ctx)
	if len(list) != 2 || list[0].Name != "Bros 160" || list[1].Name != "Pop 110i" {
		t.Fatalf("expected insertion order, got %+v", list)
	}

	bros.Price = 2299000
	if err := repo.Update(ctx, bros); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repo.GetByID(ctx, "m1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Price != 2299000 {
		t.Errorf("expected price 2299000, got %d", got.Price)
	}

	if err := repo.Delete(ctx, "m1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, "m1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, "m1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
	if err := repo.Update(ctx, &model.Motorcycle{ID: "nope"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on update, got %v", err)
	}
}

func TestKVMotorcycleRepository_LegacyRecords(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	legacy := `[{"id":1700000000000,"name":"CG 160 Fan","price":"1890000"},{"name":"Biz 125","price":"1490000"}]`
	if err := store.Put(ctx, KeyMotorcycles, []byte(legacy)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	list, err := NewKVMotorcycleRepository(store).List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 motorcycles, got %d", len(list))
	}
	if list[0].ID != "1700000000000" || list[0].Price != 1890000 {
		t.Errorf("unexpected first record: %+v", list[0])
	}
	if list[1].ID == "" {
		t.Error("expected an identifier to be assigned to the record stored without one")
	}
}

// ---------------------------------------------------------------------------
// Coefficients
// ---------------------------------------------------------------------------

func TestKVCoefficientRepository_BackfillsOnFirstRead(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	legacy := `[
		{"id":1,"term":"24","downPaymentMin":"30","downPaymentMax":"100","value":"0.05"},
		{"id":2,"term":"12","downPaymentMin":"0","downPaymentMax":"29,99","value":"0,1","motorcycle":"Bros 160","bank":"Banco A"}
	]`
	if err := store.Put(ctx, KeyCoefficients, []byte(legacy)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	rules, err := NewKVCoefficientRepository(store).List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}
	if rules[0].Term != 12 || rules[0].Value != 0.1 || rules[0].DownPaymentMax != 29.99 {
		t.Errorf("unexpected first rule: %+v", rules[0])
	}
	if rules[1].Motorcycle != model.WildcardMotorcycle || rules[1].Bank != model.UnknownLender {
		t.Errorf("expected backfilled scope and lender, got %q / %q", rules[1].Motorcycle, rules[1].Bank)
	}

	raw, _ := store.Get(ctx, KeyCoefficients)
	var stored []map[string]any
	if err := json.Unmarshal(raw, &stored); err != nil {
		t.Fatalf("stored value is not a JSON array: %v", err)
	}
	if stored[0]["term"] != float64(12) {
		t.Errorf("expected stored table to be sorted, got first term %v", stored[0]["term"])
	}
	if stored[1]["motorcycle"] != model.WildcardMotorcycle || stored[1]["bank"] != model.UnknownLender {
		t.Errorf("expected backfill to be written back, got %v", stored[1])
	}
}

func TestKVCoefficientRepository_KeepsSortedAfterWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewKVCoefficientRepository(openTestStore(t))

	rules := []*model.CoefficientRule{
		{ID: "a", Term: 48, DownPaymentMin: 0, DownPaymentMax: 100, Value: 0.04, Motorcycle: "Todos", Bank: "Banco A"},
		{ID: "b", Term: 12, DownPaymentMin: 50, DownPaymentMax: 100, Value: 0.09, Motorcycle: "Todos", Bank: "Banco A"},
		{ID: "c", Term: 12, DownPaymentMin: 0, DownPaymentMax: 49.99, Value: 0.1, Motorcycle: "Todos", Bank: "Banco B"},
	}
	if err := repo.CreateMany(ctx, rules); err != nil {
		t.Fatalf("CreateMany: %v", err)
	}

	list, _ := repo.List(ctx)
	var order []string
	for _, r := range list {
		order = append(order, r.ID)
	}
	if len(order) != 3 || order[0] != "c" || order[1] != "b" || order[2] != "a" {
		t.Errorf("expected order [c b a], got %v", order)
	}

	moved := *list[2]
	moved.Term = 6
	if err := repo.Update(ctx, &moved); err != nil {
		t.Fatalf("Update: %v", err)
	}
	list, _ = repo.List(ctx)
	if list[0].ID != "a" {
		t.Errorf("expected updated rule to move first, got %s", list[0].ID)
	}

	if err := repo.Delete(ctx, "b"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, "b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Submissions
// ---------------------------------------------------------------------------

func TestKVSubmissionRepository_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewKVSubmissionRepository(openTestStore(t))

	dp := int64(500000)
	first := &model.Submission{
		ID:          "s1",
		Application: model.Application{FullName: "Ana", Motorcycle: "Bros 160", Price: 2000000, DownPayment: &dp, Term: 24},
		Installment: 57000,
		Lender:      "Banco A",
		SubmittedAt: time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC),
	}
	second := &model.Submission{
		ID:          "s2",
		Application: model.Application{FullName: "Bruno", Motorcycle: "Pop 110i", Price: 990000, Term: 12},
		SubmittedAt: time.Date(2026, 1, 11, 12, 0, 0, 0, time.UTC),
	}
	for _, s := range []*model.Submission{first, second} {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != "s2" || list[1].ID != "s1" {
		t.Fatalf("expected [s2 s1], got %+v", list)
	}
	got := list[1]
	if got.DownPayment == nil || *got.DownPayment != 500000 {
		t.Errorf("expected down payment 500000, got %v", got.DownPayment)
	}
	if list[0].DownPayment != nil {
		t.Errorf("expected blank down payment to stay blank, got %d", *list[0].DownPayment)
	}
	if got.Installment != 57000 || got.Lender != "Banco A" {
		t.Errorf("unexpected quote fields: %d / %q", got.Installment, got.Lender)
	}
	if !got.SubmittedAt.Equal(first.SubmittedAt) {
		t.Errorf("expected %v, got %v", first.SubmittedAt, got.SubmittedAt)
	}
}
