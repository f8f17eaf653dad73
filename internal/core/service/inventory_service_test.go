package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/rl1809/stock-tally/internal/core/domain"
)

// Mock Preferences
type mockPrefs struct {
	data   map[string]string
	puts   int
	getErr error
	putErr error
	mu     sync.Mutex
}

func newMockPrefs() *mockPrefs {
	return &mockPrefs{data: make(map[string]string)}
}

func (m *mockPrefs) GetString(ctx context.Context, key, defValue string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return "", m.getErr
	}
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return defValue, nil
}

func (m *mockPrefs) PutString(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.putErr != nil {
		return m.putErr
	}
	m.data[key] = value
	m.puts++
	return nil
}

func newTestService(t *testing.T) (*InventoryService, *mockPrefs) {
	t.Helper()
	prefs := newMockPrefs()
	return NewInventoryService(prefs, zaptest.NewLogger(t)), prefs
}

func TestSubmit_FirstProduct(t *testing.T) {
	svc, prefs := newTestService(t)

	res, err := svc.Submit(context.Background(), domain.Submission{Product: "apples", Quantity: "5"})
	if err != nil {
		t.Fatalf("expected success, got error: %v", err)
	}

	if res.Total != 5 {
		t.Errorf("expected total 5, got %d", res.Total)
	}
	if res.Display != "apples: 5" {
		t.Errorf("expected display %q, got %q", "apples: 5", res.Display)
	}
	if res.Notice != "Product added: apples" {
		t.Errorf("unexpected notice: %q", res.Notice)
	}
	if prefs.data[InventoryKey] != `{"apples":5}` {
		t.Errorf("unexpected persisted value: %s", prefs.data[InventoryKey])
	}
}

func TestSubmit_Accumulates(t *testing.T) {
	svc, prefs := newTestService(t)
	prefs.data[InventoryKey] = `{"apples":5}`

	res, err := svc.Submit(context.Background(), domain.Submission{Product: "apples", Quantity: "3"})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if res.Total != 8 {
		t.Errorf("expected total 8, got %d", res.Total)
	}
	if prefs.data[InventoryKey] != `{"apples":8}` {
		t.Errorf("unexpected persisted value: %s", prefs.data[InventoryKey])
	}
}

func TestSubmit_TrimsInput(t *testing.T) {
	svc, prefs := newTestService(t)

	if _, err := svc.Submit(context.Background(), domain.Submission{Product: "  bolts ", Quantity: " 120 "}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if prefs.data[InventoryKey] != `{"bolts":120}` {
		t.Errorf("unexpected persisted value: %s", prefs.data[InventoryKey])
	}
}

func TestSubmit_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		sub  domain.Submission
	}{
		{"empty name", domain.Submission{Product: "", Quantity: "5"}},
		{"blank name", domain.Submission{Product: "   ", Quantity: "5"}},
		{"empty quantity", domain.Submission{Product: "apples", Quantity: ""}},
		{"both empty", domain.Submission{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, prefs := newTestService(t)
			prefs.data[InventoryKey] = `{"apples":5}`

			_, err := svc.Submit(context.Background(), tc.sub)
			if !errors.Is(err, ErrMissingFields) {
				t.Errorf("expected ErrMissingFields, got: %v", err)
			}
			if Notice(err) != "Please enter a name and a quantity" {
				t.Errorf("unexpected notice: %q", Notice(err))
			}
			if prefs.puts != 0 {
				t.Errorf("expected no writes, got %d", prefs.puts)
			}
			if prefs.data[InventoryKey] != `{"apples":5}` {
				t.Errorf("expected store unchanged, got %s", prefs.data[InventoryKey])
			}
		})
	}
}

func TestSubmit_InvalidQuantity(t *testing.T) {
	for _, qty := range []string{"five", "1.5", "-3", "99999999999999999999"} {
		t.Run(qty, func(t *testing.T) {
			svc, prefs := newTestService(t)

			_, err := svc.Submit(context.Background(), domain.Submission{Product: "apples", Quantity: qty})
			if !errors.Is(err, ErrInvalidQuantity) {
				t.Errorf("expected ErrInvalidQuantity, got: %v", err)
			}
			if Notice(err) != domain.NoticeInvalidQuantity {
				t.Errorf("unexpected notice: %q", Notice(err))
			}
			if prefs.puts != 0 {
				t.Errorf("expected no writes, got %d", prefs.puts)
			}
		})
	}
}

func TestSubmit_CorruptInventory(t *testing.T) {
	svc, prefs := newTestService(t)
	prefs.data[InventoryKey] = `{"apples":`

	_, err := svc.Submit(context.Background(), domain.Submission{Product: "apples", Quantity: "1"})
	if !errors.Is(err, ErrCorruptInventory) {
		t.Errorf("expected ErrCorruptInventory, got: %v", err)
	}
	if Notice(err) != "" {
		t.Errorf("expected fatal error without notice, got %q", Notice(err))
	}
	if prefs.data[InventoryKey] != `{"apples":` {
		t.Error("corrupt value must not be overwritten")
	}
}

func TestSubmit_UntrimmedStoredName(t *testing.T) {
	svc, prefs := newTestService(t)
	prefs.data[InventoryKey] = `{" apples ":5}`

	_, err := svc.Submit(context.Background(), domain.Submission{Product: "apples", Quantity: "3"})
	if !errors.Is(err, ErrCorruptInventory) {
		t.Errorf("expected ErrCorruptInventory, got: %v", err)
	}
	if prefs.data[InventoryKey] != `{" apples ":5}` {
		t.Errorf("stored value must not be rewritten, got %s", prefs.data[InventoryKey])
	}
}

func TestSubmit_BackendErrors(t *testing.T) {
	svc, prefs := newTestService(t)
	prefs.putErr = errors.New("disk full")

	_, err := svc.Submit(context.Background(), domain.Submission{Product: "apples", Quantity: "1"})
	if err == nil || !errors.Is(err, prefs.putErr) {
		t.Errorf("expected wrapped put error, got: %v", err)
	}

	prefs.getErr = errors.New("connection refused")
	_, err = svc.Render(context.Background())
	if !errors.Is(err, prefs.getErr) {
		t.Errorf("expected wrapped get error, got: %v", err)
	}
}

func TestRender_EmptyAndFilled(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	display, err := svc.Render(ctx)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if display != domain.EmptyPlaceholder {
		t.Errorf("expected placeholder, got %q", display)
	}

	svc.Submit(ctx, domain.Submission{Product: "bolts", Quantity: "120"})
	svc.Submit(ctx, domain.Submission{Product: "apples", Quantity: "5"})

	display, err = svc.Render(ctx)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if display != "apples: 5\nbolts: 120" {
		t.Errorf("unexpected display: %q", display)
	}
}

func TestStore_RoundTrip(t *testing.T) {
	store := NewInventoryStore(newMockPrefs())
	ctx := context.Background()

	inv, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(inv) != 0 {
		t.Fatalf("expected empty inventory, got %v", inv)
	}

	want := domain.Inventory{"apples": 5, "bolts": 120}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(got) != len(want) || got["apples"] != 5 || got["bolts"] != 120 {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestSubmit_Concurrent(t *testing.T) {
	svc, _ := newTestService(t)
	totalRequests := 50

	var wg sync.WaitGroup
	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Submit(context.Background(), domain.Submission{Product: "item", Quantity: "1"}); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	inv, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if inv["item"] != totalRequests {
		t.Errorf("expected %d, got %d", totalRequests, inv["item"])
	}
}
