package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ghuser/steritrack/services/tracking/domain"
	"github.com/ghuser/steritrack/services/tracking/domain/models"
	"github.com/ghuser/steritrack/services/tracking/domain/repositories"
)

func newItem(t *testing.T, serial int) *models.Item {
	t.Helper()
	item, err := models.NewItem("123456", "001", "Scalpel", serial, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("new item: %v", err)
	}
	return item
}

func TestStore_WithinTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commit replaces the live state", func(t *testing.T) {
		store := NewStore()
		err := store.WithinTx(ctx, func(tx repositories.Repos) error {
			return tx.Items().Insert(ctx, newItem(t, 1))
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := store.Items().Get(ctx, "123456-001-00001"); err != nil {
			t.Fatalf("expected committed item: %v", err)
		}
	})

	t.Run("error rolls the whole unit of work back", func(t *testing.T) {
		store := NewStore()
		boom := errors.New("boom")
		err := store.WithinTx(ctx, func(tx repositories.Repos) error {
			if err := tx.Items().Insert(ctx, newItem(t, 1)); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected the callback error, got %v", err)
		}
		if _, err := store.Items().Get(ctx, "123456-001-00001"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected no partial mutation, got %v", err)
		}
	})

	t.Run("transaction reads its own writes", func(t *testing.T) {
		store := NewStore()
		err := store.WithinTx(ctx, func(tx repositories.Repos) error {
			if err := tx.Items().Insert(ctx, newItem(t, 1)); err != nil {
				return err
			}
			_, err := tx.Items().Get(ctx, "123456-001-00001")
			return err
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestStore_ItemsRepo(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate insert conflicts", func(t *testing.T) {
		store := NewStore()
		if err := store.Items().Insert(ctx, newItem(t, 1)); err != nil {
			t.Fatalf("insert: %v", err)
		}
		err := store.Items().Insert(ctx, newItem(t, 1))
		if !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("max serial", func(t *testing.T) {
		store := NewStore()
		got, err := store.Items().MaxSerial(ctx, "123456", "001")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 0 {
			t.Fatalf("expected 0 for an empty store, got %d", got)
		}
		for _, serial := range []int{3, 7, 5} {
			if err := store.Items().Insert(ctx, newItem(t, serial)); err != nil {
				t.Fatalf("insert: %v", err)
			}
		}
		got, err = store.Items().MaxSerial(ctx, "123456", "001")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != 7 {
			t.Fatalf("expected 7, got %d", got)
		}
	})

	t.Run("update unknown item", func(t *testing.T) {
		store := NewStore()
		err := store.Items().Update(ctx, newItem(t, 1))
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
