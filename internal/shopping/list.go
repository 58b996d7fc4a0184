// Package shopping keeps the shopping list in memory and persists every
// mutation as a whole-list JSON document.
package shopping

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sandeepkv93/tickd/internal/model"
	"github.com/sandeepkv93/tickd/internal/storage"
)

const DefaultStorageKey = "shopping-list"

var (
	ErrItemNotFound    = errors.New("shopping: item not found")
	ErrDeleteCompleted = errors.New("shopping: completed items cannot be deleted")
	ErrStorageRead     = errors.New("shopping: storage read failed")
	ErrStorageWrite    = errors.New("shopping: storage write failed")
	ErrNilStore        = errors.New("shopping: nil storage")
)

const EmptyListPlaceholder = "Your shopping list is empty"

type List struct {
	store storage.KV
	key   string
	log   *slog.Logger
	newID func() string

	mu      sync.Mutex
	items   []model.ShoppingItem
	loading bool
}

func New(store storage.KV, logger *slog.Logger) (*List, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &List{
		store:   store,
		key:     DefaultStorageKey,
		log:     logger.With("component", "shopping"),
		newID:   uuid.NewString,
		loading: true,
	}, nil
}

// Load replaces the in-memory list with the stored one. Absent or malformed
// data yields an empty list; loading is finished either way.
func (l *List) Load(ctx context.Context) error {
	raw, ok, err := l.store.Get(ctx, l.key)
	var items []model.ShoppingItem
	switch {
	case err != nil:
		err = fmt.Errorf("%w: %v", ErrStorageRead, err)
	case ok:
		items, err = model.DecodeShoppingList(raw)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrStorageRead, err)
			items = nil
		}
	}
	if err != nil {
		l.log.Warn("shopping list unavailable, starting empty", "error", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = items
	l.loading = false
	return err
}

func (l *List) IsLoading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

func (l *List) Items() []model.ShoppingItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.ShoppingItem(nil), l.items...)
}

func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// At returns the item at a zero-based position.
func (l *List) At(idx int) (model.ShoppingItem, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if idx < 0 || idx >= len(l.items) {
		return model.ShoppingItem{}, false
	}
	return l.items[idx], true
}

// Add prepends a new item. A blank name is ignored and returns false.
func (l *List) Add(ctx context.Context, name string) (model.ShoppingItem, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.ShoppingItem{}, false, nil
	}
	item := model.ShoppingItem{ID: l.newID(), Name: name}

	l.mu.Lock()
	defer l.mu.Unlock()
	next := make([]model.ShoppingItem, 0, len(l.items)+1)
	next = append(next, item)
	next = append(next, l.items...)
	if err := l.commitLocked(ctx, next); err != nil {
		return model.ShoppingItem{}, false, err
	}
	return item, true, nil
}

func (l *List) Toggle(ctx context.Context, id string) (model.ShoppingItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx := l.indexLocked(id)
	if idx < 0 {
		return model.ShoppingItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	next := append([]model.ShoppingItem(nil), l.items...)
	next[idx].IsCompleted = !next[idx].IsCompleted
	if err := l.commitLocked(ctx, next); err != nil {
		return model.ShoppingItem{}, err
	}
	return next[idx], nil
}

// Delete removes an open item. Completed items are kept.
func (l *List) Delete(ctx context.Context, id string) (model.ShoppingItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx := l.indexLocked(id)
	if idx < 0 {
		return model.ShoppingItem{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	removed := l.items[idx]
	if removed.IsCompleted {
		return model.ShoppingItem{}, ErrDeleteCompleted
	}
	next := make([]model.ShoppingItem, 0, len(l.items)-1)
	next = append(next, l.items[:idx]...)
	next = append(next, l.items[idx+1:]...)
	if err := l.commitLocked(ctx, next); err != nil {
		return model.ShoppingItem{}, err
	}
	return removed, nil
}

func (l *List) indexLocked(id string) int {
	for i, item := range l.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// commitLocked persists next and only then swaps it in.
func (l *List) commitLocked(ctx context.Context, next []model.ShoppingItem) error {
	payload, err := model.EncodeShoppingList(next)
	if err == nil {
		err = l.store.Set(ctx, l.key, payload)
	}
	if err != nil {
		l.log.Error("persist shopping list failed", "error", err)
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	l.items = next
	return nil
}
