// Package state giữ read model in-memory của từng loại entity: list hiện tại,
// entity đang được chọn, cờ loading và error của lần fetch gần nhất.
package state

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Remover được domain services gọi sau khi delete thành công (optimistic remove)
type Remover interface {
	Remove(id uuid.UUID) bool
}

// Snapshot là bản copy của container tại một thời điểm
type Snapshot[T any] struct {
	Items       []T       `json:"items"`
	Selected    *T        `json:"selected,omitempty"`
	Loading     bool      `json:"loading"`
	Error       string    `json:"error,omitempty"`
	LastFetched time.Time `json:"last_fetched,omitempty"`
}

type Container[T any] struct {
	mu          sync.RWMutex
	idOf        func(T) uuid.UUID
	items       []T
	selected    *T
	loading     bool
	err         string
	lastFetched time.Time
	now         func() time.Time
}

var _ Remover = (*Container[struct{}])(nil)

func New[T any](idOf func(T) uuid.UUID) *Container[T] {
	return &Container[T]{idOf: idOf, now: time.Now}
}

// FetchAll chạy fetch và cập nhật state:
//   - bắt đầu: loading=true, error=""
//   - thành công: items bị thay toàn bộ
//   - thất bại: error=message, items cũ được giữ nguyên
func (c *Container[T]) FetchAll(ctx context.Context, fetch func(ctx context.Context) ([]T, error)) error {
	c.mu.Lock()
	c.loading = true
	c.err = ""
	c.mu.Unlock()

	items, err := fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.err = err.Error()
		return err
	}
	if items == nil {
		items = []T{}
	}
	c.items = items
	c.lastFetched = c.now()
	return nil
}

// Select set entity đang chọn, nil để bỏ chọn. Không có network call.
func (c *Container[T]) Select(item *T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if item == nil {
		c.selected = nil
		return
	}
	v := *item
	c.selected = &v
}

// Remove bỏ entity khỏi list theo id mà không refetch
func (c *Container[T]) Remove(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := false
	kept := c.items[:0:0]
	for _, item := range c.items {
		if c.idOf(item) == id {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if removed {
		c.items = kept
	}
	if c.selected != nil && c.idOf(*c.selected) == id {
		c.selected = nil
	}
	return removed
}

func (c *Container[T]) Snapshot() Snapshot[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot[T]{
		Items:       append([]T(nil), c.items...),
		Loading:     c.loading,
		Error:       c.err,
		LastFetched: c.lastFetched,
	}
	if snap.Items == nil {
		snap.Items = []T{}
	}
	if c.selected != nil {
		v := *c.selected
		snap.Selected = &v
	}
	return snap
}
