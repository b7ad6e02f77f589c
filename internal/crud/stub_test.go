package crud

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/mesh-intelligence/ttadmin/pkg/types"
)

// item is a minimal entity for exercising the generic code.
type item struct {
	ID   int64
	Name string
}

type itemForm struct {
	Name string
}

var errBoom = errors.New("boom")

// stubResource is an in-memory types.Resource that records list requests
// and can be told to fail or block.
type stubResource struct {
	mu       sync.Mutex
	items    []item
	nextID   int64
	requests []types.PageRequest

	failList   bool
	failUpdate bool
	// gate, when set, blocks List until a value is received.
	gate chan struct{}
	// oversize makes List return one row more than requested.
	oversize bool
	// createGate, when set, makes Create send once on entry and then block
	// until a value is received.
	createGate chan struct{}
}

func newStub(n int) *stubResource {
	s := &stubResource{}
	for i := 0; i < n; i++ {
		s.nextID++
		s.items = append(s.items, item{ID: s.nextID, Name: "item"})
	}
	return s
}

func (s *stubResource) List(ctx context.Context, req types.PageRequest) (types.Page[item], error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	gate := s.gate
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failList {
		return types.Page[item]{}, errBoom
	}
	// id,desc ordering.
	sorted := slices.Clone(s.items)
	slices.Reverse(sorted)
	start := min(req.Page*req.Size, len(sorted))
	end := min(start+req.Size, len(sorted))
	if s.oversize {
		end = min(end+1, len(sorted))
	}
	return types.Page[item]{
		Items:      slices.Clone(sorted[start:end]),
		TotalCount: int64(len(sorted)),
		IsLastPage: start+req.Size >= len(sorted),
	}, nil
}

func (s *stubResource) Create(ctx context.Context, f itemForm) (item, error) {
	s.mu.Lock()
	gate := s.createGate
	s.mu.Unlock()
	if gate != nil {
		gate <- struct{}{}
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	it := item{ID: s.nextID, Name: f.Name}
	s.items = append(s.items, it)
	return it, nil
}

func (s *stubResource) Update(ctx context.Context, id int64, f itemForm) (item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpdate {
		return item{}, errBoom
	}
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Name = f.Name
			return s.items[i], nil
		}
	}
	return item{}, types.ErrNotFound
}

func (s *stubResource) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = slices.Delete(s.items, i, i+1)
			return nil
		}
	}
	return types.ErrNotFound
}

func (s *stubResource) requestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *stubResource) setFailList(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failList = v
}

var itemProjector = Projector[item, itemForm, int64]{
	Zero:       func() itemForm { return itemForm{} },
	ToForm:     func(i item) itemForm { return itemForm{Name: i.Name} },
	IdentityOf: func(i item) int64 { return i.ID },
}

var itemFields = []Field[itemForm]{
	textField("Name",
		func(f itemForm) string { return f.Name },
		func(f *itemForm, v string) { f.Name = v }),
}
