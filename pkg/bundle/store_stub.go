package bundle

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
)

var ErrStoreTestError = errors.New("store test error")

// StoreStub keeps bundles in memory and records the calls made against it.
type StoreStub struct {
	mu      sync.RWMutex
	bundles []*Bundle
	saved   []Bundle

	findByNameErr   error
	listByStatusErr error
	saveErr         error

	FindByNameCalls   int
	ListByStatusCalls int
	SaveCalls         int
}

func NewStoreStub(bundles ...*Bundle) *StoreStub {
	return &StoreStub{bundles: bundles}
}

func (s *StoreStub) FindByName(_ context.Context, name string) (*Bundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FindByNameCalls++

	if s.findByNameErr != nil {
		return nil, s.findByNameErr
	}
	for _, b := range s.bundles {
		if b.Name == name {
			found := *b
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: no bundle named %q", ErrNotFound, name)
}

// ListByStatus pages through matching bundles; the cursor is the index of the next one.
func (s *StoreStub) ListByStatus(_ context.Context, status Status, opts ListOptions) (ListResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListByStatusCalls++

	if s.listByStatusErr != nil {
		return ListResult{}, s.listByStatusErr
	}

	var matching []*Bundle
	for _, b := range s.bundles {
		if b.Status == status {
			found := *b
			matching = append(matching, &found)
		}
	}

	start := 0
	if opts.StartCursor != "" {
		parsed, err := strconv.Atoi(opts.StartCursor)
		if err != nil {
			return ListResult{}, fmt.Errorf("invalid cursor %q", opts.StartCursor)
		}
		start = min(parsed, len(matching))
	}
	end := len(matching)
	if opts.PageSize > 0 && start+opts.PageSize < end {
		end = start + opts.PageSize
	}

	result := ListResult{Bundles: matching[start:end], HasMore: end < len(matching)}
	if result.HasMore {
		result.NextCursor = strconv.Itoa(end)
	}
	return result, nil
}

func (s *StoreStub) Save(_ context.Context, bundle *Bundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SaveCalls++

	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, *bundle)
	for i, b := range s.bundles {
		if b.Id == bundle.Id {
			updated := *bundle
			s.bundles[i] = &updated
		}
	}
	return nil
}

// Saved returns copies of every bundle passed to Save.
func (s *StoreStub) Saved() []Bundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Bundle, len(s.saved))
	copy(result, s.saved)
	return result
}

func (s *StoreStub) SetFindByNameError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.findByNameErr = err
}

func (s *StoreStub) SetListByStatusError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listByStatusErr = err
}

func (s *StoreStub) SetSaveError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

func (s *StoreStub) TotalCalls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.FindByNameCalls + s.ListByStatusCalls + s.SaveCalls
}
