package bounty

import (
	"context"
	"fmt"
	"sync"

	"bountyhub-backend/core/bounty"
)

// MemoryStore keeps bounty state in process memory. The single RWMutex
// keeps the bounty and fulfillment maps consistent with each other. Used
// for dev deployments and tests; state does not survive a restart.
type MemoryStore struct {
	mu           sync.RWMutex
	bounties     map[int]*bounty.Bounty
	fulfillments map[int]map[int]*bounty.Fulfillment
	maxID        int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bounties:     make(map[int]*bounty.Bounty),
		fulfillments: make(map[int]map[int]*bounty.Fulfillment),
		maxID:        -1,
	}
}

// LoadAll returns all bounties ordered by id, fulfillments attached in
// submission order.
func (s *MemoryStore) LoadAll(_ context.Context) ([]*bounty.Bounty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*bounty.Bounty, 0, len(s.bounties))
	for id := 0; id <= s.maxID; id++ {
		b, ok := s.bounties[id]
		if !ok {
			return nil, fmt.Errorf("bounty sequence has a hole at %d", id)
		}
		cp := *b
		cp.Fulfillments = nil
		for fid := 0; fid < len(s.fulfillments[id]); fid++ {
			f, ok := s.fulfillments[id][fid]
			if !ok {
				return nil, fmt.Errorf("bounty %d fulfillment sequence has a hole at %d", id, fid)
			}
			fcp := *f
			cp.Fulfillments = append(cp.Fulfillments, &fcp)
		}
		out = append(out, &cp)
	}
	return out, nil
}

// SaveBounty upserts one bounty row.
func (s *MemoryStore) SaveBounty(_ context.Context, id int, b *bounty.Bounty) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *b
	cp.Fulfillments = nil
	s.bounties[id] = &cp
	if id > s.maxID {
		s.maxID = id
	}
	return nil
}

// SaveFulfillment upserts one fulfillment row.
func (s *MemoryStore) SaveFulfillment(_ context.Context, bountyID, fulfillmentID int, f *bounty.Fulfillment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bounties[bountyID]; !ok {
		return fmt.Errorf("save fulfillment: unknown bounty %d", bountyID)
	}
	if s.fulfillments[bountyID] == nil {
		s.fulfillments[bountyID] = make(map[int]*bounty.Fulfillment)
	}
	cp := *f
	s.fulfillments[bountyID][fulfillmentID] = &cp
	return nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() {}
