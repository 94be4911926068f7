package engine

import (
	"sync"
	"time"
)

// Storage holds workflow instances across two tiers: warm (active) and
// cold (terminal). Implementations must keep the tiers disjoint and only
// ever move a workflow warm -> cold, never back.
type Storage interface {
	// AddWorkflow inserts wf into warm storage. A colliding id overwrites
	// the prior entry (collisions are not expected given UUID generation).
	AddWorkflow(wf *Workflow)

	// GetWorkflow looks up id in warm storage, then cold.
	GetWorkflow(id string) (*Workflow, bool)

	// MoveToColdStorage removes id from warm and inserts it into cold.
	// Precondition: the workflow is present in warm and in a terminal
	// status; otherwise this is a no-op.
	MoveToColdStorage(id string)

	// CleanupColdStorage deletes cold entries whose completion instant
	// precedes before.
	CleanupColdStorage(before time.Time)

	// ActiveWorkflowIDs returns a snapshot of warm storage's keys.
	ActiveWorkflowIDs() []string
}

// MemoryStorage is the required in-memory Storage implementation. The
// engine is its only intended mutator, but internal/httpapi reads
// concurrently from another goroutine, so MemoryStorage guards its maps
// with a mutex — cheaper than introducing a second access discipline.
type MemoryStorage struct {
	mu   sync.Mutex
	warm map[string]*Workflow
	cold map[string]*Workflow
	// completedAt records the instant each cold entry was actually moved,
	// resolving Open Question 3: the timestamp is taken at
	// MoveToColdStorage time, not at the moment terminal status was set.
	// This makes CleanupColdStorage a real implementation rather than the
	// no-op the spec allows for timestamp-less backends.
	completedAt map[string]time.Time
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		warm:        make(map[string]*Workflow),
		cold:        make(map[string]*Workflow),
		completedAt: make(map[string]time.Time),
	}
}

func (s *MemoryStorage) AddWorkflow(wf *Workflow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warm[wf.ID()] = wf
}

func (s *MemoryStorage) GetWorkflow(id string) (*Workflow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if wf, ok := s.warm[id]; ok {
		return wf, true
	}
	if wf, ok := s.cold[id]; ok {
		return wf, true
	}
	return nil, false
}

func (s *MemoryStorage) MoveToColdStorage(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wf, ok := s.warm[id]
	if !ok || !wf.Status().IsTerminal() {
		return
	}
	delete(s.warm, id)
	s.cold[id] = wf
	s.completedAt[id] = time.Now()
}

func (s *MemoryStorage) CleanupColdStorage(before time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, completed := range s.completedAt {
		if completed.Before(before) {
			delete(s.cold, id)
			delete(s.completedAt, id)
		}
	}
}

func (s *MemoryStorage) ActiveWorkflowIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.warm))
	for id := range s.warm {
		ids = append(ids, id)
	}
	return ids
}
