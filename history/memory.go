// history/memory.go
package history

import (
	"sync"

	"github.com/wfunc/robotserver/models"
)

// DefaultCapacity bounds the in-memory journal when the config gives none.
const DefaultCapacity = 200

// Memory is a bounded in-memory journal. It backs the history endpoint when
// no database is configured and serves as the store double in tests.
type Memory struct {
	records  []models.CommandRecord
	capacity int
	mutex    sync.RWMutex
}

// NewMemory creates a journal that keeps at most capacity entries, dropping
// the oldest first.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Memory{capacity: capacity}
}

func (m *Memory) Append(rec models.CommandRecord) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.records = append(m.records, rec)
	if len(m.records) > m.capacity {
		m.records = m.records[len(m.records)-m.capacity:]
	}
	return nil
}

func (m *Memory) Recent(limit int) ([]models.CommandRecord, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if limit <= 0 || len(m.records) == 0 {
		return nil, nil
	}
	if limit > len(m.records) {
		limit = len(m.records)
	}

	// Newest first.
	records := make([]models.CommandRecord, 0, limit)
	for i := len(m.records) - 1; i >= len(m.records)-limit; i-- {
		records = append(records, m.records[i])
	}
	return records, nil
}

func (m *Memory) Close() error {
	return nil
}
