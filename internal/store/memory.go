package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Memory is an in-process Store used by tests. It honors the same contract
// as the mongo store: absence reported through Exists, descending query
// order, and all-or-nothing batch commits.
type Memory struct {
	mu      sync.RWMutex
	data    map[string]map[string]Document
	commits int
	seq     int
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string]Document)}
}

// Commits reports how many non-empty batch commits have been applied.
func (m *Memory) Commits() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.commits
}

func (m *Memory) Get(_ context.Context, collection, id string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.data[collection][id]
	if !ok {
		return Snapshot{ID: id}, nil
	}
	return Snapshot{ID: id, Exists: true, Data: cloneDoc(doc)}, nil
}

func (m *Memory) Query(_ context.Context, collection string, filters []Filter, orderBy string) ([]Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var snaps []Snapshot
	for id, doc := range m.data[collection] {
		if matches(doc, filters) {
			snaps = append(snaps, Snapshot{ID: id, Exists: true, Data: cloneDoc(doc)})
		}
	}

	sort.Slice(snaps, func(i, j int) bool {
		if orderBy == "" {
			return snaps[i].ID < snaps[j].ID
		}
		return descLess(snaps[i].Data[orderBy], snaps[j].Data[orderBy])
	})
	return snaps, nil
}

func (m *Memory) Add(_ context.Context, collection string, doc Document) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	id := fmt.Sprintf("doc%08d", m.seq)
	m.collection(collection)[id] = cloneDoc(doc)
	return id, nil
}

func (m *Memory) Set(_ context.Context, collection, id string, doc Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collection(collection)[id] = cloneDoc(doc)
	return nil
}

func (m *Memory) Update(_ context.Context, collection, id string, fields Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.applyUpdate(collection, id, fields)
	return nil
}

func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collection(collection), id)
	return nil
}

func (m *Memory) Batch() Batch {
	return &memoryBatch{store: m}
}

func (m *Memory) collection(name string) map[string]Document {
	c, ok := m.data[name]
	if !ok {
		c = make(map[string]Document)
		m.data[name] = c
	}
	return c
}

// applyUpdate merges fields into an existing document; missing documents
// are left alone, matching UpdateOne with no match.
func (m *Memory) applyUpdate(collection, id string, fields Document) {
	doc, ok := m.collection(collection)[id]
	if !ok {
		return
	}
	for k, v := range fields {
		doc[k] = v
	}
}

type memoryBatch struct {
	store *Memory
	ops   []batchOp
}

func (b *memoryBatch) Update(collection, id string, fields Document) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id, fields: fields})
}

func (b *memoryBatch) Delete(collection, id string) {
	b.ops = append(b.ops, batchOp{collection: collection, id: id})
}

func (b *memoryBatch) Len() int { return len(b.ops) }

func (b *memoryBatch) Commit(_ context.Context) error {
	if len(b.ops) == 0 {
		return nil
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	for _, op := range b.ops {
		if op.fields == nil {
			delete(b.store.collection(op.collection), op.id)
		} else {
			b.store.applyUpdate(op.collection, op.id, op.fields)
		}
	}
	b.store.commits++
	return nil
}

func cloneDoc(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func matches(doc Document, filters []Filter) bool {
	for _, f := range filters {
		if doc[f.Field] != f.Value {
			return false
		}
	}
	return true
}

// descLess orders a before b for a descending sort.
func descLess(a, b any) bool {
	switch av := a.(type) {
	case time.Time:
		bv, _ := b.(time.Time)
		return av.After(bv)
	case string:
		bv, _ := b.(string)
		return av > bv
	case int:
		bv, _ := b.(int)
		return av > bv
	case int64:
		bv, _ := b.(int64)
		return av > bv
	case float64:
		bv, _ := b.(float64)
		return av > bv
	}
	return false
}
