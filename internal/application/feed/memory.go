package feed

import (
	"context"
	"sort"
	"sync"
)

// Memory is an in-process Source. It backs local development when no Firebase
// project is configured, and tests.
type Memory struct {
	mu     sync.Mutex
	docs   map[string][]Document
	subs   map[string]map[int]*memorySub
	nextID int
}

type memorySub struct {
	q          Query
	onSnapshot SnapshotFunc
	onError    ErrorFunc
}

func NewMemory() *Memory {
	return &Memory{
		docs: make(map[string][]Document),
		subs: make(map[string]map[int]*memorySub),
	}
}

// Subscribe delivers the current documents synchronously, then on every Publish.
func (m *Memory) Subscribe(ctx context.Context, q Query, onSnapshot SnapshotFunc, onError ErrorFunc) (Unsubscribe, error) {
	if q.Collection == "" {
		return nil, ErrCollectionRequired
	}
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	if m.subs[q.Collection] == nil {
		m.subs[q.Collection] = make(map[int]*memorySub)
	}
	m.subs[q.Collection][id] = &memorySub{q: q, onSnapshot: onSnapshot, onError: onError}
	current := applyQuery(m.docs[q.Collection], q)
	m.mu.Unlock()

	onSnapshot(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs[q.Collection], id)
			m.mu.Unlock()
		})
	}, nil
}

func (m *Memory) Documents(ctx context.Context, q Query) ([]Document, error) {
	if q.Collection == "" {
		return nil, ErrCollectionRequired
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return applyQuery(m.docs[q.Collection], q), nil
}

// Publish replaces the contents of collection and notifies its subscribers.
func (m *Memory) Publish(collection string, docs []Document) {
	m.mu.Lock()
	m.docs[collection] = append([]Document(nil), docs...)
	out := m.pending(collection)
	m.mu.Unlock()
	out.run()
}

type delivery struct {
	fn   SnapshotFunc
	docs []Document
}

type deliveries []delivery

func (ds deliveries) run() {
	for _, d := range ds {
		d.fn(d.docs)
	}
}

// pending must be called with mu held.
func (m *Memory) pending(collection string) deliveries {
	var out deliveries
	for _, s := range m.subs[collection] {
		out = append(out, delivery{fn: s.onSnapshot, docs: applyQuery(m.docs[collection], s.q)})
	}
	return out
}

// Update merges fields into the document and notifies subscribers like Publish.
func (m *Memory) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	if collection == "" {
		return ErrCollectionRequired
	}
	m.mu.Lock()
	docs := m.docs[collection]
	idx := -1
	for i := range docs {
		if docs[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		m.mu.Unlock()
		return ErrDocumentNotFound
	}
	data := make(map[string]interface{}, len(docs[idx].Data)+len(fields))
	for k, v := range docs[idx].Data {
		data[k] = v
	}
	for k, v := range fields {
		data[k] = v
	}
	next := append([]Document(nil), docs...)
	next[idx] = Document{ID: id, Data: data}
	m.docs[collection] = next
	out := m.pending(collection)
	m.mu.Unlock()
	out.run()
	return nil
}

// Fail terminates every subscription on collection with err.
func (m *Memory) Fail(collection string, err error) {
	m.mu.Lock()
	subs := m.subs[collection]
	delete(m.subs, collection)
	m.mu.Unlock()
	for _, s := range subs {
		if s.onError != nil {
			s.onError(err)
		}
	}
}

// Subscribers returns the number of live subscriptions on collection.
func (m *Memory) Subscribers(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs[collection])
}

func applyQuery(docs []Document, q Query) []Document {
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if q.OrderBy != "" {
			if _, ok := d.Data[q.OrderBy]; !ok {
				continue
			}
		}
		out = append(out, d)
	}
	if q.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			a, b := orderValue(out[i].Data[q.OrderBy]), orderValue(out[j].Data[q.OrderBy])
			if q.Descending {
				return a > b
			}
			return a < b
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func orderValue(v interface{}) float64 {
	if t, ok := Time(v); ok {
		return float64(t.UnixNano())
	}
	f, _ := Number(v)
	return f
}
