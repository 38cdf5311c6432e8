package application

import (
	"context"
	"errors"
	"sync"

	"github.com/sngm3741/review-wall/api/internal/public/domain"
)

type memoryBackend struct {
	mu      sync.Mutex
	kind    string
	key     domain.KeyFunc
	records map[string]domain.Review
	listErr error
	putErr  error
}

func newMemoryBackend(kind string, key domain.KeyFunc) *memoryBackend {
	return &memoryBackend{kind: kind, key: key, records: map[string]domain.Review{}}
}

func (b *memoryBackend) Kind() string                    { return b.kind }
func (b *memoryBackend) Key(review domain.Review) string { return b.key(review) }

func (b *memoryBackend) ListAll(context.Context) ([]domain.Review, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listErr != nil {
		return nil, b.listErr
	}
	out := make([]domain.Review, 0, len(b.records))
	for _, r := range b.records {
		out = append(out, r)
	}
	return out, nil
}

func (b *memoryBackend) Put(_ context.Context, key string, review domain.Review) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.putErr != nil {
		return b.putErr
	}
	b.records[key] = review
	return nil
}

func (b *memoryBackend) Delete(_ context.Context, key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.records[key]; !ok {
		return false, nil
	}
	delete(b.records, key)
	return true, nil
}

type memoryMarkers struct {
	mu      sync.Mutex
	markers map[string]string
	editing map[string]bool
}

func newMemoryMarkers() *memoryMarkers {
	return &memoryMarkers{markers: map[string]string{}, editing: map[string]bool{}}
}

func (m *memoryMarkers) Marker(_ context.Context, deviceID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.markers[deviceID], nil
}

func (m *memoryMarkers) SetMarker(_ context.Context, deviceID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers[deviceID] = key
	return nil
}

func (m *memoryMarkers) ClearMarker(_ context.Context, deviceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.markers, deviceID)
	return nil
}

func (m *memoryMarkers) ClearKey(_ context.Context, key string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cleared := 0
	for device, marker := range m.markers {
		if marker == key {
			delete(m.markers, device)
			delete(m.editing, device)
			cleared++
		}
	}
	return cleared, nil
}

func (m *memoryMarkers) Editing(_ context.Context, deviceID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.editing[deviceID], nil
}

func (m *memoryMarkers) SetEditing(_ context.Context, deviceID string, editing bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if editing {
		m.editing[deviceID] = true
	} else {
		delete(m.editing, deviceID)
	}
	return nil
}

var errBackendDown = errors.New("backend down")
