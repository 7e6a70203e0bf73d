package storage

import (
	"encoding/json"
	"fmt"
)

// MockShard hands out one in-memory storage per shard, kept in the given map.
func MockShard(shards map[string]*MockStorage) Shard {
	return func(shard string) (Persistence, error) {
		if _, ok := shards[shard]; !ok {
			shards[shard] = NewMockStorage()
		}
		return shards[shard], nil
	}
}

// MockStorage keeps the stored values in memory.
type MockStorage struct {
	Elements map[Key]interface{}
}

func NewMockStorage() *MockStorage {
	return &MockStorage{Elements: make(map[Key]interface{})}
}

func (m *MockStorage) Store(k Key, value interface{}) error {
	m.Elements[k] = value
	return nil
}

// Load decodes the stored value into the given one, through its json representation.
func (m *MockStorage) Load(k Key, value interface{}) error {
	v, ok := m.Elements[k]
	if !ok {
		return fmt.Errorf("not found '%v': %w", k, NotFoundErr)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("could not encode '%v': %v: %w", k, err, CouldNotLoadErr)
	}
	if err := json.Unmarshal(b, value); err != nil {
		return fmt.Errorf("could not decode '%v': %v: %w", k, err, CouldNotLoadErr)
	}
	return nil
}
