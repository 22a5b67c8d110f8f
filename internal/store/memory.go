package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"undercover/internal/domain"
)

// MemoryStore keeps lobby documents in process memory. Lobbies never expire.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore returns an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string][]byte),
	}
}

func (s *MemoryStore) Get(_ context.Context, code string) (*domain.Lobby, error) {
	s.mu.RLock()
	data, ok := s.docs[NormalizeCode(code)]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decode(data)
}

func (s *MemoryStore) Create(_ context.Context, lobby *domain.Lobby) error {
	key := NormalizeCode(lobby.Code)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[key]; exists {
		return ErrExists
	}

	data, err := encode(lobby, 1)
	if err != nil {
		return err
	}
	s.docs[key] = data
	lobby.Version = 1
	return nil
}

func (s *MemoryStore) CompareAndSwap(_ context.Context, lobby *domain.Lobby) error {
	key := NormalizeCode(lobby.Code)

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.docs[key]
	if !ok {
		return ErrNotFound
	}
	version, err := documentVersion(current)
	if err != nil {
		return err
	}
	if version != lobby.Version {
		return ErrConflict
	}

	data, err := encode(lobby, version+1)
	if err != nil {
		return err
	}
	s.docs[key] = data
	lobby.Version = version + 1
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	codes := make([]string, 0, len(s.docs))
	for code := range s.docs {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// encode serializes lobby as stored at the given version
func encode(lobby *domain.Lobby, version int64) ([]byte, error) {
	doc := *lobby
	doc.Version = version
	data, err := json.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("encoding lobby %s: %w", lobby.Code, err)
	}
	return data, nil
}

func decode(data []byte) (*domain.Lobby, error) {
	var lobby domain.Lobby
	if err := json.Unmarshal(data, &lobby); err != nil {
		return nil, fmt.Errorf("decoding lobby: %w", err)
	}
	if lobby.UsedWordIndices == nil {
		lobby.UsedWordIndices = make([]int, 0)
	}
	return &lobby, nil
}

func documentVersion(data []byte) (int64, error) {
	var head struct {
		Version int64 `json:"version"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return 0, fmt.Errorf("decoding lobby version: %w", err)
	}
	return head.Version, nil
}
