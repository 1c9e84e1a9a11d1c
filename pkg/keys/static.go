package keys

import (
	"fmt"
	"log/slog"
	"sort"
)

// Static is a Provider backed by configuration. Keys are decoded and validated
// once at construction; the provider is read-only afterwards.
type Static struct {
	currentID string
	keys      map[string][]byte
}

// NewStatic builds a provider from base64-encoded key material. The current
// key ID must be present in the key set.
func NewStatic(currentID string, encoded map[string]string) (*Static, error) {
	if currentID == "" {
		return nil, fmt.Errorf("%w: current key ID not configured", ErrUnavailable)
	}
	if len(encoded) == 0 {
		return nil, fmt.Errorf("%w: no encryption keys configured", ErrUnavailable)
	}

	decoded := make(map[string][]byte, len(encoded))
	for id, b64 := range encoded {
		secret, err := decodeKey(id, b64)
		if err != nil {
			return nil, err
		}
		decoded[id] = secret
	}

	if _, ok := decoded[currentID]; !ok {
		return nil, fmt.Errorf("%w: current key %s not in configured set %v",
			ErrUnavailable, currentID, keyIDs(decoded))
	}

	return &Static{currentID: currentID, keys: decoded}, nil
}

// LogKeySet emits a startup summary without exposing key material.
func (s *Static) LogKeySet(logger *slog.Logger) {
	logger.Info("encryption keys loaded",
		"current_key_id", s.currentID,
		"key_ids", keyIDs(s.keys))
}

func (s *Static) CurrentKey() (Key, error) {
	secret, ok := s.keys[s.currentID]
	if !ok {
		return Key{}, fmt.Errorf("%w: current key %s missing", ErrUnavailable, s.currentID)
	}
	return Key{ID: s.currentID, Secret: secret}, nil
}

func (s *Static) KeyByID(id string) (Key, error) {
	secret, ok := s.keys[id]
	if !ok {
		return Key{}, fmt.Errorf("%w: %s", ErrKeyNotFound, id)
	}
	return Key{ID: id, Secret: secret}, nil
}

func (s *Static) KeyExists(id string) bool {
	_, ok := s.keys[id]
	return ok
}

func (s *Static) CurrentKeyID() string {
	return s.currentID
}

func keyIDs(keys map[string][]byte) []string {
	ids := make([]string, 0, len(keys))
	for id := range keys {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
