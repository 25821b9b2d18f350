package config

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"
)

// Fingerprint identifies a spawner configuration so results of identical
// game modes can be grouped. The seed is excluded.
func (s Spawner) Fingerprint() (string, error) {
	s.Seed = 0
	data, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshaling spawner config: %w", err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:16]), nil
}
