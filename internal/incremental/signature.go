// Package incremental decides which outputs a rebuild has to touch, based on
// source fingerprints and the dependency graphs of the previous build.
package incremental

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
)

// BuildSignature captures the inputs that affect every output at once. A
// change in any of them invalidates all previous outputs.
type BuildSignature struct {
	Version    string   `json:"version"`
	Emitters   []string `json:"emitters"`
	ConfigHash string   `json:"config_hash"`
	BuildHash  string   `json:"build_hash"` // computed hash of all above
}

// ComputeBuildSignature computes a deterministic hash for a build. settings
// is any JSON-serializable view of the configuration.
func ComputeBuildSignature(version string, emitters []string, settings any) (*BuildSignature, error) {
	configHash, err := hashJSON(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to compute config hash: %w", err)
	}

	sig := &BuildSignature{
		Version:    version,
		Emitters:   slices.Sorted(slices.Values(emitters)),
		ConfigHash: configHash,
	}

	// Exclude BuildHash itself from the hash computation.
	normalized := *sig
	normalized.BuildHash = ""
	hash, err := hashJSON(normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to compute signature hash: %w", err)
	}
	sig.BuildHash = hash
	return sig, nil
}

func hashJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

// Equals checks if two signatures are equal (same BuildHash).
func (s *BuildSignature) Equals(other *BuildSignature) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.BuildHash == other.BuildHash
}
