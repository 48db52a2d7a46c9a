package valtio

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/minio/blake2b-simd"
)

type digestNode struct {
	Key   []string
	Type  []string
	Value []json.RawMessage
	Link  []string `json:",omitempty"`
}

// Digest returns a content fingerprint of the snapshot. Child snapshots
// contribute their own digests. Snapshots with equal contents have equal
// digests, but scalars are encoded as JSON, so values that differ only in
// what JSON cannot see (unexported struct fields, NaN) share a digest. Use
// DiffIter to decide whether two snapshots differ.
func (s *Snapshot) Digest() string {
	s.digestOnce.Do(func() {
		s.digest = s.computeDigest()
	})
	return s.digest
}

func (s *Snapshot) computeDigest() string {
	node := digestNode{
		Key:   s.keys,
		Type:  make([]string, len(s.keys)),
		Value: make([]json.RawMessage, len(s.keys)),
	}
	for i, field := range s.keys {
		value := s.fields[field]
		if child, ok := value.(*Snapshot); ok {
			if node.Link == nil {
				node.Link = make([]string, len(s.keys))
			}
			node.Type[i] = "snapshot"
			node.Value[i] = json.RawMessage("null")
			node.Link[i] = child.Digest()
			continue
		}
		encoded, err := encodeScalar(value)
		if err != nil {
			panic(fmt.Errorf("encode %s: %w", Path{field}, err))
		}
		node.Type[i] = fmt.Sprintf("%T", value)
		node.Value[i] = encoded
	}
	encoded, err := json.Marshal(node)
	if err != nil {
		panic(fmt.Errorf("marshal digest node: %w", err))
	}
	hashBytes := blake2b.Sum256(encoded)
	return base64.RawURLEncoding.EncodeToString(hashBytes[:])
}

// encodeScalar encodes value as JSON, falling back to its Go syntax
// representation for values JSON cannot express.
func encodeScalar(value interface{}) (json.RawMessage, error) {
	b, err := json.Marshal(value)
	if err == nil {
		return b, nil
	}
	b, err = json.Marshal(fmt.Sprintf("%#v", value))
	if err != nil {
		return nil, fmt.Errorf("marshal fallback: %w", err)
	}
	return b, nil
}
