package catalog

import (
	"encoding/json"
	"fmt"
	"time"
)

// Snapshot is one published generation of the derived product indexes.
// It is never modified after the builder returns it.
type Snapshot struct {
	All         []*Product
	ByID        map[string]*Product
	ByGroupName map[string][]*Product
	LastUpdated time.Time
}

func newSnapshot(capacity int) *Snapshot {
	return &Snapshot{
		All:         make([]*Product, 0, capacity),
		ByID:        make(map[string]*Product, capacity),
		ByGroupName: make(map[string][]*Product),
	}
}

// add appends p to the flat list and id index, and to the group bucket when group is set.
func (s *Snapshot) add(p *Product, group string) {
	s.All = append(s.All, p)
	s.ByID[p.ID] = p
	if group != "" {
		s.ByGroupName[group] = append(s.ByGroupName[group], p)
	}
}

// Len returns the number of products in the flat list.
func (s *Snapshot) Len() int {
	return len(s.All)
}

// snapshotJSON is the encoded form. Buckets hold positions in All so that a
// decoded snapshot shares product values between its indexes.
type snapshotJSON struct {
	All         []*Product       `json:"all"`
	ByGroupName map[string][]int `json:"byGroupName"`
	LastUpdated time.Time        `json:"lastUpdated"`
}

// MarshalJSON encodes the snapshot without repeating products per index.
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	position := make(map[*Product]int, len(s.All))
	for i, p := range s.All {
		position[p] = i
	}
	buckets := make(map[string][]int, len(s.ByGroupName))
	for name, products := range s.ByGroupName {
		indexes := make([]int, 0, len(products))
		for _, p := range products {
			i, ok := position[p]
			if !ok {
				return nil, fmt.Errorf("encode snapshot: product %q in group %q is not listed", p.ID, name)
			}
			indexes = append(indexes, i)
		}
		buckets[name] = indexes
	}
	return json.Marshal(snapshotJSON{
		All:         s.All,
		ByGroupName: buckets,
		LastUpdated: s.LastUpdated,
	})
}

// UnmarshalJSON rebuilds the id index and group buckets from the encoded form.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var raw snapshotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	decoded := newSnapshot(len(raw.All))
	for _, p := range raw.All {
		if p == nil {
			return fmt.Errorf("decode snapshot: null product")
		}
		decoded.add(p, "")
	}
	for name, indexes := range raw.ByGroupName {
		bucket := make([]*Product, 0, len(indexes))
		for _, i := range indexes {
			if i < 0 || i >= len(decoded.All) {
				return fmt.Errorf("decode snapshot: group %q references position %d of %d", name, i, len(decoded.All))
			}
			bucket = append(bucket, decoded.All[i])
		}
		decoded.ByGroupName[name] = bucket
	}
	decoded.LastUpdated = raw.LastUpdated
	*s = *decoded
	return nil
}
