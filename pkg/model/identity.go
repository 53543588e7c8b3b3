// pkg/model/identity.go
package model

// IdentityMap maps original source ids to sink-generated ids for one
// entity type. Entries are added in insert order during a load phase
// and the map is read-only once that phase completes.
type IdentityMap struct {
	ids   map[string]int64
	order []string
}

// NewIdentityMap creates an empty identity map.
func NewIdentityMap() *IdentityMap {
	return &IdentityMap{ids: make(map[string]int64)}
}

// Record stores the mapping from an original id to its generated id.
// The first recording for an original id wins.
func (m *IdentityMap) Record(originalID string, generatedID int64) {
	if _, exists := m.ids[originalID]; exists {
		return
	}
	m.ids[originalID] = generatedID
	m.order = append(m.order, originalID)
}

// Resolve looks up the generated id for an original id.
func (m *IdentityMap) Resolve(originalID string) (int64, bool) {
	id, ok := m.ids[originalID]
	return id, ok
}

// Len returns the number of recorded mappings.
func (m *IdentityMap) Len() int {
	return len(m.ids)
}

// OriginalIDs returns the original ids in insert order.
func (m *IdentityMap) OriginalIDs() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}
