package state

// SelectionState is the durable record of everything ever selected. It is
// loaded once at run start and rewritten once at run end; a failed run must
// leave the persisted document untouched.
type SelectionState struct {
	DayIndex           int      `json:"day_index"`
	UsedProductIDs     []string `json:"used_product_ids"`
	UsedSimilarityKeys []string `json:"used_similarity_keys"`
}

// IDSet returns the used product ids as a lookup set.
func (s SelectionState) IDSet() map[string]bool {
	set := make(map[string]bool, len(s.UsedProductIDs))
	for _, id := range s.UsedProductIDs {
		set[id] = true
	}
	return set
}

// KeySet returns the used similarity keys as a lookup set.
func (s SelectionState) KeySet() map[string]bool {
	set := make(map[string]bool, len(s.UsedSimilarityKeys))
	for _, k := range s.UsedSimilarityKeys {
		set[k] = true
	}
	return set
}

// Store persists SelectionState across runs.
type Store interface {
	// Load reads the persisted state. A store that never existed yields the
	// zero state (true first run); a corrupt store is an error.
	Load() (SelectionState, error)

	// Save atomically replaces the persisted state with the given document.
	Save(SelectionState) error
}
