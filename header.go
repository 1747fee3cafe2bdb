package csvcore

// headerIndex maps a normalized header name to every raw column index it
// occurs at, supporting the nth-occurrence lookup FieldByName exposes when
// a source file repeats a column name.
type headerIndex struct {
	names []string // raw header cells, in column order
	byKey map[string][]int
}

func buildHeaderIndex(names []string, h Hooks) *headerIndex {
	idx := &headerIndex{
		names: names,
		byKey: make(map[string][]int, len(names)),
	}
	for i, n := range names {
		key := h.prepareHeader(n, i)
		idx.byKey[key] = append(idx.byKey[key], i)
	}
	return idx
}

// lookup returns the raw column index of the nth (0-based) occurrence of
// name, after normalization, or ok=false when it does not exist.
func (h *headerIndex) lookup(name string, nth int, hooks Hooks) (int, bool) {
	key := hooks.prepareHeader(name, -1)
	occurrences, found := h.byKey[key]
	if !found || nth < 0 || nth >= len(occurrences) {
		return 0, false
	}
	return occurrences[nth], true
}
