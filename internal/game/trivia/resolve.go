package trivia

// ResolutionKind discriminates the outcome of resolving a die value against
// a game board.
type ResolutionKind int

const (
	// ResolutionResolved means the die value mapped to a concrete category.
	ResolutionResolved ResolutionKind = iota
	// ResolutionWildcard means the die landed on the wildcard face and the
	// player must pick a category from the chooser before proceeding.
	ResolutionWildcard
	// ResolutionUnresolved means no category could be matched. This is a
	// configuration-data error, not a user error.
	ResolutionUnresolved
)

// String returns a human-readable resolution label.
func (k ResolutionKind) String() string {
	switch k {
	case ResolutionResolved:
		return "resolved"
	case ResolutionWildcard:
		return "wildcard"
	case ResolutionUnresolved:
		return "unresolved"
	default:
		return "unknown"
	}
}

// Resolution is the discriminated result of mapping a die value to a
// category.
type Resolution struct {
	Kind ResolutionKind
	// Category is the matched category. Non-nil iff Kind == ResolutionResolved.
	Category *Category
}

// Resolve maps dieValue to a category on g's board.
//
// Matching is slot-number-first: the category whose Slot equals dieValue
// wins. If no category matches by slot, positional indexing
// (Categories[dieValue-1]) applies as a degraded fallback. If dieValue
// equals wildcardFace, the wildcard marker is returned instead of a
// concrete category.
//
// Precondition: g must be non-nil.
// Postcondition: Returns a Resolution whose Category is non-nil iff
// Kind == ResolutionResolved.
func Resolve(dieValue int, g *Game, wildcardFace int) Resolution {
	if dieValue == wildcardFace {
		return Resolution{Kind: ResolutionWildcard}
	}

	for i := range g.Categories {
		if g.Categories[i].Slot == dieValue {
			return Resolution{Kind: ResolutionResolved, Category: &g.Categories[i]}
		}
	}

	// Degraded match: slot attribute absent or mismatched everywhere.
	if idx := dieValue - 1; idx >= 0 && idx < len(g.Categories) {
		return Resolution{Kind: ResolutionResolved, Category: &g.Categories[idx]}
	}

	return Resolution{Kind: ResolutionUnresolved}
}

// ChooserCategories returns the categories offered by the wildcard chooser:
// the first limit configured categories of the board.
//
// Precondition: g must be non-nil; limit must be > 0.
// Postcondition: Returns at most limit categories, in board order.
func ChooserCategories(g *Game, limit int) []*Category {
	n := len(g.Categories)
	if n > limit {
		n = limit
	}
	out := make([]*Category, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &g.Categories[i])
	}
	return out
}
