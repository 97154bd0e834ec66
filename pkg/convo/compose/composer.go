package compose

import (
	"fmt"
	"sort"
	"strings"

	"profile-concierge-be/pkg/convo"
)

// Composer blends the (possibly expanded) query with role and entity hints
// into a single retrieval string. Pure string work, no failure modes.
type Composer struct{}

func NewComposer() *Composer {
	return &Composer{}
}

// roleTags are short retrieval hints per role, biasing the embedding
// toward the corpus sections that role usually cares about.
var roleTags = map[convo.Role]string{
	convo.RoleSoftwareDeveloper:    "[technical]",
	convo.RoleHiringManagerTech:    "[technical hiring]",
	convo.RoleHiringManagerNonTech: "[business hiring]",
	convo.RoleRecruiter:            "[recruiting]",
	convo.RoleCuriousVisitor:       "[general]",
}

// Compose builds the retrieval query. Prefers the expanded query over the
// raw one, prepends a role tag, appends key=value entity fragments.
func (c *Composer) Compose(state convo.ConversationState) convo.Delta {
	base := state.Query
	if state.Intent.ExpandedQuery != "" {
		base = state.Intent.ExpandedQuery
	}

	var parts []string
	if tag, ok := roleTags[state.Role]; ok {
		parts = append(parts, tag)
	}
	parts = append(parts, base)

	// Stable entity order so composition is deterministic.
	keys := make([]string, 0, len(state.Intent.Entities))
	for k := range state.Intent.Entities {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, state.Intent.Entities[k]))
	}

	composed := strings.Join(parts, " ")
	return convo.Delta{ComposedQuery: &composed}
}
