package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profile-concierge-be/pkg/convo"
)

func TestComposePrefersExpandedQuery(t *testing.T) {
	c := NewComposer()

	state := convo.ConversationState{
		Role:  convo.RoleSoftwareDeveloper,
		Query: "golang",
		Intent: convo.IntentResult{
			ExpandedQuery: "What experience does he have with Go?",
		},
	}

	delta := c.Compose(state)
	require.NotNil(t, delta.ComposedQuery)
	assert.Contains(t, *delta.ComposedQuery, "What experience does he have with Go?")
	assert.NotContains(t, *delta.ComposedQuery, "golang")
}

func TestComposePrependsRoleTag(t *testing.T) {
	c := NewComposer()

	state := convo.ConversationState{
		Role:  convo.RoleRecruiter,
		Query: "What roles has he held?",
	}

	delta := c.Compose(state)
	require.NotNil(t, delta.ComposedQuery)
	assert.True(t, len(*delta.ComposedQuery) > len(state.Query))
	assert.Contains(t, *delta.ComposedQuery, "[recruiting]")
}

func TestComposeAppendsEntitiesInStableOrder(t *testing.T) {
	c := NewComposer()

	state := convo.ConversationState{
		Role:  convo.RoleHiringManagerTech,
		Query: "Would he be a fit?",
		Intent: convo.IntentResult{
			Entities: map[string]string{
				"position": "backend engineer",
				"company":  "Acme",
			},
		},
	}

	first := c.Compose(state)
	second := c.Compose(state)
	require.NotNil(t, first.ComposedQuery)
	assert.Equal(t, *first.ComposedQuery, *second.ComposedQuery)
	assert.Contains(t, *first.ComposedQuery, "company=Acme")
	assert.Contains(t, *first.ComposedQuery, "position=backend engineer")
}

func TestComposeIdentityOnMissingInputs(t *testing.T) {
	c := NewComposer()

	state := convo.ConversationState{Query: "plain question"}
	delta := c.Compose(state)
	require.NotNil(t, delta.ComposedQuery)
	assert.Equal(t, "plain question", *delta.ComposedQuery)
}
