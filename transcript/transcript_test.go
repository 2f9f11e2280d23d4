package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/strand"
)

func TestProject(t *testing.T) {
	items := []strand.DisplayItem{
		{Role: strand.DisplayUser, Content: "what is the plan?"},
		{Role: strand.DisplayEvent, Event: &strand.EventPayload{
			Name:  strand.PlanEventName,
			Steps: []string{"collect underpants", "?", "profit!"},
		}},
		{Role: strand.DisplayAssistant, Content: "you have the plan now"},
	}

	nodes := Project(items)
	require.Len(t, nodes, 3)

	assert.Equal(t, KindText, nodes[0].Kind)
	assert.Equal(t, strand.DisplayUser, nodes[0].Role)
	assert.Equal(t, "what is the plan?", nodes[0].Content)

	require.Equal(t, KindDisclosure, nodes[1].Kind)
	assert.Equal(t, strand.PlanEventName, nodes[1].Title)
	assert.Equal(t, []string{"collect underpants", "?", "profit!"}, nodes[1].Steps)
	assert.True(t, nodes[1].Collapsed)

	assert.Equal(t, KindText, nodes[2].Kind)
}

func TestProject_PreservesOrder(t *testing.T) {
	items := []strand.DisplayItem{
		{Role: strand.DisplayUser, Content: "1"},
		{Role: strand.DisplayAssistant, Content: "2"},
		{Role: strand.DisplayUser, Content: "3"},
	}

	nodes := Project(items)
	require.Len(t, nodes, 3)
	for i, n := range nodes {
		assert.Equal(t, string(rune('1'+i)), n.Content)
	}
}

func TestProject_SkipsEmptyEventPayload(t *testing.T) {
	items := []strand.DisplayItem{
		{Role: strand.DisplayEvent},
	}
	assert.Empty(t, Project(items))
}

func TestProject_EmptyInput(t *testing.T) {
	assert.Empty(t, Project(nil))
}
