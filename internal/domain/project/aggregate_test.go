package project

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civic-hub/civic-site/internal/domain/shared"
)

func TestNewProjectAggregate_RaisesCreated(t *testing.T) {
	agg, err := NewProjectAggregate(validParams())
	require.NoError(t, err)

	events := agg.DomainEvents()

	require.Len(t, events, 1)
	assert.Equal(t, EventProjectCreated, events[0].EventType())
	assert.Equal(t, "Project", events[0].AggregateType())
	assert.Equal(t, agg.ID().String(), events[0].AggregateID())
}

func TestLoadProjectAggregate_RaisesNothing(t *testing.T) {
	agg := LoadProjectAggregate(newProject(t, nil))
	assert.Empty(t, agg.DomainEvents())
}

func TestAggregate_ChangeStatus(t *testing.T) {
	agg := LoadProjectAggregate(newProject(t, nil))

	require.NoError(t, agg.ChangeStatus(StatusPlanning))
	assert.Empty(t, agg.DomainEvents(), "same status raises nothing")

	require.NoError(t, agg.ChangeStatus(StatusActive))
	events := agg.DomainEvents()
	require.Len(t, events, 1)
	changed, ok := events[0].(ProjectStatusChangedEvent)
	require.True(t, ok)
	assert.Equal(t, StatusPlanning, changed.PreviousStatus)
	assert.Equal(t, StatusActive, changed.NewStatus)
	assert.Equal(t, agg.Project().UpdatedAt(), changed.ChangedAt)

	err := agg.ChangeStatus(StatusActive)
	require.NoError(t, err)
	assert.Len(t, agg.DomainEvents(), 1)
}

func TestAggregate_ChangeStatusRejectsInvalidTransition(t *testing.T) {
	agg := LoadProjectAggregate(newProject(t, nil))

	err := agg.ChangeStatus(StatusCompleted)

	assert.ErrorIs(t, err, shared.ErrStateTransition)
	assert.Equal(t, StatusPlanning, agg.Project().Status())
	assert.Empty(t, agg.DomainEvents())
}

func TestAggregate_UpdateGitHubStats(t *testing.T) {
	agg := LoadProjectAggregate(newProject(t, nil))

	require.NoError(t, agg.UpdateGitHubStats(10, 4))
	assert.Empty(t, agg.DomainEvents())

	require.NoError(t, agg.UpdateGitHubStats(25, 4))
	events := agg.DomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, map[string]any{
		"previousStars": 10,
		"newStars":      25,
		"previousForks": 4,
		"newForks":      4,
	}, events[0].EventData())

	assert.Error(t, agg.UpdateGitHubStats(-1, 0))
	assert.Equal(t, 25, agg.Project().Stars())
}

func TestAggregate_ManageTags(t *testing.T) {
	agg := LoadProjectAggregate(newProject(t, nil))

	require.NoError(t, agg.ManageTags([]string{"budget"}, []string{"missing"}))
	assert.Empty(t, agg.DomainEvents(), "identical tag set raises nothing")

	require.NoError(t, agg.ManageTags([]string{"open-data", "maps"}, []string{"budget", "maps"}))
	events := agg.DomainEvents()
	require.Len(t, events, 1)
	changed := events[0].(ProjectTagsChangedEvent)
	assert.Equal(t, []string{"budget", "transparency"}, changed.PreviousTags)
	assert.Equal(t, []string{"transparency", "open-data"}, changed.NewTags)
	assert.Equal(t, []string{"open-data"}, changed.AddedTags)
	assert.Equal(t, []string{"budget"}, changed.RemovedTags)
}

func TestAggregate_ManageTagsTrimsRemovedTags(t *testing.T) {
	agg := LoadProjectAggregate(newProject(t, nil))

	require.NoError(t, agg.ManageTags(nil, []string{" budget ", "   "}))

	assert.Equal(t, []string{"transparency"}, agg.Project().Tags())
	events := agg.DomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, []string{"budget"}, events[0].(ProjectTagsChangedEvent).RemovedTags)
}

func TestAggregate_ManageTagsErrorLeavesStateUntouched(t *testing.T) {
	agg := LoadProjectAggregate(newProject(t, nil))
	before := agg.Project()

	err := agg.ManageTags([]string{"ok", ""}, nil)

	assert.ErrorIs(t, err, shared.ErrValidation)
	assert.Same(t, before, agg.Project())
	assert.Empty(t, agg.DomainEvents())
}

func TestAggregate_DomainEventsIsCopy(t *testing.T) {
	agg, err := NewProjectAggregate(validParams())
	require.NoError(t, err)

	events := agg.DomainEvents()
	events[0] = nil

	assert.NotNil(t, agg.DomainEvents()[0])

	agg.ClearDomainEvents()
	assert.Empty(t, agg.DomainEvents())
}

func TestProjectEvent_Serialization(t *testing.T) {
	agg, err := NewProjectAggregate(validParams())
	require.NoError(t, err)

	raw, err := shared.MarshalEvent(agg.DomainEvents()[0])
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "ProjectCreated", decoded["eventType"])
	assert.Equal(t, "Project", decoded["aggregateType"])
	assert.EqualValues(t, 1, decoded["eventVersion"])
	assert.Contains(t, decoded, "occurredOn")
	data := decoded["eventData"].(map[string]any)
	assert.Equal(t, "Open Budget Portal", data["title"])
}
