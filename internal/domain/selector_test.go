package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectTargetWithNoTargetsFailsRegardlessOfID(t *testing.T) {
	t.Parallel()

	for _, id := range []TargetID{"", "myapp-1"} {
		_, err := SelectTarget(nil, id)

		var noTarget *NoTargetError
		require.ErrorAs(t, err, &noTarget)
	}
}

func TestSelectTargetSingleTargetIsAssumed(t *testing.T) {
	t.Parallel()

	only := Target{ID: "myapp-1", Title: "MyApp", Endpoint: "ws://localhost:8081/inspector/debug?device=0&page=1"}

	got, err := SelectTarget([]Target{only}, "")
	require.NoError(t, err)
	assert.Equal(t, only, got)
}

func TestSelectTargetManyTargetsIsAmbiguous(t *testing.T) {
	t.Parallel()

	first := Target{ID: "app-1", Title: "First"}
	second := Target{ID: "app-2", Title: "Second"}

	_, err := SelectTarget([]Target{first, second}, "")

	var ambiguous *AmbiguousTargetError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, []Target{first, second}, ambiguous.Candidates)
	assert.Contains(t, err.Error(), "app-1: First")
	assert.Contains(t, err.Error(), "app-2: Second")
}

func TestSelectTargetExplicitID(t *testing.T) {
	t.Parallel()

	targets := []Target{
		{ID: "app-1", Title: "Shop"},
		{ID: "app-2", Title: "Admin"},
		{ID: "app-3", Title: "Admin"},
	}

	tests := []struct {
		name    string
		id      TargetID
		wantID  TargetID
		wantErr any
	}{
		{name: "exact id", id: "app-2", wantID: "app-2"},
		{name: "id is trimmed", id: "  app-1 ", wantID: "app-1"},
		{name: "unique title", id: "shop", wantID: "app-1"},
		{name: "shared title is ambiguous", id: "Admin", wantErr: &AmbiguousTargetError{}},
		{name: "unknown id", id: "app-9", wantErr: &NotFoundError{}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := SelectTarget(targets, tc.id)
			switch tc.wantErr.(type) {
			case nil:
				require.NoError(t, err)
				assert.Equal(t, tc.wantID, got.ID)
			case *AmbiguousTargetError:
				var ambiguous *AmbiguousTargetError
				require.ErrorAs(t, err, &ambiguous)
				assert.Len(t, ambiguous.Candidates, 2)
			case *NotFoundError:
				var notFound *NotFoundError
				require.ErrorAs(t, err, &notFound)
				assert.Equal(t, tc.id, notFound.ID)
				assert.Len(t, notFound.Candidates, 3)
			}
		})
	}
}

func TestSelectTargetDoesNotAliasInput(t *testing.T) {
	t.Parallel()

	targets := []Target{{ID: "app-1"}, {ID: "app-2"}}
	_, err := SelectTarget(targets, "")

	var ambiguous *AmbiguousTargetError
	require.ErrorAs(t, err, &ambiguous)
	targets[0].ID = "mutated"
	assert.Equal(t, TargetID("app-1"), ambiguous.Candidates[0].ID)
}
