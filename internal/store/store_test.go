package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/foldersync/internal/model"
	"github.com/nhle/foldersync/tests/testutil"
)

func TestMergeLabelMapPreservesUnmentionedKeys(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	err := s.MergeLabelMap(ctx, []model.LabelMapEntry{
		{UserID: "u1", Provider: "gmail", FriendlyKey: "BANK", Path: "BANKING", RemoteID: "Label_1"},
		{UserID: "u1", Provider: "gmail", FriendlyKey: "BANK_RCPT", Path: "BANKING/Receipts", RemoteID: "Label_2"},
	})
	require.NoError(t, err)

	// A later run that only touched one key must not erase the other.
	err = s.MergeLabelMap(ctx, []model.LabelMapEntry{
		{UserID: "u1", Provider: "gmail", FriendlyKey: "BANK", Path: "BANKING", RemoteID: "Label_99"},
	})
	require.NoError(t, err)

	entries, err := s.GetLabelMap(ctx, "u1", "gmail")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Label_99", entries[0].RemoteID)
	assert.Equal(t, "BANK_RCPT", entries[1].FriendlyKey)
	assert.Equal(t, "Label_2", entries[1].RemoteID)
}

func TestGetLabelMapScopedByUserAndProvider(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	err := s.MergeLabelMap(ctx, []model.LabelMapEntry{
		{UserID: "u1", Provider: "gmail", FriendlyKey: "BANK", Path: "BANKING", RemoteID: "Label_1"},
		{UserID: "u1", Provider: "outlook", FriendlyKey: "BANK", Path: "BANKING", RemoteID: "AAMk1"},
		{UserID: "u2", Provider: "gmail", FriendlyKey: "BANK", Path: "BANKING", RemoteID: "Label_7"},
	})
	require.NoError(t, err)

	entries, err := s.GetLabelMap(ctx, "u1", "outlook")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "AAMk1", entries[0].RemoteID)
}

func TestDeleteLabelMap(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	err := s.MergeLabelMap(ctx, []model.LabelMapEntry{
		{UserID: "u1", Provider: "gmail", FriendlyKey: "BANK", Path: "BANKING", RemoteID: "Label_1"},
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteLabelMap(ctx, "u1", "gmail"))

	entries, err := s.GetLabelMap(ctx, "u1", "gmail")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpsertTeamMemberReplacesSlot(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	err := s.UpsertTeamMember(ctx, model.TeamMember{
		UserID: "u1", Name: "Alex", Kind: model.MemberKindManager, Position: 1,
	})
	require.NoError(t, err)

	// Same slot, new name: the occupant is replaced, not duplicated.
	err = s.UpsertTeamMember(ctx, model.TeamMember{
		UserID: "u1", Name: "Blake", Kind: model.MemberKindManager, Position: 1,
	})
	require.NoError(t, err)

	members, err := s.GetTeamMembers(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Blake", members[0].Name)
}

func TestGetTeamMembersOrderedByKindAndPosition(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	seed := []model.TeamMember{
		{UserID: "u1", Name: "Sup Two", Kind: model.MemberKindSupplier, Position: 2},
		{UserID: "u1", Name: "Mgr One", Kind: model.MemberKindManager, Position: 1},
		{UserID: "u1", Name: "Sup One", Kind: model.MemberKindSupplier, Position: 1},
		{UserID: "u1", Name: "Mgr Two", Kind: model.MemberKindManager, Position: 2},
	}
	for _, m := range seed {
		require.NoError(t, s.UpsertTeamMember(ctx, m))
	}

	members, err := s.GetTeamMembers(ctx, "u1")
	require.NoError(t, err)

	var names []string
	for _, m := range members {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Mgr One", "Mgr Two", "Sup One", "Sup Two"}, names)
}

func TestUpsertTeamMemberValidation(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	err := s.UpsertTeamMember(ctx, model.TeamMember{
		UserID: "u1", Name: "  ", Kind: model.MemberKindManager, Position: 1,
	})
	assert.Error(t, err)

	err = s.UpsertTeamMember(ctx, model.TeamMember{
		UserID: "u1", Name: "Alex", Kind: "contractor", Position: 1,
	})
	assert.Error(t, err)

	err = s.UpsertTeamMember(ctx, model.TeamMember{
		UserID: "u1", Name: "Alex", Kind: model.MemberKindManager, Position: 0,
	})
	assert.Error(t, err)
}

func TestDeleteTeamMemberNotFound(t *testing.T) {
	s := testutil.NewTestStore(t)

	err := s.DeleteTeamMember(context.Background(), "missing-id")
	assert.Error(t, err)
}

func TestSetBusinessTypesReplacesList(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetBusinessTypes(ctx, "u1", []string{"plumbing", "hvac"}))
	require.NoError(t, s.SetBusinessTypes(ctx, "u1", []string{"electrical"}))

	types, err := s.GetBusinessTypes(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"electrical"}, types)
}

func TestGetBusinessTypesPreservesOrder(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	want := []string{"hvac", "plumbing", "landscaping"}
	require.NoError(t, s.SetBusinessTypes(ctx, "u1", want))

	types, err := s.GetBusinessTypes(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, want, types)
}

func TestRecordRunAndGetLastRun(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	first := model.ProvisioningRun{
		UserID: "u1", Provider: "gmail",
		Created: 10, Matched: 2, Errored: 1,
		Succeeded:  false,
		ErrorsJSON: `[{"path":"BANKING","error":"boom"}]`,
		RanAt:      time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.RecordRun(ctx, first))

	second := model.ProvisioningRun{
		UserID: "u1", Provider: "gmail",
		Created: 1, Matched: 11,
		Succeeded: true,
		RanAt:     time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.RecordRun(ctx, second))

	last, err := s.GetLastRun(ctx, "u1", "gmail")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.True(t, last.Succeeded)
	assert.Equal(t, 1, last.Created)
	assert.Equal(t, 11, last.Matched)
	assert.NotEmpty(t, last.ID)
	assert.Equal(t, "[]", last.ErrorsJSON)
}

func TestGetLastRunNoneRecorded(t *testing.T) {
	s := testutil.NewTestStore(t)

	last, err := s.GetLastRun(context.Background(), "u1", "gmail")
	require.NoError(t, err)
	assert.Nil(t, last)
}
