package roster_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"symposia/internal/roster"
	id "symposia/pkg/domain"
	"symposia/pkg/platform/sentinel"
)

func TestFullName(t *testing.T) {
	assert.Equal(t, "Amina Diallo", roster.PersonalInfo{FirstName: "Amina", LastName: "Diallo"}.FullName())
	assert.Equal(t, "Amina", roster.PersonalInfo{FirstName: "Amina"}.FullName())
	assert.Equal(t, "Diallo", roster.PersonalInfo{LastName: "Diallo"}.FullName())
	assert.Empty(t, roster.PersonalInfo{}.FullName())
}

func TestPermissionAllows(t *testing.T) {
	category := &roster.Category{
		Permissions: map[id.ResourceType]bool{
			id.ResourceFood: false,
			id.ResourceKit:  true,
		},
	}

	assert.False(t, category.PermissionAllows(id.ResourceFood))
	assert.True(t, category.PermissionAllows(id.ResourceKit))
	// Absent entries are allowed; only explicit false denies.
	assert.True(t, category.PermissionAllows(id.ResourceCertificatePrinting))
}

func TestEntitlementList(t *testing.T) {
	allowed := id.OptionID(uuid.New())
	denied := id.OptionID(uuid.New())
	other := id.OptionID(uuid.New())

	list := roster.NewEntitlementList([]roster.Entitlement{
		{OptionID: allowed, Entitled: true},
		{OptionID: denied, Entitled: true},
		{OptionID: denied, Entitled: false}, // later duplicate wins
	})

	assert.False(t, list.Empty())

	entitled, found := list.Lookup(allowed)
	assert.True(t, found)
	assert.True(t, entitled)

	entitled, found = list.Lookup(denied)
	assert.True(t, found)
	assert.False(t, entitled)

	_, found = list.Lookup(other)
	assert.False(t, found)

	assert.True(t, roster.NewEntitlementList(nil).Empty())
}

func TestFindRegistrationByBadge(t *testing.T) {
	store := roster.NewMemoryStore()
	eventID := id.EventID(uuid.New())
	regID := id.RegistrationID(uuid.New())
	store.PutRegistration(&roster.Registration{
		ID:        regID,
		EventID:   eventID,
		BadgeCode: "BADGE-42",
		Status:    roster.RegistrationConfirmed,
	})

	byID, err := store.FindRegistration(context.Background(), eventID, regID.String())
	require.NoError(t, err)
	assert.Equal(t, regID, byID.ID)

	byBadge, err := store.FindRegistration(context.Background(), eventID, "BADGE-42")
	require.NoError(t, err)
	assert.Equal(t, regID, byBadge.ID)

	_, err = store.FindRegistration(context.Background(), id.EventID(uuid.New()), "BADGE-42")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	_, err = store.FindRegistration(context.Background(), eventID, "BADGE-99")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestFirstAbstractForIsDeterministic(t *testing.T) {
	store := roster.NewMemoryStore()
	eventID := id.EventID(uuid.New())
	regID := id.RegistrationID(uuid.New())

	later := &roster.Abstract{
		ID:             id.AbstractID(uuid.New()),
		EventID:        eventID,
		RegistrationID: regID,
		Title:          "Second Submission",
		Code:           "ABS-002",
	}
	first := &roster.Abstract{
		ID:             id.AbstractID(uuid.New()),
		EventID:        eventID,
		RegistrationID: regID,
		Title:          "First Submission",
		Code:           "ABS-001",
	}
	foreign := &roster.Abstract{
		ID:             id.AbstractID(uuid.New()),
		EventID:        eventID,
		RegistrationID: id.RegistrationID(uuid.New()),
		Code:           "ABS-000",
	}
	store.PutAbstract(later)
	store.PutAbstract(first)
	store.PutAbstract(foreign)

	for range 5 {
		got, err := store.FirstAbstractFor(context.Background(), eventID, regID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)
	}

	_, err := store.FirstAbstractFor(context.Background(), eventID, id.RegistrationID(uuid.New()))
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
