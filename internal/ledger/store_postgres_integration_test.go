//go:build integration

package ledger_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"symposia/internal/ledger"
	id "symposia/pkg/domain"
	"symposia/pkg/platform/sentinel"
	"symposia/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *ledger.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = ledger.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "scans"))
}

func newScan(eventID id.EventID, registrationID id.RegistrationID, optionID id.OptionID, day string) *ledger.ScanEvent {
	return &ledger.ScanEvent{
		ID:             id.ScanID(uuid.New()),
		EventID:        eventID,
		RegistrationID: registrationID,
		ResourceType:   id.ResourceFood,
		OptionID:       optionID,
		Day:            day,
		Status:         ledger.StatusUsed,
		OptionLabel:    "Lunch (01/05/2024)",
		RegistrantName: "Test Registrant",
		CategoryName:   "Delegate",
		ActorID:        "kiosk-it",
		CreatedAt:      time.Now().UTC().Truncate(time.Microsecond),
	}
}

// TestConcurrentInsertSameKey verifies the partial unique index makes the
// insert race-free: many goroutines, one winner.
func (s *PostgresStoreSuite) TestConcurrentInsertSameKey() {
	ctx := context.Background()
	eventID := id.EventID(uuid.New())
	registrationID := id.RegistrationID(uuid.New())
	optionID := id.OptionID(uuid.New())
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount, duplicateCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := s.store.Insert(ctx, newScan(eventID, registrationID, optionID, "2024-05-01"))
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrAlreadyUsed) {
				duplicateCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one insert should win")
	s.Equal(int32(goroutines-1), duplicateCount.Load(), "all others should see the duplicate")

	records, err := s.store.ListByRegistration(ctx, eventID, registrationID)
	s.Require().NoError(err)
	s.Len(records, 1)
}

// TestDayScopedKeys verifies the day column participates in uniqueness.
func (s *PostgresStoreSuite) TestDayScopedKeys() {
	ctx := context.Background()
	eventID := id.EventID(uuid.New())
	registrationID := id.RegistrationID(uuid.New())
	optionID := id.OptionID(uuid.New())

	s.Require().NoError(s.store.Insert(ctx, newScan(eventID, registrationID, optionID, "2024-05-01")))
	s.Require().NoError(s.store.Insert(ctx, newScan(eventID, registrationID, optionID, "2024-05-02")))

	err := s.store.Insert(ctx, newScan(eventID, registrationID, optionID, "2024-05-01"))
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)
}

func (s *PostgresStoreSuite) TestVoidThenRescan() {
	ctx := context.Background()
	eventID := id.EventID(uuid.New())
	registrationID := id.RegistrationID(uuid.New())
	optionID := id.OptionID(uuid.New())

	first := newScan(eventID, registrationID, optionID, "2024-05-01")
	s.Require().NoError(s.store.Insert(ctx, first))

	voidKey := ledger.VoidKey{
		EventID:        eventID,
		RegistrationID: registrationID,
		ResourceType:   id.ResourceFood,
		OptionID:       optionID,
	}
	voided, err := s.store.VoidMatching(ctx, voidKey, "operator correction", "op-1", time.Now())
	s.Require().NoError(err)
	s.Equal(int64(1), voided)

	// The voided record left the partial index; a fresh insert succeeds.
	second := newScan(eventID, registrationID, optionID, "2024-05-01")
	s.Require().NoError(s.store.Insert(ctx, second))

	// Voiding again only touches the new record.
	voided, err = s.store.VoidMatching(ctx, voidKey, "second correction", "op-1", time.Now())
	s.Require().NoError(err)
	s.Equal(int64(1), voided)

	records, err := s.store.ListByRegistration(ctx, eventID, registrationID)
	s.Require().NoError(err)
	s.Len(records, 2)
	for _, record := range records {
		s.Equal(ledger.StatusVoided, record.Status)
		s.NotNil(record.VoidedAt)
		s.Equal("op-1", record.VoidedBy)
	}
}

func (s *PostgresStoreSuite) TestVoidSpansDays() {
	ctx := context.Background()
	eventID := id.EventID(uuid.New())
	registrationID := id.RegistrationID(uuid.New())
	optionID := id.OptionID(uuid.New())

	s.Require().NoError(s.store.Insert(ctx, newScan(eventID, registrationID, optionID, "2024-05-01")))
	s.Require().NoError(s.store.Insert(ctx, newScan(eventID, registrationID, optionID, "2024-05-02")))

	voided, err := s.store.VoidMatching(ctx, ledger.VoidKey{
		EventID:        eventID,
		RegistrationID: registrationID,
		ResourceType:   id.ResourceFood,
		OptionID:       optionID,
	}, "registration transferred", "op-2", time.Now())
	s.Require().NoError(err)
	s.Equal(int64(2), voided)
}

func (s *PostgresStoreSuite) TestFindActive() {
	ctx := context.Background()
	record := newScan(id.EventID(uuid.New()), id.RegistrationID(uuid.New()), id.OptionID(uuid.New()), "2024-05-01")
	s.Require().NoError(s.store.Insert(ctx, record))

	found, err := s.store.FindActive(ctx, record.Key())
	s.Require().NoError(err)
	s.Equal(record.ID, found.ID)
	s.Equal(record.OptionLabel, found.OptionLabel)

	missing := record.Key()
	missing.Day = "2024-05-09"
	_, err = s.store.FindActive(ctx, missing)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
