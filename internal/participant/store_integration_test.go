//go:build integration

package participant_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"emarge/internal/participant"
	"emarge/pkg/platform/tx"
	"emarge/pkg/testutil/containers"
)

// PostgresStoreSuite verifies the identity-key uniqueness the dedup algorithm
// relies on against a real database.
type PostgresStoreSuite struct {
	suite.Suite
	pg     *containers.PostgresContainer
	store  *participant.PostgresStore
	runner *tx.SQLRunner
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.pg.Migrate(s.T(), "../../migrations")
	s.store = participant.NewPostgresStore(s.pg.DB)
	s.runner = tx.NewSQLRunner(s.pg.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateAll(context.Background()))
}

func (s *PostgresStoreSuite) newParticipant(cni, email string) *participant.Participant {
	now := time.Now().UTC()
	return &participant.Participant{
		ID:        uuid.New(),
		FirstName: "Awa",
		LastName:  "Diop",
		CNINumber: cni,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *PostgresStoreSuite) TestInsertAndFindByCNI() {
	ctx := context.Background()
	p := s.newParticipant("AB12CD34", "")

	created, err := s.store.Insert(ctx, p)
	s.Require().NoError(err)
	s.True(created)

	found, err := s.store.FindByCNI(ctx, "AB12CD34")
	s.Require().NoError(err)
	s.Equal(p.ID, found.ID)
	s.Equal("Awa", found.FirstName)
}

func (s *PostgresStoreSuite) TestDuplicateCNIRejectedByIndex() {
	ctx := context.Background()

	created, err := s.store.Insert(ctx, s.newParticipant("AB12CD34", ""))
	s.Require().NoError(err)
	s.True(created)

	created, err = s.store.Insert(ctx, s.newParticipant("AB12CD34", ""))
	s.Require().NoError(err)
	s.False(created, "second insert must lose to the unique index, not error")
}

func (s *PostgresStoreSuite) TestDuplicateEmailRejectedByIndex() {
	ctx := context.Background()

	created, err := s.store.Insert(ctx, s.newParticipant("", "awa@example.org"))
	s.Require().NoError(err)
	s.True(created)

	created, err = s.store.Insert(ctx, s.newParticipant("", "awa@example.org"))
	s.Require().NoError(err)
	s.False(created)
}

func (s *PostgresStoreSuite) TestKeylessRowsNeverCollide() {
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		created, err := s.store.Insert(ctx, s.newParticipant("", ""))
		s.Require().NoError(err)
		s.True(created)
	}
}

func (s *PostgresStoreSuite) TestUpdateContactKeepsEarlierValues() {
	ctx := context.Background()
	p := s.newParticipant("AB12CD34", "")
	p.Phone = "+221700000000"
	_, err := s.store.Insert(ctx, p)
	s.Require().NoError(err)

	err = s.store.UpdateContact(ctx, p.ID, participant.ContactUpdate{Organization: "Ministry of Health"})
	s.Require().NoError(err)

	found, err := s.store.FindByID(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("+221700000000", found.Phone, "blank update fields must not clear stored values")
	s.Equal("Ministry of Health", found.Organization)
}

func (s *PostgresStoreSuite) TestInsertRollsBackWithTransaction() {
	ctx := context.Background()
	p := s.newParticipant("AB12CD34", "")

	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		created, err := s.store.Insert(ctx, p)
		s.Require().NoError(err)
		s.Require().True(created)
		return context.Canceled
	})
	s.Require().Error(err)

	_, err = s.store.FindByCNI(ctx, "AB12CD34")
	s.Require().Error(err, "rolled back insert must not be visible")
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}
