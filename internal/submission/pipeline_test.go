package submission_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"emarge/internal/attendance"
	"emarge/internal/checkin"
	"emarge/internal/participant"
	"emarge/internal/submission"
	"emarge/internal/submission/mocks"
	dErrors "emarge/pkg/domain-errors"
	"emarge/pkg/platform/tx"
)

// The pipeline must be terminal on the first failing stage: nothing past it
// may run. gomock enforces that via the absence of expectations.

func newMockedService(t *testing.T) (*submission.Service, *mocks.MockTokenValidator, *mocks.MockIdentityResolver, *mocks.MockAttendanceWriter) {
	ctrl := gomock.NewController(t)
	tokens := mocks.NewMockTokenValidator(ctrl)
	identities := mocks.NewMockIdentityResolver(ctrl)
	writer := mocks.NewMockAttendanceWriter(ctrl)
	svc := submission.NewService(
		tokens, identities, writer, mocks.NewMockParticipantReader(ctrl),
		tx.NewMemoryRunner(), slog.New(slog.DiscardHandler), nil,
	)
	return svc, tokens, identities, writer
}

func TestSubmitStopsAtInvalidToken(t *testing.T) {
	svc, tokens, _, _ := newMockedService(t)

	tokens.EXPECT().
		Validate(gomock.Any(), "bad-token", gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeInvalidToken, "unknown check-in token"))

	_, err := svc.Submit(context.Background(), submission.Request{Token: "bad-token"})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidToken))
}

func TestSubmitStopsWhenResolutionFails(t *testing.T) {
	svc, tokens, identities, _ := newMockedService(t)

	tokens.EXPECT().
		Validate(gomock.Any(), "tok", gomock.Any()).
		Return(&checkin.Grant{EventID: uuid.New()}, nil)
	identities.EXPECT().
		Resolve(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeValidation, "candidate needs a name or an identity key"))

	_, err := svc.Submit(context.Background(), submission.Request{Token: "tok"})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestSubmitPassesGrantToWriter(t *testing.T) {
	svc, tokens, identities, writer := newMockedService(t)

	eventID := uuid.New()
	sessionID := uuid.New()
	participantID := uuid.New()

	tokens.EXPECT().
		Validate(gomock.Any(), "tok", gomock.Any()).
		Return(&checkin.Grant{EventID: eventID, SessionID: &sessionID, EventTitle: "Forum"}, nil)
	identities.EXPECT().
		Resolve(gomock.Any(), gomock.Any()).
		Return(&participant.Resolution{
			Participant: &participant.Participant{ID: participantID},
			Created:     true,
		}, nil)
	writer.EXPECT().
		Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in attendance.RecordInput) (*attendance.Record, error) {
			assert.Equal(t, participantID, in.ParticipantID)
			assert.Equal(t, eventID, in.EventID)
			require.NotNil(t, in.SessionID)
			assert.Equal(t, sessionID, *in.SessionID)
			return &attendance.Record{ID: uuid.New(), ParticipantID: in.ParticipantID, EventID: in.EventID, SessionID: in.SessionID}, nil
		})

	receipt, err := svc.Submit(context.Background(), submission.Request{Token: "tok", Signature: "sig"})
	require.NoError(t, err)
	assert.Equal(t, eventID, receipt.EventID)
	assert.Equal(t, "Forum", receipt.EventTitle)
	assert.True(t, receipt.ParticipantCreated)
}
