package registration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/blank122/alumni-link-wizard/internal/session"
	"github.com/blank122/alumni-link-wizard/internal/wizard"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestService(t *testing.T, upstreamURL string) *Service {
	t.Helper()
	logger := zap.NewNop()
	sessions := session.NewStore(time.Minute, logger)
	tokens := session.NewTokenIssuer(testSecret, time.Minute)
	client := NewClient(upstreamURL, 5*time.Second, logger)
	return NewService(sessions, tokens, client, logger)
}

func mustParseID(t *testing.T, id string) uuid.UUID {
	t.Helper()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	return parsed
}

func validFreelanceFields() map[string]string {
	return map[string]string{
		wizard.FieldFirstName:     "Juan",
		wizard.FieldLastName:      "Dela Cruz",
		wizard.FieldGender:        "male",
		wizard.FieldContactNumber: "09171234567",
		wizard.FieldFullAddress:   "Cagayan de Oro City",
		wizard.FieldLatitude:      "8.4542",
		wizard.FieldLongitude:     "124.6319",
		wizard.FieldAlumniID:      "2015-00123",
		wizard.FieldCourseID:      "4",
		wizard.FieldYearGraduated: "2019",
		wizard.FieldCertSerialNo:  "SN-991",
		wizard.FieldCertName:      "TOR",
		wizard.FieldCertAwarded:   "2019-04-01",
		wizard.FieldEmpStatus:     wizard.EmpStatusFreelance,
		wizard.FieldEmail:         "juan@example.com",
		wizard.FieldPassword:      "Abcdef1!",
	}
}

// walkToReview fills a session with a valid freelance registration and
// advances it to the review step; consent is left to the caller.
func walkToReview(t *testing.T, s *Service, id uuid.UUID) {
	t.Helper()
	_, err := s.UpdateFields(id, validFreelanceFields())
	require.NoError(t, err)
	_, err = s.AttachCertificate(id, "tor.pdf", []byte("pdf bytes"))
	require.NoError(t, err)

	for {
		snap, err := s.Advance(id)
		require.NoError(t, err)
		if snap.CurrentStep == wizard.StepReview {
			break
		}
	}
}

// driveToReview walks to review and gives consent.
func driveToReview(t *testing.T, s *Service, id uuid.UUID) {
	t.Helper()
	walkToReview(t, s, id)
	_, err := s.AcknowledgePrivacy(id)
	require.NoError(t, err)
}

func TestSubmitSuccessEndsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"alumni registered"}`))
	}))
	defer server.Close()

	s := newTestService(t, server.URL)
	snap, _, err := s.CreateSession()
	require.NoError(t, err)
	id := mustParseID(t, snap.ID)
	driveToReview(t, s, id)

	resp, err := s.Submit(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "alumni registered", resp.Message)

	_, err = s.Snapshot(id)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSubmitFailureKeepsSessionIntact(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"database down"}`))
	}))
	defer server.Close()

	s := newTestService(t, server.URL)
	snap, _, err := s.CreateSession()
	require.NoError(t, err)
	id := mustParseID(t, snap.ID)
	driveToReview(t, s, id)

	_, err = s.Submit(context.Background(), id)
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "database down", upstream.Message)

	// session survives with data intact and the in-flight flag reset
	after, err := s.Snapshot(id)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepReview, after.CurrentStep)
	assert.Equal(t, "Juan", after.Form.Fields[wizard.FieldFirstName])
	assert.False(t, after.SubmissionInFlight)

	// a manual retry is allowed
	_, err = s.Submit(context.Background(), id)
	require.ErrorAs(t, err, &upstream)
}

func TestSubmitBeforeReviewRefused(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"message":"ok"}`))
	}))
	defer server.Close()

	s := newTestService(t, server.URL)
	snap, _, err := s.CreateSession()
	require.NoError(t, err)
	id := mustParseID(t, snap.ID)

	_, err = s.Submit(context.Background(), id)
	assert.ErrorIs(t, err, wizard.ErrNotOnReviewStep)
	assert.Equal(t, int32(0), calls.Load())
}

func TestSubmitConcurrentGuard(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		started <- struct{}{}
		<-release
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"alumni registered"}`))
	}))
	defer server.Close()

	s := newTestService(t, server.URL)
	snap, _, err := s.CreateSession()
	require.NoError(t, err)
	id := mustParseID(t, snap.ID)
	driveToReview(t, s, id)

	firstDone := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), id)
		firstDone <- err
	}()

	<-started
	// session stays readable while the submission is in flight
	mid, err := s.Snapshot(id)
	require.NoError(t, err)
	assert.True(t, mid.SubmissionInFlight)

	_, err = s.Submit(context.Background(), id)
	assert.ErrorIs(t, err, wizard.ErrSubmissionInFlight)

	close(release)
	require.NoError(t, <-firstDone)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSubmitWithoutConsentRefusedBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"message":"ok"}`))
	}))
	defer server.Close()

	s := newTestService(t, server.URL)
	snap, _, err := s.CreateSession()
	require.NoError(t, err)
	id := mustParseID(t, snap.ID)
	walkToReview(t, s, id)

	_, err = s.Submit(context.Background(), id)
	assert.ErrorIs(t, err, wizard.ErrConsentRequired)
	assert.Equal(t, int32(0), calls.Load())
}

func TestAddSkillUnknownList(t *testing.T) {
	s := newTestService(t, "http://localhost:0")
	snap, _, err := s.CreateSession()
	require.NoError(t, err)
	id := mustParseID(t, snap.ID)

	_, err = s.AddSkill(id, "no_such_list", "3")
	assert.ErrorIs(t, err, wizard.ErrUnknownField)

	added, err := s.AddSkill(id, wizard.FieldTechnicalSkills, "3")
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, added.Form.TechnicalSkills)
}
