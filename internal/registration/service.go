package registration

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blank122/alumni-link-wizard/internal/session"
	"github.com/blank122/alumni-link-wizard/internal/wizard"
)

// Service owns the wizard session lifecycle and the final hand-off to the
// core API.
type Service struct {
	sessions *session.Store
	tokens   *session.TokenIssuer
	client   *Client
	logger   *zap.Logger
}

// NewService creates the registration service.
func NewService(sessions *session.Store, tokens *session.TokenIssuer, client *Client, logger *zap.Logger) *Service {
	return &Service{
		sessions: sessions,
		tokens:   tokens,
		client:   client,
		logger:   logger,
	}
}

// CreateSession starts a fresh wizard and issues its session token.
func (s *Service) CreateSession() (wizard.Snapshot, string, error) {
	w := wizard.New()
	token, err := s.tokens.Issue(w.ID())
	if err != nil {
		return wizard.Snapshot{}, "", fmt.Errorf("issue session token: %w", err)
	}
	s.sessions.Put(w)
	s.logger.Info("wizard session created", zap.String("session_id", w.ID().String()))
	return w.Snapshot(), token, nil
}

// Snapshot returns the current read-only view of a session.
func (s *Service) Snapshot(id uuid.UUID) (wizard.Snapshot, error) {
	w, err := s.sessions.Get(id)
	if err != nil {
		return wizard.Snapshot{}, err
	}
	return w.Snapshot(), nil
}

// UpdateFields applies a field patch, last write wins per field.
func (s *Service) UpdateFields(id uuid.UUID, fields map[string]string) (wizard.Snapshot, error) {
	w, err := s.sessions.Get(id)
	if err != nil {
		return wizard.Snapshot{}, err
	}
	for key, value := range fields {
		if err := w.SetField(key, value); err != nil {
			return wizard.Snapshot{}, err
		}
	}
	return w.Snapshot(), nil
}

// AddSkill records a skill selection on the list named by the payload part
// it will be serialized into. Duplicates are ignored.
func (s *Service) AddSkill(id uuid.UUID, list, value string) (wizard.Snapshot, error) {
	w, err := s.sessions.Get(id)
	if err != nil {
		return wizard.Snapshot{}, err
	}

	var added bool
	switch list {
	case wizard.FieldTechnicalSkills:
		added = w.AddTechnicalSkill(value)
	case wizard.FieldSoftSkills:
		added = w.AddSoftSkill(value)
	case wizard.FieldCustomTechSkills:
		added = w.AddCustomTechnicalSkill(value)
	case wizard.FieldCustomSoftSkills:
		added = w.AddCustomSoftSkill(value)
	default:
		return wizard.Snapshot{}, fmt.Errorf("%w: %s", wizard.ErrUnknownField, list)
	}
	if !added {
		s.logger.Debug("duplicate skill ignored",
			zap.String("session_id", id.String()),
			zap.String("list", list),
			zap.String("value", value))
	}
	return w.Snapshot(), nil
}

// AttachCertificate stores the uploaded certificate file in the session.
func (s *Service) AttachCertificate(id uuid.UUID, filename string, content []byte) (wizard.Snapshot, error) {
	w, err := s.sessions.Get(id)
	if err != nil {
		return wizard.Snapshot{}, err
	}
	w.AttachCertificate(filename, content)
	return w.Snapshot(), nil
}

// Advance runs the forward transition. On wizard.ErrValidationFailed the
// returned snapshot carries the fresh error map.
func (s *Service) Advance(id uuid.UUID) (wizard.Snapshot, error) {
	w, err := s.sessions.Get(id)
	if err != nil {
		return wizard.Snapshot{}, err
	}
	advanceErr := w.Advance()
	return w.Snapshot(), advanceErr
}

// Retreat runs the backward transition; it never fails on a live session.
func (s *Service) Retreat(id uuid.UUID) (wizard.Snapshot, error) {
	w, err := s.sessions.Get(id)
	if err != nil {
		return wizard.Snapshot{}, err
	}
	w.Retreat()
	return w.Snapshot(), nil
}

// AcknowledgePrivacy records the consent that gates submission.
func (s *Service) AcknowledgePrivacy(id uuid.UUID) (wizard.Snapshot, error) {
	w, err := s.sessions.Get(id)
	if err != nil {
		return wizard.Snapshot{}, err
	}
	w.AcknowledgePrivacy()
	return w.Snapshot(), nil
}

// Submit assembles the payload and forwards it to the core API exactly once
// per call. The session lock is not held during the network exchange; the
// in-flight flag alone rejects concurrent submits. On success the session is
// dropped; on failure it survives intact for a manual retry.
func (s *Service) Submit(ctx context.Context, id uuid.UUID) (*RegisterResponse, error) {
	w, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}

	form, err := w.BeginSubmit()
	if err != nil {
		return nil, err
	}
	defer w.EndSubmit()

	body, contentType, err := BuildPayload(form)
	if err != nil {
		return nil, fmt.Errorf("assemble registration payload: %w", err)
	}

	resp, err := s.client.Register(ctx, body, contentType)
	if err != nil {
		s.logger.Error("registration submission failed",
			zap.String("session_id", id.String()),
			zap.Error(err))
		return nil, err
	}

	s.sessions.Delete(id)
	s.logger.Info("registration submitted",
		zap.String("session_id", id.String()),
		zap.String("message", resp.Message))
	return resp, nil
}
