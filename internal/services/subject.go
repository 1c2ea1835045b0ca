package services

import (
	"context"
	"fmt"
	"time"

	"github.com/workmood/workmood-backend/database"
	"github.com/workmood/workmood-backend/internal/assist"
	"github.com/workmood/workmood-backend/model"
	"github.com/workmood/workmood-backend/util"
)

// SubjectService owns the subject-scoped operations. Subjects live embedded
// in their organization, so every mutation here goes through one aggregate
// replacement.
type SubjectService struct {
	store     database.Store
	assistant assist.Service
	now       func() time.Time
}

// NewSubjectService wires the service against a store and the assistant
// client
func NewSubjectService(store database.Store, assistant assist.Service) *SubjectService {
	return &SubjectService{store: store, assistant: assistant, now: time.Now}
}

// Authenticate resolves a subject inside its organization by the plaintext
// credential triple
func (s *SubjectService) Authenticate(ctx context.Context, creds model.AuthSubject) (model.Organization, model.Subject, error) {
	var org model.Organization
	filter := database.Filter{"orgKey": util.HashCredential(creds.OrgKey)}
	if err := s.store.FindOne(ctx, database.CollectionOrganizations, filter, nil, &org); err != nil {
		return model.Organization{}, model.Subject{}, fmt.Errorf("authenticating subject: %w", err)
	}

	username := util.HashCredential(creds.Username)
	password := util.HashCredential(creds.Password)
	for i := range org.Subjects {
		if org.Subjects[i].Username == username && org.Subjects[i].Password == password {
			return org, org.Subjects[i].Clone(), nil
		}
	}
	return model.Organization{}, model.Subject{}, fmt.Errorf("authenticating subject: %w", ErrNotFound)
}

// RegisterAll appends fresh subjects with digested credentials to the
// organization and persists the aggregate once
func (s *SubjectService) RegisterAll(ctx context.Context, org model.Organization, subjects []model.Subject) ([]model.Subject, error) {
	old := org.Clone()

	registered := make([]model.Subject, 0, len(subjects))
	for _, subject := range subjects {
		if subject.ID == "" {
			subject.ID = model.NewSubjectID()
		}
		if subject.RegisteredOn.IsZero() {
			subject.RegisteredOn = s.now()
		}
		if subject.HiddenDiseases == nil {
			subject.HiddenDiseases = []string{}
		}
		if subject.WorkEmotions == nil {
			subject.WorkEmotions = []model.WorkEmotion{}
		}
		if subject.Consultancies == nil {
			subject.Consultancies = []model.Consultancy{}
		}
		if subject.SpecialConsiderations == nil {
			subject.SpecialConsiderations = []model.SpecialConsiderationRequest{}
		}
		if subject.AuthKey == "" {
			generated, err := util.NewAuthKey()
			if err != nil {
				return nil, fmt.Errorf("registering subject %s: %w", subject.ID, err)
			}
			subject.AuthKey = generated
		}
		subject.Username = util.HashCredential(subject.Username)
		subject.Password = util.HashCredential(subject.Password)
		subject.AuthKey = util.HashCredential(subject.AuthKey)

		org.Subjects = append(org.Subjects, subject)
		registered = append(registered, subject)
	}

	if _, err := ReplaceOrganization(ctx, s.store, old, org, false); err != nil {
		return nil, err
	}
	return registered, nil
}

// RetrieveAll returns copies of the organization's subjects
func (s *SubjectService) RetrieveAll(org model.Organization) []model.Subject {
	subjects := make([]model.Subject, 0, len(org.Subjects))
	for _, subject := range org.Subjects {
		subjects = append(subjects, subject.Clone())
	}
	return subjects
}

// Update replaces one subject inside the aggregate. The subject keeps its
// id, and its credential fields (username, password, auth key) are restored
// from the stored subject unless rehash is set.
func (s *SubjectService) Update(ctx context.Context, org model.Organization, subjectID string, next model.Subject, rehash bool) (model.Subject, error) {
	old := org.Clone()

	current := org.SubjectByID(subjectID)
	if current == nil {
		return model.Subject{}, fmt.Errorf("updating subject %s: %w", subjectID, ErrNotFound)
	}

	next.ID = current.ID
	if rehash {
		next.Username = util.HashCredential(next.Username)
		next.Password = util.HashCredential(next.Password)
		next.AuthKey = util.HashCredential(next.AuthKey)
	} else {
		next.Username = current.Username
		next.Password = current.Password
		next.AuthKey = current.AuthKey
	}
	*current = next

	if _, err := ReplaceOrganization(ctx, s.store, old, org, false); err != nil {
		return model.Subject{}, err
	}
	return next.Clone(), nil
}

// Delete removes one subject from the aggregate
func (s *SubjectService) Delete(ctx context.Context, org model.Organization, subjectID string) error {
	old := org.Clone()

	found := false
	for i := range org.Subjects {
		if org.Subjects[i].ID == subjectID {
			org.Subjects = append(org.Subjects[:i], org.Subjects[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("deleting subject %s: %w", subjectID, ErrNotFound)
	}

	if _, err := ReplaceOrganization(ctx, s.store, old, org, false); err != nil {
		return err
	}
	return nil
}

// loadSubject reads the aggregate and locates one subject
func (s *SubjectService) loadSubject(ctx context.Context, orgKey string, subjectID string) (model.Organization, model.Subject, error) {
	var org model.Organization
	filter := database.Filter{"_key": orgKey}
	if err := s.store.FindOne(ctx, database.CollectionOrganizations, filter, nil, &org); err != nil {
		return model.Organization{}, model.Subject{}, fmt.Errorf("loading organization %s: %w", orgKey, err)
	}

	subject := org.SubjectByID(subjectID)
	if subject == nil {
		return model.Organization{}, model.Subject{}, fmt.Errorf("subject %s: %w", subjectID, ErrNotFound)
	}
	return org, subject.Clone(), nil
}

// EmotionEngagement computes the windowed per-category ratios of one
// subject. ok=false means the subject has no observations.
func (s *SubjectService) EmotionEngagement(ctx context.Context, orgKey string, subjectID string, win Window) (map[model.Emotion]float64, bool, error) {
	_, subject, err := s.loadSubject(ctx, orgKey, subjectID)
	if err != nil {
		return nil, false, err
	}
	ratios, ok := SubjectEngagement(subject, win, s.now(), DefaultConfidenceFloor)
	return ratios, ok, nil
}

// SingleEmotionEngagement computes the scalar ratio of one category for one
// subject
func (s *SubjectService) SingleEmotionEngagement(ctx context.Context, orgKey string, subjectID string, emotion model.Emotion, win Window) (float64, bool, error) {
	_, subject, err := s.loadSubject(ctx, orgKey, subjectID)
	if err != nil {
		return 0, false, err
	}
	return SubjectEmotionEngagement(subject, emotion, win, s.now(), DefaultConfidenceFloor)
}

// Converse runs one exchange of the subject's active consultancy session
// and persists the aggregate once. Assistant failures surface as fallback
// replies inside the session, never as errors.
func (s *SubjectService) Converse(ctx context.Context, org model.Organization, subjectID string, inbound model.Message) (model.Consultancy, error) {
	old := org.Clone()

	subject := org.SubjectByID(subjectID)
	if subject == nil {
		return model.Consultancy{}, fmt.Errorf("subject %s: %w", subjectID, ErrNotFound)
	}

	session, err := converse(ctx, s.assistant, subject, inbound, s.now())
	if err != nil {
		return model.Consultancy{}, err
	}

	if _, err := ReplaceOrganization(ctx, s.store, old, org, false); err != nil {
		return model.Consultancy{}, err
	}
	return session, nil
}

// RequestSpecialConsideration forwards the subject's request to the triage
// service and hands its analysis back. Nothing is persisted here; stored
// pending requests come from annotated ingestion entries.
func (s *SubjectService) RequestSpecialConsideration(ctx context.Context, org model.Organization, subjectID string, message string) (string, error) {
	analysis, err := s.assistant.Inquire(ctx, org.OrgKey, subjectID, message)
	if err != nil {
		return "", fmt.Errorf("forwarding consideration inquiry: %w", err)
	}
	return analysis, nil
}

// ConsultationRecommendation condenses the subject's bio profile and overall
// engagement through the assistant and returns its consultation
// recommendation. Read-only; nothing is persisted.
func (s *SubjectService) ConsultationRecommendation(ctx context.Context, org model.Organization, subjectID string) (string, error) {
	subject := org.SubjectByID(subjectID)
	if subject == nil {
		return "", fmt.Errorf("subject %s: %w", subjectID, ErrNotFound)
	}

	profile := map[string]interface{}{
		"name":           subject.Name,
		"address":        subject.Address,
		"gender":         subject.Gender,
		"hiddenDiseases": subject.HiddenDiseases,
		"salary":         subject.Salary,
		"family":         subject.Family,
	}
	bioSummary, err := s.assistant.SummarizeProfile(ctx, profile)
	if err != nil {
		return "", fmt.Errorf("summarizing subject profile: %w", err)
	}

	// Lifetime qualifying counts, rendered in the fixed category order.
	counts := engagementCounts(subject.WorkEmotions, time.Time{}, DefaultConfidenceFloor)
	engagementSummary := ""
	for _, emotion := range model.Emotions {
		engagementSummary += fmt.Sprintf("%s: %d, ", emotion, counts[emotion])
	}

	recommendation, err := s.assistant.Recommend(ctx, bioSummary, engagementSummary)
	if err != nil {
		return "", fmt.Errorf("requesting consultation recommendation: %w", err)
	}
	return recommendation, nil
}

// RespondedConsiderations lists the subject's answered requests
func (s *SubjectService) RespondedConsiderations(subject model.Subject) []model.SpecialConsiderationRequest {
	return respondedConsiderations(subject)
}

// RememberMe restores a subject session from the organization and subject
// auth key digests
func (s *SubjectService) RememberMe(ctx context.Context, rememberMe model.SubjectRememberMe) (model.Subject, error) {
	var org model.Organization
	filter := database.Filter{"authKey": rememberMe.BasicRememberMe.AuthKey}
	if err := s.store.FindOne(ctx, database.CollectionOrganizations, filter, nil, &org); err != nil {
		return model.Subject{}, fmt.Errorf("restoring subject session: %w", err)
	}

	for i := range org.Subjects {
		if org.Subjects[i].AuthKey == rememberMe.SubAuthKey {
			return org.Subjects[i].Clone(), nil
		}
	}
	return model.Subject{}, fmt.Errorf("restoring subject session: %w", ErrNotFound)
}
