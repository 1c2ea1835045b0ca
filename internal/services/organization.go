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

// OrganizationService owns the organization aggregate lifecycle
type OrganizationService struct {
	store     database.Store
	assistant assist.Service
	plans     *util.PlanCatalog
	now       func() time.Time
}

// NewOrganizationService wires the service against a store and the
// assistant client
func NewOrganizationService(store database.Store, assistant assist.Service) *OrganizationService {
	return &OrganizationService{store: store, assistant: assistant, now: time.Now}
}

// SetPlanCatalog attaches the subscription plan catalog. Without one,
// registrations keep whatever Subscription payload they carry.
func (s *OrganizationService) SetPlanCatalog(catalog *util.PlanCatalog) {
	s.plans = catalog
}

// PlanNames lists the available subscription plans
func (s *OrganizationService) PlanNames() []string {
	if s.plans == nil {
		return []string{}
	}
	return s.plans.Names()
}

// Authenticate resolves an organization by its credential pair. The inputs
// are plaintext; the stored digests are matched with an equality filter.
func (s *OrganizationService) Authenticate(ctx context.Context, creds model.AuthOrg) (model.Organization, error) {
	filter := database.Filter{
		"orgKey":   util.HashCredential(creds.OrgKey),
		"password": util.HashCredential(creds.Password),
	}
	var org model.Organization
	if err := s.store.FindOne(ctx, database.CollectionOrganizations, filter, nil, &org); err != nil {
		return model.Organization{}, fmt.Errorf("authenticating organization: %w", err)
	}
	return org, nil
}

// Register stores a fresh organization with digested credentials and returns
// the stored document. The plaintext org key is handed back exactly once, on
// this response; afterwards only its digest exists.
func (s *OrganizationService) Register(ctx context.Context, org model.Organization) (model.Organization, error) {
	plainOrgKey := org.OrgKey

	if org.Key == "" {
		org.Key = model.NewOrganizationKey()
	}
	if org.RegisteredOn.IsZero() {
		org.RegisteredOn = s.now()
	}
	if org.Subjects == nil {
		org.Subjects = []model.Subject{}
	}
	if org.Threads == nil {
		org.Threads = []model.Thread{}
	}
	if s.plans != nil && org.Subscription.Name != "" {
		if plan, ok := s.plans.Plan(org.Subscription.Name); ok {
			org.Subscription = plan
		}
	}
	if org.AuthKey == "" {
		generated, err := util.NewAuthKey()
		if err != nil {
			return model.Organization{}, fmt.Errorf("registering organization: %w", err)
		}
		org.AuthKey = generated
	}

	org.OrgKey = util.HashCredential(org.OrgKey)
	org.Password = util.HashCredential(org.Password)
	org.AuthKey = util.HashCredential(org.AuthKey)

	if err := s.store.InsertOne(ctx, database.CollectionOrganizations, org); err != nil {
		return model.Organization{}, fmt.Errorf("registering organization: %w", err)
	}

	var registered model.Organization
	filter := database.Filter{"_key": org.Key}
	if err := s.store.FindOne(ctx, database.CollectionOrganizations, filter, nil, &registered); err != nil {
		return model.Organization{}, fmt.Errorf("reading back organization %s: %w", org.Key, err)
	}

	registered.OrgKey = plainOrgKey
	return registered, nil
}

// RetrieveAll builds the administrative ranking: every organization
// projected to its metadata plus the happy engagement score, ordered highest
// score first
func (s *OrganizationService) RetrieveAll(ctx context.Context) ([]model.AdministrativeOrganization, error) {
	var orgs []model.Organization
	if err := s.store.FindMany(ctx, database.CollectionOrganizations, nil, nil, nil, &orgs); err != nil {
		return nil, fmt.Errorf("listing organizations: %w", err)
	}

	ranked := make([]model.AdministrativeOrganization, 0, len(orgs))
	for _, org := range orgs {
		subjectIDs := make([]string, 0, len(org.Subjects))
		for _, subject := range org.Subjects {
			subjectIDs = append(subjectIDs, subject.ID)
		}
		ranked = append(ranked, model.AdministrativeOrganization{
			Key:             org.Key,
			Name:            org.Name,
			Address:         org.Address,
			BusinessReg:     org.BusinessReg,
			Owner:           org.Owner,
			RegisteredOn:    org.RegisteredOn,
			Email:           org.Email,
			SubjectIDs:      subjectIDs,
			PlanName:        org.Subscription.Name,
			HappyEngagement: HappyEngagementScore(org),
		})
	}
	RankOrganizations(ranked)
	return ranked, nil
}

// Update replaces the aggregate, keeping the stored credentials
func (s *OrganizationService) Update(ctx context.Context, old model.Organization, next model.Organization) (model.Organization, error) {
	return ReplaceOrganization(ctx, s.store, old, next, false)
}

// UpdateWithCredentials replaces the aggregate and digests the credentials
// supplied in next
func (s *OrganizationService) UpdateWithCredentials(ctx context.Context, old model.Organization, next model.Organization) (model.Organization, error) {
	return ReplaceOrganization(ctx, s.store, old, next, true)
}

// Delete removes the aggregate
func (s *OrganizationService) Delete(ctx context.Context, org model.Organization) error {
	filter := database.Filter{"_key": org.Key}
	if err := s.store.DeleteOne(ctx, database.CollectionOrganizations, filter); err != nil {
		return fmt.Errorf("deleting organization %s: %w", org.Key, err)
	}
	return nil
}

// EmotionEngagement computes the organization-wide windowed engagement
// ratios. ok=false means no subject has recorded anything yet.
func (s *OrganizationService) EmotionEngagement(ctx context.Context, orgKey string, win Window) (map[model.Emotion]float64, bool, error) {
	var org model.Organization
	filter := database.Filter{"_key": orgKey}
	if err := s.store.FindOne(ctx, database.CollectionOrganizations, filter, nil, &org); err != nil {
		return nil, false, fmt.Errorf("loading organization %s: %w", orgKey, err)
	}

	ratios, ok := OrganizationEngagement(org, win, s.now(), DefaultConfidenceFloor)
	return ratios, ok, nil
}

// IngestWorkEmotions appends the entries' observations to the subjects they
// match by face-snap directory and synthesizes a pending consideration
// request for each annotated entry. The orgKey is the stored credential
// digest, presented verbatim by the recognition pipeline. One aggregate
// replacement covers the whole batch.
func (s *OrganizationService) IngestWorkEmotions(ctx context.Context, orgKey string, entries []model.WorkEmotionEntry) (model.Organization, error) {
	var org model.Organization
	filter := database.Filter{"orgKey": orgKey}
	if err := s.store.FindOne(ctx, database.CollectionOrganizations, filter, nil, &org); err != nil {
		return model.Organization{}, fmt.Errorf("loading organization for ingestion: %w", err)
	}
	old := org.Clone()

	for _, entry := range entries {
		subject := org.SubjectByFaceSnapDir(entry.FaceSnapDirURI)
		if subject == nil {
			continue
		}
		for _, w := range entry.WorkEmotions {
			subject.WorkEmotions = append(subject.WorkEmotions, w.Clone())
		}
		if entry.SpecialConsideration != "" {
			requestedOn := entry.CreatedOn
			if requestedOn.IsZero() {
				requestedOn = s.now()
			}
			subject.SpecialConsiderations = append(subject.SpecialConsiderations,
				synthesizeConsideration(entry.SpecialConsideration, requestedOn))
		}
	}

	return ReplaceOrganization(ctx, s.store, old, org, false)
}

// InitConsultancies opens consultancy sessions for the subjects matched by
// an ingestion batch, per the session-initialization rules
func (s *OrganizationService) InitConsultancies(ctx context.Context, orgKey string, entries []model.WorkEmotionEntry) error {
	var org model.Organization
	filter := database.Filter{"orgKey": orgKey}
	if err := s.store.FindOne(ctx, database.CollectionOrganizations, filter, nil, &org); err != nil {
		return fmt.Errorf("loading organization for consultancy setup: %w", err)
	}
	old := org.Clone()

	initConsultancies(ctx, s.assistant, &org, entries, s.now())

	if _, err := ReplaceOrganization(ctx, s.store, old, org, false); err != nil {
		return err
	}
	return nil
}

// PendingConsiderations lists every unanswered special-consideration request
// across the organization
func (s *OrganizationService) PendingConsiderations(_ context.Context, org model.Organization) []PendingConsideration {
	return pendingConsiderations(org)
}

// RespondConsiderations applies a response batch and persists the aggregate
// once
func (s *OrganizationService) RespondConsiderations(ctx context.Context, org model.Organization, responses []ConsiderationResponse) (model.Organization, error) {
	old := org.Clone()
	applyConsiderationResponses(&org, responses, s.now())
	return ReplaceOrganization(ctx, s.store, old, org, false)
}

// RememberMe restores an organization session from its stored auth key
// digest
func (s *OrganizationService) RememberMe(ctx context.Context, rememberMe model.BasicRememberMe) (model.Organization, error) {
	var org model.Organization
	filter := database.Filter{"authKey": rememberMe.AuthKey}
	if err := s.store.FindOne(ctx, database.CollectionOrganizations, filter, nil, &org); err != nil {
		return model.Organization{}, fmt.Errorf("restoring organization session: %w", err)
	}
	return org, nil
}
