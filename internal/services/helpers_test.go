package services

import (
	"context"
	"testing"
	"time"

	"github.com/workmood/workmood-backend/database"
	"github.com/workmood/workmood-backend/internal/assist"
	"github.com/workmood/workmood-backend/model"
	"github.com/workmood/workmood-backend/util"
)

// fakeAssist scripts the assistant sibling services for tests
type fakeAssist struct {
	validity       assist.Validity
	reply          string
	replyErr       error
	analysis       string
	bioSummary     string
	recommendation string

	generateCalls int
	validateCalls int
}

func (f *fakeAssist) ValidateMessage(context.Context, string) assist.Validity {
	f.validateCalls++
	return f.validity
}

func (f *fakeAssist) GenerateReply(context.Context, []assist.Turn) (string, error) {
	f.generateCalls++
	return f.reply, f.replyErr
}

func (f *fakeAssist) SummarizeProfile(context.Context, map[string]interface{}) (string, error) {
	return f.bioSummary, nil
}

func (f *fakeAssist) Recommend(context.Context, string, string) (string, error) {
	return f.recommendation, nil
}

func (f *fakeAssist) Inquire(context.Context, string, string, string) (string, error) {
	return f.analysis, nil
}

func fixedNow() time.Time {
	return time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
}

// seedOrganization registers one organization through the real service and
// hands back the stored aggregate snapshot, re-read by credential auth. The
// registration response itself carries the plaintext org key and is not a
// valid replace snapshot; production routes authenticate before mutating,
// and the seeded snapshot mirrors that.
func seedOrganization(t *testing.T, store database.Store, assistant assist.Service, org model.Organization) (*OrganizationService, model.Organization) {
	t.Helper()

	svc := NewOrganizationService(store, assistant)
	svc.now = fixedNow

	plainKey, plainPass := org.OrgKey, org.Password
	if _, err := svc.Register(context.Background(), org); err != nil {
		t.Fatalf("Register: %v", err)
	}
	stored, err := svc.Authenticate(context.Background(), model.AuthOrg{OrgKey: plainKey, Password: plainPass})
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	return svc, stored
}

func testOrganization() model.Organization {
	return model.Organization{
		Name:     "Acme Works",
		Address:  "1 Foundry Lane",
		Email:    "ops@acme.test",
		OrgKey:   "acme-key",
		Password: "acme-pass",
		AuthKey:  "acme-auth",
		Subjects: []model.Subject{},
	}
}

func testSubject(id, faceSnapDir string) model.Subject {
	return model.Subject{
		ID:                    id,
		Username:              util.HashCredential(id + "-user"),
		Password:              util.HashCredential(id + "-pass"),
		AuthKey:               util.HashCredential(id + "-auth"),
		Name:                  "Subject " + id,
		Gender:                "other",
		FaceSnapDirURI:        faceSnapDir,
		HiddenDiseases:        []string{},
		WorkEmotions:          []model.WorkEmotion{},
		Consultancies:         []model.Consultancy{},
		SpecialConsiderations: []model.SpecialConsiderationRequest{},
	}
}
