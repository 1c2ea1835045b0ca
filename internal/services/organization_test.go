package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/workmood/workmood-backend/database"
	"github.com/workmood/workmood-backend/internal/assist"
	"github.com/workmood/workmood-backend/model"
	"github.com/workmood/workmood-backend/util"
)

func TestOrganizationRegisterDigestsCredentials(t *testing.T) {
	store := database.NewMemStore()
	svc := NewOrganizationService(store, &fakeAssist{})
	svc.now = fixedNow

	registered, err := svc.Register(context.Background(), testOrganization())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if registered.Key == "" {
		t.Error("expected an assigned key")
	}
	if !registered.RegisteredOn.Equal(fixedNow()) {
		t.Errorf("registeredOn = %v, want %v", registered.RegisteredOn, fixedNow())
	}
	// The plaintext org key comes back exactly once, on the registration
	// response.
	if registered.OrgKey != "acme-key" {
		t.Errorf("response orgKey = %q, want plaintext", registered.OrgKey)
	}
	if registered.Password != util.HashCredential("acme-pass") {
		t.Error("response password must be the stored digest")
	}

	var stored model.Organization
	err = store.FindOne(context.Background(), database.CollectionOrganizations,
		database.Filter{"_key": registered.Key}, nil, &stored)
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if stored.OrgKey != util.HashCredential("acme-key") {
		t.Error("stored orgKey must be digested")
	}
	if stored.AuthKey != util.HashCredential("acme-auth") {
		t.Error("stored authKey must be digested")
	}
	if stored.Subjects == nil || stored.Threads == nil {
		t.Error("embedded collections must default to empty, not null")
	}
}

func TestOrganizationRegisterResolvesPlanAndGeneratesAuthKey(t *testing.T) {
	store := database.NewMemStore()
	svc := NewOrganizationService(store, &fakeAssist{})
	svc.now = fixedNow

	catalog, err := util.ParsePlanCatalog([]byte(
		"plans:\n" +
			"  - name: starter\n" +
			"    price: 49.99\n" +
			"    introducedOn: \"2024-03-01T00:00:00Z\"\n"))
	if err != nil {
		t.Fatalf("ParsePlanCatalog: %v", err)
	}
	svc.SetPlanCatalog(catalog)

	org := testOrganization()
	org.AuthKey = ""
	org.Subscription.Name = "starter"

	registered, err := svc.Register(context.Background(), org)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if registered.Subscription.Price != 49.99 {
		t.Errorf("subscription price = %v, want resolved from the catalog", registered.Subscription.Price)
	}
	if registered.AuthKey == "" || registered.AuthKey == util.HashCredential("") {
		t.Error("a missing authKey must be generated, not digested from empty")
	}

	if got := svc.PlanNames(); len(got) != 1 || got[0] != "starter" {
		t.Errorf("plan names = %v", got)
	}
}

func TestOrganizationAuthenticate(t *testing.T) {
	store := database.NewMemStore()
	svc, registered := seedOrganization(t, store, &fakeAssist{}, testOrganization())

	org, err := svc.Authenticate(context.Background(), model.AuthOrg{OrgKey: "acme-key", Password: "acme-pass"})
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if org.Key != registered.Key {
		t.Errorf("key = %s, want %s", org.Key, registered.Key)
	}

	_, err = svc.Authenticate(context.Background(), model.AuthOrg{OrgKey: "acme-key", Password: "wrong"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestOrganizationUpdateKeepsStoredCredentials(t *testing.T) {
	store := database.NewMemStore()
	svc, registered := seedOrganization(t, store, &fakeAssist{}, testOrganization())

	next := registered.Clone()
	next.Name = "Acme Works Ltd"
	next.OrgKey = "attacker-key"
	next.Password = "attacker-pass"
	next.AuthKey = "attacker-auth"

	updated, err := svc.Update(context.Background(), registered, next)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Acme Works Ltd" {
		t.Errorf("name = %q", updated.Name)
	}
	if updated.OrgKey != util.HashCredential("acme-key") {
		t.Error("a routine update must restore the stored orgKey digest")
	}
	if updated.Password != util.HashCredential("acme-pass") || updated.AuthKey != util.HashCredential("acme-auth") {
		t.Error("a routine update must restore the stored password and authKey digests")
	}

	// The old credentials still authenticate.
	if _, err := svc.Authenticate(context.Background(), model.AuthOrg{OrgKey: "acme-key", Password: "acme-pass"}); err != nil {
		t.Fatalf("Authenticate after update: %v", err)
	}
}

func TestOrganizationUpdateWithCredentialsRehashes(t *testing.T) {
	store := database.NewMemStore()
	svc, registered := seedOrganization(t, store, &fakeAssist{}, testOrganization())

	next := registered.Clone()
	next.OrgKey = "new-key"
	next.Password = "new-pass"
	next.AuthKey = "new-auth"

	if _, err := svc.UpdateWithCredentials(context.Background(), registered, next); err != nil {
		t.Fatalf("UpdateWithCredentials: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), model.AuthOrg{OrgKey: "acme-key", Password: "acme-pass"}); !errors.Is(err, ErrNotFound) {
		t.Fatal("old credentials must stop working after a rotation")
	}
	if _, err := svc.Authenticate(context.Background(), model.AuthOrg{OrgKey: "new-key", Password: "new-pass"}); err != nil {
		t.Fatalf("new credentials must authenticate: %v", err)
	}
}

func TestOrganizationUpdateMissingAggregate(t *testing.T) {
	store := database.NewMemStore()
	svc := NewOrganizationService(store, &fakeAssist{})

	ghost := testOrganization()
	ghost.Key = "never-stored"
	_, err := svc.Update(context.Background(), ghost, ghost)
	if !errors.Is(err, ErrNotModified) {
		t.Fatalf("err = %v, want ErrNotModified", err)
	}
}

func TestOrganizationConcurrentReplaceLastWriterWins(t *testing.T) {
	store := database.NewMemStore()
	svc, registered := seedOrganization(t, store, &fakeAssist{}, testOrganization())

	// Two writers start from the same snapshot.
	first := registered.Clone()
	first.Name = "First Writer"
	second := registered.Clone()
	second.Address = "2 Second Street"

	if _, err := svc.Update(context.Background(), registered, first); err != nil {
		t.Fatalf("first update: %v", err)
	}
	final, err := svc.Update(context.Background(), registered, second)
	if err != nil {
		t.Fatalf("second update: %v", err)
	}

	// No version token: the second replacement overwrites the first outright.
	if final.Name == "First Writer" {
		t.Error("the first writer's change must be lost")
	}
	if final.Address != "2 Second Street" {
		t.Errorf("address = %q, want the second writer's value", final.Address)
	}
}

func TestOrganizationDelete(t *testing.T) {
	store := database.NewMemStore()
	svc, registered := seedOrganization(t, store, &fakeAssist{}, testOrganization())

	if err := svc.Delete(context.Background(), registered); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(context.Background(), registered); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestOrganizationRetrieveAllRanked(t *testing.T) {
	store := database.NewMemStore()
	now := fixedNow()

	low := testOrganization()
	low.Name = "Low"
	low.OrgKey = "low-key"
	low.Subjects = []model.Subject{{ID: "l1", WorkEmotions: []model.WorkEmotion{
		observation(model.EmotionSad, 90, now),
	}}}

	high := testOrganization()
	high.Name = "High"
	high.OrgKey = "high-key"
	high.Subjects = []model.Subject{{ID: "h1", WorkEmotions: []model.WorkEmotion{
		observation(model.EmotionHappy, 90, now),
	}}}

	svc, _ := seedOrganization(t, store, &fakeAssist{}, low)
	if _, err := svc.Register(context.Background(), high); err != nil {
		t.Fatalf("Register: %v", err)
	}

	ranked, err := svc.RetrieveAll(context.Background())
	if err != nil {
		t.Fatalf("RetrieveAll: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("ranked = %d, want 2", len(ranked))
	}
	if ranked[0].Name != "High" || ranked[1].Name != "Low" {
		t.Errorf("order = %s, %s; want High first", ranked[0].Name, ranked[1].Name)
	}
	if !almostEqual(ranked[0].HappyEngagement, 1) {
		t.Errorf("high score = %v, want 1", ranked[0].HappyEngagement)
	}
	if got := ranked[0].SubjectIDs; len(got) != 1 || got[0] != "h1" {
		t.Errorf("subject ids = %v", got)
	}
}

func TestIngestWorkEmotionsAppendsAndSynthesizes(t *testing.T) {
	store := database.NewMemStore()
	now := fixedNow()

	org := testOrganization()
	subject := testSubject("s1", "faces/s1")
	subject.WorkEmotions = []model.WorkEmotion{observation(model.EmotionNeutral, 70, now.Add(-time.Hour))}
	org.Subjects = []model.Subject{subject}

	svc, _ := seedOrganization(t, store, &fakeAssist{}, org)

	entryTime := now.Add(-10 * time.Minute)
	entries := []model.WorkEmotionEntry{
		{
			FaceSnapDirURI: "faces/s1",
			CreatedOn:      entryTime,
			WorkEmotions: []model.WorkEmotion{
				observation(model.EmotionSad, 91, entryTime),
				observation(model.EmotionSad, 88, entryTime),
			},
			SpecialConsideration: "prolonged distress observed",
		},
		{FaceSnapDirURI: "faces/unknown", WorkEmotions: []model.WorkEmotion{observation(model.EmotionHappy, 99, entryTime)}},
	}

	// The recognition pipeline presents the stored digest verbatim, never
	// the plaintext org key.
	updated, err := svc.IngestWorkEmotions(context.Background(), util.HashCredential("acme-key"), entries)
	if err != nil {
		t.Fatalf("IngestWorkEmotions: %v", err)
	}

	log := updated.Subjects[0].WorkEmotions
	if len(log) != 3 {
		t.Fatalf("log length = %d, want prior entry plus two appended", len(log))
	}
	if log[0].Emotion != model.EmotionNeutral {
		t.Error("prior observations must be preserved in order")
	}

	considerations := updated.Subjects[0].SpecialConsiderations
	if len(considerations) != 1 {
		t.Fatalf("considerations = %d, want 1 synthesized", len(considerations))
	}
	if considerations[0].Message != "prolonged distress observed" || !considerations[0].Pending() {
		t.Errorf("synthesized request = %+v", considerations[0])
	}
	if !considerations[0].RequestedOn.Equal(entryTime) {
		t.Errorf("requestedOn = %v, want the entry's createdOn", considerations[0].RequestedOn)
	}
}

func TestIngestWorkEmotionsUnknownOrgKey(t *testing.T) {
	store := database.NewMemStore()
	svc, _ := seedOrganization(t, store, &fakeAssist{}, testOrganization())

	_, err := svc.IngestWorkEmotions(context.Background(), "not-a-digest", nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestInitConsultanciesPersists(t *testing.T) {
	store := database.NewMemStore()
	now := fixedNow()

	org := testOrganization()
	org.Subjects = []model.Subject{testSubject("s1", "faces/s1")}

	assistant := &fakeAssist{reply: "Let's talk."}
	svc, registered := seedOrganization(t, store, assistant, org)

	entries := []model.WorkEmotionEntry{{
		FaceSnapDirURI: "faces/s1",
		WorkEmotions:   []model.WorkEmotion{observation(model.EmotionDisgust, 93, now)},
	}}
	if err := svc.InitConsultancies(context.Background(), util.HashCredential("acme-key"), entries); err != nil {
		t.Fatalf("InitConsultancies: %v", err)
	}

	var stored model.Organization
	err := store.FindOne(context.Background(), database.CollectionOrganizations,
		database.Filter{"_key": registered.Key}, nil, &stored)
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if len(stored.Subjects[0].Consultancies) != 1 {
		t.Fatalf("stored sessions = %d, want 1", len(stored.Subjects[0].Consultancies))
	}
	if stored.Subjects[0].Consultancies[0].ExpressionCaused != model.EmotionDisgust {
		t.Errorf("ExpressionCaused = %s", stored.Subjects[0].Consultancies[0].ExpressionCaused)
	}
}

func TestRespondConsiderationsPersistsOnce(t *testing.T) {
	store := database.NewMemStore()

	org := orgWithConsiderations()
	svc, registered := seedOrganization(t, store, &fakeAssist{}, org)

	updated, err := svc.RespondConsiderations(context.Background(), registered, []ConsiderationResponse{
		{SubjectID: "s1", RequestID: "r1", Response: "approved"},
	})
	if err != nil {
		t.Fatalf("RespondConsiderations: %v", err)
	}

	pending := svc.PendingConsiderations(context.Background(), updated)
	if len(pending) != 1 || pending[0].Request.ID != "r3" {
		t.Fatalf("pending after respond = %+v, want only r3", pending)
	}

	var stored model.Organization
	err = store.FindOne(context.Background(), database.CollectionOrganizations,
		database.Filter{"_key": registered.Key}, nil, &stored)
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if got := stored.Subjects[0].SpecialConsiderations[0].Response; got == nil || *got != "approved" {
		t.Errorf("stored response = %v, want approved", got)
	}
}

func TestOrganizationRememberMe(t *testing.T) {
	store := database.NewMemStore()
	svc, registered := seedOrganization(t, store, &fakeAssist{}, testOrganization())

	// Remember-me presents the stored digest, not the plaintext.
	org, err := svc.RememberMe(context.Background(), model.BasicRememberMe{AuthKey: util.HashCredential("acme-auth")})
	if err != nil {
		t.Fatalf("RememberMe: %v", err)
	}
	if org.Key != registered.Key {
		t.Errorf("key = %s, want %s", org.Key, registered.Key)
	}

	_, err = svc.RememberMe(context.Background(), model.BasicRememberMe{AuthKey: "acme-auth"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("plaintext auth key must not match: %v", err)
	}
}

func TestOrganizationEmotionEngagementLookup(t *testing.T) {
	store := database.NewMemStore()
	now := fixedNow()

	org := testOrganization()
	org.Subjects = []model.Subject{{ID: "s1", WorkEmotions: []model.WorkEmotion{
		observation(model.EmotionHappy, 95, now.Add(-time.Minute)),
	}}}
	svc, registered := seedOrganization(t, store, &fakeAssist{}, org)

	ratios, ok, err := svc.EmotionEngagement(context.Background(), registered.Key, Window{Hours: 1})
	if err != nil || !ok {
		t.Fatalf("EmotionEngagement err=%v ok=%v", err, ok)
	}
	if !almostEqual(ratios[model.EmotionHappy], 1) {
		t.Errorf("happy ratio = %v, want 1", ratios[model.EmotionHappy])
	}

	_, _, err = svc.EmotionEngagement(context.Background(), "missing", Window{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

var _ assist.Service = (*fakeAssist)(nil)
