package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/workmood/workmood-backend/internal/assist"
	"github.com/workmood/workmood-backend/model"
)

func subjectWithSession(consultedOn time.Time) model.Subject {
	subject := testSubject("s1", "faces/s1")
	subject.Consultancies = []model.Consultancy{{
		ID:               "c1",
		ExpressionCaused: model.EmotionSad,
		Chat: []model.Message{{
			Sender:   model.RoleAssistant,
			Receiver: model.RoleUser,
			Body:     "How are you feeling today?",
			SentOn:   consultedOn,
		}},
		ConsultedOn: consultedOn,
	}}
	return subject
}

func TestConverseValidMessageGetsGeneratedReply(t *testing.T) {
	now := fixedNow()
	subject := subjectWithSession(now.Add(-time.Hour))
	assistant := &fakeAssist{validity: assist.ValidityValid, reply: "Take a short walk."}

	session, err := converse(context.Background(), assistant, &subject, model.Message{Body: "I feel drained"}, now)
	if err != nil {
		t.Fatalf("converse: %v", err)
	}
	if assistant.generateCalls != 1 {
		t.Fatalf("generateCalls = %d, want 1", assistant.generateCalls)
	}

	// Opening message plus the new user/assistant exchange.
	if len(session.Chat) != 3 {
		t.Fatalf("chat length = %d, want 3", len(session.Chat))
	}
	user, reply := session.Chat[1], session.Chat[2]
	if user.Sender != model.RoleUser || user.Receiver != model.RoleAssistant || user.Body != "I feel drained" {
		t.Errorf("user turn not normalized: %+v", user)
	}
	if user.SentOn != now {
		t.Errorf("user SentOn = %v, want stamped with now", user.SentOn)
	}
	if reply.Sender != model.RoleAssistant || reply.Body != "Take a short walk." {
		t.Errorf("assistant turn = %+v", reply)
	}
}

func TestConverseInvalidMessageSkipsGeneration(t *testing.T) {
	subject := subjectWithSession(fixedNow())
	assistant := &fakeAssist{validity: assist.ValidityInvalid, reply: "should never appear"}

	session, err := converse(context.Background(), assistant, &subject, model.Message{Body: "what is 2+2"}, fixedNow())
	if err != nil {
		t.Fatalf("converse: %v", err)
	}
	if assistant.generateCalls != 0 {
		t.Fatalf("generateCalls = %d, want 0", assistant.generateCalls)
	}
	if got := session.Chat[len(session.Chat)-1].Body; got != FallbackDomainMismatch {
		t.Errorf("reply = %q, want domain mismatch fallback", got)
	}
}

func TestConverseClassifierFailureSkipsGeneration(t *testing.T) {
	subject := subjectWithSession(fixedNow())
	assistant := &fakeAssist{validity: assist.ValidityUnknown}

	session, err := converse(context.Background(), assistant, &subject, model.Message{Body: "anything"}, fixedNow())
	if err != nil {
		t.Fatalf("converse: %v", err)
	}
	if assistant.generateCalls != 0 {
		t.Fatalf("generateCalls = %d, want 0", assistant.generateCalls)
	}
	if got := session.Chat[len(session.Chat)-1].Body; got != FallbackCompletionFailure {
		t.Errorf("reply = %q, want completion failure fallback", got)
	}
}

func TestConverseGenerationFailureFallsBack(t *testing.T) {
	for name, assistant := range map[string]*fakeAssist{
		"error": {validity: assist.ValidityValid, replyErr: errors.New("upstream down")},
		"empty": {validity: assist.ValidityValid, reply: ""},
	} {
		t.Run(name, func(t *testing.T) {
			subject := subjectWithSession(fixedNow())
			session, err := converse(context.Background(), assistant, &subject, model.Message{Body: "hello"}, fixedNow())
			if err != nil {
				t.Fatalf("converse: %v", err)
			}
			if got := session.Chat[len(session.Chat)-1].Body; got != FallbackCompletionFailure {
				t.Errorf("reply = %q, want completion failure fallback", got)
			}
			// The exchange is still recorded.
			if len(session.Chat) != 3 {
				t.Errorf("chat length = %d, want 3", len(session.Chat))
			}
		})
	}
}

func TestConverseWithoutSession(t *testing.T) {
	subject := testSubject("s1", "faces/s1")
	_, err := converse(context.Background(), &fakeAssist{}, &subject, model.Message{Body: "hi"}, fixedNow())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLatestConsultancyPicksMaxConsultedOn(t *testing.T) {
	now := fixedNow()
	subject := testSubject("s1", "faces/s1")
	subject.Consultancies = []model.Consultancy{
		{ID: "old", ConsultedOn: now.Add(-2 * time.Hour)},
		{ID: "newest", ConsultedOn: now},
		{ID: "tied", ConsultedOn: now},
	}

	session, ok := LatestConsultancy(subject)
	if !ok {
		t.Fatal("expected a session")
	}
	// Ties keep the first maximum in slice order.
	if session.ID != "newest" {
		t.Errorf("session ID = %s, want newest", session.ID)
	}
}

func TestLatestConsultancyAbsent(t *testing.T) {
	if _, ok := LatestConsultancy(testSubject("s1", "faces/s1")); ok {
		t.Fatal("expected no session")
	}
}

func TestMostEngagingEmotionTallyAndTie(t *testing.T) {
	now := fixedNow()
	entry := model.WorkEmotionEntry{
		WorkEmotions: []model.WorkEmotion{
			observation(model.EmotionSad, 90, now),
			observation(model.EmotionSurprise, 90, now),
			observation(model.EmotionSurprise, 85, now),
			observation(model.EmotionSad, 88, now),
			observation(model.EmotionHappy, 10, now), // below floor
		},
	}

	emotion, ok := mostEngagingEmotion(entry, DefaultConfidenceFloor)
	if !ok {
		t.Fatal("expected a winning category")
	}
	// sad and surprise tie at 2; sad comes earlier in the fixed ordering.
	if emotion != model.EmotionSad {
		t.Errorf("emotion = %s, want sad", emotion)
	}
}

func TestMostEngagingEmotionNothingQualifies(t *testing.T) {
	entry := model.WorkEmotionEntry{
		WorkEmotions: []model.WorkEmotion{observation(model.EmotionHappy, 50, fixedNow())},
	}
	if _, ok := mostEngagingEmotion(entry, DefaultConfidenceFloor); ok {
		t.Fatal("expected no winner below the floor")
	}
}

func TestInitConsultanciesOpensSessionWithProfilePrompt(t *testing.T) {
	now := fixedNow()
	org := testOrganization()
	org.Subjects = []model.Subject{testSubject("s1", "faces/s1")}
	org.Subjects[0].Name = "Jordan"
	org.Subjects[0].Salary = 52000

	assistant := &fakeAssist{reply: "Welcome, let's talk about what I noticed."}
	entries := []model.WorkEmotionEntry{{
		FaceSnapDirURI: "faces/s1",
		WorkEmotions:   []model.WorkEmotion{observation(model.EmotionAnger, 92, now)},
	}}

	if changed := initConsultancies(context.Background(), assistant, &org, entries, now); !changed {
		t.Fatal("expected a session to be added")
	}

	sessions := org.Subjects[0].Consultancies
	if len(sessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(sessions))
	}
	session := sessions[0]
	if session.ExpressionCaused != model.EmotionAnger {
		t.Errorf("ExpressionCaused = %s, want anger", session.ExpressionCaused)
	}
	if session.ConsultedOn != now {
		t.Errorf("ConsultedOn = %v, want now", session.ConsultedOn)
	}
	if len(session.Chat) != 1 || session.Chat[0].Sender != model.RoleAssistant {
		t.Fatalf("opening chat = %+v, want one assistant message", session.Chat)
	}
	if session.Chat[0].Body != "Welcome, let's talk about what I noticed." {
		t.Errorf("opening body = %q", session.Chat[0].Body)
	}
	if session.ID == "" {
		t.Error("session ID not assigned")
	}
}

func TestInitConsultanciesFallsBackOnGenerationFailure(t *testing.T) {
	now := fixedNow()
	org := testOrganization()
	org.Subjects = []model.Subject{testSubject("s1", "faces/s1")}

	assistant := &fakeAssist{replyErr: errors.New("upstream down")}
	entries := []model.WorkEmotionEntry{{
		FaceSnapDirURI: "faces/s1",
		WorkEmotions:   []model.WorkEmotion{observation(model.EmotionFear, 95, now)},
	}}

	initConsultancies(context.Background(), assistant, &org, entries, now)

	sessions := org.Subjects[0].Consultancies
	if len(sessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(sessions))
	}
	if got := sessions[0].Chat[0].Body; got != FallbackCompletionFailure {
		t.Errorf("opening body = %q, want completion failure fallback", got)
	}
}

func TestInitConsultanciesSkipsUnmatchedAndUnqualified(t *testing.T) {
	now := fixedNow()
	org := testOrganization()
	org.Subjects = []model.Subject{testSubject("s1", "faces/s1")}

	entries := []model.WorkEmotionEntry{
		{FaceSnapDirURI: "faces/unknown", WorkEmotions: []model.WorkEmotion{observation(model.EmotionSad, 99, now)}},
		{FaceSnapDirURI: "faces/s1", WorkEmotions: []model.WorkEmotion{observation(model.EmotionSad, 10, now)}},
	}

	if changed := initConsultancies(context.Background(), &fakeAssist{reply: "hi"}, &org, entries, now); changed {
		t.Fatal("expected no sessions to be added")
	}
	if len(org.Subjects[0].Consultancies) != 0 {
		t.Fatalf("sessions = %d, want 0", len(org.Subjects[0].Consultancies))
	}
}
