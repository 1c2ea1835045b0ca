package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/workmood/workmood-backend/internal/assist"
	"github.com/workmood/workmood-backend/model"
)

// Canned assistant replies. Exact strings are part of the client contract;
// the frontends match on them.
const (
	FallbackCompletionFailure = "Sorry, I have been raised a problem on generating a consultancy on you :("
	FallbackDomainMismatch    = "Sorry, your question is mismatched with my domain of expertisement. Try again with another input."
)

const profilePromptFormat = "Name: %s, Address: %s, Gender: %s, Hidden Diseases: %v, Salary: $%d, " +
	"Num. Family Members: %d, Monthly Cumulative Income: $%d, Monthly Cumulative Expenses: $%d, " +
	"Num. Occupations within Family: $%d, Family Category: %s, Emotion: %s"

// latestConsultancyIndex finds the session with the maximum ConsultedOn.
// Ties keep the first maximum in slice order. Returns -1 when the subject
// has no sessions.
func latestConsultancyIndex(subject *model.Subject) int {
	latest := -1
	for i := range subject.Consultancies {
		if latest == -1 || subject.Consultancies[i].ConsultedOn.After(subject.Consultancies[latest].ConsultedOn) {
			latest = i
		}
	}
	return latest
}

// LatestConsultancy returns a copy of the subject's active session, or
// ok=false when it has none
func LatestConsultancy(subject model.Subject) (model.Consultancy, bool) {
	idx := latestConsultancyIndex(&subject)
	if idx == -1 {
		return model.Consultancy{}, false
	}
	return subject.Consultancies[idx].Clone(), true
}

// renderTurns maps a chat to the role/content shape the assistant consumes
func renderTurns(chat []model.Message) []assist.Turn {
	turns := make([]assist.Turn, 0, len(chat))
	for _, msg := range chat {
		turns = append(turns, assist.Turn{Role: msg.Sender, Content: msg.Body})
	}
	return turns
}

// converse appends one user/assistant exchange to the subject's active
// session. The inbound message is classified first: a valid message gets a
// generated reply, an invalid one gets the domain-mismatch fallback without
// a generation call, and a classifier failure gets the completion-failure
// fallback without a generation call. A failed or empty generation also
// falls back. The exchange is always appended; this function never fails
// once a session exists.
func converse(ctx context.Context, assistant assist.Service, subject *model.Subject, inbound model.Message, now time.Time) (model.Consultancy, error) {
	idx := latestConsultancyIndex(subject)
	if idx == -1 {
		return model.Consultancy{}, fmt.Errorf("subject %s has no consultancy session: %w", subject.ID, ErrNotFound)
	}
	session := &subject.Consultancies[idx]

	var replyBody string
	switch assistant.ValidateMessage(ctx, inbound.Body) {
	case assist.ValidityValid:
		turns := renderTurns(session.Chat)
		turns = append(turns, assist.Turn{Role: model.RoleUser, Content: inbound.Body})
		reply, err := assistant.GenerateReply(ctx, turns)
		if err != nil || reply == "" {
			replyBody = FallbackCompletionFailure
		} else {
			replyBody = reply
		}
	case assist.ValidityInvalid:
		replyBody = FallbackDomainMismatch
	default:
		replyBody = FallbackCompletionFailure
	}

	inbound.Sender = model.RoleUser
	inbound.Receiver = model.RoleAssistant
	if inbound.SentOn.IsZero() {
		inbound.SentOn = now
	}
	session.Chat = append(session.Chat, inbound, model.Message{
		Sender:   model.RoleAssistant,
		Receiver: model.RoleUser,
		Body:     replyBody,
		SentOn:   now,
	})

	return session.Clone(), nil
}

// mostEngagingEmotion tallies the qualifying observations of one ingestion
// entry and picks the busiest category. Ties resolve to the earlier category
// in the fixed ordering. Returns ok=false when nothing qualifies.
func mostEngagingEmotion(entry model.WorkEmotionEntry, floor float64) (model.Emotion, bool) {
	tally := make(map[model.Emotion]int)
	for _, w := range entry.WorkEmotions {
		if w.Probability >= floor {
			tally[w.Emotion]++
		}
	}
	if len(tally) == 0 {
		return "", false
	}

	var best model.Emotion
	bestCount := -1
	for _, emotion := range model.Emotions {
		if count, ok := tally[emotion]; ok && count > bestCount {
			best = emotion
			bestCount = count
		}
	}
	return best, true
}

// initConsultancies opens a fresh session for every subject matched by an
// ingestion entry with at least one qualifying observation. The opening
// assistant message comes from a profile prompt; generation failures fall
// back like the conversation path. Reports whether any session was added.
func initConsultancies(ctx context.Context, assistant assist.Service, org *model.Organization, entries []model.WorkEmotionEntry, now time.Time) bool {
	changed := false

	for _, entry := range entries {
		subject := org.SubjectByFaceSnapDir(entry.FaceSnapDirURI)
		if subject == nil {
			continue
		}

		emotion, ok := mostEngagingEmotion(entry, DefaultConfidenceFloor)
		if !ok {
			continue
		}

		prompt := fmt.Sprintf(profilePromptFormat,
			subject.Name, subject.Address, subject.Gender, subject.HiddenDiseases,
			subject.Salary, subject.Family.NumMembers, subject.Family.MonthlyCummIncome,
			subject.Family.MonthlyCummExpenses, subject.Family.NumOccupations,
			subject.Family.Category, emotion,
		)
		opening, err := assistant.GenerateReply(ctx, []assist.Turn{{Role: model.RoleUser, Content: prompt}})
		if err != nil || opening == "" {
			opening = FallbackCompletionFailure
		}

		subject.Consultancies = append(subject.Consultancies, model.Consultancy{
			ID:               uuid.NewString(),
			ExpressionCaused: emotion,
			Chat: []model.Message{{
				Sender:   model.RoleAssistant,
				Receiver: model.RoleUser,
				Body:     opening,
				SentOn:   now,
			}},
			ConsultedOn: now,
		})
		changed = true
	}

	return changed
}
