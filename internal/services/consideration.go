package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/workmood/workmood-backend/model"
)

// PendingConsideration pairs a pending request with the subject it belongs
// to, for the organization-side review listing
type PendingConsideration struct {
	SubjectID string                            `json:"subjectId"`
	Request   model.SpecialConsiderationRequest `json:"request"`
}

// ConsiderationResponse is one entry of an organization response batch
type ConsiderationResponse struct {
	SubjectID string `json:"subjectId"`
	RequestID string `json:"requestId"`
	Response  string `json:"response"`
}

// pendingConsiderations lists every unanswered request across the
// organization's subjects, in subject order then request order
func pendingConsiderations(org model.Organization) []PendingConsideration {
	pending := []PendingConsideration{}
	for _, subject := range org.Subjects {
		for _, request := range subject.SpecialConsiderations {
			if request.Pending() {
				pending = append(pending, PendingConsideration{
					SubjectID: subject.ID,
					Request:   request.Clone(),
				})
			}
		}
	}
	return pending
}

// applyConsiderationResponses resolves a response batch against the
// aggregate. Entries naming an unknown subject or request are skipped
// silently, and requests that already carry a response are left untouched,
// so replaying a batch is harmless. Reports whether anything changed.
func applyConsiderationResponses(org *model.Organization, responses []ConsiderationResponse, now time.Time) bool {
	changed := false

	for _, response := range responses {
		subject := org.SubjectByID(response.SubjectID)
		if subject == nil {
			continue
		}
		for i := range subject.SpecialConsiderations {
			request := &subject.SpecialConsiderations[i]
			if request.ID != response.RequestID {
				continue
			}
			if !request.Pending() {
				break
			}
			body := response.Response
			respondedOn := now
			request.Response = &body
			request.RespondedOn = &respondedOn
			changed = true
			break
		}
	}

	return changed
}

// respondedConsiderations lists the subject's answered requests
func respondedConsiderations(subject model.Subject) []model.SpecialConsiderationRequest {
	responded := []model.SpecialConsiderationRequest{}
	for _, request := range subject.SpecialConsiderations {
		if !request.Pending() {
			responded = append(responded, request.Clone())
		}
	}
	return responded
}

// synthesizeConsideration builds the pending request an annotated ingestion
// entry asks for
func synthesizeConsideration(message string, requestedOn time.Time) model.SpecialConsiderationRequest {
	return model.SpecialConsiderationRequest{
		ID:          uuid.NewString(),
		Message:     message,
		RequestedOn: requestedOn,
	}
}
