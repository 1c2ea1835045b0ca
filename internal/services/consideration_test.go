package services

import (
	"testing"
	"time"

	"github.com/workmood/workmood-backend/model"
)

func strPtr(s string) *string { return &s }

func orgWithConsiderations() model.Organization {
	now := fixedNow()
	answered := now.Add(-time.Hour)

	org := testOrganization()
	org.Subjects = []model.Subject{
		testSubject("s1", "faces/s1"),
		testSubject("s2", "faces/s2"),
	}
	org.Subjects[0].SpecialConsiderations = []model.SpecialConsiderationRequest{
		{ID: "r1", Message: "need shorter shifts", RequestedOn: now.Add(-2 * time.Hour)},
		{ID: "r2", Message: "already handled", Response: strPtr("granted"), RequestedOn: now.Add(-3 * time.Hour), RespondedOn: &answered},
	}
	org.Subjects[1].SpecialConsiderations = []model.SpecialConsiderationRequest{
		{ID: "r3", Message: "workspace too loud", RequestedOn: now.Add(-time.Hour)},
	}
	return org
}

func TestPendingConsiderationsOrderedBySubjectThenRequest(t *testing.T) {
	pending := pendingConsiderations(orgWithConsiderations())

	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}
	if pending[0].SubjectID != "s1" || pending[0].Request.ID != "r1" {
		t.Errorf("first pending = %s/%s, want s1/r1", pending[0].SubjectID, pending[0].Request.ID)
	}
	if pending[1].SubjectID != "s2" || pending[1].Request.ID != "r3" {
		t.Errorf("second pending = %s/%s, want s2/r3", pending[1].SubjectID, pending[1].Request.ID)
	}
}

func TestApplyConsiderationResponses(t *testing.T) {
	org := orgWithConsiderations()
	now := fixedNow()

	changed := applyConsiderationResponses(&org, []ConsiderationResponse{
		{SubjectID: "s1", RequestID: "r1", Response: "approved"},
		{SubjectID: "s2", RequestID: "r3", Response: "moved to quiet room"},
	}, now)
	if !changed {
		t.Fatal("expected the batch to change the aggregate")
	}

	r1 := org.Subjects[0].SpecialConsiderations[0]
	if r1.Response == nil || *r1.Response != "approved" {
		t.Errorf("r1 response = %v, want approved", r1.Response)
	}
	if r1.RespondedOn == nil || !r1.RespondedOn.Equal(now) {
		t.Errorf("r1 respondedOn = %v, want %v", r1.RespondedOn, now)
	}
	if r3 := org.Subjects[1].SpecialConsiderations[0]; r3.Response == nil || *r3.Response != "moved to quiet room" {
		t.Errorf("r3 response = %v", r3.Response)
	}
}

func TestApplyConsiderationResponsesSkipsUnknownSilently(t *testing.T) {
	org := orgWithConsiderations()

	changed := applyConsiderationResponses(&org, []ConsiderationResponse{
		{SubjectID: "missing", RequestID: "r1", Response: "x"},
		{SubjectID: "s1", RequestID: "missing", Response: "x"},
	}, fixedNow())
	if changed {
		t.Fatal("unknown subject/request entries must not change anything")
	}
	if org.Subjects[0].SpecialConsiderations[0].Response != nil {
		t.Error("r1 must stay pending")
	}
}

func TestApplyConsiderationResponsesIdempotentOnResponded(t *testing.T) {
	org := orgWithConsiderations()

	changed := applyConsiderationResponses(&org, []ConsiderationResponse{
		{SubjectID: "s1", RequestID: "r2", Response: "overwrite attempt"},
	}, fixedNow())
	if changed {
		t.Fatal("a responded request must be left untouched")
	}
	if got := *org.Subjects[0].SpecialConsiderations[1].Response; got != "granted" {
		t.Errorf("r2 response = %q, want the original answer kept", got)
	}
}

func TestRespondedConsiderations(t *testing.T) {
	org := orgWithConsiderations()

	responded := respondedConsiderations(org.Subjects[0])
	if len(responded) != 1 || responded[0].ID != "r2" {
		t.Fatalf("responded = %+v, want only r2", responded)
	}

	if got := respondedConsiderations(org.Subjects[1]); len(got) != 0 {
		t.Fatalf("responded = %d, want 0", len(got))
	}
}

func TestSynthesizeConsideration(t *testing.T) {
	now := fixedNow()
	request := synthesizeConsideration("observed distress", now)

	if request.ID == "" {
		t.Error("expected an assigned id")
	}
	if request.Message != "observed distress" {
		t.Errorf("message = %q", request.Message)
	}
	if !request.Pending() {
		t.Error("a synthesized request must start pending")
	}
	if !request.RequestedOn.Equal(now) {
		t.Errorf("requestedOn = %v, want %v", request.RequestedOn, now)
	}
}
