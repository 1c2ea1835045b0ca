package model

import (
	"time"

	"github.com/google/uuid"
)

// Thread is an announcement published on the organization's board
type Thread struct {
	Message     string    `json:"message"`
	PublishedOn time.Time `json:"publishedOn"`
}

// SubscriptionComponent names one pluggable pipeline component of a plan
type SubscriptionComponent struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Subscription is the plan an organization is enrolled on. Plans are loaded
// from the catalog file at startup, see util.LoadPlanCatalog.
type Subscription struct {
	Name               string                `json:"name"`
	Price              float64               `json:"price"`
	IntroducedOn       time.Time             `json:"introducedOn"`
	FaceDetector       SubscriptionComponent `json:"faceDetector"`
	FaceMatcher        SubscriptionComponent `json:"faceMatcher"`
	EmotionRecognizer  SubscriptionComponent `json:"emotionRecognizer"`
	Assistant          SubscriptionComponent `json:"assistant"`
	AdditionalFeatures []string              `json:"additionalFeatures"`
}

// Organization is the aggregate root stored in the organizations collection.
// Subjects, threads and everything under them are embedded; the whole
// document is the unit of read and replacement.
type Organization struct {
	Key          string       `json:"_key,omitempty"`
	Name         string       `json:"name"`
	Address      string       `json:"address"`
	BusinessReg  string       `json:"businessReg"`
	Owner        string       `json:"owner"`
	RegisteredOn time.Time    `json:"registeredOn"`
	DisplayLogo  string       `json:"displayLogo,omitempty"`
	Email        string       `json:"email"`
	Subjects     []Subject    `json:"subjects"`
	Threads      []Thread     `json:"threads"`
	OrgKey       string       `json:"orgKey"`
	Password     string       `json:"password"`
	Subscription Subscription `json:"subscription"`
	AuthKey      string       `json:"authKey,omitempty"`
}

// NewOrganizationKey generates a document key for a fresh organization
func NewOrganizationKey() string {
	return uuid.NewString()
}

// SubjectByID returns a pointer into the Subjects slice, or nil
func (o *Organization) SubjectByID(id string) *Subject {
	for i := range o.Subjects {
		if o.Subjects[i].ID == id {
			return &o.Subjects[i]
		}
	}
	return nil
}

// SubjectByFaceSnapDir matches a subject on its face-snap directory URI
func (o *Organization) SubjectByFaceSnapDir(uri string) *Subject {
	for i := range o.Subjects {
		if o.Subjects[i].FaceSnapDirURI == uri {
			return &o.Subjects[i]
		}
	}
	return nil
}

// AdministrativeOrganization is the admin-facing ranking projection of an
// organization. HappyEngagement is the mean happy ratio over its subjects.
type AdministrativeOrganization struct {
	Key             string    `json:"_key"`
	Name            string    `json:"name"`
	Address         string    `json:"address"`
	BusinessReg     string    `json:"businessReg"`
	Owner           string    `json:"owner"`
	RegisteredOn    time.Time `json:"registeredOn"`
	Email           string    `json:"email"`
	SubjectIDs      []string  `json:"subjectIds"`
	PlanName        string    `json:"planName"`
	HappyEngagement float64   `json:"happyEngagement"`
}

// AuthOrg is the credential payload for organization-scoped requests
type AuthOrg struct {
	OrgKey   string `json:"orgKey"`
	Password string `json:"password"`
}

// BasicRememberMe restores an organization session from its stored auth key
type BasicRememberMe struct {
	AuthKey string `json:"authKey"`
}
