package model

import (
	"time"

	"github.com/google/uuid"
)

// Chat participant roles. Message.Sender/Receiver always hold one of these.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// AffectScores carries the arousal/valence enrichment some recognizers emit
// alongside the categorical label. Both scores are in [-100,100].
type AffectScores struct {
	Arousal float64 `json:"arousal"`
	Valence float64 `json:"valence"`
}

// WorkEmotion is a single categorical emotion observation. Immutable once
// appended; the per-subject log is append-only in arrival order.
// Affect is nil for the plain variant and set for the enriched one.
type WorkEmotion struct {
	Emotion     Emotion       `json:"emotion"`
	Probability float64       `json:"probability"` // confidence in [0,100]
	Affect      *AffectScores `json:"affect,omitempty"`
	RecordedOn  time.Time     `json:"recordedOn"`
}

// Message is one turn in a consultancy chat. Immutable once appended.
type Message struct {
	Sender   string    `json:"sender"`
	Receiver string    `json:"receiver"`
	Body     string    `json:"body"`
	SentOn   time.Time `json:"sentOn"`
}

// Consultancy is one assistant chat session belonging to a subject.
// ConsultedOn is set at creation and never advanced; the active session of a
// subject is the one with the maximum ConsultedOn.
type Consultancy struct {
	ID               string    `json:"id"`
	ExpressionCaused Emotion   `json:"expressionCaused"`
	Chat             []Message `json:"chat"`
	ConsultedOn      time.Time `json:"consultedOn"`
}

// SpecialConsiderationRequest is a subject-authored request awaiting an
// organization-side response. Response transitions nil to non-nil exactly
// once; a responded request is frozen.
type SpecialConsiderationRequest struct {
	ID          string     `json:"id"`
	Message     string     `json:"message"`
	Response    *string    `json:"response"`
	RequestedOn time.Time  `json:"requestedOn"`
	RespondedOn *time.Time `json:"respondedOn,omitempty"`
}

// Pending reports whether the request is still awaiting a response
func (r *SpecialConsiderationRequest) Pending() bool {
	return r.Response == nil
}

// Family describes a subject's household for consultation profiling
type Family struct {
	NumMembers          int    `json:"numMembers"`
	MonthlyCummIncome   int    `json:"monthlyCummIncome"`
	MonthlyCummExpenses int    `json:"monthlyCummExpenses"`
	NumOccupations      int    `json:"numOccupations"`
	Category            string `json:"category"`
}

// Subject is an embedded member entity of an Organization. The subject id is
// unique within its parent organization; the organization document is the
// unit of storage and replacement.
type Subject struct {
	ID                    string                        `json:"id"`
	Username              string                        `json:"username"`
	Password              string                        `json:"password"`
	Name                  string                        `json:"name"`
	Address               string                        `json:"address"`
	DOB                   string                        `json:"dob"`
	Gender                string                        `json:"gender"`
	Email                 string                        `json:"email"`
	RegisteredOn          time.Time                     `json:"registeredOn"`
	DisplayPhoto          string                        `json:"displayPhoto,omitempty"`
	Salary                int                           `json:"salary"`
	HiddenDiseases        []string                      `json:"hiddenDiseases"`
	Family                Family                        `json:"family"`
	FaceSnapDirURI        string                        `json:"faceSnapDirURI"`
	WorkEmotions          []WorkEmotion                 `json:"workEmotions"`
	Consultancies         []Consultancy                 `json:"consultancies"`
	SpecialConsiderations []SpecialConsiderationRequest `json:"specialConsiderations"`
	AuthKey               string                        `json:"authKey,omitempty"`
}

// NewSubjectID generates an identifier for an embedded subject
func NewSubjectID() string {
	return uuid.NewString()
}

// WorkEmotionEntry is one ingestion payload produced per face-snap directory
// by the recognition pipeline. SpecialConsideration, when non-empty, asks the
// ingestion path to synthesize a pending consideration request for the
// matched subject.
type WorkEmotionEntry struct {
	FaceSnapDirURI       string        `json:"faceSnapDirURI"`
	CreatedOn            time.Time     `json:"createdOn"`
	WorkEmotions         []WorkEmotion `json:"workEmotions"`
	SpecialConsideration string        `json:"specialConsideration,omitempty"`
}

// AuthSubject is the credential payload for subject-scoped requests
type AuthSubject struct {
	Username string `json:"username"`
	Password string `json:"password"`
	OrgKey   string `json:"orgKey"`
}

// SubjectRememberMe restores a subject session from stored auth keys
type SubjectRememberMe struct {
	BasicRememberMe BasicRememberMe `json:"basicRememberMe"`
	SubAuthKey      string          `json:"subAuthKey"`
}
