package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/workmood/workmood-backend/model"
)

// DefaultConfidenceFloor is the probability threshold an observation must
// reach to count toward engagement
const DefaultConfidenceFloor = 80.0

// Window bounds an engagement query to recent observations. All components
// collapse into a single duration with fixed month (30d) and year (365d)
// lengths; calendar arithmetic is deliberately not used.
type Window struct {
	Hours  int
	Weeks  int
	Months int
	Years  int
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Duration collapses the window components. Negative components are taken
// absolute, matching how the query parameters were always handled.
func (w Window) Duration() time.Duration {
	return time.Duration(abs(w.Hours))*time.Hour +
		time.Duration(abs(w.Weeks))*7*24*time.Hour +
		time.Duration(abs(w.Months))*30*24*time.Hour +
		time.Duration(abs(w.Years))*365*24*time.Hour
}

// Cutoff is the earliest RecordedOn that falls inside the window
func (w Window) Cutoff(now time.Time) time.Time {
	return now.Add(-w.Duration())
}

// engagementCounts tallies qualifying observations per category. An
// observation qualifies when its probability reaches the floor AND it was
// recorded on or after the cutoff.
func engagementCounts(log []model.WorkEmotion, cutoff time.Time, floor float64) map[model.Emotion]int {
	counts := make(map[model.Emotion]int, len(model.Emotions))
	for _, emotion := range model.Emotions {
		counts[emotion] = 0
	}
	for _, w := range log {
		if w.Probability >= floor && !w.RecordedOn.Before(cutoff) {
			counts[w.Emotion]++
		}
	}
	return counts
}

// SubjectEngagement computes the per-category engagement ratios of one
// subject. The denominator is the raw length of the observation log, NOT the
// count of qualifying observations; ratios therefore never sum to 1 unless
// every observation qualifies. Returns ok=false when the log is empty.
func SubjectEngagement(subject model.Subject, win Window, now time.Time, floor float64) (map[model.Emotion]float64, bool) {
	total := len(subject.WorkEmotions)
	if total == 0 {
		return nil, false
	}

	counts := engagementCounts(subject.WorkEmotions, win.Cutoff(now), floor)
	ratios := make(map[model.Emotion]float64, len(counts))
	for emotion, count := range counts {
		ratios[emotion] = float64(count) / float64(total)
	}
	return ratios, true
}

// SubjectEmotionEngagement computes the scalar ratio for a single category
func SubjectEmotionEngagement(subject model.Subject, emotion model.Emotion, win Window, now time.Time, floor float64) (float64, bool, error) {
	if _, err := model.ParseEmotion(string(emotion)); err != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	ratios, ok := SubjectEngagement(subject, win, now, floor)
	if !ok {
		return 0, false, nil
	}
	return ratios[emotion], true, nil
}

// OrganizationEngagement accumulates counts over every subject of the
// organization. The denominator is the sum of raw log lengths across all
// subjects. Returns ok=false when no subject has any observation.
func OrganizationEngagement(org model.Organization, win Window, now time.Time, floor float64) (map[model.Emotion]float64, bool) {
	cutoff := win.Cutoff(now)
	counts := make(map[model.Emotion]int, len(model.Emotions))
	for _, emotion := range model.Emotions {
		counts[emotion] = 0
	}

	total := 0
	for _, subject := range org.Subjects {
		for emotion, count := range engagementCounts(subject.WorkEmotions, cutoff, floor) {
			counts[emotion] += count
		}
		total += len(subject.WorkEmotions)
	}
	if total == 0 {
		return nil, false
	}

	ratios := make(map[model.Emotion]float64, len(counts))
	for emotion, count := range counts {
		ratios[emotion] = float64(count) / float64(total)
	}
	return ratios, true
}

// HappyEngagementScore is the administrative ranking metric: the mean over
// subjects of each subject's happy ratio. Unlike the windowed ratios it
// ignores both the confidence floor and any time window, and a subject with
// an empty log contributes 0. An organization without subjects scores 0.
func HappyEngagementScore(org model.Organization) float64 {
	if len(org.Subjects) == 0 {
		return 0
	}

	score := 0.0
	for _, subject := range org.Subjects {
		happy := 0
		for _, w := range subject.WorkEmotions {
			if w.Emotion == model.EmotionHappy {
				happy++
			}
		}
		if len(subject.WorkEmotions) > 0 {
			score += float64(happy) / float64(len(subject.WorkEmotions))
		}
	}
	return score / float64(len(org.Subjects))
}

// RankOrganizations orders the projections by happy engagement, highest
// first. The sort is stable and equal scores keep their incoming order;
// there is no secondary tie-break.
func RankOrganizations(orgs []model.AdministrativeOrganization) {
	sort.SliceStable(orgs, func(i, j int) bool {
		return orgs[i].HappyEngagement > orgs[j].HappyEngagement
	})
}
