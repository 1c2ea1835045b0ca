package engagement

import (
	"github.com/workmood/workmood-backend/model"
)

// ratiosToMap renders a ratio map with plain string keys for the default
// field resolver
func ratiosToMap(ratios map[model.Emotion]float64) map[string]interface{} {
	out := make(map[string]interface{}, len(ratios))
	for emotion, ratio := range ratios {
		out[string(emotion)] = ratio
	}
	return out
}

// rankingToMaps flattens the ranking projections, lifting the document key
// into a plain "key" field
func rankingToMaps(ranking []model.AdministrativeOrganization) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(ranking))
	for _, org := range ranking {
		out = append(out, map[string]interface{}{
			"key":             org.Key,
			"name":            org.Name,
			"address":         org.Address,
			"businessReg":     org.BusinessReg,
			"owner":           org.Owner,
			"email":           org.Email,
			"planName":        org.PlanName,
			"subjectIds":      org.SubjectIDs,
			"happyEngagement": org.HappyEngagement,
		})
	}
	return out
}
