package model

// Deep copies for the aggregate types. Services hand out and accept owned
// values; nothing retains a reference into a stored document.

// Clone returns a deep copy of the observation, including the affect payload
func (w WorkEmotion) Clone() WorkEmotion {
	out := w
	if w.Affect != nil {
		affect := *w.Affect
		out.Affect = &affect
	}
	return out
}

// Clone returns a deep copy of the session and its chat
func (c Consultancy) Clone() Consultancy {
	out := c
	out.Chat = make([]Message, len(c.Chat))
	copy(out.Chat, c.Chat)
	return out
}

// Clone returns a deep copy of the request, including response fields
func (r SpecialConsiderationRequest) Clone() SpecialConsiderationRequest {
	out := r
	if r.Response != nil {
		response := *r.Response
		out.Response = &response
	}
	if r.RespondedOn != nil {
		respondedOn := *r.RespondedOn
		out.RespondedOn = &respondedOn
	}
	return out
}

// Clone returns a deep copy of the subject and every embedded log
func (s Subject) Clone() Subject {
	out := s
	out.HiddenDiseases = make([]string, len(s.HiddenDiseases))
	copy(out.HiddenDiseases, s.HiddenDiseases)
	out.WorkEmotions = make([]WorkEmotion, 0, len(s.WorkEmotions))
	for _, w := range s.WorkEmotions {
		out.WorkEmotions = append(out.WorkEmotions, w.Clone())
	}
	out.Consultancies = make([]Consultancy, 0, len(s.Consultancies))
	for _, c := range s.Consultancies {
		out.Consultancies = append(out.Consultancies, c.Clone())
	}
	out.SpecialConsiderations = make([]SpecialConsiderationRequest, 0, len(s.SpecialConsiderations))
	for _, r := range s.SpecialConsiderations {
		out.SpecialConsiderations = append(out.SpecialConsiderations, r.Clone())
	}
	return out
}

// Clone returns a deep copy of the whole aggregate
func (o Organization) Clone() Organization {
	out := o
	out.Subjects = make([]Subject, 0, len(o.Subjects))
	for _, s := range o.Subjects {
		out.Subjects = append(out.Subjects, s.Clone())
	}
	out.Threads = make([]Thread, len(o.Threads))
	copy(out.Threads, o.Threads)
	out.Subscription.AdditionalFeatures = make([]string, len(o.Subscription.AdditionalFeatures))
	copy(out.Subscription.AdditionalFeatures, o.Subscription.AdditionalFeatures)
	return out
}
