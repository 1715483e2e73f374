package assessment

// DomainRaw is one domain's summed ratings.
type DomainRaw struct {
	Domain   string `json:"domain"`
	RawScore int    `json:"raw_score"`
}

// Scores is the output of the scoring step, before interpretation.
type Scores struct {
	Domains []DomainRaw `json:"domains"`
	Total   int         `json:"total"`
}

// DomainScore is a domain's score with its threshold check applied.
type DomainScore struct {
	Domain         string `json:"domain"`
	RawScore       int    `json:"raw_score"`
	Max            int    `json:"max"`
	BelowThreshold bool   `json:"below_threshold"`
	Recommendation string `json:"recommendation,omitempty"` // set only when below threshold
}

// Result is the packaged outcome of one completed assessment.
// Immutable once computed.
type Result struct {
	TotalScore     int           `json:"total_score"`
	TotalMax       int           `json:"total_max"`
	Interpretation string        `json:"interpretation"`
	DomainScores   []DomainScore `json:"domain_scores"`
}

// Recommendations lists the recommendations of below-threshold domains in
// domain order.
func (r *Result) Recommendations() []string {
	var out []string
	for _, ds := range r.DomainScores {
		if ds.BelowThreshold {
			out = append(out, ds.Recommendation)
		}
	}
	return out
}

// Domain returns the score for the named domain.
func (r *Result) Domain(name string) (DomainScore, bool) {
	for _, ds := range r.DomainScores {
		if ds.Domain == name {
			return ds, true
		}
	}
	return DomainScore{}, false
}
