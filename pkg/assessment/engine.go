package assessment

import (
	"context"
	"fmt"
)

// Score sums each domain's contiguous answer slots and the overall total.
// The response set must be complete.
func Score(def *Definition, rs *ResponseSet) (*Scores, error) {
	if rs.Len() != def.QuestionCount() {
		return nil, validationf("answers", "response set has %d slots, questionnaire has %d questions", rs.Len(), def.QuestionCount())
	}
	if !rs.IsComplete() {
		return nil, incompleteError()
	}

	scores := &Scores{Domains: make([]DomainRaw, 0, len(def.Domains))}
	for i, dom := range def.Domains {
		start, end := def.DomainRange(i)
		raw := 0
		for _, v := range rs.answers[start:end] {
			raw += v
		}
		scores.Domains = append(scores.Domains, DomainRaw{Domain: dom.Name, RawScore: raw})
		scores.Total += raw
	}
	return scores, nil
}

// Package scores a complete response set and resolves its interpretation
// and recommendations.
func Package(def *Definition, rs *ResponseSet) (*Result, error) {
	scores, err := Score(def, rs)
	if err != nil {
		return nil, err
	}

	interpretation, err := ResolveTotal(def, scores.Total)
	if err != nil {
		return nil, err
	}

	result := &Result{
		TotalScore:     scores.Total,
		TotalMax:       def.TotalMax,
		Interpretation: interpretation,
		DomainScores:   make([]DomainScore, 0, len(scores.Domains)),
	}
	for i, raw := range scores.Domains {
		ds := DomainScore{
			Domain:   raw.Domain,
			RawScore: raw.RawScore,
			Max:      def.DomainMax,
		}
		if rec, low := ResolveDomain(def.Domains[i], raw.RawScore); low {
			ds.BelowThreshold = true
			ds.Recommendation = rec
		}
		result.DomainScores = append(result.DomainScores, ds)
	}
	return result, nil
}

// Engine binds the scoring operations to one questionnaire. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	def *Definition
}

// NewEngine creates an engine for def. A nil def selects the built-in
// questionnaire.
func NewEngine(def *Definition) *Engine {
	if def == nil {
		def = DefaultDefinition()
	}
	return &Engine{def: def}
}

// Definition returns the engine's questionnaire.
func (e *Engine) Definition() *Definition { return e.def }

// NewResponseSet starts a fresh attempt for the engine's questionnaire.
func (e *Engine) NewResponseSet() *ResponseSet { return NewResponseSet(e.def) }

// Score runs the scoring step for rs.
func (e *Engine) Score(rs *ResponseSet) (*Scores, error) { return Score(e.def, rs) }

// Package scores and interprets rs.
func (e *Engine) Package(rs *ResponseSet) (*Result, error) { return Package(e.def, rs) }

// PackageAnswers packages a complete answer list received over the wire.
func (e *Engine) PackageAnswers(answers []int) (*Result, error) {
	rs, err := ResponseSetFromAnswers(e.def, answers)
	if err != nil {
		return nil, err
	}
	return Package(e.def, rs)
}

// Submitter is the backend collaborator that persists a completed
// assessment and answers with the stored result.
type Submitter interface {
	Submit(ctx context.Context, answers []int) (*Result, error)
}

// Submit drives a response set to the Submitted state. An incomplete set
// fails with a ValidationError without calling sub. A collaborator failure
// is returned as a *TransportError and the set stays available for another
// Submit; this function never retries.
func Submit(ctx context.Context, rs *ResponseSet, sub Submitter) (*Result, error) {
	answers, err := rs.Finalize()
	if err != nil {
		return nil, err
	}

	result, err := sub.Submit(ctx, answers)
	if err != nil {
		return nil, &TransportError{Op: "submit assessment", Err: err}
	}
	if result == nil {
		return nil, &TransportError{Op: "submit assessment", Err: fmt.Errorf("empty response")}
	}

	rs.markSubmitted()
	return result, nil
}
