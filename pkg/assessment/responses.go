package assessment

// State is the lifecycle position of a ResponseSet.
type State string

const (
	StateCollecting State = "COLLECTING"
	StateScorable   State = "SCORABLE"
	StateSubmitted  State = "SUBMITTED"
)

// ResponseSet holds one assessment attempt's answers, one slot per question
// in flattened domain order. A zero slot is unanswered.
//
// A ResponseSet has a single writer. It carries no lock; callers that share
// one across goroutines must coordinate themselves.
type ResponseSet struct {
	def       *Definition
	answers   []int
	frozen    bool
	submitted bool
}

// NewResponseSet starts an attempt with every question unanswered.
func NewResponseSet(def *Definition) *ResponseSet {
	return &ResponseSet{
		def:     def,
		answers: make([]int, def.QuestionCount()),
	}
}

// ResponseSetFromAnswers builds a response set from a complete answer list,
// as received from a client. The list must have one rating per question.
func ResponseSetFromAnswers(def *Definition, answers []int) (*ResponseSet, error) {
	if len(answers) != def.QuestionCount() {
		if len(answers) < def.QuestionCount() {
			return nil, incompleteError()
		}
		return nil, validationf("answers", "got %d answers, want %d", len(answers), def.QuestionCount())
	}
	rs := NewResponseSet(def)
	for i, rating := range answers {
		if err := rs.Record(i, rating); err != nil {
			return nil, err
		}
	}
	return rs, nil
}

// Definition returns the questionnaire the set was started for.
func (rs *ResponseSet) Definition() *Definition { return rs.def }

// Len is the number of answer slots.
func (rs *ResponseSet) Len() int { return len(rs.answers) }

// Record stores rating for the question at questionIndex, overwriting any
// previous answer. Recording the same answer twice is a no-op.
func (rs *ResponseSet) Record(questionIndex, rating int) error {
	if rs.frozen {
		return alreadySubmittedError()
	}
	if questionIndex < 0 || questionIndex >= len(rs.answers) {
		return validationf("question", "index %d out of range [0, %d)", questionIndex, len(rs.answers))
	}
	if rating < MinRating || rating > MaxRating {
		return validationf("rating", "%d is not between %d and %d", rating, MinRating, MaxRating)
	}
	rs.answers[questionIndex] = rating
	return nil
}

// Answer returns the rating at questionIndex and whether it has been given.
func (rs *ResponseSet) Answer(questionIndex int) (int, bool) {
	if questionIndex < 0 || questionIndex >= len(rs.answers) {
		return 0, false
	}
	v := rs.answers[questionIndex]
	return v, v != 0
}

// Answers returns a copy of the slots, nil where unanswered.
func (rs *ResponseSet) Answers() []*int {
	out := make([]*int, len(rs.answers))
	for i, v := range rs.answers {
		if v != 0 {
			v := v
			out[i] = &v
		}
	}
	return out
}

// Answered counts the answered slots.
func (rs *ResponseSet) Answered() int {
	n := 0
	for _, v := range rs.answers {
		if v != 0 {
			n++
		}
	}
	return n
}

// Unanswered lists the indices still missing an answer.
func (rs *ResponseSet) Unanswered() []int {
	var out []int
	for i, v := range rs.answers {
		if v == 0 {
			out = append(out, i)
		}
	}
	return out
}

// IsComplete reports whether every question has an answer.
func (rs *ResponseSet) IsComplete() bool {
	for _, v := range rs.answers {
		if v == 0 {
			return false
		}
	}
	return true
}

// Finalize freezes a complete set and returns its ratings. An incomplete set
// is left mutable and an ErrIncomplete ValidationError is returned.
func (rs *ResponseSet) Finalize() ([]int, error) {
	if rs.submitted {
		return nil, alreadySubmittedError()
	}
	if !rs.IsComplete() {
		return nil, incompleteError()
	}
	rs.frozen = true
	return rs.ratings(), nil
}

// Frozen reports whether Finalize has succeeded on this set.
func (rs *ResponseSet) Frozen() bool { return rs.frozen }

// State derives the lifecycle position from the answers and the submission
// flag.
func (rs *ResponseSet) State() State {
	switch {
	case rs.submitted:
		return StateSubmitted
	case rs.IsComplete():
		return StateScorable
	default:
		return StateCollecting
	}
}

func (rs *ResponseSet) markSubmitted() { rs.submitted = true }

func (rs *ResponseSet) ratings() []int {
	out := make([]int, len(rs.answers))
	copy(out, rs.answers)
	return out
}
