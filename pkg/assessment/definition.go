// Package assessment implements the EQ self-assessment scoring engine.
// It turns a fixed questionnaire's ratings into per-domain scores, a total
// score, a qualitative band and per-domain recommendations.
package assessment

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Rating bounds of the agreement scale.
const (
	MinRating = 1
	MaxRating = 5
)

// ScalePoint labels one rating of the agreement scale.
type ScalePoint struct {
	Rating int    `yaml:"rating" json:"rating"`
	Label  string `yaml:"label" json:"label"`
}

// Band maps an inclusive total-score range to an interpretation.
type Band struct {
	MinScore       int    `yaml:"min_score" json:"min_score"`
	MaxScore       int    `yaml:"max_score" json:"max_score"`
	Interpretation string `yaml:"interpretation" json:"interpretation"`
}

// Contains reports whether score falls inside the band.
func (b Band) Contains(score int) bool {
	return b.MinScore <= score && score <= b.MaxScore
}

// Domain is one EQ sub-category with its questions.
type Domain struct {
	Name              string   `yaml:"name" json:"name"`
	Questions         []string `yaml:"questions" json:"questions"`
	LowScoreThreshold int      `yaml:"low_score_threshold" json:"low_score_threshold"`
	Recommendation    string   `yaml:"recommendation" json:"recommendation"`
}

// Definition is a validated questionnaire. Treat it as read-only once
// returned by ParseDefinition, LoadDefinition or DefaultDefinition.
type Definition struct {
	Scale      []ScalePoint `yaml:"scale" json:"scale"`
	DomainMax  int          `yaml:"domain_max" json:"domain_max"`
	TotalMax   int          `yaml:"total_max" json:"total_max"`
	TotalBands []Band       `yaml:"total_bands" json:"total_bands"`
	Domains    []Domain     `yaml:"domains" json:"domains"`

	// offsets[i] is the flat index of domain i's first question.
	offsets []int
	count   int
}

// Question is one entry of the flattened question list.
type Question struct {
	Index       int    `json:"index"`
	DomainIndex int    `json:"domain_index"`
	Domain      string `json:"domain"`
	Text        string `json:"text"`
}

//go:embed questionnaire.yaml
var defaultQuestionnaire []byte

var (
	defaultOnce sync.Once
	defaultDef  *Definition
)

// DefaultDefinition returns the built-in questionnaire. It is parsed once;
// a malformed embedded document panics on first use.
func DefaultDefinition() *Definition {
	defaultOnce.Do(func() {
		def, err := ParseDefinition(defaultQuestionnaire)
		if err != nil {
			panic(fmt.Sprintf("assessment: built-in questionnaire: %v", err))
		}
		defaultDef = def
	})
	return defaultDef
}

// LoadDefinition reads and validates a questionnaire document from path.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading questionnaire: %w", err)
	}
	return ParseDefinition(data)
}

// ParseDefinition decodes a YAML questionnaire document and validates it.
// Unknown keys are rejected.
func ParseDefinition(data []byte) (*Definition, error) {
	var def Definition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("parsing questionnaire: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks the structural invariants of the questionnaire, sorts the
// bands ascending and builds the flat question index. It returns an
// *InvariantViolation on the first problem found.
func (d *Definition) Validate() error {
	if err := d.validateScale(); err != nil {
		return err
	}
	if len(d.Domains) == 0 {
		return invariantf("no domains defined")
	}

	perDomain := len(d.Domains[0].Questions)
	seen := make(map[string]bool, len(d.Domains))
	for i, dom := range d.Domains {
		if dom.Name == "" {
			return invariantf("domain %d has no name", i)
		}
		if seen[dom.Name] {
			return invariantf("duplicate domain %q", dom.Name)
		}
		seen[dom.Name] = true
		if len(dom.Questions) == 0 {
			return invariantf("domain %q has no questions", dom.Name)
		}
		if len(dom.Questions) != perDomain {
			return invariantf("domain %q has %d questions, want %d", dom.Name, len(dom.Questions), perDomain)
		}
		for j, q := range dom.Questions {
			if q == "" {
				return invariantf("domain %q question %d is empty", dom.Name, j)
			}
		}
	}

	if want := perDomain * MaxRating; d.DomainMax != want {
		return invariantf("domain_max is %d, want %d (%d questions x %d)", d.DomainMax, want, perDomain, MaxRating)
	}
	if want := d.DomainMax * len(d.Domains); d.TotalMax != want {
		return invariantf("total_max is %d, want %d (%d domains x %d)", d.TotalMax, want, len(d.Domains), d.DomainMax)
	}
	for _, dom := range d.Domains {
		if dom.LowScoreThreshold < 0 || dom.LowScoreThreshold > d.DomainMax {
			return invariantf("domain %q threshold %d outside [0, %d]", dom.Name, dom.LowScoreThreshold, d.DomainMax)
		}
	}

	if err := d.validateBands(); err != nil {
		return err
	}

	d.offsets = make([]int, len(d.Domains))
	d.count = 0
	for i, dom := range d.Domains {
		d.offsets[i] = d.count
		d.count += len(dom.Questions)
	}
	return nil
}

func (d *Definition) validateScale() error {
	if len(d.Scale) != MaxRating-MinRating+1 {
		return invariantf("scale has %d points, want %d", len(d.Scale), MaxRating-MinRating+1)
	}
	for i, p := range d.Scale {
		if p.Rating != MinRating+i {
			return invariantf("scale point %d has rating %d, want %d", i, p.Rating, MinRating+i)
		}
		if p.Label == "" {
			return invariantf("scale rating %d has no label", p.Rating)
		}
	}
	return nil
}

func (d *Definition) validateBands() error {
	if len(d.TotalBands) == 0 {
		return invariantf("no total bands defined")
	}
	bands := make([]Band, len(d.TotalBands))
	copy(bands, d.TotalBands)
	sort.Slice(bands, func(i, j int) bool { return bands[i].MinScore < bands[j].MinScore })

	next := 0
	for _, b := range bands {
		if b.Interpretation == "" {
			return invariantf("band %d-%d has no interpretation", b.MinScore, b.MaxScore)
		}
		if b.MaxScore < b.MinScore {
			return invariantf("band %d-%d is inverted", b.MinScore, b.MaxScore)
		}
		if b.MinScore != next {
			if b.MinScore < next {
				return invariantf("band %d-%d overlaps previous band", b.MinScore, b.MaxScore)
			}
			return invariantf("scores %d-%d are not covered by any band", next, b.MinScore-1)
		}
		next = b.MaxScore + 1
	}
	if next-1 != d.TotalMax {
		return invariantf("bands end at %d, want %d", next-1, d.TotalMax)
	}
	d.TotalBands = bands
	return nil
}

// QuestionCount is the total number of questions across all domains.
func (d *Definition) QuestionCount() int { return d.count }

// QuestionsPerDomain is the shared question count of every domain.
func (d *Definition) QuestionsPerDomain() int {
	if len(d.Domains) == 0 {
		return 0
	}
	return len(d.Domains[0].Questions)
}

// DomainRange returns the half-open flat index range [start, end) holding
// domain i's answers.
func (d *Definition) DomainRange(i int) (start, end int) {
	start = d.offsets[i]
	return start, start + len(d.Domains[i].Questions)
}

// FlatIndex maps a (domain, question within domain) pair to its slot in a
// ResponseSet.
func (d *Definition) FlatIndex(domainIndex, questionIndex int) (int, error) {
	if domainIndex < 0 || domainIndex >= len(d.Domains) {
		return 0, validationf("domain", "index %d out of range [0, %d)", domainIndex, len(d.Domains))
	}
	if n := len(d.Domains[domainIndex].Questions); questionIndex < 0 || questionIndex >= n {
		return 0, validationf("question", "index %d out of range [0, %d)", questionIndex, n)
	}
	return d.offsets[domainIndex] + questionIndex, nil
}

// Questions returns the flattened question list in domain order.
func (d *Definition) Questions() []Question {
	out := make([]Question, 0, d.count)
	for i, dom := range d.Domains {
		for j, text := range dom.Questions {
			out = append(out, Question{
				Index:       d.offsets[i] + j,
				DomainIndex: i,
				Domain:      dom.Name,
				Text:        text,
			})
		}
	}
	return out
}

// PageCount returns how many pages of the given size the questions span.
func (d *Definition) PageCount(size int) int {
	if size <= 0 {
		return 0
	}
	return (d.count + size - 1) / size
}

// Page returns the questions on the zero-based page of the given size, or
// nil when the page is out of range.
func (d *Definition) Page(page, size int) []Question {
	if size <= 0 || page < 0 || page >= d.PageCount(size) {
		return nil
	}
	qs := d.Questions()
	start := page * size
	end := start + size
	if end > len(qs) {
		end = len(qs)
	}
	return qs[start:end]
}

// Label returns the scale label for a rating, or "" if it is off the scale.
func (d *Definition) Label(rating int) string {
	for _, p := range d.Scale {
		if p.Rating == rating {
			return p.Label
		}
	}
	return ""
}
