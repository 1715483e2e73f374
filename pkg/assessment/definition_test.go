package assessment_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eqcoach/eqcoach/pkg/assessment"
)

func TestDefaultDefinition(t *testing.T) {
	def := assessment.DefaultDefinition()

	assert.Equal(t, 20, def.QuestionCount())
	assert.Equal(t, 4, def.QuestionsPerDomain())
	assert.Equal(t, 20, def.DomainMax)
	assert.Equal(t, 100, def.TotalMax)
	require.Len(t, def.Domains, 5)

	names := make([]string, 0, len(def.Domains))
	for _, d := range def.Domains {
		names = append(names, d.Name)
		assert.Equal(t, 6, d.LowScoreThreshold)
	}
	assert.Equal(t, []string{"Self-Awareness", "Self-Regulation", "Motivation", "Empathy", "Social Skills"}, names)

	assert.Equal(t, "Strongly Disagree", def.Label(1))
	assert.Equal(t, "Neutral", def.Label(3))
	assert.Equal(t, "Strongly Agree", def.Label(5))
	assert.Empty(t, def.Label(0))

	// Bands are sorted ascending after validation.
	require.Len(t, def.TotalBands, 5)
	assert.Equal(t, 0, def.TotalBands[0].MinScore)
	assert.Equal(t, 100, def.TotalBands[4].MaxScore)

	assert.Same(t, def, assessment.DefaultDefinition())
}

func TestBandLookupIsTotalAndExclusive(t *testing.T) {
	def := assessment.DefaultDefinition()

	for score := 0; score <= def.TotalMax; score++ {
		matches := 0
		for _, b := range def.TotalBands {
			if b.Contains(score) {
				matches++
			}
		}
		assert.Equal(t, 1, matches, "score %d", score)

		_, err := assessment.ResolveTotal(def, score)
		assert.NoError(t, err, "score %d", score)
	}
}

func TestResolveTotalBoundaries(t *testing.T) {
	def := assessment.DefaultDefinition()

	tests := []struct {
		score int
		want  string
	}{
		{0, "Very Low EQ"},
		{20, "Very Low EQ"},
		{21, "Low EQ"},
		{40, "Low EQ"},
		{41, "Moderate EQ"},
		{60, "Moderate EQ"},
		{61, "High EQ"},
		{80, "High EQ"},
		{81, "Very High EQ"},
		{100, "Very High EQ"},
	}

	for _, tc := range tests {
		got, err := assessment.ResolveTotal(def, tc.score)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got, tc.want+" ("), "score %d: got %q, want prefix %q", tc.score, got, tc.want)
	}
}

func TestResolveTotalOutOfRange(t *testing.T) {
	def := assessment.DefaultDefinition()

	for _, score := range []int{-1, 101} {
		_, err := assessment.ResolveTotal(def, score)
		var iv *assessment.InvariantViolation
		assert.ErrorAs(t, err, &iv, "score %d", score)
	}
}

func TestResolveDomain(t *testing.T) {
	dom := assessment.Domain{Name: "Empathy", LowScoreThreshold: 6, Recommendation: "listen"}

	rec, low := assessment.ResolveDomain(dom, 5)
	assert.True(t, low)
	assert.Equal(t, "listen", rec)

	rec, low = assessment.ResolveDomain(dom, 6)
	assert.False(t, low)
	assert.Empty(t, rec)

	_, low = assessment.ResolveDomain(dom, 0)
	assert.True(t, low)
}

func TestFlatIndex(t *testing.T) {
	def := assessment.DefaultDefinition()

	for d := range def.Domains {
		start, end := def.DomainRange(d)
		assert.Equal(t, d*4, start)
		assert.Equal(t, d*4+4, end)
		for q := 0; q < 4; q++ {
			idx, err := def.FlatIndex(d, q)
			require.NoError(t, err)
			assert.Equal(t, d*4+q, idx)
		}
	}

	_, err := def.FlatIndex(5, 0)
	assert.True(t, assessment.IsValidation(err))
	_, err = def.FlatIndex(0, 4)
	assert.True(t, assessment.IsValidation(err))
	_, err = def.FlatIndex(-1, 0)
	assert.True(t, assessment.IsValidation(err))
}

func TestPaging(t *testing.T) {
	def := assessment.DefaultDefinition()

	assert.Equal(t, 4, def.PageCount(5))
	assert.Equal(t, 3, def.PageCount(7))
	assert.Equal(t, 0, def.PageCount(0))

	first := def.Page(0, 5)
	require.Len(t, first, 5)
	assert.Equal(t, 0, first[0].Index)
	assert.Equal(t, "Self-Awareness", first[0].Domain)
	assert.Equal(t, "Self-Regulation", first[4].Domain)

	last := def.Page(2, 7)
	require.Len(t, last, 6)
	assert.Equal(t, 19, last[5].Index)

	assert.Nil(t, def.Page(4, 5))
	assert.Nil(t, def.Page(-1, 5))

	qs := def.Questions()
	require.Len(t, qs, 20)
	idx, _ := def.FlatIndex(3, 2)
	assert.Equal(t, "I notice subtle changes in people’s tone or body language.", qs[idx].Text)
}

const validYAML = `
scale:
  - {rating: 1, label: Strongly Disagree}
  - {rating: 2, label: Disagree}
  - {rating: 3, label: Neutral}
  - {rating: 4, label: Agree}
  - {rating: 5, label: Strongly Agree}
domain_max: 10
total_max: 20
total_bands:
  - {min_score: 11, max_score: 20, interpretation: high}
  - {min_score: 0, max_score: 10, interpretation: low}
domains:
  - name: A
    questions: [a1, a2]
    low_score_threshold: 4
    recommendation: do a
  - name: B
    questions: [b1, b2]
    low_score_threshold: 4
    recommendation: do b
`

func TestParseDefinition(t *testing.T) {
	def, err := assessment.ParseDefinition([]byte(validYAML))
	require.NoError(t, err)
	assert.Equal(t, 4, def.QuestionCount())
	assert.Equal(t, "low", def.TotalBands[0].Interpretation)

	got, err := assessment.ResolveTotal(def, 11)
	require.NoError(t, err)
	assert.Equal(t, "high", got)
}

func TestParseDefinitionInvariants(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s string) string
		wantMsg string
	}{
		{
			name:    "domain max mismatch",
			mutate:  func(s string) string { return strings.Replace(s, "domain_max: 10", "domain_max: 12", 1) },
			wantMsg: "domain_max",
		},
		{
			name:    "total max mismatch",
			mutate:  func(s string) string { return strings.Replace(s, "total_max: 20", "total_max: 25", 1) },
			wantMsg: "total_max",
		},
		{
			name:    "gap between bands",
			mutate:  func(s string) string { return strings.Replace(s, "min_score: 11", "min_score: 12", 1) },
			wantMsg: "not covered",
		},
		{
			name:    "overlapping bands",
			mutate:  func(s string) string { return strings.Replace(s, "min_score: 11", "min_score: 9", 1) },
			wantMsg: "overlaps",
		},
		{
			name:    "bands stop short",
			mutate:  func(s string) string { return strings.Replace(s, "max_score: 20", "max_score: 19", 1) },
			wantMsg: "bands end",
		},
		{
			name:    "mismatched question counts",
			mutate:  func(s string) string { return strings.Replace(s, "[b1, b2]", "[b1, b2, b3]", 1) },
			wantMsg: "has 3 questions",
		},
		{
			name:    "duplicate domain",
			mutate:  func(s string) string { return strings.Replace(s, "name: B", "name: A", 1) },
			wantMsg: "duplicate",
		},
		{
			name:    "threshold above domain max",
			mutate:  func(s string) string { return strings.Replace(s, "low_score_threshold: 4\n    recommendation: do b", "low_score_threshold: 11\n    recommendation: do b", 1) },
			wantMsg: "threshold",
		},
		{
			name:    "scale missing a point",
			mutate:  func(s string) string { return strings.Replace(s, "  - {rating: 5, label: Strongly Agree}\n", "", 1) },
			wantMsg: "scale",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := assessment.ParseDefinition([]byte(tc.mutate(validYAML)))
			require.Error(t, err)
			var iv *assessment.InvariantViolation
			require.ErrorAs(t, err, &iv)
			assert.Contains(t, iv.Message, tc.wantMsg)
		})
	}
}

func TestParseDefinitionRejectsUnknownKeys(t *testing.T) {
	_, err := assessment.ParseDefinition([]byte(validYAML + "\nextra: true\n"))
	require.Error(t, err)

	var iv *assessment.InvariantViolation
	assert.False(t, assessment.IsValidation(err))
	assert.False(t, errors.As(err, &iv), "decode errors are not invariant violations")
}

func TestLoadDefinition(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "questionnaire.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validYAML), 0o644))

	def, err := assessment.LoadDefinition(path)
	require.NoError(t, err)
	assert.Len(t, def.Domains, 2)

	_, err = assessment.LoadDefinition(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
