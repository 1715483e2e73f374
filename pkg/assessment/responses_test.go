package assessment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eqcoach/eqcoach/pkg/assessment"
)

func TestNewResponseSetIsEmpty(t *testing.T) {
	rs := assessment.NewResponseSet(assessment.DefaultDefinition())

	assert.Equal(t, 20, rs.Len())
	assert.Equal(t, 0, rs.Answered())
	assert.Len(t, rs.Unanswered(), 20)
	assert.False(t, rs.IsComplete())
	assert.Equal(t, assessment.StateCollecting, rs.State())
	for _, a := range rs.Answers() {
		assert.Nil(t, a)
	}
}

func TestRecordValidation(t *testing.T) {
	rs := assessment.NewResponseSet(assessment.DefaultDefinition())

	tests := []struct {
		name    string
		index   int
		rating  int
		wantErr bool
	}{
		{name: "first question", index: 0, rating: 1},
		{name: "last question", index: 19, rating: 5},
		{name: "negative index", index: -1, rating: 3, wantErr: true},
		{name: "index past end", index: 20, rating: 3, wantErr: true},
		{name: "rating zero", index: 2, rating: 0, wantErr: true},
		{name: "rating six", index: 2, rating: 6, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := rs.Record(tc.index, tc.rating)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, assessment.IsValidation(err))
				return
			}
			require.NoError(t, err)
			got, ok := rs.Answer(tc.index)
			assert.True(t, ok)
			assert.Equal(t, tc.rating, got)
		})
	}

	_, ok := rs.Answer(2)
	assert.False(t, ok, "rejected ratings must not be stored")
}

func TestRecordOverwrites(t *testing.T) {
	rs := assessment.NewResponseSet(assessment.DefaultDefinition())
	require.NoError(t, rs.Record(4, 2))
	require.NoError(t, rs.Record(4, 5))

	got, ok := rs.Answer(4)
	require.True(t, ok)
	assert.Equal(t, 5, got)
	assert.Equal(t, 1, rs.Answered())
}

func TestAnswersIsACopy(t *testing.T) {
	rs := assessment.NewResponseSet(assessment.DefaultDefinition())
	require.NoError(t, rs.Record(0, 3))

	answers := rs.Answers()
	*answers[0] = 1

	got, _ := rs.Answer(0)
	assert.Equal(t, 3, got)
}

func TestFinalize(t *testing.T) {
	rs := assessment.NewResponseSet(assessment.DefaultDefinition())
	for i := 0; i < rs.Len()-1; i++ {
		require.NoError(t, rs.Record(i, 3))
	}

	_, err := rs.Finalize()
	assert.ErrorIs(t, err, assessment.ErrIncomplete)
	assert.False(t, rs.Frozen())
	assert.Equal(t, []int{19}, rs.Unanswered())

	require.NoError(t, rs.Record(19, 4))
	assert.Equal(t, assessment.StateScorable, rs.State())

	answers, err := rs.Finalize()
	require.NoError(t, err)
	assert.Len(t, answers, 20)
	assert.Equal(t, 4, answers[19])
	assert.True(t, rs.Frozen())

	err = rs.Record(0, 1)
	assert.ErrorIs(t, err, assessment.ErrAlreadySubmitted)
}

func TestResponseSetFromAnswers(t *testing.T) {
	def := assessment.DefaultDefinition()

	answers := make([]int, 20)
	for i := range answers {
		answers[i] = 1 + i%5
	}
	rs, err := assessment.ResponseSetFromAnswers(def, answers)
	require.NoError(t, err)
	assert.True(t, rs.IsComplete())
	assert.Same(t, def, rs.Definition())

	answers[0] = 0
	_, err = assessment.ResponseSetFromAnswers(def, answers)
	assert.True(t, assessment.IsValidation(err))

	_, err = assessment.ResponseSetFromAnswers(def, nil)
	assert.ErrorIs(t, err, assessment.ErrIncomplete)
}
