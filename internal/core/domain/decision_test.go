package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecision_AwaitingApproval(t *testing.T) {
	d := Decision{ID: "dec-1", Answer: "the answer", State: StateRunning}

	pending := d.AwaitingApproval()

	assert.Equal(t, StateWaitingApproval, pending.State)
	assert.Equal(t, PendingMarker+"the answer", pending.Answer)
	assert.Equal(t, "dec-1", pending.ID)

	// Original value is untouched.
	assert.Equal(t, StateRunning, d.State)
	assert.Equal(t, "the answer", d.Answer)
}

func TestDecision_Approved(t *testing.T) {
	pending := Decision{ID: "dec-1", Answer: PendingMarker + "the answer", State: StateWaitingApproval}

	approved := pending.Approved()

	assert.Equal(t, StateCompleted, approved.State)
	assert.Equal(t, "the answer", approved.Answer)
	assert.Equal(t, "dec-1", approved.ID)
}

func TestDecision_Rejected(t *testing.T) {
	pending := Decision{ID: "dec-1", Answer: PendingMarker + "the answer", State: StateWaitingApproval}

	rejected := pending.Rejected("stale evidence")
	assert.Equal(t, StateFailed, rejected.State)
	assert.Equal(t, "[REJECTED] stale evidence", rejected.Answer)

	rejected = pending.Rejected("")
	assert.Equal(t, "[REJECTED]", rejected.Answer)
}

func TestRetrievalResponse_TopScore(t *testing.T) {
	assert.Zero(t, RetrievalResponse{}.TopScore())

	resp := RetrievalResponse{Results: []RetrievalResult{{Score: 0.7}, {Score: 0.2}}}
	assert.InDelta(t, 0.7, resp.TopScore(), 1e-9)
}

func TestParseStrategy(t *testing.T) {
	for _, s := range []string{"bm25", "vector", "hybrid"} {
		got, err := ParseStrategy(s)
		assert.NoError(t, err)
		assert.Equal(t, Strategy(s), got)
	}

	_, err := ParseStrategy("semantic")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseRating(t *testing.T) {
	r, err := ParseRating("HALLUCINATION")
	assert.NoError(t, err)
	assert.Equal(t, RatingHallucination, r)
	assert.True(t, r.IsMistake())

	r, err = ParseRating("correct")
	assert.NoError(t, err)
	assert.False(t, r.IsMistake())

	_, err = ParseRating("wrong-ish")
	assert.ErrorIs(t, err, ErrUnknownRating)
}

func TestNewID(t *testing.T) {
	a := NewID()
	b := NewID()
	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
}
