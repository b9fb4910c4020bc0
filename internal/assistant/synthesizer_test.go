package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesizeNoCandidatesUsesTemplate(t *testing.T) {
	model := &stubModel{textErr: errors.New("must not be called")}
	synthesizer := NewResponseSynthesizer(model)

	reply, err := synthesizer.Synthesize(context.Background(), "resfriado", nil)
	require.NoError(t, err)
	assert.Equal(t, NoStockReply("resfriado"), reply)
	assert.Contains(t, reply, `"resfriado"`)
	assert.Empty(t, model.lastTextSystem, "the model must not be invoked without candidates")
}

func TestSynthesizePromptCarriesQueryAndCandidates(t *testing.T) {
	model := &stubModel{textReply: "Para el dolor de cabeza te recomiendo Kitadol 500mg ($1500)."}
	synthesizer := NewResponseSynthesizer(model)

	candidates := []Candidate{
		{Name: "Kitadol 500mg", Description: "Analgésico.", Price: 1500, CategoryName: "Paracetamol"},
	}
	reply, err := synthesizer.Synthesize(context.Background(), "dolor de cabeza", candidates)
	require.NoError(t, err)
	assert.Contains(t, reply, "Kitadol")
	assert.Contains(t, model.lastTextSystem, `"dolor de cabeza"`)
	assert.Contains(t, model.lastTextSystem, "Kitadol 500mg")
	assert.Contains(t, model.lastTextSystem, "Paracetamol")
}

func TestSynthesizeModelFailureIsStageError(t *testing.T) {
	synthesizer := NewResponseSynthesizer(&stubModel{textErr: errors.New("timeout")})

	_, err := synthesizer.Synthesize(context.Background(), "resfriado", []Candidate{{Name: "Tapsin"}})
	require.Error(t, err)
	assert.Equal(t, StageSynthesis, FailedStage(err))
}

func TestSynthesizeEmptyReplyIsStageError(t *testing.T) {
	synthesizer := NewResponseSynthesizer(&stubModel{textReply: "   "})

	_, err := synthesizer.Synthesize(context.Background(), "resfriado", []Candidate{{Name: "Tapsin"}})
	require.Error(t, err)
	assert.Equal(t, StageSynthesis, FailedStage(err))
}
