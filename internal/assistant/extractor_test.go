package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTerms(t *testing.T) {
	model := &stubModel{jsonReply: `{"terms": ["Paracetamol", " Ibuprofeno ", ""]}`}
	extractor := NewTermExtractor(model)

	terms, err := extractor.Extract(context.Background(), "dolor de cabeza y fiebre")
	require.NoError(t, err)
	assert.Equal(t, []string{"Paracetamol", "Ibuprofeno"}, terms)
	assert.Equal(t, "dolor de cabeza y fiebre", model.lastJSONUser)
}

func TestExtractEmptyTermsIsNormal(t *testing.T) {
	extractor := NewTermExtractor(&stubModel{jsonReply: `{"terms": []}`})

	terms, err := extractor.Extract(context.Background(), "hola")
	require.NoError(t, err)
	assert.Empty(t, terms)
}

func TestExtractMalformedJSONIsStageError(t *testing.T) {
	extractor := NewTermExtractor(&stubModel{jsonReply: `sorry, I cannot help with that`})

	_, err := extractor.Extract(context.Background(), "resfriado")
	require.Error(t, err)
	assert.Equal(t, StageExtraction, FailedStage(err))
}

func TestExtractMissingTermsKeyIsStageError(t *testing.T) {
	extractor := NewTermExtractor(&stubModel{jsonReply: `{"keywords": ["Paracetamol"]}`})

	_, err := extractor.Extract(context.Background(), "resfriado")
	require.Error(t, err)
	assert.Equal(t, StageExtraction, FailedStage(err))
}

func TestExtractModelFailurePropagates(t *testing.T) {
	extractor := NewTermExtractor(&stubModel{jsonErr: errors.New("connection refused")})

	_, err := extractor.Extract(context.Background(), "resfriado")
	require.Error(t, err)
	assert.Equal(t, StageExtraction, FailedStage(err))
	assert.Contains(t, err.Error(), "connection refused")
}
