package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmanet/asisbot/internal/domain"
)

func TestRetrieveEmptyTermsSkipsStore(t *testing.T) {
	retriever := NewCandidateRetriever(nil, 0) // nil db: a query would panic

	candidates, err := retriever.Retrieve(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestRetrieveFiltersOutOfStock(t *testing.T) {
	db := newTestDB(t)
	cid := seedCategory(t, db, "Antigripal")
	seedProduct(t, db, "Tapsin Día", "Para el resfrío.", cid, 0, 2000)
	seedProduct(t, db, "Tapsin Noche", "Para el resfrío.", cid, 5, 2200)

	retriever := NewCandidateRetriever(db, 0)
	candidates, err := retriever.Retrieve(context.Background(), []string{"Antigripal"})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Tapsin Noche", candidates[0].Name)
	assert.Equal(t, "Antigripal", candidates[0].CategoryName)
}

func TestRetrieveCaseInsensitiveAcrossFields(t *testing.T) {
	db := newTestDB(t)
	paraID := seedCategory(t, db, "PARACETAMOL")
	otherID := seedCategory(t, db, "Primeros Auxilios")
	seedProduct(t, db, "Paracetamol 500mg", "Genérico.", otherID, 10, 1500)
	seedProduct(t, db, "Kitadol Forte", "Analgésico.", paraID, 10, 2500)
	seedProduct(t, db, "Algodón 100g", "Material de curación.", otherID, 10, 900)

	retriever := NewCandidateRetriever(db, 0)
	candidates, err := retriever.Retrieve(context.Background(), []string{"paracetamol"})
	require.NoError(t, err)

	names := make([]string, 0, len(candidates))
	for _, cand := range candidates {
		names = append(names, cand.Name)
	}
	// Matches the product name on one row and the category name on the other
	assert.ElementsMatch(t, []string{"Paracetamol 500mg", "Kitadol Forte"}, names)
}

func TestRetrieveMatchesDescription(t *testing.T) {
	db := newTestDB(t)
	cid := seedCategory(t, db, "Farmacia")
	seedProduct(t, db, "Gaviscon", "Alivio rápido de la acidez.", cid, 3, 4500)

	retriever := NewCandidateRetriever(db, 0)
	candidates, err := retriever.Retrieve(context.Background(), []string{"acidez"})
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Gaviscon", candidates[0].Name)
	assert.Equal(t, 4500.0, candidates[0].Price)
}

func TestRetrieveCapsCandidates(t *testing.T) {
	db := newTestDB(t)
	cid := seedCategory(t, db, "Vitaminas")
	for i := 0; i < 10; i++ {
		seedProduct(t, db, "Vitamina C", "Suplemento.", cid, 5, 1000)
	}

	retriever := NewCandidateRetriever(db, 4)
	candidates, err := retriever.Retrieve(context.Background(), []string{"Vitamina"})
	require.NoError(t, err)
	assert.Len(t, candidates, 4)
}

func TestRetrieveStoreErrorIsStageError(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Migrator().DropTable(&domain.Product{}))

	retriever := NewCandidateRetriever(db, 0)
	_, err := retriever.Retrieve(context.Background(), []string{"Paracetamol"})
	require.Error(t, err)
	assert.Equal(t, StageRetrieval, FailedStage(err))
}

func TestMatchConditionsExpandsAccentedTerms(t *testing.T) {
	matches := matchConditions([]string{"Algodón"})

	// Three columns for the literal term plus three for the folded variant
	require.Len(t, matches, 6)
	terms := map[string]bool{}
	for _, m := range matches {
		terms[m.term] = true
	}
	assert.True(t, terms["Algodón"])
	assert.True(t, terms["Algodon"])
}
