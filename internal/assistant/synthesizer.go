package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// noStockTemplate answers queries whose terms matched nothing in
// stock. No model call is made on this path.
const noStockTemplate = `Entendido. Para tu consulta sobre "%s", parece que no tenemos productos relevantes en stock en este momento.`

// pharmacistPromptFmt asks the model to re-validate keyword matches
// before recommending: substring search produces false positives and
// the model must drop them silently instead of recommending them.
const pharmacistPromptFmt = `Eres Asisbot, un asistente farmacéutico experto y amable.
TAREA: Ayudar a un usuario que tiene esta CONSULTA: "%s".

PRODUCTOS CANDIDATOS (Encontrados en mi inventario, con stock):
%s

INSTRUCCIONES:
1. **Analiza la CONSULTA y la LISTA:** Mira la consulta del usuario. Ahora mira la lista de productos candidatos que te di.
2. **FILTRA Y VALIDA:** ¿Qué productos de la lista son *realmente relevantes* para la consulta?
   - **Ejemplo 1:** Si la consulta es "resfriado" y la lista contiene "Tapsin (Medicamentos)" y "Algodón (Primeros Auxilios)", DEBES IGNORAR "Algodón".
   - **Ejemplo 2:** Si la consulta es "leche para bebe" y la lista contiene "Leche Nido (Bebes)", DEBES RECOMENDARLO.
3. **Genera una Recomendación:** Escribe una respuesta natural.
   - **Si (después de filtrar) hay productos relevantes:** Confirma la consulta y recomienda 1 o 2 productos. Justifica tu recomendación (ej: "Para el resfriado, te recomiendo Tapsin..."). Menciona el precio si lo ves útil.
   - **Si (después de filtrar) NINGÚN producto es relevante (ej. solo encontraste 'Algodón' para 'resfriado'):** Responde que no se encontraron productos *adecuados* para esa consulta.
4. **REGLAS:** Sé breve (2-3 frases). NO des consejos médicos.`

// ResponseSynthesizer produces the final user-facing reply from the
// query and the candidate list.
type ResponseSynthesizer struct {
	model ModelClient
}

func NewResponseSynthesizer(model ModelClient) *ResponseSynthesizer {
	return &ResponseSynthesizer{model: model}
}

// NoStockReply is the fixed template used when retrieval found no
// in-stock candidates at all.
func NoStockReply(query string) string {
	return fmt.Sprintf(noStockTemplate, query)
}

// Synthesize asks the model to filter candidates for true relevance
// and write a short recommendation. With no candidates it returns the
// fixed template without calling the model.
func (s *ResponseSynthesizer) Synthesize(ctx context.Context, query string, candidates []Candidate) (string, error) {
	if len(candidates) == 0 {
		return NoStockReply(query), nil
	}

	data, err := json.MarshalToString(candidates)
	if err != nil {
		return "", stageError(StageSynthesis, errors.Wrap(err, "serialize candidates"))
	}

	reply, err := s.model.Complete(ctx, fmt.Sprintf(pharmacistPromptFmt, query, data))
	if err != nil {
		return "", stageError(StageSynthesis, err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", stageError(StageSynthesis, errors.New("model returned an empty reply"))
	}
	return reply, nil
}
