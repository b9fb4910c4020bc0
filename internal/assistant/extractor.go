package assistant

import (
	"context"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// extractorPrompt instructs the model to answer with nothing but a
// {"terms": [...]} object. An empty array means the query is not a
// symptom or product request.
const extractorPrompt = `Tu tarea es analizar la consulta de un usuario de farmacia.
Extrae los *principios activos* o *nombres de productos* clave.
Responde *solo* con un objeto JSON.
El JSON debe tener una clave "terms" que sea un array de strings.
Si no entiendes la consulta, responde {"terms": []}.

EJEMPLOS DE EXTRACCIÓN:
- Consulta: "dolor de cabeza y fiebre"
  Respuesta: {"terms": ["Paracetamol", "Ibuprofeno", "Analgésico"]}
- Consulta: "resfriado fuerte con tos"
  Respuesta: {"terms": ["Antigripal", "Descongestionante", "Clorfenamina", "Paracetamol", "Jarabe para la tos"]}
- Consulta: "necesito leche para mi bebe"
  Respuesta: {"terms": ["Leche de fórmula", "Fórmula infantil", "Leche", "Bebe"]}
- Consulta: "me corté, necesito algodón o parches"
  Respuesta: {"terms": ["Algodón", "Curitas", "Parches", "Gasa", "Primeros Auxilios"]}
- Consulta: "shampoo o crema de manos"
  Respuesta: {"terms": ["Shampoo", "Crema", "Acondicionador", "Cuidado Personal"]}
- Consulta: "hola"
  Respuesta: {"terms": []}`

// TermExtractor turns a raw user query into normalized search terms.
type TermExtractor struct {
	model ModelClient
}

func NewTermExtractor(model ModelClient) *TermExtractor {
	return &TermExtractor{model: model}
}

// Extract asks the model for search terms. An empty result is a normal
// outcome ("query not understood"); a malformed model response is an
// extraction stage error.
func (e *TermExtractor) Extract(ctx context.Context, query string) ([]string, error) {
	raw, err := e.model.CompleteJSON(ctx, extractorPrompt, query)
	if err != nil {
		return nil, stageError(StageExtraction, err)
	}

	var payload struct {
		Terms *[]string `json:"terms"`
	}
	if err := json.UnmarshalFromString(raw, &payload); err != nil {
		return nil, stageError(StageExtraction, errors.Wrap(err, "model returned invalid JSON"))
	}
	if payload.Terms == nil {
		return nil, stageError(StageExtraction, errors.New(`model response missing "terms" key`))
	}

	terms := make([]string, 0, len(*payload.Terms))
	for _, term := range *payload.Terms {
		term = strings.TrimSpace(term)
		if term != "" {
			terms = append(terms, term)
		}
	}
	return terms, nil
}
