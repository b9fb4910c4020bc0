package assistant

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/farmanet/asisbot/pkg/common"
)

// Candidate is the read-only projection of a matching in-stock product
// handed to the synthesizer. It never carries stock or identifiers.
type Candidate struct {
	Name         string  `gorm:"column:name" json:"name"`
	Description  string  `gorm:"column:description" json:"description"`
	Price        float64 `gorm:"column:price" json:"price"`
	CategoryName string  `gorm:"column:category_name" json:"category"`
}

// searchColumns are the three text columns a term may match in.
var searchColumns = []string{"products.name", "products.description", "categories.name"}

// fieldMatch is one (column, term) predicate; the retrieval query is
// the OR of all of them.
type fieldMatch struct {
	column string
	term   string
}

// matchConditions expands terms into per-column predicates. Terms with
// diacritics also search their folded variant so "Algodón" still finds
// catalog rows typed without the accent.
func matchConditions(terms []string) []fieldMatch {
	expanded := make([]string, 0, len(terms)*2)
	for _, term := range terms {
		expanded = append(expanded, term)
		if folded := common.FoldAccents(term); folded != term {
			expanded = append(expanded, folded)
		}
	}

	matches := make([]fieldMatch, 0, len(expanded)*len(searchColumns))
	for _, term := range expanded {
		for _, column := range searchColumns {
			matches = append(matches, fieldMatch{column: column, term: term})
		}
	}
	return matches
}

// CandidateRetriever runs the keyword search over the catalog store.
type CandidateRetriever struct {
	db            *gorm.DB
	maxCandidates int
}

func NewCandidateRetriever(db *gorm.DB, maxCandidates int) *CandidateRetriever {
	return &CandidateRetriever{db: db, maxCandidates: maxCandidates}
}

// Retrieve returns in-stock products matching any term in name,
// description or category name, case-insensitively. Empty terms never
// reach the store. Order is store-default and carries no meaning.
func (r *CandidateRetriever) Retrieve(ctx context.Context, terms []string) ([]Candidate, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	matches := matchConditions(terms)
	conds := make([]string, 0, len(matches))
	args := make([]interface{}, 0, len(matches))
	isPostgres := strings.EqualFold(r.db.Name(), "postgres")
	for _, m := range matches {
		if isPostgres {
			conds = append(conds, m.column+" ILIKE ?")
			args = append(args, "%"+m.term+"%")
		} else {
			conds = append(conds, "LOWER("+m.column+") LIKE ?")
			args = append(args, "%"+strings.ToLower(m.term)+"%")
		}
	}

	var rows []Candidate
	err := r.db.WithContext(ctx).
		Table("products").
		Select("products.name AS name, products.description AS description, products.price AS price, categories.name AS category_name").
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("products.stock > ?", 0).
		Where(strings.Join(conds, " OR "), args...).
		Scan(&rows).Error
	if err != nil {
		return nil, stageError(StageRetrieval, err)
	}

	if r.maxCandidates > 0 && len(rows) > r.maxCandidates {
		rows = rows[:r.maxCandidates]
	}
	return rows, nil
}
