// pkg/classify/category_test.go
package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sapore-ops/scale-audit/pkg/model"
)

func TestCategoryClassifier(t *testing.T) {
	classifier := NewCategoryClassifier()

	cases := []struct {
		product string
		want    string
	}{
		// First-token fixed categories.
		{"ARROZ BRANCO", model.CategoryRice},
		{"ARROZ INTEGRAL", model.CategoryRice},
		{"FEIJAO CARIOCA", model.CategoryBeans},
		{"SUCO DE LARANJA", model.CategoryJuice},
		{"MOLHO MADEIRA", model.CategorySauce},

		// Keyword vocabulary, matched on the first token only.
		{"PURE DE BATATA", model.CategorySide},
		{"FAROFA RICA", model.CategorySide},
		{"TOMATE EM RODELAS", model.CategorySalad},
		{"SALADA DE TOMATE", model.CategorySalad},
		{"SAL. MISTA", model.CategorySalad},
		{"FRANGO GRELHADO", model.CategoryProtein},
		{"BIFE ACEBOLADO", model.CategoryProtein},
		{"PUDIM DE LEITE", model.CategoryDessert},
		{"BANANA PRATA", model.CategoryDessert},

		// Second-token PALHA override beats the salad vocabulary.
		{"BATATA PALHA", model.CategorySide},
		{"CENOURA PALHA", model.CategorySide},

		// Later tokens never match.
		{"GRELHADO DE FRANGO", ""},

		// Unclassifiable.
		{"", ""},
		{"   ", ""},
		{"XYZZY", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, classifier.Classify(tc.product), "product %q", tc.product)
	}
}

func TestCategoryClassifierNormalizesInput(t *testing.T) {
	classifier := NewCategoryClassifier()

	assert.Equal(t, model.CategoryRice, classifier.Classify("  arroz branco "))
	assert.Equal(t, model.CategoryProtein, classifier.Classify("frango assado"))
}

// Every keyword must select exactly one category; a duplicate would make the
// result depend on table order.
func TestCategoryKeywordsAreUnique(t *testing.T) {
	seen := make(map[string]string)
	for _, table := range keywordTables {
		for _, keyword := range table.Keywords {
			if previous, dup := seen[keyword]; dup {
				t.Errorf("keyword %q appears under both %s and %s", keyword, previous, table.Category)
			}
			seen[keyword] = table.Category
		}
	}
}
