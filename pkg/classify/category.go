// pkg/classify/category.go
package classify

import (
	"strings"

	"github.com/sapore-ops/scale-audit/pkg/model"
)

// Products whose first token matches directly map to themselves.
var fixedTokenCategories = map[string]string{
	"ARROZ":  model.CategoryRice,
	"FEIJAO": model.CategoryBeans,
	"SUCO":   model.CategoryJuice,
	"MOLHO":  model.CategorySauce,
}

// categoryKeywords binds a category to the first-token keywords that select
// it. The slice order is the check order and no keyword may appear under two
// categories; keep that uniqueness when extending the vocabulary.
type categoryKeywords struct {
	Category string
	Keywords []string
}

var keywordTables = []categoryKeywords{
	{model.CategorySide, []string{
		"ESPAGUETADA", "CREME", "POLENTA", "FAROFA", "QUIBEBE", "CANJIQUINHA",
		"PENNE", "PURE", "ESPAGUETE", "MACARRAO", "VIRADO", "CUSCUZ", "PIRAO",
		"NHOQUE", "PALHA",
	}},
	{model.CategorySalad, []string{
		"SALADA", "SAL.", "ALFACE", "BETERRABA", "BERINGELA", "BERINJELA", "LENTILHA",
		"PEPINO", "TOMATE", "VAGEM", "CENOURA", "ERVILHA", "CHUCHU", "ABOBORA",
		"BATATA", "LEGUMES", "LEGUME", "COUVE", "SOJA", "REPOLHO", "TRIGO",
		"JILO", "GRAO", "BROCOLIS", "ABOBRINHA", "JARDINEIRA",
	}},
	{model.CategoryProtein, []string{
		"COZIDO", "FRANGO", "BIFE", "FILEZINHO", "KIBINHO", "LINGUICA", "OVOS",
		"MERLUZA", "STROGONOFF", "CARRE", "ATUM", "CARNE", "OMELETE", "SALSICHA",
		"SALSICHAO", "ISCAS", "TILAPIA", "BISTECA", "HAMBURGUER", "EMPADAO",
		"PERNIL", "PICADINHO", "QUIBE", "FRICASSE", "BOBO", "CUBOS", "FILE",
		"ALMONDEGA", "ALMONDEGAS", "LOMBO", "DOBRADINHA", "GOULASH", "QUICHE",
		"KIBE", "MOQUECA", "MOUSSAKA", "COSTELA", "FEIJOADA", "CORDON",
		"LASANHA", "MOELA", "OVO", "SOBRECOXA", "PATINHO", "FIGADO", "PIZZA",
		"COSTELINHA",
	}},
	{model.CategoryDessert, []string{
		"DOCE", "MACA", "MELANCIA", "MELAO", "CHAMOUR", "LARANJA", "DELICIA",
		"MANJAR", "PUDIM", "TORTA", "CURAU", "GOIABADA", "CHOCOLATE", "FLAN",
		"PAVE", "CACAROLA", "GELATINA", "PERA", "BANANADA", "BANANA", "MAMAO",
		"COCADA", "PE", "PICOLE", "ABACAXI", "TANGERINA", "TIRAMISSU", "BARRA",
	}},
}

// CategoryClassifier maps a product name to a food category by first-token
// lookup. Products that match nothing stay unclassified.
type CategoryClassifier struct{}

// NewCategoryClassifier creates a category classifier.
func NewCategoryClassifier() *CategoryClassifier {
	return &CategoryClassifier{}
}

// Classify returns the category for a product name, or "" when the product is
// unclassifiable (including the empty product).
func (c *CategoryClassifier) Classify(product string) string {
	tokens := strings.Fields(strings.ToUpper(strings.TrimSpace(product)))
	if len(tokens) == 0 {
		return ""
	}

	first := tokens[0]
	if category, ok := fixedTokenCategories[first]; ok {
		return category
	}

	// Shredded/julienne preparations are side dishes no matter the vegetable.
	if len(tokens) >= 2 && tokens[1] == "PALHA" {
		return model.CategorySide
	}

	for _, table := range keywordTables {
		for _, keyword := range table.Keywords {
			if first == keyword {
				return table.Category
			}
		}
	}

	return ""
}
