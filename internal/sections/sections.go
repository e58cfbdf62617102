// Package sections resolves the ordered list of report sections to render
// and edit for a document type.
package sections

import (
	"github.com/mbenito/docueval/internal/schema"
)

// defaultOrder is the fixed rendering-registry order used for any document
// type without a registered order of its own. It covers every known
// section kind.
var defaultOrder = []string{
	schema.KeyDocumentName,
	schema.KeySummary,
	schema.KeyKeyPoints,
	schema.KeyScopeOfWork,
	schema.KeyDeliverables,
	schema.KeyTimeline,
	schema.KeyBudgetSummary,
	schema.KeyPotentialIssues,
	schema.KeyRecommendations,
	schema.KeyReferences,
}

// orderByType holds per-type overrides of the default order.
var orderByType = map[string][]string{
	schema.DocTypeTermsOfReference: {
		schema.KeyDocumentName,
		schema.KeySummary,
		schema.KeyKeyPoints,
		schema.KeyScopeOfWork,
		schema.KeyDeliverables,
		schema.KeyTimeline,
		schema.KeyBudgetSummary,
		schema.KeyPotentialIssues,
		schema.KeyRecommendations,
		schema.KeyReferences,
	},
}

// titles maps section keys to display titles.
var titles = map[string]string{
	schema.KeyDocumentName:    "Document Name",
	schema.KeySummary:         "Summary",
	schema.KeyKeyPoints:       "Key Points",
	schema.KeyScopeOfWork:     "Scope of Work",
	schema.KeyDeliverables:    "Deliverables",
	schema.KeyTimeline:        "Timeline",
	schema.KeyBudgetSummary:   "Budget Summary",
	schema.KeyPotentialIssues: "Potential Issues",
	schema.KeyRecommendations: "Recommendations",
	schema.KeyReferences:      "References",
}

// OrderFor returns the ordered section keys for a document type. Unknown
// types get the default order. The result is a copy and safe to modify.
func OrderFor(documentType string) []string {
	order := defaultOrder
	if registered, ok := orderByType[schema.Normalize(documentType)]; ok {
		order = registered
	}
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// Title returns the human display title for a section key. Unregistered
// keys fall back to the key itself.
func Title(sectionKey string) string {
	if t, ok := titles[sectionKey]; ok {
		return t
	}
	return sectionKey
}
