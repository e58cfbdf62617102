package schema

import (
	"strings"
)

// Section keys shared across the schema registry and the section-order
// registry.
const (
	KeyDocumentName    = "document_name"
	KeySummary         = "summary"
	KeyKeyPoints       = "key_points"
	KeyScopeOfWork     = "scope_of_work"
	KeyDeliverables    = "deliverables"
	KeyTimeline        = "timeline"
	KeyBudgetSummary   = "budget_summary"
	KeyPotentialIssues = "potential_issues"
	KeyRecommendations = "recommendations"
	KeyReferences      = "references"

	KeyComplianceIssues = "compliance_issues"
	KeySecurityConcerns = "security_concerns"
)

// DocTypeTermsOfReference is the one document type with a registered
// schema, instruction, and section order of its own.
const DocTypeTermsOfReference = "terms of reference"

// baseInstruction is always sent as the system instruction; type-specific
// instructions are appended to it.
const baseInstruction = "You are a document evaluation assistant for a government office. " +
	"Evaluate the attached document and return a structured report as JSON matching the response schema. " +
	"Quote the document verbatim in excerpts and keep every field factual and concise."

// torInstruction is the extra clause appended for terms-of-reference
// documents.
const torInstruction = "The document is a terms of reference. " +
	"Assess the scope of work, deliverables, timeline, and budget, and flag compliance issues " +
	"and security concerns with the exact excerpt and its location in the document."

// Resolution is a resolved (schema, instruction) pair for a document type.
type Resolution struct {
	Schema      Field
	Instruction string
}

// issueRecords describes a list of flagged-issue entries.
func issueRecords(description string) Field {
	f := RecordArray(map[string]Field{
		"excerpt":     Str("Verbatim excerpt from the document"),
		"location":    Str("Where the excerpt appears (page, section, or heading)"),
		"explanation": Str("Why this excerpt is a concern"),
	}, "excerpt", "location", "explanation")
	f.Description = description
	return f
}

// BaseSchema returns the generic report schema used for unknown document
// types.
func BaseSchema() Field {
	return Object(map[string]Field{
		KeyDocumentName: Str("Title or reference number of the document"),
		KeySummary:      Str("Narrative summary of the document"),
		KeyKeyPoints:    StrArray("Most important points, one per entry"),
	}, KeyDocumentName, KeySummary, KeyKeyPoints)
}

// TermsOfReferenceSchema returns the extended schema for terms-of-reference
// documents.
func TermsOfReferenceSchema() Field {
	return Object(map[string]Field{
		KeyDocumentName:  Str("Title or reference number of the document"),
		KeySummary:       Str("Narrative summary of the document"),
		KeyKeyPoints:     StrArray("Most important points, one per entry"),
		KeyScopeOfWork:   Str("Scope of work described by the document"),
		KeyDeliverables:  StrArray("Expected deliverables, one per entry"),
		KeyTimeline:      Str("Timeline or period of performance"),
		KeyBudgetSummary: Str("Budget figures and funding source, if stated"),
		KeyPotentialIssues: Object(map[string]Field{
			KeyComplianceIssues: issueRecords("Possible procurement or policy compliance issues"),
			KeySecurityConcerns: issueRecords("Possible security concerns"),
		}),
		KeyRecommendations: StrArray("Recommended actions for the reviewing office"),
		KeyReferences:      StrArray("Laws, circulars, or documents referenced"),
	},
		KeyDocumentName, KeySummary, KeyKeyPoints, KeyScopeOfWork, KeyDeliverables,
		KeyTimeline, KeyBudgetSummary, KeyPotentialIssues, KeyRecommendations, KeyReferences,
	)
}

// registry maps normalized document types to their schema; instructions
// are registered independently so a type can carry either without the
// other.
var (
	schemasByType = map[string]func() Field{
		DocTypeTermsOfReference: TermsOfReferenceSchema,
	}
	instructionsByType = map[string]string{
		DocTypeTermsOfReference: torInstruction,
	}
)

// Normalize canonicalizes a document type for registry lookup. Empty
// input normalizes to a sentinel that matches no registered type.
func Normalize(documentType string) string {
	normalized := strings.ToLower(strings.TrimSpace(documentType))
	if normalized == "" {
		return "\x00unknown"
	}
	return normalized
}

// Resolve returns the schema and full system instruction for a document
// type. Unknown types degrade to the base schema and base instruction;
// there is no error path.
func Resolve(documentType string) Resolution {
	normalized := Normalize(documentType)

	res := Resolution{
		Schema:      BaseSchema(),
		Instruction: baseInstruction,
	}
	if build, ok := schemasByType[normalized]; ok {
		res.Schema = build()
	}
	if extra, ok := instructionsByType[normalized]; ok {
		res.Instruction = baseInstruction + " " + extra
	}
	return res
}

// BaseInstruction returns the fixed instruction shared by every document
// type.
func BaseInstruction() string {
	return baseInstruction
}
