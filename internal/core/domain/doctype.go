package domain

import (
	"path/filepath"
	"strings"
)

// DocumentType classifies a document for segmentation strategy dispatch.
type DocumentType string

// Known document types.
const (
	TypeEmail             DocumentType = "email"
	TypeContract          DocumentType = "contract"
	TypeContractAmendment DocumentType = "contract_amendment"
	TypeInvoice           DocumentType = "invoice"
	TypeFinancial         DocumentType = "financial"
	TypeOther             DocumentType = "other"
)

// Valid reports whether t is a known document type.
func (t DocumentType) Valid() bool {
	switch t {
	case TypeEmail, TypeContract, TypeContractAmendment, TypeInvoice, TypeFinancial, TypeOther:
		return true
	}
	return false
}

// typeRule pairs a predicate with the type it detects. Rules are evaluated
// in order; the first match wins. Keeping detection declarative makes each
// predicate unit-testable independently of the dispatcher.
type typeRule struct {
	Type  DocumentType
	Match func(filename, body string) bool
}

// typeRules is the ordered detection table. All checks are case-insensitive
// substring tests on the lowered filename and body.
var typeRules = []typeRule{
	{
		Type: TypeEmail,
		Match: func(filename, body string) bool {
			if strings.HasSuffix(filename, ".eml") || strings.HasSuffix(filename, ".msg") {
				return true
			}
			return strings.Contains(body, "from:") &&
				strings.Contains(body, "to:") &&
				strings.Contains(body, "subject:")
		},
	},
	{
		Type: TypeContractAmendment,
		Match: func(filename, body string) bool {
			if !strings.Contains(body, "contract") && !strings.Contains(body, "agreement") {
				return false
			}
			return strings.Contains(body, "amendment") || strings.Contains(body, "addendum")
		},
	},
	{
		Type: TypeContract,
		Match: func(filename, body string) bool {
			return strings.Contains(body, "contract") || strings.Contains(body, "agreement")
		},
	},
	{
		Type: TypeInvoice,
		Match: func(filename, body string) bool {
			return strings.Contains(filename, "invoice") || strings.Contains(body, "invoice")
		},
	},
	{
		Type: TypeFinancial,
		Match: func(filename, body string) bool {
			return strings.Contains(body, "financial") ||
				strings.Contains(body, "revenue") ||
				strings.Contains(body, "profit")
		},
	},
}

// DetectDocumentType classifies a document from its filename extension and
// body keyword heuristics. Returns TypeOther when no rule matches.
func DetectDocumentType(filename, body string) DocumentType {
	name := strings.ToLower(filepath.Base(filename))
	lowered := strings.ToLower(body)

	for _, rule := range typeRules {
		if rule.Match(name, lowered) {
			return rule.Type
		}
	}
	return TypeOther
}
