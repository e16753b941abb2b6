package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

const maxKnowledgeMatches = 3

type KnowledgeProduct struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords,omitempty"`
}

type FAQ struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Keywords []string `json:"keywords,omitempty"`
}

type Pricing struct {
	Standard string `json:"standard,omitempty"`
	SetupFee string `json:"setup_fee,omitempty"`
}

// KnowledgeBase is the company reference data used by the sales assistant.
type KnowledgeBase struct {
	Company  string             `json:"company,omitempty"`
	Products []KnowledgeProduct `json:"products,omitempty"`
	FAQs     []FAQ              `json:"faqs,omitempty"`
	Pricing  Pricing            `json:"pricing"`
}

// LoadKnowledgeBase reads a knowledge base object. A missing file yields an empty one.
func LoadKnowledgeBase(path string) (*KnowledgeBase, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &KnowledgeBase{}, nil
		}
		return nil, fmt.Errorf("load knowledge base %s: %w", path, err)
	}
	var kb KnowledgeBase
	if err := json.Unmarshal(raw, &kb); err != nil {
		return nil, fmt.Errorf("load knowledge base %s: %w", path, err)
	}
	return &kb, nil
}

var pricingWords = []string{"price", "cost", "fee", "charge"}

// Lookup returns up to three snippets relevant to the query: products first,
// then FAQs, then pricing.
func (kb *KnowledgeBase) Lookup(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if kb == nil || q == "" {
		return nil
	}

	var out []string
	for _, p := range kb.Products {
		if anyKeywordIn(q, p.Keywords) || (p.Name != "" && strings.Contains(q, strings.ToLower(p.Name))) {
			out = append(out, fmt.Sprintf("Product: %s - %s", p.Name, p.Description))
		}
	}
	for _, f := range kb.FAQs {
		if anyKeywordIn(q, f.Keywords) || strings.Contains(strings.ToLower(f.Question), q) {
			out = append(out, fmt.Sprintf("FAQ: Q: %s A: %s", f.Question, f.Answer))
		}
	}
	if anyKeywordIn(q, pricingWords) {
		out = append(out, fmt.Sprintf("Pricing: Standard: %s Setup Fee: %s", kb.Pricing.Standard, kb.Pricing.SetupFee))
	}

	if len(out) > maxKnowledgeMatches {
		out = out[:maxKnowledgeMatches]
	}
	return out
}

func anyKeywordIn(q string, keywords []string) bool {
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" && strings.Contains(q, k) {
			return true
		}
	}
	return false
}
