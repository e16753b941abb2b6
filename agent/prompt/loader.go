package prompt

import (
	_ "embed"
	"strings"

	contractx "github.com/tanpawarit/Chative-Voice-Desk/agent/contract"
)

var (
	//go:embed template/shopping.txt
	shoppingRaw string

	//go:embed template/grocery.txt
	groceryRaw string

	//go:embed template/barista.txt
	baristaRaw string

	//go:embed template/sales.txt
	salesRaw string

	//go:embed template/game.txt
	gameRaw string

	//go:embed template/tutor.txt
	tutorRaw string
)

// PromptSet holds the system instructions of every assistant.
type PromptSet struct {
	Shopping string
	Grocery  string
	Barista  string
	Sales    string
	Game     string
	Tutor    string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Shopping: strings.TrimSpace(shoppingRaw),
		Grocery:  strings.TrimSpace(groceryRaw),
		Barista:  strings.TrimSpace(baristaRaw),
		Sales:    strings.TrimSpace(salesRaw),
		Game:     strings.TrimSpace(gameRaw),
		Tutor:    strings.TrimSpace(tutorRaw),
	}
}

func (p PromptSet) For(kind contractx.AssistantKind) string {
	switch kind {
	case contractx.AssistantShopping:
		return p.Shopping
	case contractx.AssistantGrocery:
		return p.Grocery
	case contractx.AssistantBarista:
		return p.Barista
	case contractx.AssistantSales:
		return p.Sales
	case contractx.AssistantGame:
		return p.Game
	case contractx.AssistantTutor:
		return p.Tutor
	default:
		return ""
	}
}
