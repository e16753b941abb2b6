package tool

import (
	contractx "github.com/tanpawarit/Chative-Voice-Desk/agent/contract"
)

const (
	ToolListProducts = "list_products"
	ToolCreateOrder  = "create_order"
	ToolGetLastOrder = "get_last_order"

	ToolAddToCart      = "add_to_cart"
	ToolRemoveFromCart = "remove_from_cart"
	ToolViewCart       = "view_cart"
	ToolAddRecipe      = "add_recipe_ingredients"
	ToolCheckout       = "checkout"

	ToolUpdateOrderDetails = "update_order_details"
	ToolSubmitOrder        = "submit_order"

	ToolLookupInfo     = "lookup_info"
	ToolUpdateLeadInfo = "update_lead_info"
	ToolSubmitLead     = "submit_lead"

	ToolRollDice = "roll_dice"

	ToolSwitchMode = "switch_mode"
	ToolListTopics = "list_topics"
)

// SpecsFor returns the tools an assistant exposes, in presentation order.
func SpecsFor(kind contractx.AssistantKind) []Spec {
	switch kind {
	case contractx.AssistantShopping:
		return []Spec{
			{
				Name: ToolListProducts,
				Desc: "Search and filter the product catalog. Every supplied filter must match.",
				Params: []Param{
					{Name: "category", Kind: KindString, Desc: "Category or kind of product, e.g. mug or hoodie"},
					{Name: "max_price", Kind: KindNumber, Desc: "Highest acceptable unit price"},
					{Name: "color", Kind: KindString, Desc: "Product color"},
					{Name: "search_query", Kind: KindString, Desc: "Free text matched against name, id, category, color, size and tags"},
				},
			},
			{
				Name: ToolCreateOrder,
				Desc: "Place an order for one product id.",
				Params: []Param{
					{Name: "product_id", Kind: KindString, Desc: "Exact product id from list_products", Required: true},
					{Name: "quantity", Kind: KindInteger, Desc: "Units to buy, defaults to 1"},
				},
			},
			{
				Name: ToolGetLastOrder,
				Desc: "Describe the most recently placed order.",
			},
		}
	case contractx.AssistantGrocery:
		return []Spec{
			{
				Name: ToolAddToCart,
				Desc: "Add a grocery item to the cart, or raise its quantity when it is already there.",
				Params: []Param{
					{Name: "item_name", Kind: KindString, Desc: "Item name or id", Required: true},
					{Name: "quantity", Kind: KindInteger, Desc: "Units to add, defaults to 1"},
					{Name: "notes", Kind: KindString, Desc: "Preparation or brand notes"},
				},
			},
			{
				Name: ToolRemoveFromCart,
				Desc: "Remove an item from the cart by name.",
				Params: []Param{
					{Name: "item_name", Kind: KindString, Desc: "Name or part of the name of the cart line", Required: true},
				},
			},
			{
				Name: ToolViewCart,
				Desc: "List the cart lines and the running total.",
			},
			{
				Name: ToolAddRecipe,
				Desc: "Add every ingredient for a known dish, e.g. sandwich, pasta or omelette.",
				Params: []Param{
					{Name: "dish_name", Kind: KindString, Desc: "Dish the user wants to cook", Required: true},
					{Name: "quantity", Kind: KindInteger, Desc: "Units of each ingredient, defaults to 1"},
				},
			},
			{
				Name: ToolCheckout,
				Desc: "Place the order for the whole cart and empty it. Call when the user is done shopping.",
				Params: []Param{
					{Name: "customer_name", Kind: KindString, Desc: "Name for the order"},
				},
			},
		}
	case contractx.AssistantBarista:
		return []Spec{
			{
				Name: ToolUpdateOrderDetails,
				Desc: "Record drink order details as the customer mentions them. Only pass fields the customer stated.",
				Params: []Param{
					{Name: "drink_type", Kind: KindString, Desc: "Drink, e.g. latte"},
					{Name: "size", Kind: KindString, Desc: "Cup size"},
					{Name: "milk", Kind: KindString, Desc: "Milk choice"},
					{Name: "extras", Kind: KindStringList, Desc: "Complete list of extras; replaces earlier extras"},
					{Name: "name", Kind: KindString, Desc: "Customer name for the cup"},
				},
			},
			{
				Name: ToolSubmitOrder,
				Desc: "Submit the drink order once every detail is confirmed.",
			},
		}
	case contractx.AssistantSales:
		return []Spec{
			{
				Name: ToolLookupInfo,
				Desc: "Look up company products, FAQs and pricing.",
				Params: []Param{
					{Name: "query", Kind: KindString, Desc: "Question or keywords", Required: true},
				},
			},
			{
				Name: ToolUpdateLeadInfo,
				Desc: "Record details about the prospect as they share them. Only pass fields the prospect stated.",
				Params: []Param{
					{Name: "name", Kind: KindString, Desc: "Prospect name"},
					{Name: "company", Kind: KindString, Desc: "Company name"},
					{Name: "email", Kind: KindString, Desc: "Contact email"},
					{Name: "role", Kind: KindString, Desc: "Job title"},
					{Name: "use_case", Kind: KindString, Desc: "What they want to solve"},
					{Name: "team_size", Kind: KindString, Desc: "Team or company size"},
					{Name: "timeline", Kind: KindString, Desc: "When they plan to start"},
				},
			},
			{
				Name: ToolSubmitLead,
				Desc: "Save the lead at the end of the conversation.",
			},
		}
	case contractx.AssistantGame:
		return []Spec{
			{
				Name: ToolRollDice,
				Desc: "Roll a d20 skill check against a difficulty class.",
				Params: []Param{
					{Name: "skill_check_name", Kind: KindString, Desc: "Action being attempted, e.g. Stealth", Required: true},
					{Name: "difficulty_class", Kind: KindInteger, Desc: "Target number, defaults to 15"},
				},
			},
		}
	case contractx.AssistantTutor:
		return []Spec{
			{
				Name: ToolSwitchMode,
				Desc: "Switch the tutoring mode. Keeps the current topic unless a topic id is given.",
				Params: []Param{
					{Name: "mode", Kind: KindString, Desc: "Target mode", Required: true, Enum: []string{"learn", "quiz", "teach_back"}},
					{Name: "topic_id", Kind: KindString, Desc: "Topic id from list_topics"},
				},
			},
			{
				Name: ToolListTopics,
				Desc: "List the topics available for tutoring.",
			},
		}
	default:
		return nil
	}
}
