package catalog

import "strings"

// Recipe maps a dish to the catalog ids of its ingredients.
type Recipe struct {
	Dish    string
	ItemIDs []string
}

// DefaultRecipes is ordered: the first dish contained in a request wins.
var DefaultRecipes = []Recipe{
	{Dish: "sandwich", ItemIDs: []string{"g_bread", "g_pb", "g_jelly"}},
	{Dish: "pbj", ItemIDs: []string{"g_bread", "g_pb", "g_jelly"}},
	{Dish: "pasta", ItemIDs: []string{"g_pasta", "g_sauce"}},
	{Dish: "spaghetti", ItemIDs: []string{"g_pasta", "g_sauce"}},
	{Dish: "omelette", ItemIDs: []string{"g_eggs", "g_milk"}},
	{Dish: "pizza", ItemIDs: []string{"p_pizza", "s_chips"}},
}

// MatchRecipe returns the first recipe whose dish name appears in the request.
func MatchRecipe(recipes []Recipe, dishName string) (Recipe, bool) {
	q := strings.ToLower(strings.TrimSpace(dishName))
	if q == "" {
		return Recipe{}, false
	}
	for _, r := range recipes {
		if strings.Contains(q, r.Dish) {
			return r, true
		}
	}
	return Recipe{}, false
}

func RecipeDishes(recipes []Recipe) []string {
	out := make([]string, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.Dish)
	}
	return out
}
