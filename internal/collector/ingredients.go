package collector

import "strings"

// Keyword lists cover English and German food names since both appear in
// Fitbit food logs. Matching is lowercase substring containment, so
// "Oat Milk Latte" trips both the dairy and caffeine lists.
var (
	dairyKeywords = []string{
		"milk", "milch", "cheese", "käse", "kase", "yogurt", "yoghurt",
		"joghurt", "butter", "cream", "sahne", "rahm", "quark", "latte",
		"cappuccino", "mozzarella", "parmesan", "whey", "molke", "kefir",
		"curd", "custard",
	}
	glutenKeywords = []string{
		"bread", "brot", "brötchen", "pasta", "nudel", "wheat", "weizen",
		"flour", "mehl", "pizza", "croissant", "bagel", "cereal", "müsli",
		"muesli", "cracker", "pretzel", "brezel", "cake", "kuchen",
		"cookie", "keks", "barley", "gerste", "rye", "roggen", "spelt",
		"dinkel", "couscous", "bulgur", "seitan", "toast",
	}
	caffeineKeywords = []string{
		"coffee", "kaffee", "espresso", "latte", "cappuccino", "americano",
		"mocha", "mokka", "cola", "energy drink", "black tea",
		"schwarzer tee", "schwarztee", "green tea", "grüner tee",
		"grüntee", "matcha", "chai", "guarana", "mate", "kakao", "cocoa",
		"chocolate", "schokolade",
	}
)

func matchesAny(name string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// TagIngredients derives the ingredient flags for a food name. Each flag
// is checked independently against its keyword list.
func TagIngredients(name string) (dairy, gluten, caffeine bool) {
	lower := strings.ToLower(name)
	return matchesAny(lower, dairyKeywords),
		matchesAny(lower, glutenKeywords),
		matchesAny(lower, caffeineKeywords)
}
