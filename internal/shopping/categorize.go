package shopping

import "strings"

// GuessCategory returns the category key for an item name when the user
// did not pick one. It performs case-insensitive matching: exact match
// first, then substring match. Returns "" if nothing matches; the item
// then stays uncategorized. Keywords cover both English and Hebrew
// forms of the seeded catalog's starter items.
func GuessCategory(itemName string) string {
	name := NameKey(itemName)
	if name == "" {
		return ""
	}

	// Phase 1: exact match
	if cat, ok := exactMatch[name]; ok {
		return cat
	}

	// Phase 2: substring match
	for _, entry := range substringMatches {
		if strings.Contains(name, entry.keyword) {
			return entry.category
		}
	}

	return ""
}

var exactMatch = map[string]string{
	// Dairy
	"milk":   "dairy",
	"cheese": "dairy",
	"yogurt": "dairy",
	"butter": "dairy",
	"cream":  "dairy",
	"eggs":   "dairy",
	"חלב":    "dairy",
	"גבינה":  "dairy",
	"יוגורט": "dairy",
	"חמאה":   "dairy",
	"שמנת":   "dairy",
	"ביצים":  "dairy",

	// Fruits & vegetables
	"apples":   "fruits_vegetables",
	"bananas":  "fruits_vegetables",
	"carrots":  "fruits_vegetables",
	"broccoli": "fruits_vegetables",
	"tomatoes": "fruits_vegetables",
	"onions":   "fruits_vegetables",
	"potatoes": "fruits_vegetables",
	"lettuce":  "fruits_vegetables",
	"תפוחים":   "fruits_vegetables",
	"בננות":    "fruits_vegetables",
	"גזר":      "fruits_vegetables",
	"ברוקולי":  "fruits_vegetables",
	"עגבניות":  "fruits_vegetables",
	"בצל":      "fruits_vegetables",
	"חסה":      "fruits_vegetables",

	// Meat & fish
	"chicken":     "meat_fish",
	"beef":        "meat_fish",
	"salmon":      "meat_fish",
	"tuna":        "meat_fish",
	"ground meat": "meat_fish",
	"עוף":         "meat_fish",
	"בקר":         "meat_fish",
	"סלמון":       "meat_fish",
	"טונה":        "meat_fish",
	"בשר טחון":    "meat_fish",

	// Staples
	"bread":  "staples",
	"pasta":  "staples",
	"rice":   "staples",
	"flour":  "staples",
	"cereal": "staples",
	"oats":   "staples",
	"לחם":    "staples",
	"פסטה":   "staples",
	"אורז":   "staples",
	"קמח":    "staples",

	// Snacks
	"chocolate": "snacks",
	"chips":     "snacks",
	"cookies":   "snacks",
	"nuts":      "snacks",
	"crackers":  "snacks",
	"שוקולד":    "snacks",
	"עוגיות":    "snacks",
	"אגוזים":    "snacks",

	// Cleaning & household
	"toilet paper": "cleaning_household",
	"paper towels": "cleaning_household",
	"detergent":    "cleaning_household",
	"soap":         "cleaning_household",
	"shampoo":      "cleaning_household",
	"toothpaste":   "cleaning_household",
	"נייר טואלט":   "cleaning_household",
	"סבון":         "cleaning_household",
	"שמפו":         "cleaning_household",

	// Beverages
	"coffee": "beverages",
	"tea":    "beverages",
	"juice":  "beverages",
	"soda":   "beverages",
	"water":  "beverages",
	"beer":   "beverages",
	"wine":   "beverages",
	"קפה":    "beverages",
	"תה":     "beverages",
	"מיץ":    "beverages",
	"מים":    "beverages",
	"בירה":   "beverages",
	"יין":    "beverages",

	// Condiments & spices
	"salt":      "condiments",
	"pepper":    "condiments",
	"ketchup":   "condiments",
	"mustard":   "condiments",
	"olive oil": "condiments",
	"vinegar":   "condiments",
	"garlic":    "condiments",
	"מלח":       "condiments",
	"פלפל":      "condiments",
	"קטשופ":     "condiments",
	"חרדל":      "condiments",
	"שמן זית":   "condiments",
	"שום":       "condiments",

	// Baby & pet
	"diapers":   "baby_pet",
	"baby food": "baby_pet",
	"pet food":  "baby_pet",
	"חיתולים":   "baby_pet",

	// Pharmacy
	"vitamins": "pharmacy",
	"bandages": "pharmacy",
	"ויטמינים": "pharmacy",

	// Bakery
	"bagels":     "bakery",
	"croissants": "bakery",
	"muffins":    "bakery",
	"donuts":     "bakery",
	"בייגלים":    "bakery",
	"קרואסון":    "bakery",
}

var substringMatches = []struct {
	keyword  string
	category string
}{
	// Longer, more specific keywords first.
	{"ice cream", "frozen"},
	{"frozen", "frozen"},
	{"קפוא", "frozen"},
	{"גלידה", "frozen"},
	{"cheese", "dairy"},
	{"yogurt", "dairy"},
	{"גבינה", "dairy"},
	{"bread", "staples"},
	{"juice", "beverages"},
	{"מיץ", "beverages"},
	{"chocolate", "snacks"},
	{"שוקולד", "snacks"},
	{"chicken", "meat_fish"},
	{"עוף", "meat_fish"},
	{"fish", "meat_fish"},
	{"דג", "meat_fish"},
}
