package finance

// DefaultIcon is shown for categories without a specific icon.
const DefaultIcon = "Tag"

// DefaultColor is assigned to categories created without a color.
const DefaultColor = "#6366f1"

var iconFallback = map[string]string{
	"Salary":       "Banknote",
	"Freelance":    "Laptop",
	"Investments":  "TrendingUp",
	"Other income": "PlusCircle",
	"Food":         "UtensilsCrossed",
	"Rent":         "Home",
	"Utilities":    "Zap",
	"Transport":    "Car",
	"Shopping":     "ShoppingBag",
	"Health":       "HeartPulse",
	"Other":        "Tag",
}

// ResolveIcon keeps an explicit icon, otherwise looks the category name up
// in the fallback table, otherwise returns DefaultIcon.
func ResolveIcon(icon, categoryName string) string {
	if icon != "" && icon != DefaultIcon {
		return icon
	}
	if fallback, ok := iconFallback[categoryName]; ok {
		return fallback
	}
	return DefaultIcon
}

// DefaultCategories are inserted by the seed command into an empty database.
var DefaultCategories = []NewCategory{
	{Name: "Salary", Type: KindIncome, Color: "#10b981", Icon: "Banknote"},
	{Name: "Freelance", Type: KindIncome, Color: "#14b8a6", Icon: "Laptop"},
	{Name: "Investments", Type: KindIncome, Color: "#6366f1", Icon: "TrendingUp"},
	{Name: "Other income", Type: KindIncome, Color: "#64748b", Icon: "PlusCircle"},
	{Name: "Food", Type: KindExpense, Color: "#f59e0b", Icon: "UtensilsCrossed"},
	{Name: "Rent", Type: KindExpense, Color: "#a855f7", Icon: "Home"},
	{Name: "Utilities", Type: KindExpense, Color: "#3b82f6", Icon: "Zap"},
	{Name: "Transport", Type: KindExpense, Color: "#06b6d4", Icon: "Car"},
	{Name: "Shopping", Type: KindExpense, Color: "#ec4899", Icon: "ShoppingBag"},
	{Name: "Health", Type: KindExpense, Color: "#ef4444", Icon: "HeartPulse"},
	{Name: "Other", Type: KindExpense, Color: "#71717a", Icon: "Tag"},
}
