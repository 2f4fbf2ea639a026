package scoring

// Keyword tables for the AI component. Matching is substring based over the
// lowercased conversation text, so multi-word entries work without
// tokenization. Changing these tables changes scores for every lead, so new
// entries should go through a batch rescore after deploy.

var intentCategories = map[string][]string{
	"pricing": {
		"price", "pricing", "cost", "how much", "quote", "budget", "rate",
	},
	"booking": {
		"book", "booking", "appointment", "schedule", "demo", "reserve",
		"availability", "available",
	},
	"urgency": {
		"urgent", "asap", "right away", "immediately", "today", "as soon as",
	},
}

var positiveKeywords = []string{
	"great", "thanks", "thank you", "perfect", "awesome", "excellent",
	"love it", "sounds good", "yes please", "happy",
}

var negativeKeywords = []string{
	"not interested", "too expensive", "cancel", "unhappy", "disappointed",
	"complaint", "refund", "never", "waste",
}

var buyingSignalPhrases = []string{
	"when can", "how much", "interested in", "sign up", "get started",
	"ready to", "want to buy", "send me the",
}
