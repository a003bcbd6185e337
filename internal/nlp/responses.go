package nlp

import (
	"github.com/google/uuid"

	"github.com/andrei-vlg/shopmind/internal/nlp/lexicon"
)

// canned holds the fixed response template for every non-category intent.
type canned struct {
	message     string
	link        string
	hasLink     bool
	adminIssued bool
}

var cannedByIntent = map[lexicon.Intent]canned{
	lexicon.IntentLogin: {
		message: "You’re already signed in 🎉\n\nIf you need the sign-in page (e.g., to switch accounts), open it here.",
		link:    "/login",
		hasLink: true,
	},
	lexicon.IntentLogout: {
		message: "Got it—here’s how to log out 👋\n\n1) Open your Dashboard\n2) Click your profile avatar (top-right)\n3) Choose “Log out”.\n\nYou can sign back in anytime.",
		link:    "/dashboard",
		hasLink: true,
	},
	lexicon.IntentRegister: {
		message: "Looks like you already have an account and you’re signed in 🙌\n\nIf you still want the registration page (for a teammate, etc.), open it here.",
		link:    "/register",
		hasLink: true,
	},
	lexicon.IntentVoice: {
		message: "Voice search is ready to use 🎤\n\nGo to the Dashboard and look for the microphone next to the search bar (top-left).\n Tap it, press START , then say what you need. If prompted, allow mic access.",
		link:    "/dashboard",
		hasLink: true,
	},
	lexicon.IntentOrder: {
		message: "Let’s check your orders 🧾\n\nOpen your Dashboard → Orders to track shipments, view status, cancel items, or start a return. Paste an order number here if you want me to jump straight to it.",
		link:    "/orders",
		hasLink: true,
	},
	lexicon.IntentRequestBrand: {
		message: "You can open the brand request page if you don’t see a brand listed yet.☕ ",
		link:    "/request-brand",
		hasLink: true,
	},
	lexicon.IntentAdmin: {
		message:     "Connecting you with an administrator 👤💬\n\nYou will be able to describe the issue through chat messages with them in a moment...",
		adminIssued: true,
	},
}

// fallbackCanned is returned for intents with no template of their own.
var fallbackCanned = canned{
	message: "I’m here to help 😊\n\nAsk me to find products (e.g., “find gaming laptops”), manage your account (“how do I log out?”), or filter by brand (“show Samsung phones”).",
}

// cannedResponse materialises the template for intent into a [Result].
func cannedResponse(intent lexicon.Intent, userID *uuid.UUID) Result {
	tpl, ok := cannedByIntent[intent]
	if !ok {
		tpl = fallbackCanned
	}
	res := Result{
		UserID:      userID,
		Message:     tpl.message,
		AdminIssued: tpl.adminIssued,
	}
	if tpl.hasLink {
		link := tpl.link
		res.Link = &link
	}
	return res
}
