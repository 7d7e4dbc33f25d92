package merchant

// knownBrands maps lowercase brand tokens to canonical display names. The
// table is static lookup data built once at startup; entries are matched on
// word boundaries inside lowercase descriptions.
var knownBrands = map[string]string{
	// Streaming
	"netflix":         "Netflix",
	"spotify":         "Spotify",
	"disney":          "Disney+",
	"disneyplus":      "Disney+",
	"disney+":         "Disney+",
	"apple music":     "Apple Music",
	"apple tv":        "Apple TV+",
	"applemusic":      "Apple Music",
	"appletv":         "Apple TV+",
	"youtube":         "YouTube",
	"youtube premium": "YouTube Premium",
	"hulu":            "Hulu",
	"prime video":     "Prime Video",
	"primevideo":      "Prime Video",
	"hbo":             "HBO",
	"hbo max":         "HBO Max",
	"paramount":       "Paramount+",

	// Cloud and software
	"aws":                 "AWS",
	"amazon web services": "AWS",
	"google cloud":        "Google Cloud",
	"azure":               "Azure",
	"microsoft":           "Microsoft",
	"microsoft 365":       "Microsoft 365",
	"office 365":          "Microsoft 365",
	"github":              "GitHub",
	"gitlab":              "GitLab",
	"dropbox":             "Dropbox",
	"icloud":              "iCloud",
	"adobe":               "Adobe",
	"figma":               "Figma",
	"slack":               "Slack",
	"zoom":                "Zoom",
	"notion":              "Notion",
	"openai":              "OpenAI",
	"chatgpt":             "OpenAI",
	"anthropic":           "Anthropic",
	"vercel":              "Vercel",
	"heroku":              "Heroku",
	"digitalocean":        "DigitalOcean",

	// E-commerce
	"amazon":     "Amazon",
	"ebay":       "eBay",
	"etsy":       "Etsy",
	"aliexpress": "AliExpress",
	"zalando":    "Zalando",
	"bol.com":    "Bol.com",
	"coolblue":   "Coolblue",
	"asos":       "ASOS",

	// Transport
	"uber":      "Uber",
	"lyft":      "Lyft",
	"bolt":      "Bolt",
	"lime":      "Lime",
	"bird":      "Bird",
	"swapfiets": "Swapfiets",
	"ns.nl":     "NS",

	// Food and delivery
	"deliveroo":    "Deliveroo",
	"uber eats":    "Uber Eats",
	"ubereats":     "Uber Eats",
	"just eat":     "Just Eat",
	"justeat":      "Just Eat",
	"thuisbezorgd": "Thuisbezorgd",
	"doordash":     "DoorDash",
	"grubhub":      "Grubhub",
	"starbucks":    "Starbucks",
	"mcdonalds":    "McDonald's",
	"mcdonald's":   "McDonald's",

	// Utilities and telecom
	"vattenfall":  "Vattenfall",
	"essent":      "Essent",
	"eneco":       "Eneco",
	"greenchoice": "Greenchoice",
	"ziggo":       "Ziggo",
	"kpn":         "KPN",
	"t-mobile":    "T-Mobile",
	"vodafone":    "Vodafone",
	"lebara":      "Lebara",

	// Finance
	"paypal":       "PayPal",
	"stripe":       "Stripe",
	"mollie":       "Mollie",
	"revolut":      "Revolut",
	"wise":         "Wise",
	"transferwise": "Wise",
	"bunq":         "Bunq",
	"n26":          "N26",

	// Fitness
	"basic-fit":        "Basic-Fit",
	"basicfit":         "Basic-Fit",
	"fitfor free":      "Fit For Free",
	"anytime fitness":  "Anytime Fitness",
	"sportcity":        "SportCity",

	// Business services
	"moneybird":  "Moneybird",
	"exact":      "Exact",
	"xero":       "Xero",
	"quickbooks": "QuickBooks",
	"freshbooks": "FreshBooks",
	"mailchimp":  "Mailchimp",
	"intercom":   "Intercom",
	"sendgrid":   "SendGrid",
	"twilio":     "Twilio",
}
