package parser

// Labels expected by the ingestion API, keyed by the code used in the rates file.
var currencyNames = map[string]string{
	"EUR": "🇪🇺 EUR",
	"USD": "🇺🇸 USD",
	"CHF": "🇨🇭 CHF",
	"GBP": "🇬🇧 GBP",
	"CAD": "🇨🇦 CAD",
	"AUD": "🇦🇺 AUD",
	"SEK": "🇸🇪 SEK",
	"NOK": "🇳🇴 NOK",
	"DKK": "🇩🇰 DKK",
	"UAH": "🇺🇦 UAH",
	"BGN": "🇧🇬 BGN",
	"HUF": "🇭🇺 HUF",
	"CZK": "🇨🇿 CZK",
	"RON": "🇷🇴 RON",
}

var rateTypes = map[string]string{
	"ku": " Buy",
	"sp": " Sell",
}

// Still written by the exporter but no longer accepted by the API.
var deprecatedCodes = map[string]struct{}{
	"HRK": {},
	"EUB": {},
}
