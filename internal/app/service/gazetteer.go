package service

// countryGazetteer is the ordered list of country and region names matched
// case-insensitively against product names. The first match wins; no match
// leaves a product without a country. The list is a heuristic, not an atlas:
// unlisted places simply stay untagged, and a country name appearing inside
// an unrelated product name is an accepted false positive.
var countryGazetteer = []string{
	// Europe
	"Netherlands",
	"Germany",
	"France",
	"Spain",
	"Portugal",
	"Italy",
	"Greece",
	"Austria",
	"Switzerland",
	"Belgium",
	"Luxembourg",
	"United Kingdom",
	"England",
	"Scotland",
	"Wales",
	"Ireland",
	"Iceland",
	"Norway",
	"Sweden",
	"Finland",
	"Denmark",
	"Poland",
	"Czechia",
	"Slovakia",
	"Hungary",
	"Romania",
	"Bulgaria",
	"Croatia",
	"Slovenia",
	"Serbia",
	"Albania",
	"Estonia",
	"Latvia",
	"Lithuania",
	"Ukraine",
	"Türkiye",
	"Turkey",

	// Americas
	"United States",
	"USA",
	"Canada",
	"Mexico",
	"Guatemala",
	"Costa Rica",
	"Panama",
	"Cuba",
	"Colombia",
	"Venezuela",
	"Ecuador",
	"Peru",
	"Bolivia",
	"Brazil",
	"Chile",
	"Argentina",
	"Uruguay",
	"Paraguay",

	// Asia
	"Japan",
	"South Korea",
	"China",
	"Taiwan",
	"Mongolia",
	"India",
	"Nepal",
	"Sri Lanka",
	"Thailand",
	"Vietnam",
	"Cambodia",
	"Laos",
	"Malaysia",
	"Singapore",
	"Indonesia",
	"Philippines",
	"Israel",
	"Jordan",
	"Lebanon",
	"Georgia",
	"Armenia",
	"Kazakhstan",
	"Uzbekistan",

	// Africa
	"Morocco",
	"Tunisia",
	"Egypt",
	"Kenya",
	"Tanzania",
	"Ethiopia",
	"Ghana",
	"Nigeria",
	"Namibia",
	"Botswana",
	"South Africa",
	"Madagascar",

	// Oceania
	"Australia",
	"New Zealand",
	"Fiji",

	// Continents and catch-all
	"Europe",
	"Africa",
	"Asia",
	"Antarctica",
	"World",
}
