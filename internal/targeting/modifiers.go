package targeting

// Search-type modifiers. Each template has exactly one substitution
// point receiving the raw query; the template itself supplies the
// surrounding quotes and the OR-joined keyword set for the category.
// Tags missing from this table leave the query untouched.
var defaultModifiers = map[string]string{
	"criminal":   `"%s" (arrest OR criminal OR conviction OR mugshot OR court)`,
	"court":      `"%s" (lawsuit OR docket OR plaintiff OR defendant OR judgment)`,
	"property":   `"%s" (property OR deed OR assessor OR parcel OR "real estate")`,
	"social":     `"%s" (facebook OR instagram OR linkedin OR twitter OR profile)`,
	"business":   `"%s" (company OR LLC OR corporation OR owner OR registration)`,
	"contact":    `"%s" ("phone number" OR email OR address OR contact)`,
	"news":       `"%s" (news OR article OR press OR interview)`,
	"obituary":   `"%s" (obituary OR memorial OR funeral OR survived)`,
	"education":  `"%s" (school OR university OR alumni OR graduation)`,
	"employment": `"%s" (employer OR resume OR "work history" OR staff)`,
}

// Country codes accepted for the upstream gl parameter. Anything else
// falls back to DefaultCountry.
var allowedCountries = map[string]bool{
	"us": true,
	"ca": true,
	"gb": true,
	"au": true,
	"nz": true,
	"ie": true,
	"de": true,
	"fr": true,
	"es": true,
	"it": true,
	"nl": true,
	"se": true,
	"mx": true,
	"br": true,
	"in": true,
	"jp": true,
}

// Countries where a state/province qualifier is meaningful as free
// text appended to the query.
var localityCountries = map[string]bool{
	"us": true,
	"ca": true,
	"au": true,
}

const DefaultCountry = "us"
