package domain

// InterestProfile is the user's declared and extracted research interests,
// built once per session from uploaded text plus manual entries.
type InterestProfile struct {
	// Skills holds keyword candidates mined from the uploaded text,
	// lexicographically sorted and capped at 50 entries.
	Skills []string `json:"skills"`

	// Methods holds the subset of skills that belong to the recognized
	// methods vocabulary, capped at 20 entries.
	Methods []string `json:"methods"`

	// Topics is the order-preserving deduplicated union of the user's
	// declared interests (listed first) and the extracted topics.
	Topics []string `json:"topics"`
}
