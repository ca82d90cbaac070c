package models

// Term identifies a registration term, for example "202608" (year + month the term starts).
type Term string

// SearchOutcome is the recorded result of a fresh schedule search
type SearchOutcome string

const (
	SearchOutcomeFound   SearchOutcome = "FOUND"   // at least one schedule returned
	SearchOutcomeNone    SearchOutcome = "NONE"    // the combination space held no valid schedule
	SearchOutcomeTimeout SearchOutcome = "TIMEOUT" // the time budget ran out with nothing found
)
