package domain

// SourceWord is a word the user is quizzed on
type SourceWord struct {
	ID   int64
	Text string
}

// Translation is a target-language equivalent of a source word
type Translation struct {
	ID           int64
	SourceWordID int64
	Text         string
}

// VisibilityEntry marks a word as active in a user's quiz rotation
type VisibilityEntry struct {
	UserID       int64
	SourceWordID int64
}

// SeedEntry is one source word -> translation pair from seed data
type SeedEntry struct {
	Word        string
	Translation string
}
