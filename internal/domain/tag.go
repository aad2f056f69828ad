package domain

// Tag is a shared label; Name is the natural key in canonical form
// (lowercase, single leading '#').
type Tag struct {
	ID   int64
	Name string
}

// EventTag links an event to a tag. Rows are replaced wholesale by the
// tag service; duplicates for the same pair are allowed.
type EventTag struct {
	ID      int64
	EventID int64
	TagID   int64
}
