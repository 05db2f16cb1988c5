package db

// KeyQuery is the input for a key-only FT.SEARCH.
type KeyQuery struct {
	IndexName string
	Query     string
	Offset    int
	Limit     int
}

// KeyResult is the output of a key-only search.
type KeyResult struct {
	Total int
	Keys  []string
}
