package dto

// Page is the envelope for paginated listings. Next and Previous are
// absolute URLs or null.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}
