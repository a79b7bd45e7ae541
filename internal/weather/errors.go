package weather

import "errors"

var (
	// ErrEmptyQuery is returned when the trimmed query is empty.
	ErrEmptyQuery = errors.New("query is empty")
	// ErrNotFound is returned when the API reports the location as unknown.
	ErrNotFound = errors.New("location not found")
	// ErrUpstream covers transport failures and non-success statuses.
	ErrUpstream = errors.New("weather request failed")
	// ErrDecode is returned when a response body is not the expected JSON.
	ErrDecode = errors.New("malformed weather payload")
)

// FetchFailedMessage is the single user-visible message for every failed fetch.
const FetchFailedMessage = "Failed to fetch weather data"
