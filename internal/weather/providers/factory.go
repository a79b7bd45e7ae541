package providers

import (
	"fmt"
	"net/http"

	"github.com/i474232898/weather-view/internal/weather"
)

// Endpoint shapes understood by New.
const (
	ShapeSplit        = "split"
	ShapeCombinedGet  = "combined-get"
	ShapeCombinedPost = "combined-post"
)

// New returns the client for the given endpoint shape.
func New(shape string, client *http.Client, baseURL string) (weather.Client, error) {
	switch shape {
	case ShapeSplit:
		return NewSplitClient(client, baseURL), nil
	case ShapeCombinedGet:
		return NewCombinedClient(client, baseURL, http.MethodGet)
	case ShapeCombinedPost:
		return NewCombinedClient(client, baseURL, http.MethodPost)
	default:
		return nil, fmt.Errorf("unknown api shape %q", shape)
	}
}
