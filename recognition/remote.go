package recognition

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// RemoteExtractor calls a face-detection sidecar over HTTP. The sidecar
// receives a base64 image and responds with either an embedding or a
// typed fault. The fault string is mapped to a sentinel error here, at
// the wire boundary, and nowhere else.
type RemoteExtractor struct {
	URL    string
	Client *http.Client
}

func NewRemoteExtractor(url string) *RemoteExtractor {
	return &RemoteExtractor{
		URL: url,
		// No client timeout: the admission pipeline bounds the call with
		// its own deadline and cancels the request context.
		Client: &http.Client{},
	}
}

type extractRequest struct {
	Image string `json:"image"`
}

type extractResponse struct {
	Embedding Embedding `json:"embedding"`
	Fault     string    `json:"fault"`
	Faces     int       `json:"faces"`
}

func (e *RemoteExtractor) Extract(ctx context.Context, imageBase64 string) (Embedding, error) {
	// Browsers send data URLs; the sidecar wants the raw payload.
	if i := strings.IndexByte(imageBase64, ','); i >= 0 {
		imageBase64 = imageBase64[i+1:]
	}

	body, err := json.Marshal(extractRequest{Image: imageBase64})
	if err != nil {
		return nil, fmt.Errorf("encoding extract request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building extract request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling extractor: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading extractor response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusUnprocessableEntity {
		return nil, fmt.Errorf("extractor returned status %d", resp.StatusCode)
	}

	var out extractResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding extractor response: %w", err)
	}

	switch out.Fault {
	case "":
		// fall through to the embedding
	case "no_face":
		return nil, ErrNoFace
	case "multiple_faces":
		return nil, ErrMultipleFaces
	case "bad_image":
		return nil, ErrBadImage
	default:
		return nil, fmt.Errorf("extractor reported unknown fault %q", out.Fault)
	}

	if !out.Embedding.Valid() {
		return nil, ErrMalformedEmbedding
	}
	return out.Embedding, nil
}
