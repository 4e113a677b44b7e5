package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Result is the prediction payload returned by the ML service.
type Result struct {
	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
	Details    string  `json:"details"`
}

// Client calls the external medical-image inference service.
type Client interface {
	AnalyzeImage(ctx context.Context, modelID, filename string, image []byte) (*Result, error)
	AnalyzeValues(ctx context.Context, modelID string, values map[string]float64) (*Result, error)
}

// HTTPClient talks to the Flask AI server over plain HTTP. The timeout is
// generous: the free-tier model host cold-starts.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) AnalyzeImage(ctx context.Context, modelID, filename string, image []byte) (*Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("imageFile", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}
	if err := writer.WriteField("modelId", modelID); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze-image", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req)
}

func (c *HTTPClient) AnalyzeValues(ctx context.Context, modelID string, values map[string]float64) (*Result, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"modelId": modelID,
		"values":  values,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze-values", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *HTTPClient) do(req *http.Request) (*Result, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var remote struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &remote) == nil && remote.Error != "" {
			return nil, fmt.Errorf("inference service: %s (status %d)", remote.Error, resp.StatusCode)
		}
		return nil, fmt.Errorf("inference service returned status %d", resp.StatusCode)
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("invalid inference response: %w", err)
	}
	return &result, nil
}
