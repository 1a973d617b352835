package images

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	requestTimeout = 300 * time.Second
	maxRetries     = 3
	retryDelay     = time.Second
)

// Generator produces image bytes for a fully enhanced prompt.
type Generator interface {
	Generate(prompt string) ([]byte, error)
}

// ReplicateConfig mirrors the replicate model input payload.
type ReplicateConfig struct {
	Model                string
	AspectRatio          string
	NumInferenceSteps    int
	DisableSafetyChecker bool
	Guidance             float64
	OutputQuality        int
}

// ReplicateClient drives a flux model on replicate. Rate-limit errors
// advertise their cooldown ("resets in ~42s") and the client honors it;
// billing failures abort immediately since retrying cannot help.
type ReplicateClient struct {
	apiKey string
	cfg    ReplicateConfig
	client *http.Client
}

func NewReplicateClient(apiKey string, cfg ReplicateConfig) *ReplicateClient {
	return &ReplicateClient{
		apiKey: apiKey,
		cfg:    cfg,
		client: &http.Client{Timeout: requestTimeout},
	}
}

var cooldownRe = regexp.MustCompile(`resets in ~?(\d+)s`)

func (c *ReplicateClient) Generate(prompt string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		data, err := c.run(prompt)
		if err == nil {
			return data, nil
		}
		lastErr = err

		errStr := err.Error()
		if strings.Contains(errStr, "status 402") || strings.Contains(errStr, "Insufficient credit") {
			return nil, fmt.Errorf("insufficient credit: %w", err)
		}
		log.Printf("replicate request failed (attempt %d/%d): %v", attempt+1, maxRetries, err)
		if attempt < maxRetries-1 {
			time.Sleep(cooldownFor(errStr))
		}
	}
	return nil, fmt.Errorf("replicate request failed after %d attempts: %w", maxRetries, lastErr)
}

// cooldownFor extracts the advertised rate-limit wait, defaulting to the
// fixed retry delay.
func cooldownFor(errStr string) time.Duration {
	if m := cooldownRe.FindStringSubmatch(errStr); m != nil {
		if secs, err := strconv.Atoi(m[1]); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return retryDelay
}

type replicatePrediction struct {
	Output json.RawMessage `json:"output"`
	Error  string          `json:"error"`
	Status string          `json:"status"`
}

func (c *ReplicateClient) run(prompt string) ([]byte, error) {
	payload := map[string]interface{}{
		"input": map[string]interface{}{
			"prompt":                 prompt,
			"aspect_ratio":           c.cfg.AspectRatio,
			"num_inference_steps":    c.cfg.NumInferenceSteps,
			"disable_safety_checker": c.cfg.DisableSafetyChecker,
			"guidance":               c.cfg.Guidance,
			"output_quality":         c.cfg.OutputQuality,
		},
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshalling JSON: %w", err)
	}

	url := fmt.Sprintf("https://api.replicate.com/v1/models/%s/predictions", c.cfg.Model)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Prefer", "wait")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("replicate API returned status %d: %s", resp.StatusCode, string(body))
	}

	var prediction replicatePrediction
	if err := json.Unmarshal(body, &prediction); err != nil {
		return nil, fmt.Errorf("unmarshalling response: %w", err)
	}
	if prediction.Error != "" {
		return nil, fmt.Errorf("replicate prediction error: %s", prediction.Error)
	}

	imageURL, err := firstOutputURL(prediction.Output)
	if err != nil {
		return nil, err
	}
	return c.download(imageURL)
}

// firstOutputURL handles both output shapes the flux models emit: a
// single URL string or a list of URLs.
func firstOutputURL(output json.RawMessage) (string, error) {
	if len(output) == 0 {
		return "", fmt.Errorf("prediction has no output")
	}
	var single string
	if err := json.Unmarshal(output, &single); err == nil && single != "" {
		return single, nil
	}
	var many []string
	if err := json.Unmarshal(output, &many); err == nil && len(many) > 0 {
		return many[0], nil
	}
	return "", fmt.Errorf("prediction output has no image URL")
}

func (c *ReplicateClient) download(url string) ([]byte, error) {
	resp, err := c.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("downloading image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// FalConfig mirrors the fal model arguments.
type FalConfig struct {
	Model               string
	ImageSize           string
	NumImages           int
	NumInferenceSteps   int
	EnableSafetyChecker bool
}

// FalClient drives a flux model on fal with a plain fixed-delay retry.
type FalClient struct {
	apiKey string
	cfg    FalConfig
	client *http.Client
}

func NewFalClient(apiKey string, cfg FalConfig) *FalClient {
	return &FalClient{
		apiKey: apiKey,
		cfg:    cfg,
		client: &http.Client{Timeout: requestTimeout},
	}
}

type falResponse struct {
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
}

func (c *FalClient) Generate(prompt string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		data, err := c.run(prompt)
		if err == nil {
			return data, nil
		}
		lastErr = err
		log.Printf("fal request failed (attempt %d/%d): %v", attempt+1, maxRetries, err)
		if attempt < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	return nil, fmt.Errorf("fal request failed after %d attempts: %w", maxRetries, lastErr)
}

func (c *FalClient) run(prompt string) ([]byte, error) {
	payload := map[string]interface{}{
		"prompt":                prompt,
		"image_size":            c.cfg.ImageSize,
		"num_images":            c.cfg.NumImages,
		"num_inference_steps":   c.cfg.NumInferenceSteps,
		"enable_safety_checker": c.cfg.EnableSafetyChecker,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshalling JSON: %w", err)
	}

	req, err := http.NewRequest("POST", "https://fal.run/"+c.cfg.Model, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Key "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fal API returned status %d: %s", resp.StatusCode, string(body))
	}

	var falResp falResponse
	if err := json.Unmarshal(body, &falResp); err != nil {
		return nil, fmt.Errorf("unmarshalling response: %w", err)
	}
	if len(falResp.Images) == 0 || falResp.Images[0].URL == "" {
		return nil, fmt.Errorf("no image URL in response")
	}

	imgResp, err := c.client.Get(falResp.Images[0].URL)
	if err != nil {
		return nil, fmt.Errorf("downloading image: %w", err)
	}
	defer imgResp.Body.Close()
	if imgResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download returned status %d", imgResp.StatusCode)
	}
	return io.ReadAll(imgResp.Body)
}
