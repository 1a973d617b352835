package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	requestTimeout = 120 * time.Second
	retryDelay     = time.Second
)

// Message is one chat turn sent to the text-generation service.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Temperature float64   `json:"temperature"`
	Messages    []Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxRetries  int
	client      *http.Client
}

func NewClient(apiKey, baseURL, model string, temperature float64, maxRetries int) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Client{
		apiKey:      apiKey,
		baseURL:     baseURL,
		model:       model,
		temperature: temperature,
		maxRetries:  maxRetries,
		client:      &http.Client{Timeout: requestTimeout},
	}
}

// Generate sends the messages and returns the completion text. Each
// attempt that fails is retried after a fixed short delay; once the
// attempts are exhausted the last error is returned.
func (c *Client) Generate(messages []Message) (string, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		result, err := c.callAPI(messages)
		if err == nil {
			return result, nil
		}
		lastErr = err
		log.Printf("text generation failed (attempt %d/%d): %v", attempt+1, c.maxRetries, err)
		if attempt < c.maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	return "", fmt.Errorf("text generation failed after %d attempts, last error: %w", c.maxRetries, lastErr)
}

func (c *Client) callAPI(messages []Message) (string, error) {
	requestBody := chatRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages:    messages,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("marshalling JSON: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("unmarshalling response: %w", err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	return chatResp.Choices[0].Message.Content, nil
}
