package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/jwebster45206/storyforge/pkg/state"
	"github.com/jwebster45206/storyforge/pkg/story"
)

// playResponse matches the play endpoints' response shape.
type playResponse struct {
	State *state.PlayState `json:"state"`
	Node  story.StoryNode  `json:"node"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func listStories(client *http.Client, baseURL string) ([]string, error) {
	resp, err := client.Get(baseURL + "/v1/stories")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func startSession(client *http.Client, baseURL string, storyID string) (*playResponse, error) {
	jsonData, err := json.Marshal(map[string]string{"story_id": storyID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/play",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	return decodePlayResponse(resp, http.StatusCreated)
}

func getSession(client *http.Client, baseURL string, sessionID uuid.UUID) (*playResponse, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/play/%s", baseURL, sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	return decodePlayResponse(resp, http.StatusOK)
}

func chooseOption(client *http.Client, baseURL string, sessionID uuid.UUID, choiceID string) (*playResponse, error) {
	jsonData, err := json.Marshal(map[string]string{"choice_id": choiceID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		fmt.Sprintf("%s/v1/play/%s/choice", baseURL, sessionID),
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	return decodePlayResponse(resp, http.StatusOK)
}

func decodePlayResponse(resp *http.Response, wantStatus int) (*playResponse, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("play request failed: %s", errorResp.Error)
	}

	var pr playResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("failed to parse play response: %w", err)
	}
	return &pr, nil
}
