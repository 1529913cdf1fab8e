package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"report-desk/internal/logger"
	"report-desk/internal/report"
)

const parserPrompt = `You are a task parser. Extract project details from user input. Return a JSON object with keys: projectName, projectType, assignedBy, remarks. If a value is missing, infer a professional one or use "General" for type and "Self" for assignedBy. Only return the JSON object.`

// TaskParser turns free-text task descriptions into structured fields
// via an LLM endpoint. Parsing never hard-fails: any error degrades to
// the deterministic fallback.
type TaskParser struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func NewTaskParser(baseURL, apiKey, model string) *TaskParser {
	return &TaskParser{baseURL: baseURL, apiKey: apiKey, model: model, client: &http.Client{}}
}

// Fallback is the deterministic record used whenever parsing fails.
func Fallback(text string) report.Seed {
	return report.Seed{
		ProjectName: text,
		ProjectType: "General",
		AssignedBy:  "Self",
		Remarks:     "",
	}
}

// Parse extracts task fields from free text. The boolean reports
// whether the fallback was used, so callers can show a soft notice.
func (p *TaskParser) Parse(ctx context.Context, text string) (report.Seed, bool) {
	if p.baseURL == "" {
		return Fallback(text), true
	}

	raw, err := p.chat(ctx, parserPrompt, text)
	if err != nil {
		logger.Warn("parse.fallback", "err", err)
		return Fallback(text), true
	}

	var parsed report.Seed
	if err := json.Unmarshal([]byte(stripFences(raw)), &parsed); err != nil {
		logger.Warn("parse.fallback", "err", err, "raw", raw)
		return Fallback(text), true
	}
	if parsed.ProjectName == "" {
		return Fallback(text), true
	}
	if parsed.ProjectType == "" {
		parsed.ProjectType = "General"
	}
	if parsed.AssignedBy == "" {
		parsed.AssignedBy = "Self"
	}
	return parsed, false
}

func (p *TaskParser) chat(ctx context.Context, system, user string) (string, error) {
	body := map[string]interface{}{
		"model": p.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}
	payload, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("llm status %d: %s", resp.StatusCode, data)
	}

	data, _ := io.ReadAll(resp.Body)
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("empty choices")
	}
	return result.Choices[0].Message.Content, nil
}

// stripFences removes a markdown code fence some models wrap around
// JSON output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
