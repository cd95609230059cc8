package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
	model      = "claude-3-haiku-20240307"
	maxTokens  = 1024
)

// Client defines the advisory text generation interface. Both calls are
// opaque request/response operations with no retry, caching or streaming.
type Client interface {
	GenerateHealthAlert(ctx context.Context, input HealthAlertInput) (HealthAlertReport, error)
	GenerateGrowthInsight(ctx context.Context, input GrowthInsightInput) (GrowthInsightReport, error)
}

// HealthAlertInput describes an animal and its observed symptoms.
type HealthAlertInput struct {
	Species   string  `json:"species"`
	AgeMonths int     `json:"ageMonths"`
	WeightKg  float64 `json:"weightKg"`
	Symptoms  string  `json:"symptoms"`
}

// HealthAlertReport is the structured advisory result for a health check.
type HealthAlertReport struct {
	RiskLevel          string   `json:"riskLevel"`
	PotentialIssues    []string `json:"potentialIssues"`
	RecommendedActions []string `json:"recommendedActions"`
}

// GrowthInsightInput describes an animal for growth and husbandry advice.
type GrowthInsightInput struct {
	Species   string  `json:"species"`
	AgeMonths int     `json:"ageMonths"`
	WeightKg  float64 `json:"weightKg"`
	Lot       string  `json:"lot"`
	Notes     string  `json:"notes"`
}

// GrowthInsightReport is the structured advisory result for growth planning.
type GrowthInsightReport struct {
	EstimatedSaleWeightKg float64 `json:"estimatedSaleWeightKg"`
	WeightGainAdvice      string  `json:"weightGainAdvice"`
	GestationAlert        string  `json:"gestationAlert,omitempty"`
}

type anthropicClient struct {
	httpClient *resty.Client
}

// NewClient creates a configured Anthropic client.
func NewClient(apiKey string) Client {
	client := resty.New().
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(30 * time.Second)

	return &anthropicClient{httpClient: client}
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

const healthAlertSystem = `You are an expert veterinarian specializing in early disease detection in farm animals.
Based on the animal data in the user message, assess the health risk.
Your output must be ONLY a JSON object with this structure:
{
	"riskLevel": "Low" | "Medium" | "High" | "Critical",
	"potentialIssues": ["list of potential health issues or diseases"],
	"recommendedActions": ["list of immediate actions for the farmer"]
}
Be clear, concise and actionable for a non-expert. If the symptoms are benign, say the risk is Low.`

const growthInsightSystem = `You are an expert livestock advisor.
Based on the animal data in the user message, produce growth and husbandry guidance.
Your output must be ONLY a JSON object with this structure:
{
	"estimatedSaleWeightKg": (number, realistic market weight for the species),
	"weightGainAdvice": "short feeding and husbandry advice",
	"gestationAlert": "only present when the notes suggest gestation, otherwise an empty string"
}
Be concise and practical.`

// GenerateHealthAlert returns a structured risk assessment for the animal.
func (c *anthropicClient) GenerateHealthAlert(ctx context.Context, input HealthAlertInput) (HealthAlertReport, error) {
	prompt := fmt.Sprintf("Species: %s\nAge: %d months\nWeight: %.1f kg\nSymptoms: %s",
		input.Species, input.AgeMonths, input.WeightKg, input.Symptoms)

	var report HealthAlertReport
	if err := c.generate(ctx, healthAlertSystem, prompt, &report); err != nil {
		return HealthAlertReport{}, err
	}
	return report, nil
}

// GenerateGrowthInsight returns structured growth guidance for the animal.
func (c *anthropicClient) GenerateGrowthInsight(ctx context.Context, input GrowthInsightInput) (GrowthInsightReport, error) {
	prompt := fmt.Sprintf("Species: %s\nAge: %d months\nWeight: %.1f kg\nLot: %s\nNotes: %s",
		input.Species, input.AgeMonths, input.WeightKg, input.Lot, input.Notes)

	var report GrowthInsightReport
	if err := c.generate(ctx, growthInsightSystem, prompt, &report); err != nil {
		return GrowthInsightReport{}, err
	}
	return report, nil
}

func (c *anthropicClient) generate(ctx context.Context, system, prompt string, out any) error {
	reqBody := messageRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    system,
		Messages: []message{
			{Role: "user", Content: prompt},
			// Prefill the assistant response to force JSON output.
			{Role: "assistant", Content: "{"},
		},
	}

	var respBody messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		Post(apiURL)

	if err != nil {
		return fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("anthropic api error: %s", resp.String())
	}
	if len(respBody.Content) == 0 {
		return fmt.Errorf("empty response from ai")
	}

	// Reconstruct the full JSON since we prefilled the opening brace.
	responseText := sanitizeJSON("{" + respBody.Content[0].Text)

	if err := json.Unmarshal([]byte(responseText), out); err != nil {
		return fmt.Errorf("failed to unmarshal ai response: %w. Response was: %s", err, responseText)
	}
	return nil
}

// sanitizeJSON strips markdown code fences the model occasionally wraps
// around the payload.
func sanitizeJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}
