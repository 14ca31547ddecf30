package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/meenatech/ghumakad-api/internal/repository/ports"
)

// Generator submits itinerary instructions to the Gemini API with a
// schema-constrained JSON response.
type Generator struct {
	apiKey string
	model  string
}

const defaultModel = "gemini-3-pro-preview"

func NewGenerator(apiKey, model string) *Generator {
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	return &Generator{apiKey: apiKey, model: model}
}

func (g *Generator) Generate(ctx context.Context, req ports.GenerationRequest) (string, error) {
	if strings.TrimSpace(g.apiKey) == "" {
		return "", ports.ErrMissingCredential
	}

	// A fresh client per call picks up the most recently injected key.
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: g.apiKey})
	if err != nil {
		return "", fmt.Errorf("gemini: create client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   itinerarySchema(),
	}
	if strings.TrimSpace(req.System) != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(req.Instruction), config)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	return resp.Text(), nil
}

// itinerarySchema pins the response shape the model must emit: a plan object
// with one entry per day and the required activity slots filled in.
func itinerarySchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"destination": {Type: genai.TypeString},
			"totalDays":   {Type: genai.TypeNumber},
			"travelType":  {Type: genai.TypeString},
			"budget":      {Type: genai.TypeString},
			"days": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"day":       {Type: genai.TypeNumber},
						"morning":   {Type: genai.TypeString},
						"afternoon": {Type: genai.TypeString},
						"evening":   {Type: genai.TypeString},
						"food": {
							Type:  genai.TypeArray,
							Items: &genai.Schema{Type: genai.TypeString},
						},
						"travelTips": {
							Type:        genai.TypeString,
							Description: "Geographical optimization tip or hidden gem nearby",
						},
					},
					Required: []string{"day", "morning", "afternoon", "evening", "food", "travelTips"},
				},
			},
			"mustKnowTips": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"commonMistakes": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"destination", "totalDays", "travelType", "budget", "days", "mustKnowTips", "commonMistakes"},
	}
}

var _ ports.ItineraryGenerator = (*Generator)(nil)
