package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/Jemo69/umbc-hackathon/internal/domain"
)

// VertexClient is an alternative completion client backed by Vertex AI
// (Gemini), for deployments that already live on GCP.
type VertexClient struct {
	client    *genai.Client
	modelName string
}

func NewVertexClient(ctx context.Context, projectID, location, modelName string) (*VertexClient, error) {
	if projectID == "" || location == "" {
		return nil, fmt.Errorf("vertex: project and location are required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("vertex: creating client: %w", err)
	}

	return &VertexClient{client: client, modelName: modelName}, nil
}

func (v *VertexClient) Enabled() bool {
	return true
}

func (v *VertexClient) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	temp := float32(0.5)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       &temp,
	}

	contents := []*genai.Content{genai.NewContentFromText(userText, genai.RoleUser)}

	res, err := v.client.Models.GenerateContent(ctx, v.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("vertex: generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", domain.ErrUnexpectedCompletion
	}
	return text, nil
}
