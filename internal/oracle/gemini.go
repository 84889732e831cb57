package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/msomdec/skillbarter/internal/domain"
	"google.golang.org/genai"
)

// DefaultModel is the generation model used for every advisory call.
const DefaultModel = "gemini-3-flash-preview"

// GeminiAdvisor implements Advisor against the Gemini API.
type GeminiAdvisor struct {
	client *genai.Client
	model  string
}

// NewGeminiAdvisor creates an advisor backed by the Gemini API.
func NewGeminiAdvisor(ctx context.Context, apiKey, model string) (*GeminiAdvisor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiAdvisor{client: client, model: model}, nil
}

func (g *GeminiAdvisor) SuggestPartners(ctx context.Context, query MatchQuery) ([]string, error) {
	pool, err := json.Marshal(query.Candidates)
	if err != nil {
		return nil, fmt.Errorf("marshal candidate pool: %w", err)
	}

	verb := "learn"
	if query.Mode == domain.ModeTeach {
		verb = "teach"
	}
	prompt := fmt.Sprintf(`Identify partners who are a good match for someone wanting to %s %q.
Available partners: %s.
Return ONLY a JSON array of the IDs.`, verb, query.Skill, pool)

	text, err := g.generateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return ParseIDList(text)
}

func (g *GeminiAdvisor) FocusVerdict(ctx context.Context, topic string) (domain.FocusVerdict, error) {
	prompt := fmt.Sprintf(`You are monitoring a skill exchange session for %q.
Evaluate the session focus based on professional exchange standards.
Return a JSON object:
{
  "isFocused": boolean,
  "violationType": "none" | "off_topic" | "harassment" | "inactivity",
  "feedback": "Short encouraging message",
  "focusScore": number (0-100)
}`, topic)

	text, err := g.generateJSON(ctx, prompt)
	if err != nil {
		return domain.FocusVerdict{}, err
	}
	return ParseVerdict(text)
}

func (g *GeminiAdvisor) Insight(ctx context.Context, account *domain.Account) (string, error) {
	prompt := fmt.Sprintf("Provide a 1-sentence strategic advice for the user based on their skills and the community. User teaches %s and wants to learn %s. Keep it very brief and professional.",
		strings.Join(account.SkillsToTeach, ", "), strings.Join(account.SkillsToLearn, ", "))
	return g.generate(ctx, prompt, nil)
}

func (g *GeminiAdvisor) Chat(ctx context.Context, account *domain.Account, message string, history []Turn) (string, error) {
	system := fmt.Sprintf(`You are the AI Guide for the SkillBarter app.
Your goal is to help users exchange skills efficiently.
User Context: %s, teaching %s, learning %s.
Be professional, helpful, and encourage focused learning.`,
		account.Name, strings.Join(account.SkillsToTeach, ", "), strings.Join(account.SkillsToLearn, ", "))

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		var role genai.Role = genai.RoleUser
		if turn.Role == "model" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("gemini chat: %w", err)
	}
	return resp.Text(), nil
}

func (g *GeminiAdvisor) generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return resp.Text(), nil
}

func (g *GeminiAdvisor) generateJSON(ctx context.Context, prompt string) (string, error) {
	return g.generate(ctx, prompt, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
}
