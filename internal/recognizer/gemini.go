package recognizer

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"

	"github.com/muhammadolammi/resumeanalyzer/internal/logger"
)

const (
	DefaultGeminiModel = "gemini-2.5-flash"
	agentName          = "entity_recognizer"
	agentUserID        = "resume-analyzer"
)

// Gemini recognizes entities by prompting a Gemini model through an ADK
// runner. One runner is shared by all calls; every call gets its own
// short-lived session.
type Gemini struct {
	runner   *runner.Runner
	sessions session.Service
	appName  string
}

func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	model, err := gemini.NewModel(ctx, modelName, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %w", err)
	}

	nerAgent, err := llmagent.New(llmagent.Config{
		Name:        agentName,
		Model:       model,
		Description: "Recognize named entities in resume text",
		Instruction: prompt(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	sessions := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        nerAgent.Name(),
		Agent:          nerAgent,
		SessionService: sessions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	return &Gemini{
		runner:   r,
		sessions: sessions,
		appName:  nerAgent.Name(),
	}, nil
}

func (g *Gemini) Recognize(ctx context.Context, text string) iter.Seq2[Entity, error] {
	return Func(g.recognize).Recognize(ctx, text)
}

// endSession drops a finished session. Failures are only logged.
func (g *Gemini) endSession(ctx context.Context, s session.Session) {
	err := g.sessions.Delete(ctx, &session.DeleteRequest{
		AppName:   s.AppName(),
		UserID:    s.UserID(),
		SessionID: s.ID(),
	})
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("agent_session", s.ID()).Msg("failed to delete agent session")
	}
}

func (g *Gemini) recognize(ctx context.Context, text string) ([]Entity, error) {
	created, err := g.sessions.Create(ctx, &session.CreateRequest{
		AppName:   g.appName,
		UserID:    agentUserID,
		SessionID: uuid.NewString(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent session: %w", err)
	}
	defer g.endSession(context.WithoutCancel(ctx), created.Session)

	stream := g.runner.Run(ctx, created.Session.UserID(), created.Session.ID(), &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{Text: text},
		},
	}, agent.RunConfig{})

	var output string
	for event, err := range stream {
		if err != nil {
			return nil, err
		}
		if event != nil && event.IsFinalResponse() && event.Content != nil && len(event.Content.Parts) > 0 {
			output = event.Content.Parts[0].Text
		}
	}
	return parseEntities(output)
}

func parseEntities(output string) ([]Entity, error) {
	if strings.TrimSpace(output) == "" {
		return nil, fmt.Errorf("empty agent response")
	}

	var raw []Entity
	if err := json.Unmarshal([]byte(cleanJSON(output)), &raw); err != nil {
		return nil, fmt.Errorf("json unmarshal error: %w", err)
	}

	entities := raw[:0]
	for _, e := range raw {
		e.Group = strings.ToUpper(strings.TrimSpace(e.Group))
		e.Word = strings.TrimSpace(e.Word)
		if e.Word == "" {
			continue
		}
		entities = append(entities, e)
	}
	return entities, nil
}

// cleanJSON strips the markdown code fence models like to wrap JSON in.
func cleanJSON(input string) string {
	clean := strings.TrimSpace(input)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")

	return strings.TrimSpace(clean)
}
