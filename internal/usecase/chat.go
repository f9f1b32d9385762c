package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fairyhunter13/ai-job-matcher/internal/adapter/ai"
	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
	"github.com/fairyhunter13/ai-job-matcher/internal/observability"
)

// chatContextJobs caps how many postings are inlined into the advisor prompt.
const chatContextJobs = 8

// ChatService answers free-form career questions grounded in the current
// job pool. It never fails: AI unavailability degrades to a canned reply.
type ChatService struct {
	AI      domain.AIClient
	Jobs    *JobService
	cleaner *ai.ResponseCleaner
}

// NewChatService constructs a ChatService.
func NewChatService(client domain.AIClient, jobs *JobService) *ChatService {
	return &ChatService{AI: client, Jobs: jobs, cleaner: ai.NewResponseCleaner()}
}

const chatSystemPrompt = "You are an expert career advisor and job search consultant with 15+ years of experience."

// Assist answers the user query against the currently browsable jobs.
func (s *ChatService) Assist(ctx context.Context, query string) string {
	lg := observability.LoggerFromContext(ctx)

	pool, _ := s.Jobs.Browse(ctx, "", "")
	if len(pool) > chatContextJobs {
		pool = pool[:chatContextJobs]
	}
	var lines []string
	for _, j := range pool {
		lines = append(lines, fmt.Sprintf("- %s at %s (%s) - %s", j.Title, j.Company, j.Location, j.Salary))
	}
	jobContext := strings.Join(lines, "\n")
	if jobContext == "" {
		jobContext = "Currently loading job listings..."
	}

	user := fmt.Sprintf(`AVAILABLE POSITIONS:
%s

USER QUESTION:
%q

Provide a helpful, professional response that directly addresses the
question, offers specific actionable advice, references relevant jobs from
the list when applicable, and stays concise (3-4 sentences max).

Return ONLY valid JSON (no markdown, no code blocks):
{
  "explanation": "<your professional response>"
}`, jobContext, query)

	raw, err := s.AI.ChatJSON(ctx, chatSystemPrompt, user, 500)
	if err != nil {
		lg.Warn("chat assistant AI call failed, using canned reply", slog.Any("error", err))
		observability.AIFallbacksTotal.WithLabelValues("chat").Inc()
		return "I'm here to help with your job search. Feel free to ask about specific roles, companies, or career advice."
	}

	var out struct {
		Explanation string `json:"explanation"`
	}
	if err := json.Unmarshal([]byte(s.cleaner.CleanJSONResponse(raw)), &out); err == nil && out.Explanation != "" {
		return out.Explanation
	}
	// Unparsable but non-empty output is still usable prose.
	if cleaned := strings.TrimSpace(raw); cleaned != "" {
		return cleaned
	}
	return "I'd be happy to help with your job search. Could you provide more details about what you're looking for?"
}
