// Package usecase contains application business logic services.
package usecase

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/ai-job-matcher/internal/adapter/ai"
	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
	"github.com/fairyhunter13/ai-job-matcher/internal/observability"
	"github.com/fairyhunter13/ai-job-matcher/pkg/textx"
)

// ExtractKind selects the prompt and truncation bound for an extraction.
type ExtractKind string

// Extraction kinds.
const (
	KindResume ExtractKind = "resume"
	KindJob    ExtractKind = "job"
)

// Prompt cost bounds: only a prefix of the input is submitted.
const (
	resumePromptLimit = 3000
	jobPromptLimit    = 2000
)

//go:embed skill_keywords.yaml
var rawSkillKeywords []byte

type keywordLists struct {
	Technical  []string `yaml:"technical"`
	Soft       []string `yaml:"soft"`
	Tools      []string `yaml:"tools"`
	Industries []string `yaml:"industries"`
}

var (
	keywordsOnce sync.Once
	keywords     keywordLists
)

func skillKeywords() keywordLists {
	keywordsOnce.Do(func() {
		if err := yaml.Unmarshal(rawSkillKeywords, &keywords); err != nil {
			panic("usecase: invalid embedded skill keywords: " + err.Error())
		}
	})
	return keywords
}

// SkillService derives categorized skill profiles from free text, using a
// structured AI call with a deterministic keyword fallback.
type SkillService struct {
	AI      domain.AIClient
	Cache   domain.CacheStore
	cleaner *ai.ResponseCleaner
}

// NewSkillService constructs a SkillService.
func NewSkillService(client domain.AIClient, cache domain.CacheStore) *SkillService {
	return &SkillService{AI: client, Cache: cache, cleaner: ai.NewResponseCleaner()}
}

const skillSchemaInstructions = `Return ONLY valid JSON (no markdown, no code blocks) with this exact shape:
{
  "technical": ["..."],
  "soft": ["..."],
  "tools": ["..."],
  "industries": ["..."]
}`

// Extract derives a skill profile from resume or job text. It never fails:
// any AI error degrades to the keyword fallback. Categories are lower-cased
// and de-duplicated client-side regardless of what the model returns.
func (s *SkillService) Extract(ctx context.Context, text string, kind ExtractKind) domain.SkillProfile {
	lg := observability.LoggerFromContext(ctx)

	system, user := buildSkillPrompt(text, kind)
	raw, err := s.AI.ChatJSON(ctx, system, user, 600)
	if err != nil {
		lg.Warn("skill extraction AI call failed, using keyword fallback",
			slog.String("kind", string(kind)), slog.Any("error", err))
		observability.AIFallbacksTotal.WithLabelValues("extract_skills").Inc()
		return KeywordExtract(text)
	}

	cleaned := s.cleaner.CleanJSONResponse(raw)
	var profile domain.SkillProfile
	if err := json.Unmarshal([]byte(cleaned), &profile); err != nil {
		lg.Warn("skill extraction returned malformed JSON, using keyword fallback",
			slog.String("kind", string(kind)),
			slog.Any("error", fmt.Errorf("%w: %v", domain.ErrSchemaInvalid, err)))
		observability.AIFallbacksTotal.WithLabelValues("extract_skills").Inc()
		return KeywordExtract(text)
	}
	return profile.Normalized()
}

// JobProfile extracts the skill profile for one job posting, memoized in
// the cache by job id so repeated scoring requests do not re-pay the
// extraction cost.
func (s *SkillService) JobProfile(ctx context.Context, job domain.Job) domain.SkillProfile {
	key := domain.JobSkillsKey(job.ID)
	var cached domain.SkillProfile
	if s.Cache != nil && s.Cache.Get(ctx, key, &cached) {
		return cached
	}
	profile := s.Extract(ctx, job.Description, KindJob)
	if s.Cache != nil {
		s.Cache.Set(ctx, key, profile, domain.JobSkillsCacheTTL)
	}
	return profile
}

func buildSkillPrompt(text string, kind ExtractKind) (system, user string) {
	if kind == KindResume {
		system = "You are an expert resume parser and ATS specialist. Extract ALL skills from the resume and categorize them accurately. Be thorough and include variations (e.g. \"Node.js\" and \"Node\")."
		user = fmt.Sprintf(`RESUME:
%s

Instructions:
1. Technical Skills: programming languages, frameworks, databases, methodologies
2. Soft Skills: leadership, communication, problem solving, collaboration
3. Tools: development tools, cloud platforms, project management tools
4. Industries: domains mentioned like Finance, Healthcare, E-commerce, SaaS

%s`, textx.Truncate(text, resumePromptLimit), skillSchemaInstructions)
		return system, user
	}
	system = "You are an expert job description analyzer. Extract ALL required and preferred skills from the job posting."
	user = fmt.Sprintf(`JOB DESCRIPTION:
%s

Instructions:
1. Technical Skills: required technologies, programming languages, frameworks
2. Soft Skills: required soft skills like leadership, communication
3. Tools: required tools and platforms
4. Industries: industry experience mentioned

Extract both REQUIRED and PREFERRED skills.

%s`, textx.Truncate(text, jobPromptLimit), skillSchemaInstructions)
	return system, user
}

// KeywordExtract is the deterministic fallback: a case-insensitive
// substring scan over a fixed curated keyword list per category. It is
// intentionally coarse; it guarantees the pipeline never blocks on AI
// availability rather than matching extraction quality.
func KeywordExtract(text string) domain.SkillProfile {
	lower := strings.ToLower(text)
	kw := skillKeywords()
	scan := func(list []string) []string {
		var out []string
		for _, k := range list {
			if strings.Contains(lower, k) {
				out = append(out, k)
			}
		}
		return out
	}
	return domain.SkillProfile{
		Technical:  scan(kw.Technical),
		Soft:       scan(kw.Soft),
		Tools:      scan(kw.Tools),
		Industries: scan(kw.Industries),
	}
}

// SkillMatch computes the deterministic skill-overlap percentage between a
// resume profile and a job profile. Category boundaries are ignored. A job
// with no stated requirements matches everyone; a resume with no skills
// matches nothing. A job token counts as matched when it and any resume
// token contain each other either way, so "react" matches "react native".
func SkillMatch(resume, job domain.SkillProfile) int {
	jobAll := job.Flatten()
	if len(jobAll) == 0 {
		return 100
	}
	resumeAll := resume.Flatten()
	if len(resumeAll) == 0 {
		return 0
	}
	matches := 0
	for _, jobSkill := range jobAll {
		for _, resumeSkill := range resumeAll {
			if strings.Contains(resumeSkill, jobSkill) || strings.Contains(jobSkill, resumeSkill) {
				matches++
				break
			}
		}
	}
	pct := int(float64(matches)/float64(len(jobAll))*100 + 0.5)
	observability.SkillMatchHistogram.Observe(float64(pct))
	return pct
}
