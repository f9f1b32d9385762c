// Package domain holds the core entities, ports and error taxonomy.
package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrNotFound            = errors.New("not found")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrSchemaInvalid       = errors.New("schema invalid")
	ErrInternal            = errors.New("internal error")
)

// Sentinel values used by adapters when a provider omits a field.
// Normalization is total: a Job never carries an empty canonical field.
const (
	SentinelTitle       = "Unknown Title"
	SentinelCompany     = "Unknown Company"
	SentinelDescription = "No description available"
	SentinelLocation    = "Remote"
	SentinelJobType     = "Full-time"
	SentinelWorkMode    = "Not specified"
	SentinelSalary      = "Not disclosed"
	SentinelURL         = "#"
)

// Job is the canonical, provider-agnostic posting record.
// Extra preserves provider-specific fields the canonical schema does not
// model; it is never consulted by matching logic.
type Job struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Company     string         `json:"company"`
	Description string         `json:"description"`
	Location    string         `json:"location"`
	JobType     string         `json:"jobType"`
	WorkMode    string         `json:"workMode"`
	Salary      string         `json:"salary"`
	URL         string         `json:"url"`
	PostedAt    time.Time      `json:"postedAt"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// ScoredJob is a Job with match results attached by the orchestrator.
type ScoredJob struct {
	Job
	SkillMatch     int      `json:"skillMatch"`
	MatchScore     int      `json:"matchScore"`
	MatchReason    []string `json:"matchReason"`
	Strengths      []string `json:"strengths,omitempty"`
	Gaps           []string `json:"gaps,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
}

// SkillProfile is the four-category skill breakdown for a resume or job.
// Tokens are lower-cased and de-duplicated; ordering within a category is
// not significant.
type SkillProfile struct {
	Technical  []string `json:"technical"`
	Soft       []string `json:"soft"`
	Tools      []string `json:"tools"`
	Industries []string `json:"industries"`
}

// Flatten merges all categories into a single token list.
func (p SkillProfile) Flatten() []string {
	out := make([]string, 0, len(p.Technical)+len(p.Soft)+len(p.Tools)+len(p.Industries))
	out = append(out, p.Technical...)
	out = append(out, p.Soft...)
	out = append(out, p.Tools...)
	out = append(out, p.Industries...)
	return out
}

// IsEmpty reports whether no category contains any token.
func (p SkillProfile) IsEmpty() bool { return len(p.Flatten()) == 0 }

// Normalized returns a copy with every category lower-cased and
// de-duplicated. Model output is not trusted to arrive normalized.
func (p SkillProfile) Normalized() SkillProfile {
	return SkillProfile{
		Technical:  normalizeTokens(p.Technical),
		Soft:       normalizeTokens(p.Soft),
		Tools:      normalizeTokens(p.Tools),
		Industries: normalizeTokens(p.Industries),
	}
}

func normalizeTokens(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// MatchScore is the detailed AI match analysis for one resume/job pair.
// Strengths carries exactly three entries and Gaps one or two when produced
// by the detailed scorer; the fallback path honors the same shape.
type MatchScore struct {
	Score          int      `json:"score"`
	Reason         string   `json:"reason"`
	Strengths      []string `json:"strengths,omitempty"`
	Gaps           []string `json:"gaps,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
}

// Application is one entry in a user's application ledger.
// Uniqueness within a ledger is enforced by JobID.
type Application struct {
	JobID     string `json:"jobId"`
	Title     string `json:"title"`
	Company   string `json:"company"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Notes     string `json:"notes,omitempty"`
}

// Ports

// CacheStore is the namespaced JSON blob store. Both operations are
// fallible and must never surface errors: absence and failure look the
// same to callers, which treat either as a cold cache.
type CacheStore interface {
	// Get unmarshals the value at key into dest and reports whether a
	// usable value was found.
	Get(ctx context.Context, key string, dest any) bool
	// Set stores value as JSON under key. ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, value any, ttl time.Duration) bool
}

// JobProvider searches one external job source and returns canonical jobs.
type JobProvider interface {
	Name() string
	Search(ctx context.Context, query, location string, page, limit int) ([]Job, error)
}

// AIClient returns a JSON document matching the schema instruction embedded
// in the prompts. Output may still be malformed; callers validate.
type AIClient interface {
	ChatJSON(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
}

// TextExtractor extracts plain text from an uploaded file at path.
type TextExtractor interface {
	ExtractPath(ctx context.Context, fileName, path string) (string, error)
}
