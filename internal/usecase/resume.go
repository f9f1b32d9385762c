package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
	"github.com/fairyhunter13/ai-job-matcher/internal/observability"
	"github.com/fairyhunter13/ai-job-matcher/pkg/textx"
)

// ResumeService handles resume ingestion: text extraction, persistence and
// skill profile caching. Skills are extracted at upload time so scoring
// requests never pay for a synchronous re-extraction.
type ResumeService struct {
	Cache     domain.CacheStore
	Extractor domain.TextExtractor
	Skills    *SkillService
}

// NewResumeService constructs a ResumeService.
func NewResumeService(cache domain.CacheStore, extractor domain.TextExtractor, skills *SkillService) *ResumeService {
	return &ResumeService{Cache: cache, Extractor: extractor, Skills: skills}
}

// UploadResult summarizes a processed upload for the API response.
type UploadResult struct {
	FileName    string              `json:"fileName"`
	TextPreview string              `json:"textPreview"`
	Skills      domain.SkillProfile `json:"skills"`
}

// Upload extracts text from the file at path, stores it under the user's
// resume key and caches the extracted skill profile. The caller owns
// removal of the file.
func (s *ResumeService) Upload(ctx context.Context, userID, fileName, path string) (UploadResult, error) {
	lg := observability.LoggerFromContext(ctx)
	if userID == "" {
		userID = "guest"
	}

	text, err := s.Extractor.ExtractPath(ctx, fileName, path)
	if err != nil {
		return UploadResult{}, err
	}
	if text == "" {
		return UploadResult{}, fmt.Errorf("%w: no text extracted from file", domain.ErrInvalidArgument)
	}
	lg.Info("resume text extracted", slog.String("user_id", userID), slog.Int("chars", len(text)))

	if !s.Cache.Set(ctx, domain.ResumeKey(userID), text, 0) {
		// The text survives in the response preview; the user can retry.
		lg.Warn("failed to cache resume text", slog.String("user_id", userID))
	}

	profile := s.Skills.Extract(ctx, text, KindResume)
	s.Cache.Set(ctx, domain.SkillsKey(userID), profile, 0)

	preview := textx.Truncate(text, 100)
	if len(text) > 100 {
		preview += "..."
	}
	return UploadResult{FileName: fileName, TextPreview: preview, Skills: profile}, nil
}

// ExtractSkills re-runs skill extraction over the stored resume text and
// refreshes the cached profile.
func (s *ResumeService) ExtractSkills(ctx context.Context, userID string) (domain.SkillProfile, error) {
	if userID == "" {
		return domain.SkillProfile{}, fmt.Errorf("%w: userId is required", domain.ErrInvalidArgument)
	}
	var text string
	if !s.Cache.Get(ctx, domain.ResumeKey(userID), &text) || text == "" {
		return domain.SkillProfile{}, fmt.Errorf("%w: resume not found, please upload one first", domain.ErrNotFound)
	}
	profile := s.Skills.Extract(ctx, text, KindResume)
	s.Cache.Set(ctx, domain.SkillsKey(userID), profile, 0)
	return profile, nil
}
