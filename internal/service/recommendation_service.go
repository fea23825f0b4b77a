package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"studymate/internal/cache"
	"studymate/internal/domain"
	"studymate/internal/dto"
	"studymate/internal/llm"
	"studymate/internal/logger"
)

const (
	fypUnlockSemester = 7
	maxSuggestions    = 10

	skillMatchPoints    = 20
	interestMatchPoints = 30
	trendingPoints      = 10
	minMatchStars       = 3
)

// RecommendationService scores the project catalog against a student's
// skill profile and interests.
type RecommendationService interface {
	GetRecommendations(ctx context.Context, studentID string) (*dto.RecommendationsResponse, error)
}

type recommendationService struct {
	studentRepo  domain.StudentRepository
	progressRepo domain.ProgressRepository
	fypRepo      domain.FYPRepository
	generator    domain.TextGenerator
	cache        domain.Cache
	cacheTTL     time.Duration
}

func NewRecommendationService(
	studentRepo domain.StudentRepository,
	progressRepo domain.ProgressRepository,
	fypRepo domain.FYPRepository,
	generator domain.TextGenerator,
	cacheClient domain.Cache,
	cacheTTL time.Duration,
) RecommendationService {
	return &recommendationService{
		studentRepo:  studentRepo,
		progressRepo: progressRepo,
		fypRepo:      fypRepo,
		generator:    generator,
		cache:        cacheClient,
		cacheTTL:     cacheTTL,
	}
}

// GetRecommendations returns up to ten scored project suggestions. Students
// below semester seven get an empty list with an explanatory message.
func (s *recommendationService) GetRecommendations(ctx context.Context, studentID string) (*dto.RecommendationsResponse, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	if student == nil {
		return nil, domain.NewStudentNotFoundError(studentID)
	}
	if student.CurrentSemester < fypUnlockSemester {
		return &dto.RecommendationsResponse{
			Suggestions: []domain.Recommendation{},
			Message: fmt.Sprintf(
				"Final year project suggestions unlock in semester %d. You are in semester %d, keep building your skills!",
				fypUnlockSemester, student.CurrentSemester),
		}, nil
	}

	cacheKey := cache.GenerateCacheKey("recommendation", "fyp", studentID)
	if cached := s.fromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	matrix, err := s.skillMatrix(ctx, studentID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	candidates, err := s.fypRepo.FindAll(ctx)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	recs := scoreCandidates(student, matrix, candidates)
	recs = s.rewriteRationales(ctx, recs)

	resp := &dto.RecommendationsResponse{Suggestions: recs}
	s.toCache(ctx, cacheKey, resp)
	return resp, nil
}

// skillMatrix maps completed course names to star ratings derived from the
// course grade, falling back to accuracy when no grade is recorded.
func (s *recommendationService) skillMatrix(ctx context.Context, studentID string) (map[string]domain.SkillRating, error) {
	records, err := s.progressRepo.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	matrix := make(map[string]domain.SkillRating)
	for _, p := range records {
		if p.Status != domain.ProgressCompleted {
			continue
		}
		grade := p.Accuracy * 100
		if p.Grade != nil {
			grade = *p.Grade
		}
		matrix[p.CourseName] = domain.SkillRating{
			Stars:    int(grade / 100 * 5),
			Grade:    grade,
			CourseID: p.CourseID,
		}
	}
	return matrix, nil
}

// scoreCandidates applies the weighted match rules to every catalog entry:
// 20 points per required skill backed by a 3+ star course, 30 points once
// for an interest hit on the category, 10 for trending projects. Zero-score
// entries are dropped, scores clamp at 100, and ties keep catalog order.
func scoreCandidates(student *domain.StudentProfile, matrix map[string]domain.SkillRating, candidates []*domain.FYPCandidate) []domain.Recommendation {
	recs := make([]domain.Recommendation, 0, len(candidates))
	for _, fyp := range candidates {
		score := 0
		var matched []string
		for _, skill := range fyp.RequiredSkills {
			needle := strings.ToLower(skill)
			hit := false
			for name, rating := range matrix {
				if rating.Stars >= minMatchStars && strings.Contains(strings.ToLower(name), needle) {
					score += skillMatchPoints
					hit = true
				}
			}
			if hit {
				matched = append(matched, skill)
			}
		}
		for _, interest := range student.Interests {
			if strings.Contains(strings.ToLower(fyp.Category), strings.ToLower(interest)) {
				score += interestMatchPoints
				break
			}
		}
		if fyp.Trending {
			score += trendingPoints
		}
		if score == 0 {
			continue
		}
		if score > 100 {
			score = 100
		}
		recs = append(recs, domain.Recommendation{
			ID:             fyp.ID,
			Title:          fyp.Title,
			Description:    fyp.Description,
			Score:          score,
			MatchScore:     float64(score) / 100,
			Category:       fyp.Category,
			MatchingSkills: matched,
			Rationale:      defaultRationale(matched, fyp.Category),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })
	if len(recs) > maxSuggestions {
		recs = recs[:maxSuggestions]
	}
	return recs
}

func defaultRationale(matched []string, category string) string {
	if len(matched) > 0 {
		return "Matches your skills in " + strings.Join(matched, ", ") + "."
	}
	return "Aligned with your interest in " + category + "."
}

// rewriteRationales asks the model to warm up the rationale text. The
// rewrite is accepted only when every scoring field survives unchanged;
// otherwise the deterministic list is returned as is.
func (s *recommendationService) rewriteRationales(ctx context.Context, recs []domain.Recommendation) []domain.Recommendation {
	if len(recs) == 0 {
		return recs
	}
	payload, err := json.Marshal(map[string]any{"suggestions": recs})
	if err != nil {
		return recs
	}
	raw := s.generator.Generate(ctx, buildRationalePrompt(string(payload)), jsonAssistantSystem)
	parsed, ok := llm.TryExtractJSON[struct {
		Suggestions []domain.Recommendation `json:"suggestions"`
	}](raw)
	if !ok || len(parsed.Suggestions) != len(recs) {
		return recs
	}
	byID := make(map[string]domain.Recommendation, len(parsed.Suggestions))
	for _, r := range parsed.Suggestions {
		byID[r.ID] = r
	}
	out := make([]domain.Recommendation, len(recs))
	for i, orig := range recs {
		rewritten, found := byID[orig.ID]
		if !found || !sameScoring(orig, rewritten) || rewritten.Rationale == "" {
			return recs
		}
		orig.Rationale = rewritten.Rationale
		out[i] = orig
	}
	return out
}

func sameScoring(a, b domain.Recommendation) bool {
	if a.Title != b.Title || a.Description != b.Description ||
		a.Score != b.Score || a.MatchScore != b.MatchScore || a.Category != b.Category {
		return false
	}
	if len(a.MatchingSkills) != len(b.MatchingSkills) {
		return false
	}
	for i := range a.MatchingSkills {
		if a.MatchingSkills[i] != b.MatchingSkills[i] {
			return false
		}
	}
	return true
}

func (s *recommendationService) fromCache(ctx context.Context, key string) *dto.RecommendationsResponse {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("recommendation cache read failed", zap.Error(err), zap.String("key", key))
		}
		return nil
	}
	var resp dto.RecommendationsResponse
	if err := json.Unmarshal([]byte(data), &resp); err != nil {
		logger.Get().Warn("recommendation cache entry corrupt", zap.Error(err), zap.String("key", key))
		return nil
	}
	return &resp
}

func (s *recommendationService) toCache(ctx context.Context, key string, resp *dto.RecommendationsResponse) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(data), s.cacheTTL); err != nil {
		logger.Get().Warn("recommendation cache write failed", zap.Error(err), zap.String("key", key))
	}
}
