package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/resumatch/resumatch/internal/extract"
	"github.com/resumatch/resumatch/internal/models"
	mongorepo "github.com/resumatch/resumatch/internal/repositories/mongo"
	"github.com/resumatch/resumatch/internal/resume"
	"github.com/resumatch/resumatch/internal/utils"
)

type ContentService interface {
	Generate(ctx context.Context, clientKey, platform, jobTitle string, fileData []byte) (*models.GeneratedContent, error)
	List(ctx context.Context, clientKey string, limit int64) ([]models.GeneratedContent, error)
	SetStatus(ctx context.Context, id string, status models.ContentStatus) error
}

type contentService struct {
	texts     *resume.TextService
	extractor *extract.Extractor
	contents  mongorepo.ContentRepository
	log       *logrus.Logger
}

func NewContentService(texts *resume.TextService, extractor *extract.Extractor, contents mongorepo.ContentRepository, log *logrus.Logger) ContentService {
	return &contentService{
		texts:     texts,
		extractor: extractor,
		contents:  contents,
		log:       log,
	}
}

// Generate writes an application post for the platform, grounded in the
// client's resume text, and stores it as a draft.
func (s *contentService) Generate(ctx context.Context, clientKey, platform, jobTitle string, fileData []byte) (*models.GeneratedContent, error) {
	const op = "ContentService.Generate"

	if !models.ValidContentPlatform(platform) {
		return nil, utils.E(utils.CodeInvalidArgument, op, "unknown platform", nil)
	}
	if jobTitle == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job title is required", nil)
	}

	text, err := s.texts.Text(ctx, clientKey, fileData)
	if err != nil {
		return nil, err
	}

	body, err := s.extractor.ContentForPlatform(ctx, models.ContentPlatform(platform), jobTitle, text)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to generate content", err)
	}

	content := &models.GeneratedContent{
		UserID:   clientKey,
		Platform: models.ContentPlatform(platform),
		JobTitle: jobTitle,
		Body:     body,
		Status:   models.ContentDraft,
	}
	if err := s.contents.Create(ctx, content); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist content", err)
	}

	s.log.WithFields(logrus.Fields{
		"user_key": clientKey,
		"platform": platform,
	}).Info("content generated")
	return content, nil
}

func (s *contentService) List(ctx context.Context, clientKey string, limit int64) ([]models.GeneratedContent, error) {
	const op = "ContentService.List"

	if limit <= 0 || limit > 50 {
		limit = 10
	}
	out, err := s.contents.ListByUser(ctx, clientKey, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list content", err)
	}
	return out, nil
}

func (s *contentService) SetStatus(ctx context.Context, id string, status models.ContentStatus) error {
	const op = "ContentService.SetStatus"

	switch status {
	case models.ContentDraft, models.ContentNotPublished, models.ContentPublished:
	default:
		return utils.E(utils.CodeInvalidArgument, op, "unknown status", nil)
	}

	err := s.contents.SetStatus(ctx, id, status)
	if err == utils.ErrNotFound {
		return utils.E(utils.CodeNotFound, op, "content not found", err)
	}
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to update status", err)
	}
	return nil
}
