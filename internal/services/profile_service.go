package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/resumatch/resumatch/internal/extract"
	"github.com/resumatch/resumatch/internal/models"
	pgrepo "github.com/resumatch/resumatch/internal/repositories/postgres"
	"github.com/resumatch/resumatch/internal/resume"
	"github.com/resumatch/resumatch/internal/storage"
	"github.com/resumatch/resumatch/internal/utils"
)

type ProfileService interface {
	UploadResume(ctx context.Context, userID, fileName, mimeType string, data []byte) (*models.Profile, error)
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Insights(ctx context.Context, clientKey string, fileData []byte) ([]extract.Insight, error)
}

type profileService struct {
	texts     *resume.TextService
	extractor *extract.Extractor
	profiles  pgrepo.ProfileRepository
	files     pgrepo.ResumeFileRepository
	uploader  storage.Uploader // nil disables PDF archival
	log       *logrus.Logger
}

func NewProfileService(texts *resume.TextService, extractor *extract.Extractor, profiles pgrepo.ProfileRepository, files pgrepo.ResumeFileRepository, uploader storage.Uploader, log *logrus.Logger) ProfileService {
	return &profileService{
		texts:     texts,
		extractor: extractor,
		profiles:  profiles,
		files:     files,
		uploader:  uploader,
		log:       log,
	}
}

// UploadResume parses the PDF, runs the profile extraction, and persists
// the result. The raw PDF is archived when an uploader is configured;
// archival failure does not fail the upload.
func (s *profileService) UploadResume(ctx context.Context, userID, fileName, mimeType string, data []byte) (*models.Profile, error) {
	const op = "ProfileService.UploadResume"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if len(data) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "pdf file is required", nil)
	}

	text, err := s.texts.Text(ctx, userID, data)
	if err != nil {
		return nil, err
	}

	extracted, err := s.extractor.ProfileFromResume(ctx, text)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to extract profile from resume", err)
	}

	pdfPath := s.archivePDF(ctx, userID, fileName, mimeType, data)

	raw, _ := json.Marshal(extracted)
	profile := &models.Profile{
		UserID:        userID,
		FullName:      extracted.Name,
		Location:      extracted.Location,
		JobTitle:      extracted.JobTitle,
		Skills:        extracted.Skills,
		Experience:    extracted.Experience,
		ResumeText:    text,
		PDFPath:       pdfPath,
		RawExtraction: raw,
	}
	if len(extracted.Skills) > 0 {
		profile.Skill = extracted.Skills[0]
	}

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist profile", err)
	}

	s.log.WithFields(logrus.Fields{
		"user_id":   userID,
		"job_title": profile.JobTitle,
	}).Info("profile extracted from resume")
	return profile, nil
}

// Insights analyzes the caller's resume and returns up to six titled
// observations. It runs against a fresh upload or the cached resume
// text, so it is usable by anonymous clients that never persisted a
// profile.
func (s *profileService) Insights(ctx context.Context, clientKey string, fileData []byte) ([]extract.Insight, error) {
	const op = "ProfileService.Insights"

	text, err := s.texts.Text(ctx, clientKey, fileData)
	if err != nil {
		return nil, err
	}

	insights, err := s.extractor.InsightsFromResume(ctx, text)
	if err != nil {
		var xerr *extract.Error
		if errors.As(err, &xerr) && xerr.Reason == extract.ReasonInvalidInput {
			return nil, utils.E(utils.CodeInvalidArgument, op, "file does not look like a resume", err)
		}
		return nil, utils.E(utils.CodeUnavailable, op, "failed to extract insights", err)
	}
	return insights, nil
}

func (s *profileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	const op = "ProfileService.Get"

	p, err := s.profiles.GetByUser(ctx, userID)
	if err != nil {
		return nil, utils.E(utils.CodeNotFound, op, "no profile: upload a resume first", err)
	}
	return p, nil
}

// archivePDF stores the raw upload and records its metadata, best effort.
func (s *profileService) archivePDF(ctx context.Context, userID, fileName, mimeType string, data []byte) string {
	if s.uploader == nil {
		return ""
	}

	objectName := fmt.Sprintf("resumes/%s/%s-%s", userID, uuid.NewString(), fileName)
	storedPath, err := s.uploader.Upload(ctx, objectName, mimeType, bytes.NewReader(data))
	if err != nil {
		s.log.WithError(err).Warn("resume archival upload failed")
		return ""
	}

	row := &models.ResumeFile{
		ID:       uuid.NewString(),
		UserID:   userID,
		FileName: fileName,
		FilePath: storedPath,
		FileSize: len(data),
		MimeType: mimeType,
		UploadAt: time.Now().UTC(),
	}
	if err := s.files.Insert(ctx, row); err != nil {
		s.log.WithError(err).Warn("resume archival metadata insert failed")
	}
	return storedPath
}
