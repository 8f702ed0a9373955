package services

import (
	"errors"
	"fmt"

	"github.com/brms-lite/brms-lite/database"
	"github.com/brms-lite/brms-lite/models"
	"github.com/brms-lite/brms-lite/repositories"
	"github.com/brms-lite/brms-lite/utils"
	"gorm.io/gorm"
)

// createReleaseRetries bounds the transparent retry of a release-numbering
// race before it surfaces as a ConflictError.
const createReleaseRetries = 3

// ReleaseService snapshots all currently published documents of a project
// into an immutable, per-project numbered release bundle.
type ReleaseService struct {
	releaseRepo  *repositories.ReleaseRepository
	documentRepo *repositories.DocumentRepository
	auditService *AuditService
}

// NewReleaseService creates a new release service instance
func NewReleaseService() *ReleaseService {
	return &ReleaseService{
		releaseRepo:  repositories.NewReleaseRepository(),
		documentRepo: repositories.NewDocumentRepository(),
		auditService: NewAuditService(),
	}
}

// CreateRelease builds a release atomically: next per-project version,
// release row, then one frozen file per published document. A project with
// zero published documents yields a legal empty bundle. Documents are not
// locked during the build; a concurrent publish lands in this release or
// the next depending on commit order. Numbering runs as MAX(version)+1
// inside the transaction; the unique (project_id, version) index turns a
// concurrent race into a retry instead of a silent duplicate.
func (s *ReleaseService) CreateRelease(name, description string, actor models.ActorContext) (models.Release, error) {
	var (
		release models.Release
		err     error
	)

	for attempt := 0; attempt < createReleaseRetries; attempt++ {
		err = s.buildRelease(name, description, actor, &release)
		if err == nil {
			break
		}
		if !utils.IsDuplicateKey(err) {
			return models.Release{}, utils.WrapStorage("release create", "release", err)
		}
	}
	if err != nil {
		return models.Release{}, &utils.ConflictError{
			Message: "release version already taken by a concurrent build, retry the request",
		}
	}

	s.auditService.Record("release", "create", release.ID, map[string]interface{}{
		"version": release.Version,
		"name":    release.Name,
	}, actor)

	return release, nil
}

func (s *ReleaseService) buildRelease(name, description string, actor models.ActorContext, release *models.Release) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		next, txErr := s.releaseRepo.NextVersion(tx, actor.ProjectID)
		if txErr != nil {
			return txErr
		}

		releaseName := name
		if releaseName == "" {
			releaseName = fmt.Sprintf("release-v%d", next)
		}

		*release = models.Release{
			ProjectID:   actor.ProjectID,
			Version:     next,
			Name:        releaseName,
			Description: description,
			CreatedBy:   actor.UserID,
		}
		if txErr = s.releaseRepo.Insert(tx, release); txErr != nil {
			return txErr
		}

		documents, txErr := s.documentRepo.FindPublishedByProject(tx, actor.ProjectID)
		if txErr != nil {
			return txErr
		}

		for _, document := range documents {
			var version models.DocumentVersion
			txErr = tx.Where("document_id = ? AND id = ?", document.ID, *document.PublishedVersionID).
				First(&version).Error
			if txErr != nil {
				if errors.Is(txErr, gorm.ErrRecordNotFound) {
					// Dangling published pointer; skip rather than abort
					// the whole bundle.
					continue
				}
				return txErr
			}

			file := models.ReleaseFile{
				ReleaseID:       release.ID,
				Name:            document.Name,
				Path:            document.Key,
				ContentType:     document.ContentType,
				Content:         version.Content,
				SourceVersionID: &version.ID,
			}
			if txErr = s.releaseRepo.InsertFile(tx, &file); txErr != nil {
				return txErr
			}
		}
		return nil
	})
}

// ListReleases returns the project's releases with file counts, newest
// first.
func (s *ReleaseService) ListReleases(actor models.ActorContext) ([]repositories.ReleaseSummary, error) {
	summaries, err := s.releaseRepo.ListByProject(actor.ProjectID)
	if err != nil {
		return nil, utils.WrapStorage("release list", "release", err)
	}
	return summaries, nil
}

// ListReleaseFiles returns the frozen files of a release. An existing
// release with no files yields an empty array, not an error.
func (s *ReleaseService) ListReleaseFiles(releaseID string, actor models.ActorContext) ([]models.ReleaseFile, error) {
	release, err := s.releaseRepo.FindByID(releaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &utils.NotFoundError{Resource: "release", Key: releaseID}
		}
		return nil, utils.WrapStorage("release lookup", "release", err)
	}
	if release.ProjectID != actor.ProjectID {
		return nil, &utils.NotFoundError{Resource: "release", Key: releaseID}
	}

	files, err := s.releaseRepo.ListFiles(release.ID)
	if err != nil {
		return nil, utils.WrapStorage("release files", "release file", err)
	}
	return files, nil
}
