package services

import (
	"encoding/json"
	"errors"

	"github.com/brms-lite/brms-lite/database"
	"github.com/brms-lite/brms-lite/models"
	"github.com/brms-lite/brms-lite/repositories"
	"github.com/brms-lite/brms-lite/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// createVersionRetries bounds the transparent retry of a version-numbering
// race before it surfaces as a ConflictError.
const createVersionRetries = 3

// VersionService owns document content versions: create, fetch by id or
// ordinal, list, soft-delete.
type VersionService struct {
	documentRepo *repositories.DocumentRepository
	versionRepo  *repositories.VersionRepository
	auditService *AuditService
}

// NewVersionService creates a new version service instance
func NewVersionService() *VersionService {
	return &VersionService{
		documentRepo: repositories.NewDocumentRepository(),
		versionRepo:  repositories.NewVersionRepository(),
		auditService: NewAuditService(),
	}
}

// CreateVersion inserts an immutable version for (project, key), creating
// the document on first write. Numbering runs as MAX(version)+1 inside the
// same transaction as the insert; the unique (document_id, version) index
// turns a concurrent race into a retry instead of a silent duplicate.
func (s *VersionService) CreateVersion(key string, content json.RawMessage, comment string, actor models.ActorContext) (models.Document, models.DocumentVersion, error) {
	if len(content) == 0 {
		return models.Document{}, models.DocumentVersion{}, utils.NewValidationError("content", "content is required")
	}
	if !json.Valid(content) {
		return models.Document{}, models.DocumentVersion{}, utils.NewValidationError("content", "content must be a JSON structure")
	}

	var (
		document models.Document
		version  models.DocumentVersion
		err      error
	)

	for attempt := 0; attempt < createVersionRetries; attempt++ {
		err = database.DB.Transaction(func(tx *gorm.DB) error {
			var txErr error
			document, txErr = s.documentRepo.FindOrCreate(tx, actor.ProjectID, key)
			if txErr != nil {
				return txErr
			}

			next, txErr := s.versionRepo.NextVersion(tx, document.ID)
			if txErr != nil {
				return txErr
			}

			version = models.DocumentVersion{
				DocumentID: document.ID,
				Version:    next,
				Content:    datatypes.JSON(content),
				Comment:    comment,
				CreatedBy:  actor.UserID,
			}
			if txErr = s.versionRepo.Insert(tx, &version); txErr != nil {
				return txErr
			}

			return s.documentRepo.Touch(tx, document.ID)
		})
		if err == nil {
			break
		}
		if !utils.IsDuplicateKey(err) {
			return models.Document{}, models.DocumentVersion{}, utils.WrapStorage("version create", "document", err)
		}
	}
	if err != nil {
		return models.Document{}, models.DocumentVersion{}, &utils.ConflictError{
			Message: "version number already taken by a concurrent write, retry the request",
		}
	}

	s.auditService.Record("document", "version.create", version.ID, map[string]interface{}{
		"documentKey": key,
		"version":     version.Version,
	}, actor)

	return document, version, nil
}

// GetLatest returns the most recently created version, or a NotFoundError
// when none exists.
func (s *VersionService) GetLatest(key string, actor models.ActorContext) (models.DocumentVersion, error) {
	document, err := s.findDocument(key, actor)
	if err != nil {
		return models.DocumentVersion{}, err
	}
	version, err := s.versionRepo.Latest(document.ID)
	if err != nil {
		return models.DocumentVersion{}, utils.WrapStorage("latest version", "version", err)
	}
	return version, nil
}

// GetByOrdinal returns the n-th version counting from the earliest created
// (ordinal 1 = first ever). Distinct from GetLatest by design.
func (s *VersionService) GetByOrdinal(key string, n int, actor models.ActorContext) (models.DocumentVersion, error) {
	if n < 1 {
		return models.DocumentVersion{}, utils.NewValidationError("versionNumber", "version number must be >= 1")
	}
	document, err := s.findDocument(key, actor)
	if err != nil {
		return models.DocumentVersion{}, err
	}
	version, err := s.versionRepo.ByOrdinal(document.ID, n)
	if err != nil {
		return models.DocumentVersion{}, utils.WrapStorage("version by ordinal", "version", err)
	}
	return version, nil
}

// GetByID returns a version by id regardless of document scope.
func (s *VersionService) GetByID(versionID string) (models.DocumentVersion, error) {
	version, err := s.versionRepo.FindByID(versionID)
	if err != nil {
		return models.DocumentVersion{}, utils.WrapStorage("version by id", "version", err)
	}
	return version, nil
}

// ListVersions returns all versions of a document, most recent first, with
// creator display fields.
func (s *VersionService) ListVersions(key string, actor models.ActorContext) ([]models.DocumentVersion, error) {
	document, err := s.findDocument(key, actor)
	if err != nil {
		return nil, err
	}
	versions, err := s.versionRepo.List(document.ID)
	if err != nil {
		return nil, utils.WrapStorage("version list", "version", err)
	}
	return versions, nil
}

// ListDocuments returns document summaries for the actor's project.
func (s *VersionService) ListDocuments(actor models.ActorContext) ([]repositories.DocumentSummary, error) {
	summaries, err := s.documentRepo.ListByProject(actor.ProjectID)
	if err != nil {
		return nil, utils.WrapStorage("document list", "document", err)
	}
	return summaries, nil
}

// DeleteDocument soft-deletes the document. Versions stay for audit history
// but become unreachable through active-document lookups.
func (s *VersionService) DeleteDocument(key string, actor models.ActorContext) (models.Document, error) {
	document, err := s.findDocument(key, actor)
	if err != nil {
		return models.Document{}, err
	}
	if err := s.documentRepo.SoftDelete(document.ID); err != nil {
		return models.Document{}, utils.WrapStorage("document delete", "document", err)
	}

	s.auditService.Record("document", "delete", document.ID, map[string]interface{}{
		"documentKey": key,
	}, actor)

	return document, nil
}

// findDocument fetches the active document or builds a NotFoundError that
// enumerates the currently known keys.
func (s *VersionService) findDocument(key string, actor models.ActorContext) (models.Document, error) {
	document, err := s.documentRepo.FindByKey(actor.ProjectID, key)
	if err == nil {
		return document, nil
	}
	wrapped := utils.WrapStorage("document lookup", "document", err)
	var notFound *utils.NotFoundError
	if errors.As(wrapped, &notFound) {
		notFound.Key = key
		if keys, listErr := s.documentRepo.ListKeys(actor.ProjectID); listErr == nil {
			notFound.KnownKeys = keys
		} else {
			notFound.KnownKeys = []string{}
		}
	}
	return models.Document{}, wrapped
}
