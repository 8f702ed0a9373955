package services

import (
	"encoding/json"
	"errors"

	"github.com/brms-lite/brms-lite/database"
	"github.com/brms-lite/brms-lite/models"
	"github.com/brms-lite/brms-lite/repositories"
	"github.com/brms-lite/brms-lite/utils"
	"gorm.io/gorm"
)

// Resolution sources, in precedence order.
const (
	SourceInline        = "inline"
	SourceVersion       = "version"
	SourceVersionNumber = "version_number"
	SourceDeployed      = "deployed"
	SourcePublished     = "published"
	SourceLatest        = "latest"
)

// ResolveOptions narrows content resolution. Zero values mean "not given".
type ResolveOptions struct {
	VersionID string
	Ordinal   int
	EnvKey    string
}

// Resolution is the outcome of resolving "which content answers this read".
type Resolution struct {
	Content       json.RawMessage
	VersionID     *string
	VersionNumber int
	Source        string
}

// PublicationService owns the published pointer and the precedence rules
// deciding which version's content answers a read or evaluation request.
// The interactive load path and the evaluation path both go through
// ResolveContent; they must never diverge.
type PublicationService struct {
	documentRepo    *repositories.DocumentRepository
	versionRepo     *repositories.VersionRepository
	environmentRepo *repositories.EnvironmentRepository
	releaseRepo     *repositories.ReleaseRepository
	auditService    *AuditService
}

// NewPublicationService creates a new publication service instance
func NewPublicationService() *PublicationService {
	return &PublicationService{
		documentRepo:    repositories.NewDocumentRepository(),
		versionRepo:     repositories.NewVersionRepository(),
		environmentRepo: repositories.NewEnvironmentRepository(),
		releaseRepo:     repositories.NewReleaseRepository(),
		auditService:    NewAuditService(),
	}
}

// ResolveContent applies the fixed precedence: explicit version id, explicit
// ordinal, environment-deployed release file, published pointer, latest
// version. First match wins; no match is a NotFoundError.
func (s *PublicationService) ResolveContent(key string, opts ResolveOptions, actor models.ActorContext) (Resolution, error) {
	document, err := s.findDocument(key, actor)
	if err != nil {
		return Resolution{}, err
	}

	// 1. Explicit version id: must belong to this document.
	if opts.VersionID != "" {
		version, err := s.versionRepo.FindForDocument(document.ID, opts.VersionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return Resolution{}, &utils.NotFoundError{Resource: "version", Key: opts.VersionID}
			}
			return Resolution{}, utils.WrapStorage("resolve version", "version", err)
		}
		return resolutionFromVersion(version, SourceVersion), nil
	}

	// 2. Explicit ordinal.
	if opts.Ordinal > 0 {
		version, err := s.versionRepo.ByOrdinal(document.ID, opts.Ordinal)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return Resolution{}, &utils.NotFoundError{Resource: "version"}
			}
			return Resolution{}, utils.WrapStorage("resolve ordinal", "version", err)
		}
		return resolutionFromVersion(version, SourceVersionNumber), nil
	}

	// 3. Environment-deployed release file.
	if opts.EnvKey != "" {
		if resolution, ok, err := s.resolveDeployed(document, opts.EnvKey, actor); err != nil {
			return Resolution{}, err
		} else if ok {
			return resolution, nil
		}
	}

	// 4. Published pointer.
	if document.PublishedVersionID != nil {
		version, err := s.versionRepo.FindForDocument(document.ID, *document.PublishedVersionID)
		if err == nil {
			return resolutionFromVersion(version, SourcePublished), nil
		}
		// A dangling pointer (version removed without clearing the
		// reference) falls through to latest rather than failing the read.
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return Resolution{}, utils.WrapStorage("resolve published", "version", err)
		}
	}

	// 5. Latest version.
	version, err := s.versionRepo.Latest(document.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 6. No version exists anywhere.
			return Resolution{}, &utils.NotFoundError{Resource: "version", Key: key}
		}
		return Resolution{}, utils.WrapStorage("resolve latest", "version", err)
	}
	return resolutionFromVersion(version, SourceLatest), nil
}

// resolveDeployed looks for a file matching the document's path in the
// release currently deployed to the named environment. A missing
// environment, empty environment or missing file is not an error; the
// caller falls through the precedence chain.
func (s *PublicationService) resolveDeployed(document models.Document, envKey string, actor models.ActorContext) (Resolution, bool, error) {
	environment, err := s.environmentRepo.FindByKey(actor.ProjectID, envKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Resolution{}, false, nil
		}
		return Resolution{}, false, utils.WrapStorage("resolve environment", "environment", err)
	}
	if environment.CurrentReleaseID == nil {
		return Resolution{}, false, nil
	}

	file, err := s.releaseRepo.FindFileByPath(*environment.CurrentReleaseID, document.Key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Resolution{}, false, nil
		}
		return Resolution{}, false, utils.WrapStorage("resolve release file", "release file", err)
	}

	resolution := Resolution{
		Content:   json.RawMessage(file.Content),
		VersionID: file.SourceVersionID,
		Source:    SourceDeployed,
	}
	if file.SourceVersionID != nil {
		if version, err := s.versionRepo.FindByID(*file.SourceVersionID); err == nil {
			resolution.VersionNumber = version.Version
		}
	}
	return resolution, true, nil
}

// Publish marks a version as the document's canonical content. With an empty
// versionID the latest version is published. Pointer, timestamp and
// publisher move atomically.
func (s *PublicationService) Publish(key, versionID string, actor models.ActorContext) (models.DocumentVersion, error) {
	document, err := s.findDocument(key, actor)
	if err != nil {
		return models.DocumentVersion{}, err
	}

	var version models.DocumentVersion
	if versionID == "" {
		version, err = s.versionRepo.Latest(document.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.DocumentVersion{}, &utils.NotFoundError{Resource: "version", Key: key}
			}
			return models.DocumentVersion{}, utils.WrapStorage("publish latest", "version", err)
		}
	} else {
		version, err = s.versionRepo.FindForDocument(document.ID, versionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.DocumentVersion{}, &utils.NotFoundError{Resource: "version", Key: versionID}
			}
			return models.DocumentVersion{}, utils.WrapStorage("publish", "version", err)
		}
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		return s.documentRepo.SetPublished(tx, document.ID, version.ID, actor.UserID)
	})
	if err != nil {
		return models.DocumentVersion{}, utils.WrapStorage("publish", "document", err)
	}

	s.auditService.Record("document", "publish", document.ID, map[string]interface{}{
		"documentKey": key,
		"versionId":   version.ID,
		"version":     version.Version,
	}, actor)

	return version, nil
}

// PublishedVersionForEnvironment reports the version number pinned for a
// document in an environment: the deployed release file's source version
// when one exists, else the document's global published pointer. Zero means
// nothing is published.
func (s *PublicationService) PublishedVersionForEnvironment(key, envKey string, actor models.ActorContext) (int, error) {
	document, err := s.findDocument(key, actor)
	if err != nil {
		return 0, err
	}

	if resolution, ok, err := s.resolveDeployed(document, envKey, actor); err != nil {
		return 0, err
	} else if ok {
		return resolution.VersionNumber, nil
	}

	if document.PublishedVersionID != nil {
		version, err := s.versionRepo.FindForDocument(document.ID, *document.PublishedVersionID)
		if err == nil {
			return version.Version, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, utils.WrapStorage("published lookup", "version", err)
		}
	}
	return 0, nil
}

func resolutionFromVersion(version models.DocumentVersion, source string) Resolution {
	id := version.ID
	return Resolution{
		Content:       json.RawMessage(version.Content),
		VersionID:     &id,
		VersionNumber: version.Version,
		Source:        source,
	}
}

// findDocument mirrors VersionService.findDocument so both paths surface
// the same key-enumerating NotFoundError.
func (s *PublicationService) findDocument(key string, actor models.ActorContext) (models.Document, error) {
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
