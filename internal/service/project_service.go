package service

import (
	"context"
	"errors"

	"asistentas-gateway/internal/dto"
	"asistentas-gateway/internal/mapper"
	"asistentas-gateway/internal/pkg/logger"
	"asistentas-gateway/internal/repository/cache"
	"asistentas-gateway/pkg/backend"
	"asistentas-gateway/pkg/document"

	"golang.org/x/time/rate"
)

// ErrNoFallback means the backend failed and nothing was cached to fall back on.
var ErrNoFallback = errors.New("backend unavailable and no cached copy")

var DefaultModels = []backend.Model{
	{ID: "default", Name: "Default Assistant"},
	{ID: "advanced", Name: "Advanced Assistant"},
}

const (
	snapshotRecentProjects = "recent-projects:"
	snapshotCities         = "cities"
	snapshotModels         = "models"
)

type IProjectService interface {
	RecentProjects(ctx context.Context, city string) (*dto.RecentProjectsResponse, error)
	RecentDocuments(ctx context.Context, city string) ([]document.SourceDocument, bool, error)
	Cities(ctx context.Context) (*dto.CitiesResponse, error)
	Models(ctx context.Context) *dto.ModelsResponse
	Health(ctx context.Context) *dto.HealthResponse
}

type projectService struct {
	client    backend.Client
	snapshots cache.SnapshotStore
	limiter   *rate.Limiter
	mapper    *mapper.DocumentMapper
	logger    logger.ILogger
}

func NewProjectService(
	client backend.Client,
	snapshots cache.SnapshotStore,
	limiter *rate.Limiter,
	documentMapper *mapper.DocumentMapper,
	log logger.ILogger,
) IProjectService {
	return &projectService{
		client:    client,
		snapshots: snapshots,
		limiter:   limiter,
		mapper:    documentMapper,
		logger:    log,
	}
}

// RecentProjects serves the backend answer and remembers it per city. When
// the backend fails the last good answer is served marked stale.
func (s *projectService) RecentProjects(ctx context.Context, city string) (*dto.RecentProjectsResponse, error) {
	key := snapshotRecentProjects + city

	resp, err := s.fetchRecentProjects(ctx, city)
	if err == nil {
		s.remember(ctx, key, resp.Projects)
		return &dto.RecentProjectsResponse{Projects: resp.Projects}, nil
	}

	s.logger.Warn("PROJECTS", "Recent projects fetch failed", map[string]interface{}{"city": city, "error": err.Error()})
	var cached []backend.Project
	if s.recall(ctx, key, &cached) {
		return &dto.RecentProjectsResponse{Projects: cached, Stale: true}, nil
	}
	return &dto.RecentProjectsResponse{
		Projects: []backend.Project{},
		Error:    "An error occurred while fetching recent projects",
	}, errors.Join(ErrNoFallback, err)
}

// RecentDocuments is RecentProjects converted for the sidebar. The flag
// reports a cached answer.
func (s *projectService) RecentDocuments(ctx context.Context, city string) ([]document.SourceDocument, bool, error) {
	resp, err := s.RecentProjects(ctx, city)
	if err != nil {
		return nil, false, err
	}
	return s.mapper.ProjectsToDocuments(resp.Projects), resp.Stale, nil
}

func (s *projectService) Cities(ctx context.Context) (*dto.CitiesResponse, error) {
	resp, err := s.fetchCities(ctx)
	if err == nil {
		s.remember(ctx, snapshotCities, resp.Cities)
		return &dto.CitiesResponse{Cities: resp.Cities}, nil
	}

	s.logger.Warn("PROJECTS", "Cities fetch failed", map[string]interface{}{"error": err.Error()})
	var cached []string
	if s.recall(ctx, snapshotCities, &cached) {
		return &dto.CitiesResponse{Cities: cached, Stale: true}, nil
	}
	return &dto.CitiesResponse{
		Cities: []string{},
		Error:  "An error occurred while fetching cities",
	}, errors.Join(ErrNoFallback, err)
}

// Models never fails: last good list, then the built-in defaults.
func (s *projectService) Models(ctx context.Context) *dto.ModelsResponse {
	resp, err := s.fetchModels(ctx)
	if err == nil {
		s.remember(ctx, snapshotModels, resp.Models)
		return &dto.ModelsResponse{Models: resp.Models}
	}

	s.logger.Warn("PROJECTS", "Models fetch failed", map[string]interface{}{"error": err.Error()})
	var cached []backend.Model
	if s.recall(ctx, snapshotModels, &cached) {
		return &dto.ModelsResponse{Models: cached, Fallback: true}
	}
	return &dto.ModelsResponse{Models: DefaultModels, Fallback: true}
}

func (s *projectService) Health(ctx context.Context) *dto.HealthResponse {
	if err := s.wait(ctx); err != nil {
		return &dto.HealthResponse{Status: "degraded", Backend: "unreachable", Detail: err.Error()}
	}
	if _, err := s.client.Health(ctx); err != nil {
		return &dto.HealthResponse{Status: "degraded", Backend: "unreachable", Detail: err.Error()}
	}
	return &dto.HealthResponse{Status: "ok", Backend: "ok"}
}

func (s *projectService) fetchRecentProjects(ctx context.Context, city string) (*backend.RecentProjectsResponse, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.client.RecentProjects(ctx, city)
}

func (s *projectService) fetchCities(ctx context.Context) (*backend.CitiesResponse, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.client.Cities(ctx)
}

func (s *projectService) fetchModels(ctx context.Context) (*backend.ModelsResponse, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return s.client.Models(ctx)
}

func (s *projectService) wait(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.Wait(ctx)
}

func (s *projectService) remember(ctx context.Context, key string, value interface{}) {
	if err := s.snapshots.Store(ctx, key, value); err != nil {
		s.logger.Warn("PROJECTS", "Snapshot store failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

func (s *projectService) recall(ctx context.Context, key string, out interface{}) bool {
	found, err := s.snapshots.Load(ctx, key, out)
	if err != nil {
		s.logger.Warn("PROJECTS", "Snapshot load failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	return found
}
