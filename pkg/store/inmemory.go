package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/qiuchen001/kubeflow-ground/pkg/api"
)

// NewInMemoryStore returns a new InMemory store
func NewInMemoryStore() Store {
	return &inMemory{
		components: make(map[string]api.Component),
		pipelines:  make(map[string]api.Pipeline),
	}
}

type inMemory struct {
	mutex      sync.RWMutex
	components map[string]api.Component
	pipelines  map[string]api.Pipeline
}

func (s *inMemory) GetComponent(ctx context.Context, id string) (api.Component, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	c, exists := s.components[id]
	if !exists {
		return api.Component{}, NotFoundError(fmt.Sprintf("component %s", id))
	}
	return c, nil
}

func (s *inMemory) ListComponents(ctx context.Context) ([]api.Component, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	res := make([]api.Component, 0, len(s.components))
	for _, c := range s.components {
		res = append(res, c)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (s *inMemory) SaveComponent(ctx context.Context, c api.Component) (api.Component, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.components[c.ID] = c
	return c, nil
}

func (s *inMemory) DeleteComponent(ctx context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, exists := s.components[id]; !exists {
		return NotFoundError(fmt.Sprintf("component %s", id))
	}
	delete(s.components, id)
	return nil
}

func (s *inMemory) GetPipeline(ctx context.Context, id string) (api.Pipeline, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	p, exists := s.pipelines[id]
	if !exists {
		return api.Pipeline{}, NotFoundError(fmt.Sprintf("pipeline %s", id))
	}
	return p, nil
}

func (s *inMemory) ListPipelines(ctx context.Context) ([]api.Pipeline, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	res := make([]api.Pipeline, 0, len(s.pipelines))
	for _, p := range s.pipelines {
		res = append(res, p)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (s *inMemory) SavePipeline(ctx context.Context, p api.Pipeline) (api.Pipeline, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.pipelines[p.ID] = p
	return p, nil
}

func (s *inMemory) DeletePipeline(ctx context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, exists := s.pipelines[id]; !exists {
		return NotFoundError(fmt.Sprintf("pipeline %s", id))
	}
	delete(s.pipelines, id)
	return nil
}
