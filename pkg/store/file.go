package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/qiuchen001/kubeflow-ground/pkg/api"
)

const (
	componentsDir = "components"
	pipelinesDir  = "pipelines"
)

// Config is the store configuration.
type Config struct {
	// DataDir is the root directory of the file store. The in memory store is used when empty.
	DataDir string `mapstructure:"dataDir" env:"DATA_DIR"`
}

// New returns the store selected by the configuration.
func New(conf Config) (Store, error) {
	if conf.DataDir == "" {
		return NewInMemoryStore(), nil
	}
	return NewFileStore(conf.DataDir)
}

// NewFileStore returns a store keeping one JSON file per record:
// <dir>/components/<id>.json and <dir>/pipelines/<id>.json.
func NewFileStore(dir string) (Store, error) {
	for _, d := range []string{componentsDir, pipelinesDir} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0755); err != nil {
			return nil, errors.Wrapf(err, "cannot create directory %s", filepath.Join(dir, d))
		}
	}
	return &fileStore{dir: dir}, nil
}

type fileStore struct {
	mutex sync.RWMutex
	dir   string
}

func (s *fileStore) path(kind, id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", NotFoundError(fmt.Sprintf("%s %q", strings.TrimSuffix(kind, "s"), id))
	}
	return filepath.Join(s.dir, kind, id+".json"), nil
}

func (s *fileStore) read(kind, id string, v interface{}) error {
	path, err := s.path(kind, id)
	if err != nil {
		return err
	}
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	b, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return NotFoundError(fmt.Sprintf("%s %s", strings.TrimSuffix(kind, "s"), id))
	}
	if err != nil {
		return errors.Wrapf(err, "cannot read %s", path)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return errors.Wrapf(err, "cannot decode %s", path)
	}
	return nil
}

func (s *fileStore) write(kind, id string, v interface{}) error {
	path, err := s.path(kind, id)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "cannot encode %s %s", kind, id)
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if err := ioutil.WriteFile(path, b, 0644); err != nil {
		return errors.Wrapf(err, "cannot write %s", path)
	}
	return nil
}

func (s *fileStore) remove(kind, id string) error {
	path, err := s.path(kind, id)
	if err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return NotFoundError(fmt.Sprintf("%s %s", strings.TrimSuffix(kind, "s"), id))
	}
	return errors.Wrapf(err, "cannot remove %s", path)
}

// list decodes every record of kind, sorted by file name. Unreadable files are skipped.
func (s *fileStore) list(kind string, decode func([]byte) error) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	dir := filepath.Join(s.dir, kind)
	files, err := ioutil.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, "cannot list %s", dir)
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		if !f.IsDir() && filepath.Ext(f.Name()) == ".json" {
			names = append(names, f.Name())
		}
	}
	sort.Strings(names)
	for _, n := range names {
		b, err := ioutil.ReadFile(filepath.Join(dir, n))
		if err != nil {
			continue
		}
		_ = decode(b)
	}
	return nil
}

func (s *fileStore) GetComponent(ctx context.Context, id string) (api.Component, error) {
	var c api.Component
	if err := s.read(componentsDir, id, &c); err != nil {
		return api.Component{}, err
	}
	return c, nil
}

func (s *fileStore) ListComponents(ctx context.Context) ([]api.Component, error) {
	res := []api.Component{}
	err := s.list(componentsDir, func(b []byte) error {
		var c api.Component
		if err := json.Unmarshal(b, &c); err != nil {
			return err
		}
		res = append(res, c)
		return nil
	})
	return res, err
}

func (s *fileStore) SaveComponent(ctx context.Context, c api.Component) (api.Component, error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return c, s.write(componentsDir, c.ID, c)
}

func (s *fileStore) DeleteComponent(ctx context.Context, id string) error {
	return s.remove(componentsDir, id)
}

func (s *fileStore) GetPipeline(ctx context.Context, id string) (api.Pipeline, error) {
	var p api.Pipeline
	if err := s.read(pipelinesDir, id, &p); err != nil {
		return api.Pipeline{}, err
	}
	return p, nil
}

func (s *fileStore) ListPipelines(ctx context.Context) ([]api.Pipeline, error) {
	res := []api.Pipeline{}
	err := s.list(pipelinesDir, func(b []byte) error {
		var p api.Pipeline
		if err := json.Unmarshal(b, &p); err != nil {
			return err
		}
		res = append(res, p)
		return nil
	})
	return res, err
}

func (s *fileStore) SavePipeline(ctx context.Context, p api.Pipeline) (api.Pipeline, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return p, s.write(pipelinesDir, p.ID, p)
}

func (s *fileStore) DeletePipeline(ctx context.Context, id string) error {
	return s.remove(pipelinesDir, id)
}
