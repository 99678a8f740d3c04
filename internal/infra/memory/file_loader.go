package memory

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AllieBaig/lingoquest/internal/domain"
)

// FilePoolLoader reads the YAML seed catalog shipped with the app. It is
// the fallback when no database is configured.
type FilePoolLoader struct {
	path string
}

func NewFilePoolLoader(path string) *FilePoolLoader {
	return &FilePoolLoader{path: path}
}

func (l *FilePoolLoader) LoadPools(_ context.Context) (domain.Pools, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read pool seed: %w", err)
	}
	var seed struct {
		Pools domain.Pools `yaml:"pools"`
	}
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse pool seed: %w", err)
	}
	if len(seed.Pools) == 0 {
		return nil, domain.ErrPoolNotFound
	}
	if err := domain.ValidatePools(seed.Pools); err != nil {
		return nil, err
	}
	return seed.Pools, nil
}
