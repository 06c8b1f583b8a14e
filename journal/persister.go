package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// JSONPersister is a file-based Store using JSON serialization.
type JSONPersister struct {
	dir string
}

// NewJSONPersister creates a JSONPersister, ensuring the directory exists.
func NewJSONPersister(dir string) (*JSONPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &JSONPersister{dir: dir}, nil
}

func (p *JSONPersister) Save(ctx context.Context, snapshot Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	return writeSnapshot(filepath.Join(p.dir, snapshot.PresenterID+".json"), data)
}

func (p *JSONPersister) Load(ctx context.Context, presenterID string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	data, err := readSnapshot(filepath.Join(p.dir, presenterID+".json"), presenterID)
	if err != nil {
		return Snapshot{}, err
	}
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("json unmarshal: %w", err)
	}
	snapshot.PresenterID = presenterID
	return snapshot, nil
}

// YAMLPersister is a file-based Store using YAML serialization.
type YAMLPersister struct {
	dir string
}

// NewYAMLPersister creates a YAMLPersister, ensuring the directory exists.
func NewYAMLPersister(dir string) (*YAMLPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &YAMLPersister{dir: dir}, nil
}

func (p *YAMLPersister) Save(ctx context.Context, snapshot Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	return writeSnapshot(filepath.Join(p.dir, snapshot.PresenterID+".yaml"), data)
}

func (p *YAMLPersister) Load(ctx context.Context, presenterID string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	data, err := readSnapshot(filepath.Join(p.dir, presenterID+".yaml"), presenterID)
	if err != nil {
		return Snapshot{}, err
	}
	var snapshot Snapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	snapshot.PresenterID = presenterID
	return snapshot, nil
}

func writeSnapshot(fn string, data []byte) error {
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

func readSnapshot(fn, presenterID string) ([]byte, error) {
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: presenter %q: %w", ErrNotFound, presenterID, os.ErrNotExist)
		}
		return nil, fmt.Errorf("read %s: %w", fn, err)
	}
	return data, nil
}
