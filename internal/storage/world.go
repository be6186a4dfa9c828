package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jwebster45206/realm-engine/pkg/progression"
	"github.com/jwebster45206/realm-engine/pkg/storage"
	"gopkg.in/yaml.v3"
)

func isWorldFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}

// World preset operations (filesystem-backed)

func (r *RedisStorage) ListWorlds(ctx context.Context) (map[string]string, error) {
	worldsDir := filepath.Join(r.dataDir, "worlds")
	worlds := make(map[string]string)

	err := filepath.WalkDir(worldsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !isWorldFile(path) {
			return nil
		}
		w, err := readWorld(path, r.ladder)
		if err != nil {
			r.logger.Warn("Skipping world file", "path", path, "error", err)
			return nil
		}
		worlds[w.Name] = filepath.Base(path)
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to walk worlds directory", "error", err)
		return nil, fmt.Errorf("failed to list worlds: %w", err)
	}
	return worlds, nil
}

func (r *RedisStorage) GetWorld(ctx context.Context, filename string) (*storage.World, error) {
	path := filepath.Join(r.dataDir, "worlds", filepath.Base(filename))
	w, err := readWorld(path, r.ladder)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", storage.ErrWorldNotFound, filename)
		}
		return nil, err
	}
	return w, nil
}

// readWorld decodes a preset. A preset without a realm list gets ladder.
func readWorld(path string, ladder progression.Table) (*storage.World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var w storage.World
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to parse world %s: %w", path, err)
	}
	if len(w.Progression.Realms) == 0 {
		w.Progression = ladder
	}
	if err := w.Progression.Validate(); err != nil {
		return nil, fmt.Errorf("invalid progression in %s: %w", path, err)
	}
	if w.Name == "" {
		w.Name = filepath.Base(path)
	}
	return &w, nil
}
