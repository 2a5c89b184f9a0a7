package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/socotra-protocol/contracts/internal/domain"
	"github.com/socotra-protocol/contracts/internal/domain/config"
	"github.com/socotra-protocol/contracts/internal/domain/forge"
	"github.com/socotra-protocol/contracts/internal/usecase"
)

// ArtifactRepository indexes the Foundry output directory and loads
// deployable artifacts by contract name or "path:Name"
type ArtifactRepository struct {
	outDir  string
	builder usecase.ArtifactBuilder
	log     *slog.Logger

	mu      sync.RWMutex
	indexed bool
	byKey   map[string]string   // "src/Foo.sol:Foo" -> artifact path
	byName  map[string][]string // "Foo" -> artifact paths
	cache   map[string]*usecase.Artifact
}

// NewArtifactRepository creates a repository over cfg.ArtifactsDir. When
// cfg.Build is set, the builder runs once before the first index.
func NewArtifactRepository(cfg *config.RuntimeConfig, builder *Builder, log *slog.Logger) *ArtifactRepository {
	repo := &ArtifactRepository{
		outDir: cfg.ArtifactsDir,
		log:    log.With("component", "ArtifactRepository"),
		byKey:  make(map[string]string),
		byName: make(map[string][]string),
		cache:  make(map[string]*usecase.Artifact),
	}
	if cfg.Build && builder != nil {
		repo.builder = builder
	}
	return repo
}

// LoadArtifact returns the parsed ABI and creation bytecode of a contract
func (r *ArtifactRepository) LoadArtifact(ctx context.Context, name string) (*usecase.Artifact, error) {
	if err := r.index(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	if cached, ok := r.cache[name]; ok {
		r.mu.RUnlock()
		return cached, nil
	}
	path, err := r.lookup(name)
	r.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	artifact, err := readArtifact(path)
	if err != nil {
		return nil, err
	}
	if !artifact.HasBytecode() {
		return nil, fmt.Errorf("artifact %s has no creation bytecode (abstract contract or interface?)", name)
	}

	parsed, err := abi.JSON(strings.NewReader(string(artifact.ABI)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI of %s: %w", name, err)
	}
	bytecode, err := hexutil.Decode(artifact.Bytecode.Object)
	if err != nil {
		return nil, fmt.Errorf("failed to decode bytecode of %s: %w", name, err)
	}

	loaded := &usecase.Artifact{
		Name:     name,
		ABI:      &parsed,
		Bytecode: bytecode,
	}

	r.mu.Lock()
	r.cache[name] = loaded
	r.mu.Unlock()

	return loaded, nil
}

// lookup must be called with r.mu held
func (r *ArtifactRepository) lookup(name string) (string, error) {
	if path, ok := r.byKey[name]; ok {
		return path, nil
	}
	paths := r.byName[name]
	switch len(paths) {
	case 0:
		return "", fmt.Errorf("artifact %s: %w", name, domain.ErrNotFound)
	case 1:
		return paths[0], nil
	default:
		return "", fmt.Errorf("artifact %s is ambiguous, use path:Name (%d matches)", name, len(paths))
	}
}

func (r *ArtifactRepository) index(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexed {
		return nil
	}

	if r.builder != nil {
		if err := r.builder.Build(ctx); err != nil {
			return fmt.Errorf("failed to build contracts: %w", err)
		}
	}

	if _, err := os.Stat(r.outDir); os.IsNotExist(err) {
		return fmt.Errorf("artifacts directory %s not found, run forge build first", r.outDir)
	}

	err := filepath.WalkDir(r.outDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".json" {
			return nil
		}

		artifact, err := readArtifact(path)
		if err != nil {
			// Skip files that are not artifacts
			r.log.Debug("skipping file", "path", path, "error", err)
			return nil
		}

		source, contract := artifact.Target()
		if contract == "" {
			// Fall back to the out/<Source>.sol/<Contract>.json layout
			contract = strings.TrimSuffix(d.Name(), ".json")
			source = filepath.Base(filepath.Dir(path))
		}

		r.byKey[source+":"+contract] = path
		r.byName[contract] = append(r.byName[contract], path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to index artifacts: %w", err)
	}

	r.indexed = true
	r.log.Debug("indexed artifacts", "dir", r.outDir, "contracts", len(r.byName))
	return nil
}

func readArtifact(path string) (*forge.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var artifact forge.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, err
	}
	return &artifact, nil
}

var _ usecase.ArtifactLoader = (*ArtifactRepository)(nil)
