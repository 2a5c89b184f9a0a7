package forge

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"time"

	"github.com/creack/pty"
	"github.com/socotra-protocol/contracts/internal/domain/config"
	"github.com/socotra-protocol/contracts/internal/usecase"
)

// Builder runs forge build in the project root
type Builder struct {
	log         *slog.Logger
	projectRoot string
	command     string
}

// NewBuilder creates a new forge builder
func NewBuilder(cfg *config.RuntimeConfig, log *slog.Logger) *Builder {
	return &Builder{
		log:         log.With("component", "ForgeBuilder"),
		projectRoot: cfg.ProjectRoot,
		command:     "forge",
	}
}

// Build compiles the project. Output is captured through a PTY so forge keeps
// its colored diagnostics, and only surfaced when the build fails.
func (b *Builder) Build(ctx context.Context) error {
	start := time.Now()
	b.log.Debug("running forge build", "dir", b.projectRoot)

	cmd := exec.CommandContext(ctx, b.command, "build")
	cmd.Dir = b.projectRoot

	ptyFile, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("failed to start %s: %w", b.command, err)
	}
	defer func() {
		_ = ptyFile.Close()
	}()

	var output bytes.Buffer
	// Reading a PTY returns EIO once the child exits
	_, _ = io.Copy(&output, ptyFile)

	err = cmd.Wait()
	duration := time.Since(start)
	if err != nil {
		b.log.Error("forge build failed", "error", err, "duration", duration)
		return fmt.Errorf("forge build failed: %w\nOutput: %s", err, output.String())
	}

	b.log.Debug("forge build completed successfully", "duration", duration)
	return nil
}

var _ usecase.ArtifactBuilder = (*Builder)(nil)
