// SPDX-License-Identifier: MPL-2.0

package rpm

import (
	"context"
	"errors"
	"fmt"
)

const (
	// EngineDocker selects the docker CLI.
	EngineDocker = "docker"
	// EnginePodman selects the podman CLI.
	EnginePodman = "podman"
)

var (
	// ErrInvalidEngine is returned for a container engine other than docker or podman.
	ErrInvalidEngine = errors.New("invalid container engine")

	// ErrMissingImage is returned when no container image is configured.
	ErrMissingImage = errors.New("container image is required")
)

// ContainerRunner runs commands inside a throwaway container. The command's
// working directory is bind-mounted at the same path, so rpmbuild sees the
// workspace exactly where the host left it.
type ContainerRunner struct {
	engine string
	image  string
	mount  string
	inner  Runner
}

// NewContainerRunner creates a runner that wraps every command in
// "<engine> run --rm -v <mount>:<mount> -w <dir> <image>". mount is typically the
// rpmbuild workspace. The image must provide the wrapped program. inner executes
// the engine CLI on the host.
func NewContainerRunner(engine, image, mount string, inner Runner) (*ContainerRunner, error) {
	switch engine {
	case EngineDocker, EnginePodman:
	default:
		return nil, fmt.Errorf("%w %q (valid: docker, podman)", ErrInvalidEngine, engine)
	}
	if image == "" {
		return nil, ErrMissingImage
	}
	return &ContainerRunner{engine: engine, image: image, mount: mount, inner: inner}, nil
}

// Run implements Runner. A non-zero exit of the wrapped command surfaces as a
// ProcessError naming the wrapped command, not the engine.
func (r *ContainerRunner) Run(ctx context.Context, c Command) error {
	err := r.inner.Run(ctx, r.Wrap(c))
	var procErr *ProcessError
	if errors.As(err, &procErr) {
		return &ProcessError{Command: c.Name, ExitCode: procErr.ExitCode}
	}
	return err
}

// Wrap returns the engine invocation that runs c inside the container.
func (r *ContainerRunner) Wrap(c Command) Command {
	args := []string{"run", "--rm", "-v", r.mount + ":" + r.mount}
	if c.Dir != "" {
		args = append(args, "-w", c.Dir)
	}
	args = append(args, r.image, c.Name)
	args = append(args, c.Args...)
	return Command{Name: r.engine, Args: args}
}
