package generator

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrArtifactWriteFailed indicates an output file could not be written.
	ErrArtifactWriteFailed = errors.New("generator: artifact write failed")
	// ErrDependencyMissing indicates the generator was constructed without a required service.
	ErrDependencyMissing = errors.New("generator: dependency missing")
)

func writeFailed(target string, err error) error {
	return goerrors.Wrap(fmt.Errorf("%w: %s: %w", ErrArtifactWriteFailed, target, err), goerrors.CategoryInternal, "generator artifact write failed").
		WithTextCode("ARTIFACT_WRITE_FAILED")
}

func dependencyMissing(name string) error {
	return goerrors.Wrap(fmt.Errorf("%w: %s", ErrDependencyMissing, name), goerrors.CategoryInternal, "generator dependency missing").
		WithTextCode("GENERATOR_DEPENDENCY_MISSING")
}
