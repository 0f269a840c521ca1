// Package release generates release marker files ("[RELEASE] svc-1.2.3.txt")
// and keeps the list of recently generated files.
package release

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	// ErrInvalidInput is matched by every *InputError.
	ErrInvalidInput = errors.New("release: invalid input")
	// ErrDuplicate is returned when a file with the same name is already recorded.
	ErrDuplicate = errors.New("release: file already exists, rename the service or increment the version tag")
	// ErrNotFound is returned when a recent file is not recorded.
	ErrNotFound = errors.New("release: file not found")
)

var (
	serviceNamePattern = regexp.MustCompile(`^[a-zA-Z0-9- ]+$`)
	tagPattern         = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	whitespace         = regexp.MustCompile(`\s+`)
)

// InputError lists the problems found in a service name/tag pair.
type InputError struct {
	Problems []string
}

func (e *InputError) Error() string {
	return "release: " + strings.Join(e.Problems, "; ")
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// Source records where a generated file went.
type Source string

const (
	// SourceDirectory files were written to a directory on disk.
	SourceDirectory Source = "directory"
	// SourceDownload files were handed to the caller instead of written.
	SourceDownload Source = "download"
)

// File is a generated release file that has not been saved yet.
type File struct {
	Service string
	Tag     string
	Name    string
	Content string
}

// RecentFile is a saved release file.
type RecentFile struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Path      string    `json:"path" yaml:"path"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
	Source    Source    `json:"source" yaml:"source"`
}

// NewFile validates the inputs and builds the release file.
func NewFile(serviceName, tag string) (File, error) {
	var problems []string
	switch {
	case strings.TrimSpace(serviceName) == "":
		problems = append(problems, "Service name is required")
	case !serviceNamePattern.MatchString(serviceName):
		problems = append(problems, "Service name can only contain letters, numbers, and hyphens")
	}
	switch {
	case tag == "":
		problems = append(problems, "Tag is required")
	case !tagPattern.MatchString(tag):
		problems = append(problems, "Tag must be in format X.X.X")
	}
	if len(problems) > 0 {
		return File{}, &InputError{Problems: problems}
	}

	service := NormalizeServiceName(serviceName)
	return File{
		Service: service,
		Tag:     tag,
		Name:    fmt.Sprintf("[RELEASE] %s-%s.txt", service, tag),
		Content: fmt.Sprintf("%s:%s", service, tag),
	}, nil
}

// NormalizeServiceName trims the name, joins words with hyphens and lowercases it.
func NormalizeServiceName(name string) string {
	return strings.ToLower(whitespace.ReplaceAllString(strings.TrimSpace(name), "-"))
}
