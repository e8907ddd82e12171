package generator

import "log/slog"

type Generator struct {
	config Config
	runner Runner
	logger *slog.Logger
}

type Config struct {
	// OutputDir is the output root as written in the config file; report
	// paths are built from it.
	OutputDir string
	// BaseDir resolves relative OutputDir and project paths.
	BaseDir string
	// Python is the interpreter that runs manage.py.
	Python string
}

// Target is one project to generate documentation for.
type Target struct {
	Name string
	Path string
}

type ArtifactKind string

const (
	ArtifactSchema  ArtifactKind = "schema"
	ArtifactPostman ArtifactKind = "postman"
)

type Artifact struct {
	Kind     ArtifactKind
	Label    string
	FileName string
	Flags    []string
}

// Artifacts are produced in this order for every project.
var Artifacts = []Artifact{
	{Kind: ArtifactSchema, Label: "OpenAPI schema", FileName: "schema.yml"},
	{Kind: ArtifactPostman, Label: "Postman collection", FileName: "postman.json", Flags: []string{"--postman"}},
}

type Status string

const (
	StatusOK        Status = "ok"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
	StatusProcessed Status = "processed"
)

type ArtifactResult struct {
	Artifact Artifact
	Status   Status
	// Path is where the artifact ends up, relative to the output root as configured.
	Path string
	Err  error
	// Output holds whatever the command wrote to stderr when it failed.
	Output string
}

type ProjectResult struct {
	Target    Target
	Status    Status
	Reason    string
	OutputDir string
	Artifacts []ArtifactResult
}

type Report struct {
	Projects []ProjectResult
	// Err is set when the run was cancelled before every target was handled.
	Err error
}

// Failures counts artifacts that could not be produced.
func (r *Report) Failures() int {
	count := 0
	for _, project := range r.Projects {
		for _, artifact := range project.Artifacts {
			if artifact.Status == StatusFailed {
				count++
			}
		}
	}
	return count
}

// Skipped counts projects whose source directory was missing.
func (r *Report) Skipped() int {
	count := 0
	for _, project := range r.Projects {
		if project.Status == StatusSkipped {
			count++
		}
	}
	return count
}
