package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	env "github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is looked up in the working directory by every command.
	FileName = "docu-gen-config.yaml"

	// DefaultOutputDir is written by Init.
	DefaultOutputDir = "./docs/api"

	// DefaultPython runs manage.py unless the config or DOCU_GEN_PYTHON says otherwise.
	DefaultPython = "python"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "DOCU_GEN_"

	// used when a config file has no output_dir key
	fallbackOutputDir = "./generated_docs"
)

var (
	ErrConfigNotFound      = errors.New("config file not found")
	ErrConfigAlreadyExists = errors.New("config file already exists")
	ErrProjectNotFound     = errors.New("project not found")
)

type Project struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// Dir returns the project source directory. Relative paths are taken
// relative to base, the directory holding the config file.
func (p Project) Dir(base string) string {
	if filepath.IsAbs(p.Path) {
		return filepath.Clean(p.Path)
	}
	return filepath.Join(base, p.Path)
}

type Config struct {
	Projects  []Project `yaml:"projects,omitempty"`
	OutputDir string    `yaml:"output_dir"`
	Python    string    `yaml:"python,omitempty"`

	// set when the document carries a projects key, even an empty one
	multiProject bool
}

// overrides are read from the environment after the file is decoded
type overrides struct {
	Python    string `env:"PYTHON"`
	OutputDir string `env:"OUTPUT_DIR"`
}

// UnmarshalYAML records whether the projects key is present so that an
// empty list still selects multi-project mode.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type plain Config
	if err := value.Decode((*plain)(c)); err != nil {
		return err
	}
	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			if value.Content[i].Value == "projects" {
				c.multiProject = true
			}
		}
	}
	return nil
}

// MultiProject reports whether the config lists projects explicitly.
func (c *Config) MultiProject() bool {
	return c.multiProject
}

// ProjectNames returns the configured names in list order.
func (c *Config) ProjectNames() []string {
	names := make([]string, 0, len(c.Projects))
	for _, project := range c.Projects {
		names = append(names, project.Name)
	}
	return names
}

// ResolveProject looks a project up by name. Names are not required to be
// unique; the last matching entry wins.
func (c *Config) ResolveProject(name string) (Project, error) {
	var (
		found   Project
		matched bool
	)
	for _, project := range c.Projects {
		if project.Name == name {
			found = project
			matched = true
		}
	}
	if !matched {
		return Project{}, &ProjectNotFoundError{Name: name, Available: c.ProjectNames()}
	}
	return found, nil
}

type ProjectNotFoundError struct {
	Name      string
	Available []string
}

func (e *ProjectNotFoundError) Error() string {
	return fmt.Sprintf("project '%s' not found in '%s'", e.Name, FileName)
}

func (e *ProjectNotFoundError) Is(target error) bool {
	return target == ErrProjectNotFound
}

// Path returns the config file location inside dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Load reads the config file from dir, applies environment overrides and
// fills in defaults.
func Load(dir string) (*Config, error) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	config.setDefaults()
	return &config, nil
}

func (c *Config) applyEnv() error {
	var vars overrides
	if err := env.ParseWithOptions(&vars, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to read environment overrides: %w", err)
	}
	if vars.Python != "" {
		c.Python = vars.Python
	}
	if vars.OutputDir != "" {
		c.OutputDir = vars.OutputDir
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = fallbackOutputDir
	}
	if c.Python == "" {
		c.Python = DefaultPython
	}
}

// documents written by Init; field order is the order on disk
type projectDocument struct {
	OutputDir string `yaml:"output_dir"`
}

type workspaceDocument struct {
	Projects  []Project `yaml:"projects"`
	OutputDir string    `yaml:"output_dir"`
}

// Init writes the default config file into dir and returns its path. An
// existing file is never overwritten. With workspace set the document gets
// an empty projects list, which switches every command to multi-project mode.
func Init(dir string, workspace bool) (string, error) {
	path := Path(dir)

	var doc interface{} = projectDocument{OutputDir: DefaultOutputDir}
	if workspace {
		doc = workspaceDocument{Projects: []Project{}, OutputDir: DefaultOutputDir}
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return path, ErrConfigAlreadyExists
		}
		return path, fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return path, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return path, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return path, nil
}
