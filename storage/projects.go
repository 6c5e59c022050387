package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"

	"github.com/zenibako/cuesheet/cuesheet"
)

// ProjectsKey is the key the whole project list is stored under.
const ProjectsKey = "projects"

// DefaultIcon is used for projects created without one.
const DefaultIcon = "📄"

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrCorruptRecord   = errors.New("corrupt project record")
)

// Repository reads and writes the project list. Every operation loads the full
// list and writes it back; there is no partial update and no locking between
// processes, so the last writer wins.
type Repository struct {
	backend Backend
	now     func() time.Time
	newID   func() string
}

// NewRepository returns a repository over backend.
func NewRepository(backend Backend) *Repository {
	return &Repository{
		backend: backend,
		now:     time.Now,
		newID:   func() string { return ulid.Make().String() },
	}
}

func (r *Repository) load(ctx context.Context) ([]cuesheet.Project, error) {
	data, err := r.backend.Get(ctx, ProjectsKey)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	return DecodeProjects(data)
}

// DecodeProjects parses a stored project list, as handed out by FileBackend.Watch.
func DecodeProjects(data []byte) ([]cuesheet.Project, error) {
	var projects []cuesheet.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptRecord, err)
	}
	return projects, nil
}

// DecodeProject picks one project out of a stored project list.
func DecodeProject(data []byte, id string) (cuesheet.Project, error) {
	projects, err := DecodeProjects(data)
	if err != nil {
		return cuesheet.Project{}, err
	}
	i := find(projects, id)
	if i < 0 {
		return cuesheet.Project{}, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	return projects[i], nil
}

func (r *Repository) save(ctx context.Context, projects []cuesheet.Project) error {
	if projects == nil {
		projects = []cuesheet.Project{}
	}
	data, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("failed to encode projects: %w", err)
	}
	if err := r.backend.Put(ctx, ProjectsKey, data); err != nil {
		return fmt.Errorf("failed to save projects: %w", err)
	}
	return nil
}

// List returns every project in creation order.
func (r *Repository) List(ctx context.Context) ([]cuesheet.Project, error) {
	return r.load(ctx)
}

// Get returns one project.
func (r *Repository) Get(ctx context.Context, id string) (cuesheet.Project, error) {
	projects, err := r.load(ctx)
	if err != nil {
		return cuesheet.Project{}, err
	}
	i := find(projects, id)
	if i < 0 {
		return cuesheet.Project{}, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	return projects[i], nil
}

// Create appends a new, empty project. An empty icon falls back to DefaultIcon.
func (r *Repository) Create(ctx context.Context, name, icon, pdfURL string) (cuesheet.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return cuesheet.Project{}, fmt.Errorf("%w: project name is required", cuesheet.ErrInvalidValue)
	}
	if icon == "" {
		icon = DefaultIcon
	}
	projects, err := r.load(ctx)
	if err != nil {
		return cuesheet.Project{}, err
	}

	now := r.now().UTC()
	p := cuesheet.Project{
		ID:        r.newID(),
		Name:      name,
		Icon:      icon,
		PDFURL:    pdfURL,
		Cues:      []cuesheet.Cue{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.save(ctx, append(projects, p)); err != nil {
		return cuesheet.Project{}, err
	}
	log.Info("Created project", "id", p.ID, "name", p.Name)
	return p, nil
}

// Delete removes a project and everything in it.
func (r *Repository) Delete(ctx context.Context, id string) error {
	projects, err := r.load(ctx)
	if err != nil {
		return err
	}
	i := find(projects, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	if err := r.save(ctx, slices.Delete(projects, i, i+1)); err != nil {
		return err
	}
	log.Info("Deleted project", "id", id)
	return nil
}

// SaveCues replaces a project's cue list and bumps its UpdatedAt.
func (r *Repository) SaveCues(ctx context.Context, id string, cues []cuesheet.Cue) error {
	return r.update(ctx, id, func(p *cuesheet.Project) {
		p.Cues = slices.Clone(cues)
		if p.Cues == nil {
			p.Cues = []cuesheet.Cue{}
		}
	})
}

// SaveScenes replaces a project's scene headings.
func (r *Repository) SaveScenes(ctx context.Context, id string, scenes []cuesheet.SceneHeading) error {
	return r.update(ctx, id, func(p *cuesheet.Project) {
		p.SceneHeadings = slices.Clone(scenes)
	})
}

// Persister binds the cue store of one project to this repository.
func (r *Repository) Persister(id string) cuesheet.Persister {
	return cuesheet.PersisterFunc(func(ctx context.Context, cues []cuesheet.Cue) error {
		return r.SaveCues(ctx, id, cues)
	})
}

func (r *Repository) update(ctx context.Context, id string, fn func(*cuesheet.Project)) error {
	projects, err := r.load(ctx)
	if err != nil {
		return err
	}
	i := find(projects, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	fn(&projects[i])
	projects[i].UpdatedAt = r.now().UTC()
	return r.save(ctx, projects)
}

func find(projects []cuesheet.Project, id string) int {
	return slices.IndexFunc(projects, func(p cuesheet.Project) bool { return p.ID == id })
}
