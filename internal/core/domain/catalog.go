package domain

import (
	"fmt"
	"strings"
)

// DefaultProjectName is the list created on first run
const DefaultProjectName = "Mi Primer Listado"

// Project is a named, ordered list of artworks
type Project struct {
	Name     string    `json:"name"`
	Artworks []Artwork `json:"artworks"`
}

// Catalog is the whole application state: every project in creation order
// plus the name of the active one ("" when none is selected).
//
// Catalog is a value. Every mutating method returns a new Catalog and leaves
// the receiver untouched, so a failed operation never leaves partial changes.
type Catalog struct {
	Projects []Project
	Active   string
}

// DefaultCatalog returns the first-run state: one empty active project
func DefaultCatalog() Catalog {
	return Catalog{
		Projects: []Project{{Name: DefaultProjectName, Artworks: []Artwork{}}},
		Active:   DefaultProjectName,
	}
}

// NewCatalog assembles a catalog from persisted parts and repairs the active
// name: a missing or dangling name falls back to the first project, or to no
// active project when the catalog is empty.
func NewCatalog(projects []Project, active string) Catalog {
	c := Catalog{Projects: projects, Active: active}.clone()
	if c.indexOf(c.Active) < 0 {
		c.Active = ""
		if len(c.Projects) > 0 {
			c.Active = c.Projects[0].Name
		}
	}
	return c
}

// ValidateProjectName checks a candidate project name
func ValidateProjectName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: project name cannot be empty", ErrValidation)
	}
	if len(name) > 120 {
		return fmt.Errorf("%w: project name too long (max 120 characters)", ErrValidation)
	}
	if strings.ContainsAny(name, "\r\n") {
		return fmt.Errorf("%w: project name cannot contain line breaks", ErrValidation)
	}
	return nil
}

// Names returns project names in order
func (c Catalog) Names() []string {
	names := make([]string, len(c.Projects))
	for i, p := range c.Projects {
		names[i] = p.Name
	}
	return names
}

// Has reports whether a project exists
func (c Catalog) Has(name string) bool {
	return c.indexOf(name) >= 0
}

// Project returns a copy of the named project
func (c Catalog) Project(name string) (Project, error) {
	i := c.indexOf(name)
	if i < 0 {
		return Project{}, fmt.Errorf("%w: project %q", ErrNotFound, name)
	}
	return cloneProject(c.Projects[i]), nil
}

// ActiveProject returns a copy of the active project
func (c Catalog) ActiveProject() (Project, error) {
	if c.Active == "" {
		return Project{}, ErrNoActiveProject
	}
	return c.Project(c.Active)
}

// CreateProject appends an empty project and makes it active
func (c Catalog) CreateProject(name string) (Catalog, error) {
	name = strings.TrimSpace(name)
	if err := ValidateProjectName(name); err != nil {
		return c, err
	}
	if c.Has(name) {
		return c, fmt.Errorf("%w: a project named %q already exists", ErrConflict, name)
	}

	next := c.clone()
	next.Projects = append(next.Projects, Project{Name: name, Artworks: []Artwork{}})
	next.Active = name
	return next, nil
}

// RenameProject renames a project in place. The new name must differ from
// the old one and must not be taken.
func (c Catalog) RenameProject(oldName, newName string) (Catalog, error) {
	newName = strings.TrimSpace(newName)
	i := c.indexOf(oldName)
	if i < 0 {
		return c, fmt.Errorf("%w: project %q", ErrNotFound, oldName)
	}
	if err := ValidateProjectName(newName); err != nil {
		return c, err
	}
	if newName == oldName || c.Has(newName) {
		return c, fmt.Errorf("%w: the name %q already exists or is not valid", ErrConflict, newName)
	}

	next := c.clone()
	next.Projects[i].Name = newName
	if next.Active == oldName {
		next.Active = newName
	}
	return next, nil
}

// DeleteProject removes a project. Deleting the active project activates the
// first remaining one, or leaves no active project when none remain.
func (c Catalog) DeleteProject(name string) (Catalog, error) {
	i := c.indexOf(name)
	if i < 0 {
		return c, fmt.Errorf("%w: project %q", ErrNotFound, name)
	}

	next := c.clone()
	next.Projects = append(next.Projects[:i], next.Projects[i+1:]...)
	if next.Active == name {
		next.Active = ""
		if len(next.Projects) > 0 {
			next.Active = next.Projects[0].Name
		}
	}
	return next, nil
}

// SelectProject makes an existing project active
func (c Catalog) SelectProject(name string) (Catalog, error) {
	if !c.Has(name) {
		return c, fmt.Errorf("%w: project %q", ErrNotFound, name)
	}
	next := c.clone()
	next.Active = name
	return next, nil
}

// ClearProject empties a project's artwork list
func (c Catalog) ClearProject(name string) (Catalog, error) {
	i := c.indexOf(name)
	if i < 0 {
		return c, fmt.Errorf("%w: project %q", ErrNotFound, name)
	}
	next := c.clone()
	next.Projects[i].Artworks = []Artwork{}
	return next, nil
}

// AddArtwork appends an artwork to the end of a project
func (c Catalog) AddArtwork(project string, a Artwork) (Catalog, error) {
	i := c.indexOf(project)
	if i < 0 {
		return c, fmt.Errorf("%w: project %q", ErrNotFound, project)
	}
	if a.ID == "" {
		return c, fmt.Errorf("%w: artwork id is required", ErrValidation)
	}
	if a.ImageData == "" {
		return c, fmt.Errorf("%w: an image is required for a new artwork", ErrValidation)
	}
	for _, existing := range c.Projects[i].Artworks {
		if existing.ID == a.ID {
			return c, fmt.Errorf("%w: artwork id %s already used", ErrConflict, a.ID)
		}
	}

	next := c.clone()
	next.Projects[i].Artworks = append(next.Projects[i].Artworks, a)
	return next, nil
}

// UpdateArtwork replaces the artwork with the same id, keeping its position
func (c Catalog) UpdateArtwork(project string, a Artwork) (Catalog, error) {
	i := c.indexOf(project)
	if i < 0 {
		return c, fmt.Errorf("%w: project %q", ErrNotFound, project)
	}

	next := c.clone()
	for j, existing := range next.Projects[i].Artworks {
		if existing.ID == a.ID {
			next.Projects[i].Artworks[j] = a
			return next, nil
		}
	}
	return c, fmt.Errorf("%w: artwork %s", ErrNotFound, a.ID)
}

// RemoveArtwork deletes an artwork by id
func (c Catalog) RemoveArtwork(project, id string) (Catalog, error) {
	i := c.indexOf(project)
	if i < 0 {
		return c, fmt.Errorf("%w: project %q", ErrNotFound, project)
	}

	next := c.clone()
	artworks := next.Projects[i].Artworks
	for j := range artworks {
		if artworks[j].ID == id {
			next.Projects[i].Artworks = append(artworks[:j], artworks[j+1:]...)
			return next, nil
		}
	}
	return c, fmt.Errorf("%w: artwork %s", ErrNotFound, id)
}

// FindArtwork looks an artwork up by full or short id
func (c Catalog) FindArtwork(project, ref string) (Artwork, error) {
	p, err := c.Project(project)
	if err != nil {
		return Artwork{}, err
	}

	var matches []Artwork
	for _, a := range p.Artworks {
		if a.ID == ref {
			return a, nil
		}
		if a.MatchesID(ref) {
			matches = append(matches, a)
		}
	}

	switch len(matches) {
	case 0:
		return Artwork{}, fmt.Errorf("%w: artwork %s in %q", ErrNotFound, ref, project)
	case 1:
		return matches[0], nil
	default:
		return Artwork{}, fmt.Errorf("%w: id %s matches %d artworks, use the full id", ErrValidation, ref, len(matches))
	}
}

// TotalArtworks counts artworks across all projects
func (c Catalog) TotalArtworks() int {
	total := 0
	for _, p := range c.Projects {
		total += len(p.Artworks)
	}
	return total
}

func (c Catalog) indexOf(name string) int {
	if name == "" {
		return -1
	}
	for i, p := range c.Projects {
		if p.Name == name {
			return i
		}
	}
	return -1
}

func (c Catalog) clone() Catalog {
	projects := make([]Project, len(c.Projects))
	for i, p := range c.Projects {
		projects[i] = cloneProject(p)
	}
	return Catalog{Projects: projects, Active: c.Active}
}

func cloneProject(p Project) Project {
	artworks := make([]Artwork, len(p.Artworks))
	copy(artworks, p.Artworks)
	return Project{Name: p.Name, Artworks: artworks}
}
