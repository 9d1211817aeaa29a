// Package favorites defines the record a finished painting is saved as.
package favorites

import (
	"errors"
	"strings"
)

var (
	ErrNameRequired  = errors.New("favorites: please enter a name for your coloring")
	ErrImageRequired = errors.New("favorites: image is required")
)

// Favorite is a saved painting. Image holds the painting as a data URI.
type Favorite struct {
	Name        string   `json:"name" yaml:"name"`
	Image       string   `json:"image" yaml:"image"`
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags" yaml:"tags"`
}

// New builds a favorite with the name trimmed, empty tags dropped and the
// tag list never nil.
func New(name, image, description string, tags []string) Favorite {
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	return Favorite{
		Name:        strings.TrimSpace(name),
		Image:       image,
		Description: description,
		Tags:        clean,
	}
}

func (f Favorite) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrNameRequired
	}
	if f.Image == "" {
		return ErrImageRequired
	}
	return nil
}

// ParseTags splits a comma separated tag field.
func ParseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return New("", "", "", strings.Split(s, ",")).Tags
}
