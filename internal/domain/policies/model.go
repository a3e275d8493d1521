package policies

import (
	"strings"
	"time"
)

// Resource identifica un dato protegido de un perfil:
// una foto concreta ("photo:<id>") o una categoría de PII ("pii:<categoría>").
type Resource string

const (
	ResourcePhotos      Resource = "pii:photos"
	ResourceContactInfo Resource = "pii:contact_info"
	ResourceDateOfBirth Resource = "pii:date_of_birth"
	ResourceLinkedIn    Resource = "pii:linkedin_url"
)

// PIICategories enumera las categorías fijas. Todo perfil las "tiene"
// aunque nunca se haya seteado una policy explícita.
var PIICategories = []Resource{
	ResourcePhotos,
	ResourceContactInfo,
	ResourceDateOfBirth,
	ResourceLinkedIn,
}

func PhotoResource(photoID string) Resource {
	return Resource("photo:" + strings.TrimSpace(photoID))
}

func (r Resource) IsPhoto() bool {
	return strings.HasPrefix(string(r), "photo:") && len(r) > len("photo:")
}

func (r Resource) PhotoID() string {
	if !r.IsPhoto() {
		return ""
	}
	return strings.TrimPrefix(string(r), "photo:")
}

func (r Resource) IsPII() bool {
	for _, c := range PIICategories {
		if r == c {
			return true
		}
	}
	return false
}

// Valid indica si el identificador tiene forma conocida. No implica que el
// owner realmente tenga esa foto: eso lo responde Knows().
func (r Resource) Valid() bool {
	return r.IsPhoto() || r.IsPII()
}

type PolicyType string

const (
	PolicyClear       PolicyType = "clear"
	PolicyBlurred     PolicyType = "blurred"
	PolicyHidden      PolicyType = "hidden"
	PolicyConditional PolicyType = "conditional"
)

type BlurLevel string

const (
	BlurLight  BlurLevel = "light"
	BlurMedium BlurLevel = "medium"
	BlurHeavy  BlurLevel = "heavy"
)

type Placeholder string

const (
	PlaceholderLock       Placeholder = "lock"
	PlaceholderSilhouette Placeholder = "silhouette"
	PlaceholderFrame      Placeholder = "frame"
)

// Policy es una variante etiquetada: según Type aplican distintos campos.
// Exactamente una policy está activa por recurso; cambiarla nunca revoca
// grants ya emitidos.
type Policy struct {
	Type PolicyType `json:"type"`

	// Type == blurred
	Blur BlurLevel `json:"blur,omitempty"`

	// Type == hidden
	Placeholder Placeholder `json:"placeholder,omitempty"`

	// Type == conditional
	ClearIfFavorited   bool `json:"clear_if_favorited,omitempty"`
	ClearIfShortlisted bool `json:"clear_if_shortlisted,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

func Clear() Policy {
	return Policy{Type: PolicyClear}
}

func Blurred(level BlurLevel) Policy {
	return Policy{Type: PolicyBlurred, Blur: level}
}

func Hidden(p Placeholder) Policy {
	return Policy{Type: PolicyHidden, Placeholder: p}
}

func Conditional(clearIfFavorited, clearIfShortlisted bool) Policy {
	return Policy{
		Type:               PolicyConditional,
		ClearIfFavorited:   clearIfFavorited,
		ClearIfShortlisted: clearIfShortlisted,
	}
}

func (p Policy) Validate() bool {
	switch p.Type {
	case PolicyClear:
		return true
	case PolicyBlurred:
		return p.Blur == BlurLight || p.Blur == BlurMedium || p.Blur == BlurHeavy
	case PolicyHidden:
		return p.Placeholder == PlaceholderLock ||
			p.Placeholder == PlaceholderSilhouette ||
			p.Placeholder == PlaceholderFrame
	case PolicyConditional:
		return p.ClearIfFavorited || p.ClearIfShortlisted
	default:
		return false
	}
}

// DefaultFor es la policy implícita cuando el owner nunca seteó una:
// foto primaria => clear; resto de fotos => blurred medium;
// categorías de PII => hidden lock.
func DefaultFor(r Resource, isPrimaryPhoto bool) Policy {
	if r.IsPhoto() {
		if isPrimaryPhoto {
			return Clear()
		}
		return Blurred(BlurMedium)
	}
	return Hidden(PlaceholderLock)
}
