package visibility

import (
	"context"
	"errors"
	"time"

	"profile-visibility/internal/domain/policies"
	"profile-visibility/internal/domain/profiles"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileSource entrega el perfil y sus fotos para armar la proyección.
type ProfileSource interface {
	Get(ctx context.Context, username string) (profiles.Profile, error)
	ListPhotos(ctx context.Context, owner string) ([]profiles.Photo, error)
}

// Service combina el resolver con la proyección de perfil completa que
// consume la UI: cada campo llega enmascarado o en claro según el verdict.
type Service struct {
	resolver *Resolver
	source   ProfileSource
}

func NewService(resolver *Resolver, source ProfileSource) *Service {
	return &Service{resolver: resolver, source: source}
}

func (s *Service) Resolve(ctx context.Context, viewer, owner string, resource policies.Resource) (Verdict, error) {
	return s.resolver.Resolve(ctx, viewer, owner, resource)
}

// ResolveProfile evalúa todos los recursos del owner de una vez: las cuatro
// categorías de PII más cada foto.
func (s *Service) ResolveProfile(ctx context.Context, viewer, owner string) (map[policies.Resource]Verdict, error) {
	photos, err := s.source.ListPhotos(ctx, owner)
	if err != nil {
		return nil, ErrStorageUnavailable
	}

	out := make(map[policies.Resource]Verdict, len(policies.PIICategories)+len(photos))
	for _, res := range policies.PIICategories {
		v, err := s.resolver.Resolve(ctx, viewer, owner, res)
		if err != nil {
			return nil, err
		}
		out[res] = v
	}
	for _, ph := range photos {
		res := policies.PhotoResource(ph.ID)
		v, err := s.resolver.Resolve(ctx, viewer, owner, res)
		if err != nil {
			return nil, err
		}
		out[res] = v
	}
	return out, nil
}

type PhotoView struct {
	ID                string `json:"id"`
	URL               string `json:"url,omitempty"`
	Position          int    `json:"position"`
	IsPrimary         bool   `json:"is_primary"`
	Render            Render `json:"render"`
	Badge             *Badge `json:"badge,omitempty"`
	Action            Action `json:"action"`
	HasPendingRequest bool   `json:"has_pending_request"`
}

type ProfileView struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`

	ContactEmail  string `json:"contact_email,omitempty"`
	ContactNumber string `json:"contact_number,omitempty"`
	Location      string `json:"location,omitempty"`
	Workplace     string `json:"workplace,omitempty"`
	ContactMasked bool   `json:"contact_masked"`

	DateOfBirth       *time.Time `json:"date_of_birth,omitempty"`
	DateOfBirthMasked bool       `json:"date_of_birth_masked"`

	LinkedInURL       string `json:"linkedin_url,omitempty"`
	LinkedInURLMasked bool   `json:"linkedin_url_masked"`

	Photos []PhotoView `json:"photos"`

	PII map[string]Verdict `json:"pii"`
}

// View construye el perfil tal como lo ve el viewer. La URL de una foto
// solo viaja cuando el verdict permite verla: el enmascarado sucede acá,
// no en el cliente.
func (s *Service) View(ctx context.Context, viewer, owner string) (ProfileView, error) {
	p, err := s.source.Get(ctx, owner)
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			return ProfileView{}, ErrProfileNotFound
		}
		return ProfileView{}, ErrStorageUnavailable
	}

	view := ProfileView{
		Username:    p.Username,
		DisplayName: p.DisplayName,
		PII:         map[string]Verdict{},
	}

	contact, err := s.resolver.Resolve(ctx, viewer, owner, policies.ResourceContactInfo)
	if err != nil {
		return ProfileView{}, err
	}
	view.PII[string(policies.ResourceContactInfo)] = contact
	if contact.CanView {
		view.ContactEmail = p.ContactEmail
		view.ContactNumber = p.ContactNumber
		view.Location = p.Location
		view.Workplace = p.Workplace
	} else {
		view.ContactMasked = true
		view.ContactEmail = MaskEmail(p.ContactEmail)
		view.ContactNumber = MaskPhone(p.ContactNumber)
		view.Location = MaskLocation(p.Location)
		view.Workplace = MaskWorkplace(p.Workplace)
	}

	dob, err := s.resolver.Resolve(ctx, viewer, owner, policies.ResourceDateOfBirth)
	if err != nil {
		return ProfileView{}, err
	}
	view.PII[string(policies.ResourceDateOfBirth)] = dob
	if dob.CanView {
		view.DateOfBirth = p.DateOfBirth
	} else {
		view.DateOfBirthMasked = true
	}

	linked, err := s.resolver.Resolve(ctx, viewer, owner, policies.ResourceLinkedIn)
	if err != nil {
		return ProfileView{}, err
	}
	view.PII[string(policies.ResourceLinkedIn)] = linked
	if linked.CanView {
		view.LinkedInURL = p.LinkedInURL
	} else {
		view.LinkedInURLMasked = true
		view.LinkedInURL = MaskLinkedIn(p.LinkedInURL)
	}

	photos, err := s.source.ListPhotos(ctx, owner)
	if err != nil {
		return ProfileView{}, ErrStorageUnavailable
	}
	view.Photos = make([]PhotoView, 0, len(photos))
	for _, ph := range photos {
		v, err := s.resolver.Resolve(ctx, viewer, owner, policies.PhotoResource(ph.ID))
		if err != nil {
			return ProfileView{}, err
		}
		pv := PhotoView{
			ID:                ph.ID,
			Position:          ph.Position,
			IsPrimary:         ph.IsPrimary,
			Render:            v.Render,
			Badge:             v.Badge,
			Action:            v.Action,
			HasPendingRequest: v.Badge != nil && v.Badge.Severity == SeverityInfo,
		}
		if v.CanView || v.Render.Mode == RenderBlurred {
			// blurred viaja con URL: el tratamiento lo aplica el renderer
			pv.URL = ph.URL
		}
		view.Photos = append(view.Photos, pv)
	}
	return view, nil
}
