package visibility

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"profile-visibility/internal/domain/grants"
	"profile-visibility/internal/domain/policies"
)

var ErrStorageUnavailable = errors.New("storage unavailable")

// PolicySource responde la policy vigente y si el recurso existe para el
// owner. Interfaz angosta sobre el service de policies.
type PolicySource interface {
	Get(ctx context.Context, owner string, resource policies.Resource) (policies.Policy, error)
	Knows(ctx context.Context, owner string, resource policies.Resource) (bool, error)
}

// GrantSource entrega el grant no-superseded del triple sin filtrar por
// usabilidad (el resolver necesita distinguir caducado de ausente) y el
// consumo atómico de one-time-views.
type GrantSource interface {
	Latest(ctx context.Context, owner string, resource policies.Resource, grantee string) (grants.Grant, error)
	ConsumeOnce(ctx context.Context, grantID string) (bool, error)
}

type RequestSource interface {
	HasPending(ctx context.Context, requester, owner string, resource policies.Resource) (bool, error)
}

type RelationSource interface {
	IsFavorited(ctx context.Context, viewer, owner string) (bool, error)
	IsShortlisted(ctx context.Context, viewer, owner string) (bool, error)
}

// Resolver decide qué ve un viewer sobre cada recurso de un owner.
// Es seguro para lectores concurrentes: la única mutación embebida en el
// camino de lectura es el consumo de one-time-views, que delega en un
// compare-and-set del storage.
type Resolver struct {
	policies  PolicySource
	grants    GrantSource
	requests  RequestSource
	relations RelationSource

	now func() time.Time
}

func NewResolver(p PolicySource, g GrantSource, req RequestSource, rel RelationSource) *Resolver {
	return &Resolver{
		policies:  p,
		grants:    g,
		requests:  req,
		relations: rel,
		now:       time.Now,
	}
}

// Resolve evalúa (viewer, owner, resource) con precedencia fija:
// owner primero, recurso desconocido cierra en seco, luego grants,
// luego pendientes, y al final la policy declarada.
func (r *Resolver) Resolve(ctx context.Context, viewer, owner string, resource policies.Resource) (Verdict, error) {
	if viewer == owner {
		return Verdict{CanView: true, Render: clearRender(), Action: ActionNone}, nil
	}

	known, err := r.policies.Knows(ctx, owner, resource)
	if err != nil {
		return Verdict{}, ErrStorageUnavailable
	}
	if !known {
		// fail-closed: lo que no se reconoce no se muestra ni se pide
		return Verdict{
			Render: placeholderRender(policies.PlaceholderLock),
			Action: ActionNone,
		}, nil
	}

	now := r.now()
	expiredGrant := false
	for _, res := range grantScopes(resource) {
		g, err := r.grants.Latest(ctx, owner, res, viewer)
		if errors.Is(err, grants.ErrNotFound) {
			continue
		}
		if err != nil {
			return Verdict{}, ErrStorageUnavailable
		}

		if g.Usable(now) {
			switch g.Rule.Type {
			case grants.RulePermanent:
				return Verdict{CanView: true, Render: clearRender(), Action: ActionNone}, nil
			case grants.RuleDays:
				badge, action := countdownBadge(now, *g.ExpiresAt)
				return Verdict{CanView: true, Render: clearRender(), Badge: badge, Action: action}, nil
			case grants.RuleOneTimeView:
				// si la policy ya muestra el recurso (p.ej. la foto primaria
				// cubierta por un grant de categoría), no quemar la revelación
				// única: se reserva para lo que realmente está tapado.
				pv, err := r.policyVerdict(ctx, viewer, owner, resource)
				if err != nil {
					return Verdict{}, err
				}
				if pv.CanView {
					continue
				}
				won, err := r.grants.ConsumeOnce(ctx, g.ID)
				if err != nil {
					return Verdict{}, ErrStorageUnavailable
				}
				if won {
					return Verdict{CanView: true, Render: clearRender(), Action: ActionNone}, nil
				}
				// otro read concurrente ganó el consumo
				continue
			}
		}

		// un grant caducado (no revocado) endurece el render y ofrece renew
		if !g.Revoked && g.Expired(now) {
			expiredGrant = true
		}
	}

	pending := false
	for _, res := range grantScopes(resource) {
		p, err := r.requests.HasPending(ctx, viewer, owner, res)
		if err != nil {
			return Verdict{}, ErrStorageUnavailable
		}
		if p {
			pending = true
			break
		}
	}

	verdict, err := r.policyVerdict(ctx, viewer, owner, resource)
	if err != nil {
		return Verdict{}, err
	}

	if pending {
		verdict.Badge = pendingBadge()
		verdict.Action = ActionNone
		return verdict, nil
	}
	if expiredGrant && !verdict.CanView {
		verdict.Render = heavier(verdict.Render)
		verdict.Badge = &Badge{Icon: "⏰", Text: "Access expired", Severity: SeverityCritical}
		verdict.Action = ActionRenew
	}
	return verdict, nil
}

// grantScopes: un grant sobre la categoría de fotos cubre cada foto
// individual, así que una foto se resuelve contra ambos ámbitos.
func grantScopes(resource policies.Resource) []policies.Resource {
	if resource.IsPhoto() {
		return []policies.Resource{resource, policies.ResourcePhotos}
	}
	return []policies.Resource{resource}
}

func (r *Resolver) policyVerdict(ctx context.Context, viewer, owner string, resource policies.Resource) (Verdict, error) {
	p, err := r.policies.Get(ctx, owner, resource)
	if err != nil {
		return Verdict{}, ErrStorageUnavailable
	}

	switch p.Type {
	case policies.PolicyClear:
		return Verdict{CanView: true, Render: clearRender(), Action: ActionNone}, nil
	case policies.PolicyBlurred:
		return Verdict{Render: blurredRender(p.Blur), Action: ActionRequest}, nil
	case policies.PolicyHidden:
		return Verdict{Render: placeholderRender(p.Placeholder), Action: ActionRequest}, nil
	case policies.PolicyConditional:
		qualified := false
		if p.ClearIfFavorited {
			ok, err := r.relations.IsFavorited(ctx, viewer, owner)
			if err != nil {
				return Verdict{}, ErrStorageUnavailable
			}
			qualified = ok
		}
		if !qualified && p.ClearIfShortlisted {
			ok, err := r.relations.IsShortlisted(ctx, viewer, owner)
			if err != nil {
				return Verdict{}, ErrStorageUnavailable
			}
			qualified = ok
		}
		if qualified {
			return Verdict{CanView: true, Render: clearRender(), Action: ActionNone}, nil
		}
		return Verdict{Render: blurredRender(policies.BlurMedium), Action: ActionRequest}, nil
	default:
		return Verdict{
			Render: placeholderRender(policies.PlaceholderLock),
			Action: ActionNone,
		}, nil
	}
}

// countdownBadge clasifica cuánto queda de un grant days(n).
func countdownBadge(now, expiresAt time.Time) (*Badge, Action) {
	remaining := expiresAt.Sub(now)

	switch {
	case remaining < 24*time.Hour:
		hours := int(math.Ceil(remaining.Hours()))
		if hours < 1 {
			hours = 1
		}
		return &Badge{
			Icon:     "⏰",
			Text:     fmt.Sprintf("Expires in %dh", hours),
			Severity: SeverityCritical,
		}, ActionRenew
	case remaining <= 3*24*time.Hour:
		return daysBadge(remaining, SeverityUrgent), ActionNone
	case remaining <= 6*24*time.Hour:
		return daysBadge(remaining, SeverityWarning), ActionNone
	default:
		return daysBadge(remaining, SeverityNormal), ActionNone
	}
}

func daysBadge(remaining time.Duration, sev Severity) *Badge {
	days := int(math.Ceil(remaining.Hours() / 24))
	return &Badge{
		Icon:     "⏰",
		Text:     fmt.Sprintf("Expires in %dd", days),
		Severity: sev,
	}
}
