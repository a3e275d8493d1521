package grants

import (
	"time"

	"profile-visibility/internal/domain/policies"
)

// RuleType define cómo caduca un grant.
type RuleType string

const (
	RuleOneTimeView RuleType = "one_time_view"
	RuleDays        RuleType = "days"
	RulePermanent   RuleType = "permanent"
)

// DurationRule es la regla de duración elegida por el owner al aprobar.
type DurationRule struct {
	Type RuleType `json:"type"`
	Days int      `json:"days,omitempty"`
}

func OneTimeView() DurationRule { return DurationRule{Type: RuleOneTimeView} }
func Days(n int) DurationRule   { return DurationRule{Type: RuleDays, Days: n} }
func Permanent() DurationRule   { return DurationRule{Type: RulePermanent} }

// DefaultRule aplica cuando el owner aprueba sin elegir duración.
func DefaultRule() DurationRule { return Days(3) }

func (r DurationRule) Valid() bool {
	switch r.Type {
	case RuleOneTimeView, RulePermanent:
		return true
	case RuleDays:
		return r.Days >= 1
	default:
		return false
	}
}

// Grant es una concesión de acceso owner -> grantee sobre un recurso.
// Nunca se borra: revocación y supersede son marcas, el historial queda.
type Grant struct {
	ID              string            `json:"id"`
	Owner           string            `json:"owner"`
	Grantee         string            `json:"grantee"`
	Resource        policies.Resource `json:"resource"`
	Rule            DurationRule      `json:"rule"`
	RequestID       string            `json:"request_id,omitempty"`
	ResponseMessage string            `json:"response_message,omitempty"`
	GrantedAt       time.Time         `json:"granted_at"`
	ExpiresAt       *time.Time        `json:"expires_at,omitempty"`
	Consumed        bool              `json:"consumed"`
	Revoked         bool              `json:"revoked"`
	RevokedAt       *time.Time        `json:"revoked_at,omitempty"`
	Superseded      bool              `json:"superseded"`
}

// Usable dice si el grant otorga acceso en este instante. Un one-time-view
// ya consumido no es usable aunque no tenga expiración.
func (g Grant) Usable(now time.Time) bool {
	if g.Revoked || g.Superseded {
		return false
	}
	if g.Rule.Type == RuleOneTimeView && g.Consumed {
		return false
	}
	if g.ExpiresAt != nil && !now.Before(*g.ExpiresAt) {
		return false
	}
	return true
}

// Expired distingue "caducó" de "revocado/consumido": solo cuenta el reloj.
func (g Grant) Expired(now time.Time) bool {
	return g.ExpiresAt != nil && !now.Before(*g.ExpiresAt)
}
