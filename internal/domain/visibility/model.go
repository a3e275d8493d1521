package visibility

import (
	"profile-visibility/internal/domain/policies"
)

// RenderMode es cómo se presenta el recurso al viewer.
type RenderMode string

const (
	RenderClear       RenderMode = "clear"
	RenderBlurred     RenderMode = "blurred"
	RenderPlaceholder RenderMode = "placeholder"
)

// Action es lo que la UI puede ofrecer sobre el recurso.
type Action string

const (
	ActionNone    Action = "none"
	ActionRequest Action = "request"
	ActionRenew   Action = "renew"
)

// Intensidades fijas de blur por nivel; por encima de 15 el render también
// desatura. Son parte del contrato con la capa de rendering.
const (
	blurIntensityLight  = 8
	blurIntensityMedium = 15
	blurIntensityHeavy  = 25

	desaturateAbove = 15
)

// Render describe el tratamiento visual. Solo los campos del Mode activo
// tienen sentido.
type Render struct {
	Mode RenderMode `json:"mode"`

	// Mode == blurred
	BlurLevel     policies.BlurLevel `json:"blur_level,omitempty"`
	BlurIntensity int                `json:"blur_intensity,omitempty"`
	Desaturate    bool               `json:"desaturate,omitempty"`

	// Mode == placeholder
	Placeholder policies.Placeholder `json:"placeholder,omitempty"`
}

func clearRender() Render {
	return Render{Mode: RenderClear}
}

func blurredRender(level policies.BlurLevel) Render {
	intensity := blurIntensityMedium
	switch level {
	case policies.BlurLight:
		intensity = blurIntensityLight
	case policies.BlurMedium:
		intensity = blurIntensityMedium
	case policies.BlurHeavy:
		intensity = blurIntensityHeavy
	}
	return Render{
		Mode:          RenderBlurred,
		BlurLevel:     level,
		BlurIntensity: intensity,
		Desaturate:    intensity > desaturateAbove,
	}
}

func placeholderRender(p policies.Placeholder) Render {
	return Render{Mode: RenderPlaceholder, Placeholder: p}
}

// heavier sube un nivel el blur; se usa al renderizar tras un grant caducado.
// Un placeholder se queda como está: ya no muestra nada.
func heavier(r Render) Render {
	if r.Mode != RenderBlurred {
		return r
	}
	switch r.BlurLevel {
	case policies.BlurLight:
		return blurredRender(policies.BlurMedium)
	case policies.BlurMedium:
		return blurredRender(policies.BlurHeavy)
	default:
		return r
	}
}

type Severity string

const (
	SeverityNormal   Severity = "normal"
	SeverityWarning  Severity = "warning"
	SeverityUrgent   Severity = "urgent"
	SeverityCritical Severity = "critical"
	SeverityInfo     Severity = "info"
)

type Badge struct {
	Icon     string   `json:"icon"`
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
}

func pendingBadge() *Badge {
	return &Badge{Icon: "⏳", Text: "Request Sent — Awaiting Approval", Severity: SeverityInfo}
}

// Verdict es el resultado de resolver (viewer, owner, resource).
type Verdict struct {
	CanView bool   `json:"can_view"`
	Render  Render `json:"render"`
	Badge   *Badge `json:"badge,omitempty"`
	Action  Action `json:"action"`
}
