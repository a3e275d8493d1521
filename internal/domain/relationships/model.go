package relationships

import (
	"context"
	"errors"
)

// Kind es el tipo de relación dirigida viewer -> owner.
type Kind string

const (
	KindFavorited   Kind = "favorited"
	KindShortlisted Kind = "shortlisted"
)

var ErrNotFound = errors.New("relationship not found")

// Index es el almacén de relaciones. El engine solo lo lee; las mutaciones
// vienen del feature de favoritos/shortlist, cuyo write-surface vive en el
// Service de este paquete.
type Index interface {
	Add(ctx context.Context, kind Kind, viewer, owner string) error
	Remove(ctx context.Context, kind Kind, viewer, owner string) error
	Has(ctx context.Context, kind Kind, viewer, owner string) (bool, error)
}
