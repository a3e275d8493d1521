package profiles

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("profile not found")

type Repository interface {
	Create(ctx context.Context, p Profile) error
	Get(ctx context.Context, username string) (Profile, error)

	AddPhoto(ctx context.Context, ph Photo) error
	ListPhotos(ctx context.Context, owner string) ([]Photo, error)
	// UpdatePhotoOrder reescribe posición y flag de primaria para todas las
	// fotos del owner de una vez.
	UpdatePhotoOrder(ctx context.Context, owner string, ordered []Photo) error
}
