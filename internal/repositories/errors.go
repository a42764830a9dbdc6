package repositories

import (
	"errors"

	"github.com/anonto42/story-creator/backend/internal/models"
	"gorm.io/gorm"
)

// translate maps gorm sentinel errors onto model errors.
func translate(err error, duplicate error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.ErrNotFound
	case duplicate != nil && errors.Is(err, gorm.ErrDuplicatedKey):
		return duplicate
	}
	return err
}
