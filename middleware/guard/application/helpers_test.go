package application

import (
	"errors"

	"banner-guard/middleware/guard/domain"
)

func asError(err error, target **domain.Error) bool {
	return errors.As(err, target)
}
