package service

import (
	"context"

	"github.com/dmarchuk/auth-service/internal/models"
	"github.com/dmarchuk/auth-service/internal/repo"
)

const (
	defaultPerPage = 2
	maxPerPage     = 100
)

type UserService struct {
	Repo *repo.GormRepo
}

// ClampPage normalizes pagination query values. Out-of-range input is
// clamped rather than rejected, consistently for both parameters.
func ClampPage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

func (s *UserService) List(ctx context.Context, page, perPage int) ([]models.User, error) {
	page, perPage = ClampPage(page, perPage)
	offset := (page - 1) * perPage
	return s.Repo.ListUsers(ctx, offset, perPage)
}
