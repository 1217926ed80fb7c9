package mentor

import (
	"context"

	"mentorhub/internal/domain"
)

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetMentorByUsername(ctx context.Context, username string) (*domain.User, error)
	ListMentors(ctx context.Context) ([]domain.User, error)
}

type ServiceRepository interface {
	Create(ctx context.Context, svc *domain.Service) error
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	ListActiveByMentor(ctx context.Context, mentorID int64) ([]domain.Service, error)
	ListByMentor(ctx context.Context, mentorID int64) ([]domain.Service, error)
	Update(ctx context.Context, svc *domain.Service) error
}
