package mentor

import (
	"context"
	"errors"

	"mentorhub/internal/domain"
	"mentorhub/internal/repository"
)

type Service struct {
	users    UserReader
	services ServiceRepository
}

func NewService(users UserReader, services ServiceRepository) *Service {
	return &Service{users: users, services: services}
}

func (s *Service) ListMentors(ctx context.Context) ([]domain.User, error) {
	return s.users.ListMentors(ctx)
}

// GetProfile resolves a mentor's public page: the mentor plus their
// bookable services.
func (s *Service) GetProfile(ctx context.Context, username string) (*ProfileResponse, error) {
	mentor, err := s.users.GetMentorByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	services, err := s.services.ListActiveByMentor(ctx, mentor.ID)
	if err != nil {
		return nil, err
	}

	return &ProfileResponse{
		Mentor: profileUser{
			ID:       mentor.ID,
			Name:     mentor.Name,
			Username: mentor.Username,
			Bio:      mentor.Bio,
		},
		Services: services,
	}, nil
}

func (s *Service) CreateService(ctx context.Context, mentorID int64, req CreateServiceRequest) (*domain.Service, error) {
	svc := &domain.Service{
		MentorID:        mentorID,
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		DurationMinutes: req.DurationMinutes,
		Active:          true,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Service) ListOwnServices(ctx context.Context, mentorID int64) ([]domain.Service, error) {
	return s.services.ListByMentor(ctx, mentorID)
}

// UpdateService edits a service in place. Existing bookings keep their
// snapshot of the old price and duration.
func (s *Service) UpdateService(ctx context.Context, mentorID, serviceID int64, req UpdateServiceRequest) (*domain.Service, error) {
	svc, err := s.services.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if svc.MentorID != mentorID {
		return nil, ErrNotFound
	}

	if req.Name != "" {
		svc.Name = req.Name
	}
	if req.Description != "" {
		svc.Description = req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, ErrValidation
		}
		svc.Price = *req.Price
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := s.services.Update(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}
