package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/polls/internal/core/domain"
	"github.com/vncsmyrnk/polls/internal/core/ports"
)

type adminService struct {
	repo ports.AdminRepository
}

func NewAdminService(repo ports.AdminRepository) ports.AdminService {
	return &adminService{
		repo: repo,
	}
}

func (s *adminService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	admin, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return admin, nil
}
