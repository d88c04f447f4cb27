package tenants

import (
	"context"

	"github.com/dkrasnovs/tenauth/internal/logging"
)

// Service is a thin layer over the repository; tenants carry no business
// rules beyond persistence.
type Service struct {
	repo Repository
	log  logging.Logger
}

func NewService(repo Repository, log logging.Logger) *Service {
	return &Service{repo: repo, log: log.With("module", "tenants")}
}

func (s *Service) Create(ctx context.Context, name, address string) (*Tenant, error) {
	tenant, err := s.repo.Create(ctx, &Tenant{Name: name, Address: address})
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "tenant created", "tenant_id", tenant.ID)
	return tenant, nil
}

func (s *Service) Update(ctx context.Context, id, name, address string) (*Tenant, error) {
	tenant, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tenant.Name = name
	tenant.Address = address
	if err := s.repo.Update(ctx, tenant); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "tenant updated", "tenant_id", tenant.ID)
	return tenant, nil
}

func (s *Service) FindByID(ctx context.Context, id string) (*Tenant, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Tenant, int64, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info(ctx, "tenant deleted", "tenant_id", id)
	return nil
}
