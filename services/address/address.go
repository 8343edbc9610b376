package address

import (
	"context"
	"fmt"

	addressRepo "homeserve/database/repository/address"
	"homeserve/models"
	"homeserve/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddressService manages a client's saved addresses.
type AddressService interface {
	Create(ctx context.Context, userID string, in AddressInput) (*models.Address, error)
	Get(ctx context.Context, id, userID string) (*models.Address, error)
	List(ctx context.Context, userID string, page models.PageRequest) (models.Page[models.Address], error)
	Update(ctx context.Context, id, userID string, patch AddressPatch) (*models.Address, error)
	Delete(ctx context.Context, id, userID string) error
}

type AddressInput struct {
	HouseNo     string `json:"houseNo" binding:"required,max=50"`
	Street      string `json:"street" binding:"required,max=200"`
	FullAddress string `json:"fullAddress" binding:"required,max=500"`
	Landmark    string `json:"landmark" binding:"max=200"`
	City        string `json:"city" binding:"required,max=100"`
	State       string `json:"state" binding:"required,max=100"`
	Zip         string `json:"zip" binding:"required,numeric,len=6"`
	Country     string `json:"country" binding:"max=100"`
}

type AddressPatch struct {
	HouseNo     *string `json:"houseNo" binding:"omitempty,max=50"`
	Street      *string `json:"street" binding:"omitempty,max=200"`
	FullAddress *string `json:"fullAddress" binding:"omitempty,max=500"`
	Landmark    *string `json:"landmark" binding:"omitempty,max=200"`
	City        *string `json:"city" binding:"omitempty,max=100"`
	State       *string `json:"state" binding:"omitempty,max=100"`
	Zip         *string `json:"zip" binding:"omitempty,numeric,len=6"`
	Country     *string `json:"country" binding:"omitempty,max=100"`
}

// DefaultAddressService is the production implementation.
type DefaultAddressService struct {
	Repo   addressRepo.AddressRepository
	Paging models.PagingDefaults
	Logger *zap.Logger
}

func NewAddressService(repo addressRepo.AddressRepository, paging models.PagingDefaults, logger *zap.Logger) (*DefaultAddressService, error) {
	if repo == nil {
		return nil, fmt.Errorf("address service initialization error: repository is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultAddressService{Repo: repo, Paging: paging, Logger: logger}, nil
}

func (s *DefaultAddressService) Create(ctx context.Context, userID string, in AddressInput) (*models.Address, error) {
	country := in.Country
	if country == "" {
		country = "India"
	}
	a := &models.Address{
		ID:          uuid.New().String(),
		UserID:      userID,
		HouseNo:     in.HouseNo,
		Street:      in.Street,
		FullAddress: in.FullAddress,
		Landmark:    in.Landmark,
		City:        in.City,
		State:       in.State,
		Zip:         in.Zip,
		Country:     country,
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to create address")
	}
	return a, nil
}

// Get returns the address only to its owner. Other users see NotFound.
func (s *DefaultAddressService) Get(ctx context.Context, id, userID string) (*models.Address, error) {
	a, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to fetch address")
	}
	if a == nil || a.UserID != userID {
		return nil, utils.NewNotFoundError("Address not found")
	}
	return a, nil
}

func (s *DefaultAddressService) List(ctx context.Context, userID string, page models.PageRequest) (models.Page[models.Address], error) {
	page = s.Paging.Normalize(page)
	items, total, err := s.Repo.ListForUser(ctx, userID, page)
	if err != nil {
		return models.Page[models.Address]{}, utils.AsDatabaseError(err, "Failed to fetch addresses")
	}
	return models.NewPage(items, total, page), nil
}

func (s *DefaultAddressService) Update(ctx context.Context, id, userID string, p AddressPatch) (*models.Address, error) {
	a, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&a.HouseNo, p.HouseNo)
	set(&a.Street, p.Street)
	set(&a.FullAddress, p.FullAddress)
	set(&a.Landmark, p.Landmark)
	set(&a.City, p.City)
	set(&a.State, p.State)
	set(&a.Zip, p.Zip)
	set(&a.Country, p.Country)

	if err := s.Repo.Update(ctx, a); err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to update address")
	}
	return a, nil
}

func (s *DefaultAddressService) Delete(ctx context.Context, id, userID string) error {
	if err := s.Repo.Delete(ctx, id, userID); err != nil {
		return utils.AsDatabaseError(err, "Failed to delete address")
	}
	return nil
}
