package service

import (
	"errors"

	"github.com/shopyar/shopyar-backend/internal/app/model"
	"github.com/shopyar/shopyar-backend/internal/app/repository"
	"github.com/shopyar/shopyar-backend/pkg/logger"
	"github.com/shopyar/shopyar-backend/pkg/util"
	"gorm.io/gorm"
)

var ErrAddressNotFound = errors.New("address not found")

type AddressInput struct {
	Title       string
	Recipient   string
	Phone       string
	Province    string
	City        string
	PostalCode  string
	AddressLine string
	IsDefault   bool
}

type AddressService interface {
	ListAddresses(userID uint) ([]model.Address, error)
	GetAddress(userID, addressID uint) (*model.Address, error)
	CreateAddress(userID uint, input AddressInput) (*model.Address, error)
	UpdateAddress(userID, addressID uint, input AddressInput) (*model.Address, error)
	DeleteAddress(userID, addressID uint) error
}

type addressService struct {
	addressRepo repository.AddressRepository
}

func NewAddressService(addressRepo repository.AddressRepository) AddressService {
	return &addressService{addressRepo: addressRepo}
}

func (s *addressService) ListAddresses(userID uint) ([]model.Address, error) {
	return s.addressRepo.FindByUserID(userID)
}

func (s *addressService) getOwned(userID, addressID uint) (*model.Address, error) {
	address, err := s.addressRepo.FindByID(addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	if address.UserID != userID {
		logger.Warn("Address access denied: ownership mismatch", map[string]interface{}{
			"user_id":    userID,
			"address_id": addressID,
		})
		return nil, ErrAddressNotFound
	}
	return address, nil
}

func (s *addressService) GetAddress(userID, addressID uint) (*model.Address, error) {
	return s.getOwned(userID, addressID)
}

func (s *addressService) CreateAddress(userID uint, input AddressInput) (*model.Address, error) {
	logger.Info("Creating address", map[string]interface{}{
		"user_id": userID,
		"title":   input.Title,
	})

	if input.IsDefault {
		if err := s.addressRepo.ClearDefault(userID); err != nil {
			return nil, err
		}
	}

	address := &model.Address{
		UserID:      userID,
		Title:       input.Title,
		Recipient:   input.Recipient,
		Phone:       util.NormalizePhone(input.Phone),
		Province:    input.Province,
		City:        input.City,
		PostalCode:  util.NormalizeDigits(input.PostalCode),
		AddressLine: input.AddressLine,
		IsDefault:   input.IsDefault,
	}
	if err := s.addressRepo.Create(address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *addressService) UpdateAddress(userID, addressID uint, input AddressInput) (*model.Address, error) {
	logger.Info("Updating address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	address, err := s.getOwned(userID, addressID)
	if err != nil {
		return nil, err
	}

	if input.IsDefault && !address.IsDefault {
		if err := s.addressRepo.ClearDefault(userID); err != nil {
			return nil, err
		}
	}

	if input.Title != "" {
		address.Title = input.Title
	}
	if input.Recipient != "" {
		address.Recipient = input.Recipient
	}
	if input.Phone != "" {
		address.Phone = util.NormalizePhone(input.Phone)
	}
	if input.Province != "" {
		address.Province = input.Province
	}
	if input.City != "" {
		address.City = input.City
	}
	if input.PostalCode != "" {
		address.PostalCode = util.NormalizeDigits(input.PostalCode)
	}
	if input.AddressLine != "" {
		address.AddressLine = input.AddressLine
	}
	address.IsDefault = input.IsDefault

	if err := s.addressRepo.Update(address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *addressService) DeleteAddress(userID, addressID uint) error {
	logger.Info("Deleting address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	if _, err := s.getOwned(userID, addressID); err != nil {
		return err
	}
	return s.addressRepo.Delete(addressID)
}
