package service

import (
	"testing"

	"github.com/shopyar/shopyar-backend/internal/app/model"
	"github.com/shopyar/shopyar-backend/internal/app/repository"
	"github.com/shopyar/shopyar-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAddressServiceTest(t *testing.T) (AddressService, *model.User, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	addressRepo := repository.NewAddressRepository(testDB)
	addressService := NewAddressService(addressRepo)

	user := &model.User{Phone: "09121234567", Role: model.RoleCustomer}
	testDB.Create(user)

	return addressService, user, testDB
}

func sampleAddress() AddressInput {
	return AddressInput{
		Title:       "خانه",
		Recipient:   "علی رضایی",
		Phone:       "09121234567",
		Province:    "تهران",
		City:        "تهران",
		PostalCode:  "۱۲۳۴۵۶۷۸۹۰",
		AddressLine: "خیابان ولیعصر، پلاک ۵",
	}
}

func TestAddressService_CreateAddress_NormalizesInput(t *testing.T) {
	addressService, user, _ := setupAddressServiceTest(t)

	input := sampleAddress()
	input.Phone = "+989121234567"

	address, err := addressService.CreateAddress(user.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "09121234567", address.Phone)
	assert.Equal(t, "1234567890", address.PostalCode)
}

func TestAddressService_DefaultIsExclusive(t *testing.T) {
	addressService, user, testDB := setupAddressServiceTest(t)

	first := sampleAddress()
	first.IsDefault = true
	created, err := addressService.CreateAddress(user.ID, first)
	require.NoError(t, err)
	assert.True(t, created.IsDefault)

	second := sampleAddress()
	second.Title = "محل کار"
	second.IsDefault = true
	_, err = addressService.CreateAddress(user.ID, second)
	require.NoError(t, err)

	// Only one default at a time
	var count int64
	testDB.Model(&model.Address{}).
		Where("user_id = ? AND is_default = ?", user.ID, true).
		Count(&count)
	assert.Equal(t, int64(1), count)

	var fresh model.Address
	testDB.First(&fresh, created.ID)
	assert.False(t, fresh.IsDefault)
}

func TestAddressService_ListAddresses_DefaultFirst(t *testing.T) {
	addressService, user, _ := setupAddressServiceTest(t)

	plain := sampleAddress()
	_, err := addressService.CreateAddress(user.ID, plain)
	require.NoError(t, err)

	preferred := sampleAddress()
	preferred.Title = "محل کار"
	preferred.IsDefault = true
	_, err = addressService.CreateAddress(user.ID, preferred)
	require.NoError(t, err)

	addresses, err := addressService.ListAddresses(user.ID)
	require.NoError(t, err)
	require.Len(t, addresses, 2)
	assert.Equal(t, "محل کار", addresses[0].Title)
}

func TestAddressService_OwnershipEnforced(t *testing.T) {
	addressService, user, testDB := setupAddressServiceTest(t)

	created, err := addressService.CreateAddress(user.ID, sampleAddress())
	require.NoError(t, err)

	other := &model.User{Phone: "09351112233", Role: model.RoleCustomer}
	testDB.Create(other)

	_, err = addressService.GetAddress(other.ID, created.ID)
	assert.ErrorIs(t, err, ErrAddressNotFound)

	_, err = addressService.UpdateAddress(other.ID, created.ID, sampleAddress())
	assert.ErrorIs(t, err, ErrAddressNotFound)

	err = addressService.DeleteAddress(other.ID, created.ID)
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestAddressService_UpdateAndDelete(t *testing.T) {
	addressService, user, _ := setupAddressServiceTest(t)

	created, err := addressService.CreateAddress(user.ID, sampleAddress())
	require.NoError(t, err)

	input := AddressInput{City: "اصفهان"}
	updated, err := addressService.UpdateAddress(user.ID, created.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "اصفهان", updated.City)
	assert.Equal(t, "خانه", updated.Title, "untouched fields keep their values")

	require.NoError(t, addressService.DeleteAddress(user.ID, created.ID))
	_, err = addressService.GetAddress(user.ID, created.ID)
	assert.ErrorIs(t, err, ErrAddressNotFound)
}
