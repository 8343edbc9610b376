package address

import (
	"context"
	"testing"

	"homeserve/internal/testutil"
	"homeserve/models"
	"homeserve/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAddressService(t *testing.T) (*DefaultAddressService, *testutil.AddressRepo) {
	repo := testutil.NewAddressRepo(models.Address{ID: "a-1", UserID: "u-1", City: "Pune"})
	svc, err := NewAddressService(repo, models.PagingDefaults{DefaultLimit: 10, MaxLimit: 100}, nil)
	require.NoError(t, err)
	return svc, repo
}

func TestCreateDefaultsCountry(t *testing.T) {
	svc, repo := newTestAddressService(t)

	a, err := svc.Create(context.Background(), "u-1", AddressInput{HouseNo: "12", Street: "MG Road", City: "Pune", Zip: "411001"})
	require.NoError(t, err)
	assert.Equal(t, "India", a.Country)
	assert.Equal(t, "u-1", repo.Addresses[a.ID].UserID)
}

func TestAddressIsScopedToOwner(t *testing.T) {
	svc, _ := newTestAddressService(t)

	_, err := svc.Get(context.Background(), "a-1", "u-2")
	assert.True(t, utils.IsKind(err, utils.KindNotFound))

	city := "Mumbai"
	_, err = svc.Update(context.Background(), "a-1", "u-2", AddressPatch{City: &city})
	assert.True(t, utils.IsKind(err, utils.KindNotFound))

	assert.True(t, utils.IsKind(svc.Delete(context.Background(), "a-1", "u-2"), utils.KindNotFound))

	updated, err := svc.Update(context.Background(), "a-1", "u-1", AddressPatch{City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", updated.City)
}

func TestListPaginates(t *testing.T) {
	svc, repo := newTestAddressService(t)
	repo.Addresses["a-2"] = models.Address{ID: "a-2", UserID: "u-1"}
	repo.Addresses["a-3"] = models.Address{ID: "a-3", UserID: "u-9"}

	page, err := svc.List(context.Background(), "u-1", models.PageRequest{Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(2), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)
}
