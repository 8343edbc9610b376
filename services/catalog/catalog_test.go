package catalog

import (
	"context"
	"testing"

	"homeserve/internal/testutil"
	"homeserve/models"
	"homeserve/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) (*DefaultCatalogService, *testutil.CatalogRepo) {
	repo := testutil.NewCatalogRepo().WithService("s-1", "AC Repair").WithSubservice("ss-1", "s-1", "Gas refill")
	svc, err := NewCatalogService(repo, models.PagingDefaults{DefaultLimit: 10, MaxLimit: 50}, nil)
	require.NoError(t, err)
	return svc, repo
}

func TestCreateServiceRejectsDiscountAboveOriginal(t *testing.T) {
	svc, _ := newTestCatalog(t)

	_, err := svc.CreateService(context.Background(), ServiceInput{Name: "Plumbing", OriginalPrice: 100, DiscountedPrice: 120})
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	created, err := svc.CreateService(context.Background(), ServiceInput{Name: "Plumbing", OriginalPrice: 100, DiscountedPrice: 80})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
}

func TestCreateSubserviceRequiresService(t *testing.T) {
	svc, repo := newTestCatalog(t)

	_, err := svc.CreateSubservice(context.Background(), SubserviceInput{ServiceID: "missing", ServiceInput: ServiceInput{Name: "Deep clean"}})
	assert.True(t, utils.IsKind(err, utils.KindNotFound))

	sub, err := svc.CreateSubservice(context.Background(), SubserviceInput{ServiceID: "s-1", ServiceInput: ServiceInput{Name: "Deep clean"}})
	require.NoError(t, err)
	assert.Equal(t, "s-1", repo.Subservices[sub.ID].ServiceID)
}

func TestUpdateServiceAppliesOnlySetFields(t *testing.T) {
	svc, repo := newTestCatalog(t)
	repo.Services["s-1"] = models.Service{ID: "s-1", Name: "AC Repair", Description: "old", OriginalPrice: 500, DiscountedPrice: 400}

	name := "AC Service"
	updated, err := svc.UpdateService(context.Background(), "s-1", ServicePatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "AC Service", updated.Name)
	assert.Equal(t, "old", updated.Description)

	tooHigh := 900.0
	_, err = svc.UpdateService(context.Background(), "s-1", ServicePatch{DiscountedPrice: &tooHigh})
	assert.True(t, utils.IsKind(err, utils.KindValidation))
}

func TestListSubservicesForService(t *testing.T) {
	svc, repo := newTestCatalog(t)
	repo.WithService("s-2", "Plumbing").WithSubservice("ss-2", "s-2", "Tap fix")

	page, err := svc.ListSubservices(context.Background(), "s-2", models.PageRequest{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "ss-2", page.Items[0].ID)
	assert.Equal(t, 10, page.Pagination.Limit)

	_, err = svc.ListSubservices(context.Background(), "nope", models.PageRequest{})
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

func TestGetAndDeleteMissingService(t *testing.T) {
	svc, _ := newTestCatalog(t)
	_, err := svc.GetService(context.Background(), "nope")
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
	assert.True(t, utils.IsKind(svc.DeleteService(context.Background(), "nope"), utils.KindNotFound))
}
