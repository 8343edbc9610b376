package provider

import (
	"context"
	"strings"
	"testing"

	"homeserve/internal/testutil"
	"homeserve/models"
	"homeserve/services/rating"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// interleavedProviders runs beforeWrite once, after the service has read the
// provider and before it writes it back.
type interleavedProviders struct {
	*testutil.ProviderRepo
	beforeWrite func()
}

func (r *interleavedProviders) Update(ctx context.Context, p *models.ServiceProvider) error {
	if hook := r.beforeWrite; hook != nil {
		r.beforeWrite = nil
		hook()
	}
	return r.ProviderRepo.Update(ctx, p)
}

func TestProfileWritesKeepConcurrentRatingAggregates(t *testing.T) {
	yes := true
	newName := "Ravi K"
	ops := map[string]func(ctx context.Context, s *DefaultProviderService) error{
		"update": func(ctx context.Context, s *DefaultProviderService) error {
			_, err := s.Update(ctx, "p-1", ProviderPatch{Name: &newName})
			return err
		},
		"verify": func(ctx context.Context, s *DefaultProviderService) error {
			_, err := s.Verify(ctx, "p-1", "admin-1", VerifyInput{VerifyDocuments: DocumentFlags{AadhaarCard: &yes}})
			return err
		},
		"verify document": func(ctx context.Context, s *DefaultProviderService) error {
			_, err := s.VerifyDocument(ctx, "p-1", "admin-1", VerifyDocumentInput{DocumentType: models.DocumentPAN, Verified: true})
			return err
		},
		"suspend": func(ctx context.Context, s *DefaultProviderService) error {
			_, err := s.Suspend(ctx, "p-1", "admin-1", "no show")
			return err
		},
		"upload documents": func(ctx context.Context, s *DefaultProviderService) error {
			_, err := s.UploadDocuments(ctx, "p-1", DocumentUploads{PanCard: strings.NewReader("pan")})
			return err
		},
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t, true, []models.ServiceProvider{activeProvider("p-1", 0, 0)})

			approved := models.Rating{
				ID:           "r-1",
				BookingID:    "b-1",
				UserID:       "u-1",
				ProviderID:   "p-1",
				SubserviceID: "ss-gas",
				Rating:       5,
				Status:       models.RatingApproved,
			}
			ratings, err := rating.NewRatingService(testutil.NewRatingRepo(approved), f.bookings, f.providers,
				testutil.NewCatalogRepo(), &testutil.TxRecorder{}, nil, rating.Options{},
				models.PagingDefaults{DefaultLimit: 10, MaxLimit: 100}, nil)
			require.NoError(t, err)

			repo := &interleavedProviders{ProviderRepo: f.providers}
			repo.beforeWrite = func() {
				applied, err := ratings.Aggregate(ctx, "r-1")
				require.NoError(t, err)
				require.True(t, applied)
			}
			f.svc.Repo = repo

			require.NoError(t, op(ctx, f.svc))
			assert.Nil(t, repo.beforeWrite, "aggregate did not run between read and write")

			stats := f.providers.Providers["p-1"].Rating
			assert.Equal(t, 1, stats.TotalRatings)
			assert.Equal(t, 5.0, stats.Average)
			assert.Equal(t, 1, stats.Distribution["5"])
		})
	}
}
