package rating

import (
	"context"
	"sort"

	"homeserve/models"
	"homeserve/utils"
)

// summarize groups star counts by subservice, preserving first-seen order.
func summarize(counts []models.StarCount) []models.SubserviceRatingSummary {
	var (
		order []string
		stats = map[string]*models.RatingStats{}
	)
	for _, c := range counts {
		st, ok := stats[c.SubserviceID]
		if !ok {
			fresh := models.NewRatingStats()
			st = &fresh
			stats[c.SubserviceID] = st
			order = append(order, c.SubserviceID)
		}
		if c.Stars < models.MinRating || c.Stars > models.MaxRating {
			continue
		}
		st.AddCount(c.Stars, c.Count)
	}
	out := make([]models.SubserviceRatingSummary, 0, len(order))
	for _, id := range order {
		st := stats[id]
		out = append(out, models.SubserviceRatingSummary{
			SubserviceID:  id,
			AverageRating: st.Average,
			TotalRatings:  st.TotalRatings,
			Distribution:  st.Distribution,
		})
	}
	return out
}

// AverageForSubservice summarises approved ratings of one subservice. A
// subservice without ratings reports zeros.
func (s *DefaultRatingService) AverageForSubservice(ctx context.Context, subserviceID string) (*models.SubserviceRatingSummary, error) {
	counts, err := s.Repo.ApprovedStarCounts(ctx, subserviceID)
	if err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to calculate average rating")
	}
	summary := models.SubserviceRatingSummary{
		SubserviceID: subserviceID,
		Distribution: models.EmptyDistribution(),
	}
	if all := summarize(counts); len(all) > 0 {
		summary = all[0]
	}

	subs, err := s.Catalog.FindSubservicesByIDs(ctx, []string{subserviceID})
	if err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to fetch subservice")
	}
	if len(subs) == 1 {
		summary.SubserviceName = subs[0].Name
	}
	return &summary, nil
}

// AveragesForAllSubservices summarises every subservice with approved ratings,
// highest average first. Ratings of deleted subservices are left out.
func (s *DefaultRatingService) AveragesForAllSubservices(ctx context.Context) ([]models.SubserviceRatingSummary, error) {
	if s.Cache != nil {
		if cached, ok := s.Cache.Load(ctx); ok {
			return cached, nil
		}
	}
	counts, err := s.Repo.ApprovedStarCounts(ctx, "")
	if err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to calculate average ratings")
	}
	all := summarize(counts)
	if len(all) == 0 {
		return all, nil
	}

	ids := make([]string, len(all))
	for i, sum := range all {
		ids[i] = sum.SubserviceID
	}
	subs, err := s.Catalog.FindSubservicesByIDs(ctx, ids)
	if err != nil {
		return nil, utils.AsDatabaseError(err, "Failed to fetch subservices")
	}
	names := make(map[string]string, len(subs))
	for _, sub := range subs {
		names[sub.ID] = sub.Name
	}

	out := all[:0]
	for _, sum := range all {
		name, ok := names[sum.SubserviceID]
		if !ok {
			continue
		}
		sum.SubserviceName = name
		out = append(out, sum)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AverageRating != out[j].AverageRating {
			return out[i].AverageRating > out[j].AverageRating
		}
		return out[i].TotalRatings > out[j].TotalRatings
	})
	if s.Cache != nil {
		s.Cache.Store(ctx, out)
	}
	return out, nil
}
