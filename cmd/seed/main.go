// Command seed fills a development database with a small catalog and active providers.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"homeserve/config"
	"homeserve/database"
	catalogRepo "homeserve/database/repository/catalog"
	providerRepo "homeserve/database/repository/provider"
	"homeserve/models"
	"homeserve/utils"

	"go.uber.org/zap"
)

type seedService struct {
	id, name string
	price    float64
	subs     []seedSubservice
}

type seedSubservice struct {
	id, name string
	price    float64
}

var catalog = []seedService{
	{id: "svc-cleaning", name: "Home Cleaning", price: 1499, subs: []seedSubservice{
		{id: "sub-deep-clean", name: "Deep clean", price: 2999},
		{id: "sub-kitchen", name: "Kitchen clean", price: 999},
	}},
	{id: "svc-ac", name: "AC Repair", price: 599, subs: []seedSubservice{
		{id: "sub-gas-refill", name: "Gas refill", price: 2499},
		{id: "sub-ac-service", name: "AC service", price: 499},
	}},
	{id: "svc-plumbing", name: "Plumbing", price: 299, subs: []seedSubservice{
		{id: "sub-tap", name: "Tap repair", price: 199},
		{id: "sub-drain", name: "Drain unblock", price: 349},
	}},
}

func main() {
	perService := flag.Int("providers", 5, "providers to create per service")
	flag.Parse()

	config.LoadConfig()
	logger := utils.GetLogger()
	database.InitDB()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cat := catalogRepo.NewMongoCatalogRepo()
	providers := providerRepo.NewMongoProviderRepo()

	for _, s := range catalog {
		err := cat.CreateService(ctx, &models.Service{
			ID: s.id, Name: s.name, Description: s.name + " at your doorstep",
			OriginalPrice: s.price, DiscountedPrice: s.price,
		})
		if fatal(err) {
			log.Fatalf("failed to seed service %s: %v", s.id, err)
		}
		for _, sub := range s.subs {
			err := cat.CreateSubservice(ctx, &models.Subservice{
				ID: sub.id, ServiceID: s.id, Name: sub.name, Description: sub.name,
				OriginalPrice: sub.price, DiscountedPrice: sub.price,
			})
			if fatal(err) {
				log.Fatalf("failed to seed subservice %s: %v", sub.id, err)
			}
		}
	}

	created := 0
	counter := 1
	for _, s := range catalog {
		subIDs := make([]string, len(s.subs))
		for i, sub := range s.subs {
			subIDs[i] = sub.id
		}
		for i := 0; i < *perService; i++ {
			p := &models.ServiceProvider{
				ID:             fmt.Sprintf("prov-%d", counter),
				Name:           fmt.Sprintf("%s Provider %d", s.name, counter),
				Email:          fmt.Sprintf("provider_%d@example.com", counter),
				PhoneNumber:    fmt.Sprintf("900000%04d", counter),
				Services:       []string{s.id},
				Subservices:    subIDs,
				Address:        models.ProviderAddress{Street: "123 Sample Street", City: "Bengaluru", State: "Karnataka", Country: "India"},
				AadhaarCard:    models.IdentityDocument{Number: fmt.Sprintf("5000000%05d", counter), Verified: true},
				PanCard:        models.IdentityDocument{Number: fmt.Sprintf("ABCDE%04dF", counter), Verified: true},
				Experience:     1 + counter%10,
				ExperienceUnit: "years",
				Availability:   models.DefaultAvailability(),
				Status:         models.ProviderActive,
				Rating:         models.NewRatingStats(),
				Commission:     10,
				CreatedBy:      "seed",
			}
			counter++
			if err := providers.Create(ctx, p); fatal(err) {
				log.Fatalf("failed to seed provider %s: %v", p.ID, err)
			} else if err == nil {
				created++
			}
		}
	}

	logger.Info("seed complete", zap.Int("services", len(catalog)), zap.Int("providers", created))
	if err := database.Disconnect(ctx); err != nil {
		logger.Warn("failed to disconnect", zap.Error(err))
	}
}

// fatal reports whether err should stop the run. Existing documents are left alone.
func fatal(err error) bool {
	return err != nil && !utils.IsKind(err, utils.KindConflict)
}
