package providerRepo

import (
	"testing"

	"homeserve/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProviderFilterToBSON(t *testing.T) {
	assert.Equal(t, bson.M{}, ProviderFilter{}.toBSON())

	f := ProviderFilter{
		Status:             models.ProviderActive,
		ServiceID:          "svc-1",
		VerificationStatus: VerificationVerified,
	}
	assert.Equal(t, bson.M{
		"status":               models.ProviderActive,
		"services":             "svc-1",
		"aadhaarCard.verified": true,
		"panCard.verified":     true,
	}, f.toBSON())
}

func TestProviderFilterSearchEscapesRegex(t *testing.T) {
	got := ProviderFilter{Search: " a+b ", VerificationStatus: VerificationPending}.toBSON()

	and, ok := got["$and"].([]bson.M)
	assert.True(t, ok)
	assert.Len(t, and, 2)

	search := and[1]["$or"].([]bson.M)
	assert.Equal(t, primitive.Regex{Pattern: `a\+b`, Options: "i"}, search[0]["name"])
	assert.Len(t, search, 5)
}

func TestMatchFilterToBSON(t *testing.T) {
	assert.Equal(t, bson.M{}, MatchFilter{}.toBSON())

	f := MatchFilter{
		Services:    []string{"s1"},
		Subservices: []string{"ss1", "ss2"},
		Day:         "friday",
		Time:        "10:30",
		ActiveOnly:  true,
	}
	assert.Equal(t, bson.M{
		"status":                        models.ProviderActive,
		"services":                      bson.M{"$all": []string{"s1"}},
		"subservices":                   bson.M{"$all": []string{"ss1", "ss2"}},
		"availability.friday.available": true,
		"availability.friday.start":     bson.M{"$lte": "10:30"},
		"availability.friday.end":       bson.M{"$gte": "10:30"},
	}, f.toBSON())
}
