package query

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestSortOption(t *testing.T) {
	req := require.New(t)
	req.Equal(bson.D{}, sortOption(""))
	req.Equal(bson.D{{Key: "createdAt", Value: 1}}, sortOption("createdAt"))
	req.Equal(bson.D{
		{Key: "network", Value: 1},
		{Key: "createdAt", Value: -1},
	}, sortOption("network", "", "-createdAt"))
}
