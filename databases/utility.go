package databases

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoPaginate struct {
	limit int64
	page  int64
}

// newMongoPaginate takes a 1-based page; values below 1 are clamped
func newMongoPaginate(limit, page int64) *mongoPaginate {
	if limit < 1 {
		limit = 10
	}
	if page < 1 {
		page = 1
	}
	return &mongoPaginate{
		limit: limit,
		page:  page,
	}
}

func (mp *mongoPaginate) getPaginatedOpts() *options.FindOptions {
	l := mp.limit
	skip := mp.page*mp.limit - mp.limit
	fOpt := options.FindOptions{Limit: &l, Skip: &skip}

	return &fOpt
}

// sortedBy returns paginated find options ordered by field (1 asc, -1 desc)
func (mp *mongoPaginate) sortedBy(field string, order int) *options.FindOptions {
	return mp.getPaginatedOpts().SetSort(bson.D{{Key: field, Value: order}})
}
