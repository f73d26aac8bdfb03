package redisx

import "time"

const (
	// idem:order:create:{idempotency key} -> placed order result
	KeyIdemOrderCreate = "idem:order:create:%s"

	// cart:{session id} -> cart JSON
	KeyCart = "cart:%s"

	// categories:all -> active category list
	KeyCategoriesAll = "categories:all"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLCategories  = 24 * time.Hour
)
