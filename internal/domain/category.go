package domain

import "time"

type Category struct {
	ID           string
	Name         string
	Slug         string
	Description  *string
	ParentID     *string
	DisplayOrder int
	IsActive     bool
	CreatedAt    time.Time
}
