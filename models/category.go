package models

// Category is an optional grouping label for units. A unit with no
// category is "uncategorized"; the front end normalizes the literal
// string "default" to no category before it reaches the core.
type Category struct {
	// ID is the surrogate key of the category.
	ID string `json:"-"`

	// Name is the unique display name of the category.
	Name string `json:"name"`
}

// TableName returns the name of the database table
// associated with the Category model.
func (c Category) TableName() string {
	return "categories"
}

// RecordID returns the surrogate key of the category.
func (c Category) RecordID() string {
	return c.ID
}
