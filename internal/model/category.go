package model

// Category is a named grouping for items. Items reference it by ID, so
// renaming a category never requires touching the items under it.
type Category struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required"`
	Description string `gorm:"type:text" json:"description"`

	Items []Item `json:"items,omitempty"`
}
