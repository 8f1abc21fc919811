package items

type CreateItemRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Done        bool   `json:"done"`
}

type UpdateItemRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=1"`
	Done        *bool   `json:"done,omitempty"`
}

type ListItemsRequest struct {
	OwnerID int64
	Page    int
	Per     int
}
