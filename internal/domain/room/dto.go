package room

// CreateRoomRequest is the body of POST /rooms
type CreateRoomRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description" validate:"required"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Available   *bool    `json:"available"`
	Images      []string `json:"images"`
	RoomType    string   `json:"roomType" validate:"required,room_type"`
	Capacity    int      `json:"capacity" validate:"required,gte=1"`
	Amenities   []string `json:"amenities"`
	FloorLevel  string   `json:"floorLevel" validate:"required"`
	BedType     string   `json:"bedType" validate:"required,bed_type"`
}

// UpdateRoomRequest is the body of PUT /rooms/{id}; omitted fields keep their value
type UpdateRoomRequest struct {
	Name        *string   `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string   `json:"description" validate:"omitempty,min=1"`
	Price       *float64  `json:"price" validate:"omitempty,gt=0"`
	Available   *bool     `json:"available"`
	Images      *[]string `json:"images"`
	RoomType    *string   `json:"roomType" validate:"omitempty,room_type"`
	Capacity    *int      `json:"capacity" validate:"omitempty,gte=1"`
	Amenities   *[]string `json:"amenities"`
	FloorLevel  *string   `json:"floorLevel" validate:"omitempty,min=1"`
	BedType     *string   `json:"bedType" validate:"omitempty,bed_type"`
}

// Apply copies the present fields onto r
func (req *UpdateRoomRequest) Apply(r *Room) {
	if req.Name != nil {
		r.Name = *req.Name
	}
	if req.Description != nil {
		r.Description = *req.Description
	}
	if req.Price != nil {
		r.Price = *req.Price
	}
	if req.Available != nil {
		r.Available = *req.Available
	}
	if req.Images != nil {
		r.Images = *req.Images
	}
	if req.RoomType != nil {
		r.RoomType = RoomType(*req.RoomType)
	}
	if req.Capacity != nil {
		r.Capacity = *req.Capacity
	}
	if req.Amenities != nil {
		r.Amenities = *req.Amenities
	}
	if req.FloorLevel != nil {
		r.FloorLevel = *req.FloorLevel
	}
	if req.BedType != nil {
		r.BedType = BedType(*req.BedType)
	}
}
