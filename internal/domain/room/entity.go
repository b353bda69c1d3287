package room

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// RoomType is the room category (matches room_type check constraint)
type RoomType string

const (
	TypeSingle RoomType = "Single"
	TypeDouble RoomType = "Double"
	TypeSuite  RoomType = "Suite"
)

// BedType is the bed configuration of a room
type BedType string

const (
	BedKing    BedType = "King"
	BedQueen   BedType = "Queen"
	BedTwin    BedType = "Twin"
	BedSofaBed BedType = "Sofa Bed"
)

// Room represents a bookable hotel room (matches rooms table)
type Room struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Description string         `db:"description" json:"description"`
	Price       float64        `db:"price" json:"price"`
	Available   bool           `db:"available" json:"available"`
	Images      pq.StringArray `db:"images" json:"images"`
	RoomType    RoomType       `db:"room_type" json:"roomType"`
	Capacity    int            `db:"capacity" json:"capacity"`
	Amenities   pq.StringArray `db:"amenities" json:"amenities"`
	FloorLevel  string         `db:"floor_level" json:"floorLevel"`
	BedType     BedType        `db:"bed_type" json:"bedType"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}
