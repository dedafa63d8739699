package postgres

import (
	"time"

	"github.com/lib/pq"
)

// Table names.
const (
	TableUsers          = "users"
	TableGigs           = "gigs"
	TableReviews        = "reviews"
	TableOrders         = "orders"
	TableRefundRequests = "refund_requests"
)

// UserRow is the users table.
type UserRow struct {
	ID               uint      `gorm:"column:id;primaryKey"`
	Email            string    `gorm:"column:email;uniqueIndex;not null"`
	Password         string    `gorm:"column:password;not null"`
	Username         *string   `gorm:"column:username;uniqueIndex"`
	FullName         string    `gorm:"column:full_name"`
	Description      string    `gorm:"column:description;type:text"`
	ProfileImage     string    `gorm:"column:profile_image"`
	IsProfileInfoSet bool      `gorm:"column:is_profile_info_set;not null"`
	IsEmailConfirmed bool      `gorm:"column:is_email_confirmed;not null"`
	CreatedAt        time.Time `gorm:"column:created_at"`

	Gigs []GigRow `gorm:"foreignKey:UserID"`
}

func (UserRow) TableName() string { return TableUsers }

// GigRow is the gigs table.
type GigRow struct {
	ID               uint           `gorm:"column:id;primaryKey"`
	Title            string         `gorm:"column:title;not null"`
	Description      string         `gorm:"column:description;type:text"`
	ShortDesc        string         `gorm:"column:short_desc"`
	Category         string         `gorm:"column:category;index"`
	Features         pq.StringArray `gorm:"column:features;type:text[]"`
	Price            int64          `gorm:"column:price;not null"`
	Revisions        int            `gorm:"column:revisions"`
	DeliveryTime     int            `gorm:"column:delivery_time"`
	TimeUnit         string         `gorm:"column:time_unit"`
	City             string         `gorm:"column:city"`
	State            string         `gorm:"column:state"`
	DownPayment      bool           `gorm:"column:down_payment;not null"`
	QuotationReason  string         `gorm:"column:quotation_reason"`
	QuotationDetails *string        `gorm:"column:quotation_details;type:jsonb"`
	Images           pq.StringArray `gorm:"column:images;type:text[]"`
	Visibility       bool           `gorm:"column:visibility;not null"`
	Deleted          bool           `gorm:"column:deleted;not null"`
	UserID           uint           `gorm:"column:user_id;index;not null"`
	CreatedAt        time.Time      `gorm:"column:created_at;index"`
	UpdatedAt        time.Time      `gorm:"column:updated_at"`

	CreatedBy *UserRow    `gorm:"foreignKey:UserID"`
	Reviews   []ReviewRow `gorm:"foreignKey:GigID"`
	Orders    []OrderRow  `gorm:"foreignKey:GigID"`
}

func (GigRow) TableName() string { return TableGigs }

// ReviewRow is the reviews table.
type ReviewRow struct {
	ID         uint      `gorm:"column:id;primaryKey"`
	GigID      uint      `gorm:"column:gig_id;index;not null"`
	ReviewerID uint      `gorm:"column:reviewer_id;index;not null"`
	Rating     int       `gorm:"column:rating;not null"`
	ReviewText string    `gorm:"column:review_text;type:text"`
	CreatedAt  time.Time `gorm:"column:created_at"`

	Reviewer *UserRow `gorm:"foreignKey:ReviewerID"`
}

func (ReviewRow) TableName() string { return TableReviews }

// OrderRow is the orders table. Orders are placed by another service.
type OrderRow struct {
	ID              uint      `gorm:"column:id;primaryKey"`
	GigID           uint      `gorm:"column:gig_id;index;not null"`
	BuyerID         uint      `gorm:"column:buyer_id;index;not null"`
	IsCompleted     bool      `gorm:"column:is_completed;not null"`
	MutualCompleted bool      `gorm:"column:mutual_completed;not null"`
	CreatedAt       time.Time `gorm:"column:created_at"`

	RefundRequests []RefundRequestRow `gorm:"foreignKey:OrderID"`
}

func (OrderRow) TableName() string { return TableOrders }

// RefundRequestRow is the refund_requests table.
type RefundRequestRow struct {
	ID      uint   `gorm:"column:id;primaryKey"`
	OrderID uint   `gorm:"column:order_id;index;not null"`
	Status  string `gorm:"column:status;not null"`
}

func (RefundRequestRow) TableName() string { return TableRefundRequests }

// Models lists every row model in dependency order.
func Models() []any {
	return []any{&UserRow{}, &GigRow{}, &ReviewRow{}, &OrderRow{}, &RefundRequestRow{}}
}
