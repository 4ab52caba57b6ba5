package domain

import "time"

// Role роль пользователя в системе
type Role string

const (
	RoleStudent Role = "student"
	RoleOwner   Role = "owner"
)

// Principal аутентифицированный пользователь, восстановленный из токена.
// Не хранится в базе — живёт только в рамках запроса.
type Principal struct {
	ID       string `json:"id"`
	Role     Role   `json:"role"`
	Verified bool   `json:"verified"`
}

// Profile профиль пользователя
type Profile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Role         Role      `json:"role"`
	College      string    `json:"college,omitempty"`
	IsVerified   bool      `json:"is_verified"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Contact контактные данные из профиля, подмешиваемые в выдачу
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// CatalogItem позиция в каталоге столовой
type CatalogItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	IsVeg       bool      `json:"is_veg"`
	Available   bool      `json:"available"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	Owner       *Contact  `json:"owner,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// OrderStatus статус заказа. Набор открытый: владелец может выставить
// любую непустую строку, перечислены только типовые значения.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
)

// OrderLine позиция в заказе; ссылается на CatalogItem по ID
type OrderLine struct {
	ItemID   string  `json:"item"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Order сущность заказа. Позиции неизменяемы после создания,
// меняется только статус.
type Order struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	Items      []OrderLine `json:"items"`
	TotalPrice float64     `json:"total_price"`
	Status     OrderStatus `json:"status"`
	Notes      string      `json:"notes"`
	Purchaser  *Contact    `json:"purchaser,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// RoommatePost объявление о поиске соседа
type RoommatePost struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Budget      int       `json:"budget"`
	Location    string    `json:"location"`
	Preferences string    `json:"preferences"`
	Contact     string    `json:"contact"`
	Poster      *Contact  `json:"poster,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Event событие кампуса
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
}
