package catalogservice

// Service услуга салона из каталога
type Service struct {
	ID              int64    `json:"id"`
	SalonID         int64    `json:"salon_id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Price           float64  `json:"price"`
	DiscountedPrice *float64 `json:"discounted_price,omitempty"`
	Duration        int      `json:"duration"` // минуты
	IsActive        bool     `json:"is_active"`
}

// EffectivePrice цена со скидкой, если она задана, иначе обычная цена
func (s *Service) EffectivePrice() float64 {
	if s.DiscountedPrice != nil && *s.DiscountedPrice > 0 {
		return *s.DiscountedPrice
	}
	return s.Price
}

// ErrorResponse модель ошибки от каталога
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
