package entity

type PaymentMethod struct {
	BaseNoDelete
	Code     string `db:"code"` // card, wallet, cash, ...
	Name     string `db:"name"`
	IsActive bool   `db:"is_active"`
}
