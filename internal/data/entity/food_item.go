package entity

type FoodCategory string

const (
	FoodCategorySnack   FoodCategory = "snack"
	FoodCategoryDrink   FoodCategory = "drink"
	FoodCategoryCombo   FoodCategory = "combo"
	FoodCategoryDessert FoodCategory = "dessert"
)

type FoodItem struct {
	Base
	Name        string       `db:"name"`
	Description *string      `db:"description"`
	Price       float64      `db:"price"`
	ImageURL    *string      `db:"image_url"`
	Category    FoodCategory `db:"category"`
	IsAvailable bool         `db:"is_available"`
}
