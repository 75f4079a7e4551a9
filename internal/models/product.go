package models

import "gorm.io/gorm"

// Category classifies a catalog product.
type Category string

const (
	CategoryPizza   Category = "pizza"
	CategoryPasta   Category = "pasta"
	CategorySalad   Category = "salad"
	CategoryDessert Category = "dessert"
	CategoryDrink   Category = "drink"
)

// ValidCategory reports whether c is one of the fixed product categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryPizza, CategoryPasta, CategorySalad, CategoryDessert, CategoryDrink:
		return true
	}
	return false
}

// Allergen codes (EU-14 list).
const (
	AllergenGluten     = "gluten"
	AllergenLactose    = "lactose"
	AllergenEgg        = "egg"
	AllergenFish       = "fish"
	AllergenPeanut     = "peanut"
	AllergenSoy        = "soy"
	AllergenNuts       = "nuts"
	AllergenCelery     = "celery"
	AllergenMustard    = "mustard"
	AllergenSesame     = "sesame"
	AllergenSulphite   = "sulphite"
	AllergenLupin      = "lupin"
	AllergenMollusc    = "mollusc"
	AllergenCrustacean = "crustacean"
)

// Product represents a catalog entry. Prices are stored in minor units
// (cents) so the cart, the checkout session and the webhook all compute
// on integers and only format to decimal at presentation boundaries.
type Product struct {
	ID          string   `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string   `json:"name" validate:"required,min=2,max=100"`
	Description string   `json:"description" validate:"omitempty,max=500"`
	PriceCents  int64    `json:"price_cents" validate:"required,gt=0"`
	Category    Category `json:"category" gorm:"type:varchar(20)" validate:"required,oneof=pizza pasta salad dessert drink"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url"`
	Allergens   []string `json:"allergens" gorm:"serializer:json" validate:"omitempty,dive,oneof=gluten lactose egg fish peanut soy nuts celery mustard sesame sulphite lupin mollusc crustacean"`
	gorm.Model  // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
