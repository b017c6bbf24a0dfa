package model

// Enumerations offered by the survey form. The order is the display order.
var (
	AgeOptions       = []string{"Child", "Teen", "Adult", "Senior"}
	GenderOptions    = []string{"Male", "Female"}
	GlassesOptions   = []string{"Yes", "No"}
	UpperWearOptions = []string{"T-shirt", "Jacket", "Shirt"}
	LowerWearOptions = []string{"Shorts", "Jeans", "Skirt"}
	ActivityOptions  = []string{"美食/品嚐", "觀光景點", "遊樂/娛樂", "購物", "其他"}
)

// Attributes is the categorical description of a visitor.
type Attributes struct {
	Age       string `json:"age" validate:"required,oneof=Child Teen Adult Senior"`
	Gender    string `json:"gender" validate:"required,oneof=Male Female"`
	Glasses   string `json:"glasses" validate:"required,oneof=Yes No"`
	UpperWear string `json:"upperWear" validate:"required,oneof=T-shirt Jacket Shirt"`
	LowerWear string `json:"lowerWear" validate:"required,oneof=Shorts Jeans Skirt"`
}
