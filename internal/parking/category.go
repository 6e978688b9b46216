package parking

import "strings"

// Category is the vehicle category a spot is built for.
type Category string

const (
	CategoryCar  Category = "CAR"
	CategoryBike Category = "BIKE"
)

// Operator menu values for the category prompt.
const (
	SelectionCar  = 1
	SelectionBike = 2
)

func (c Category) Valid() bool {
	switch c {
	case CategoryCar, CategoryBike:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// CategoryFromSelection maps the operator's menu choice to a category.
func CategoryFromSelection(selection int) (Category, error) {
	switch selection {
	case SelectionCar:
		return CategoryCar, nil
	case SelectionBike:
		return CategoryBike, nil
	}
	return "", &UnsupportedCategoryError{Value: selection}
}

// ParseCategory accepts the category name in any letter case.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", &UnsupportedCategoryError{Value: s}
	}
	return c, nil
}
