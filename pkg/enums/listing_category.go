package enums

import "fmt"

// ListingCategory represents the canonical marketplace categories.
type ListingCategory string

const (
	ListingCategoryLighting    ListingCategory = "lighting"
	ListingCategorySound       ListingCategory = "sound"
	ListingCategoryCamera      ListingCategory = "camera"
	ListingCategoryLens        ListingCategory = "lens"
	ListingCategoryFurniture   ListingCategory = "furniture"
	ListingCategoryDecor       ListingCategory = "decor"
	ListingCategoryStaging     ListingCategory = "staging"
	ListingCategoryAccessories ListingCategory = "accessories"
	ListingCategoryOther       ListingCategory = "other"
)

var validListingCategories = []ListingCategory{
	ListingCategoryLighting,
	ListingCategorySound,
	ListingCategoryCamera,
	ListingCategoryLens,
	ListingCategoryFurniture,
	ListingCategoryDecor,
	ListingCategoryStaging,
	ListingCategoryAccessories,
	ListingCategoryOther,
}

// String implements fmt.Stringer.
func (c ListingCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ListingCategory.
func (c ListingCategory) IsValid() bool {
	for _, candidate := range validListingCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseListingCategory converts raw input into a ListingCategory.
func ParseListingCategory(value string) (ListingCategory, error) {
	for _, candidate := range validListingCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid listing category %q", value)
}

// ItemCondition describes the wear state of a listed item.
type ItemCondition string

const (
	ItemConditionNew        ItemCondition = "new"
	ItemConditionLikeNew    ItemCondition = "like_new"
	ItemConditionUsed       ItemCondition = "used"
	ItemConditionWellWorn   ItemCondition = "well_worn"
	ItemConditionForParts   ItemCondition = "for_parts"
	ItemConditionRefurbshed ItemCondition = "refurbished"
)

var validItemConditions = []ItemCondition{
	ItemConditionNew,
	ItemConditionLikeNew,
	ItemConditionUsed,
	ItemConditionWellWorn,
	ItemConditionForParts,
	ItemConditionRefurbshed,
}

// String implements fmt.Stringer.
func (c ItemCondition) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ItemCondition.
func (c ItemCondition) IsValid() bool {
	for _, candidate := range validItemConditions {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseItemCondition converts raw input into an ItemCondition.
func ParseItemCondition(value string) (ItemCondition, error) {
	for _, candidate := range validItemConditions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item condition %q", value)
}
