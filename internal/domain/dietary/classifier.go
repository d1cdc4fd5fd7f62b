package dietary

import (
	"sort"
	"strings"
)

// IngredientTag is a semantic category assigned to an ingredient name
type IngredientTag string

const (
	TagMeat      IngredientTag = "meat"
	TagPork      IngredientTag = "pork"
	TagFish      IngredientTag = "fish"
	TagShellfish IngredientTag = "shellfish"
	TagDairy     IngredientTag = "dairy"
	TagEgg       IngredientTag = "egg"
	TagGluten    IngredientTag = "gluten"
	TagNut       IngredientTag = "nut"
	TagPeanut    IngredientTag = "peanut"
	TagSoy       IngredientTag = "soy"
	TagSesame    IngredientTag = "sesame"
	TagHoney     IngredientTag = "honey"
	TagAlcohol   IngredientTag = "alcohol"
	TagHighCarb  IngredientTag = "high_carb"
	TagHighSugar IngredientTag = "high_sugar"
)

// TagSet is a set of ingredient tags
type TagSet map[IngredientTag]struct{}

// Has reports whether the set contains the tag
func (s TagSet) Has(tag IngredientTag) bool {
	_, ok := s[tag]
	return ok
}

// Intersects reports whether the set shares any tag with other
func (s TagSet) Intersects(other TagSet) bool {
	if len(other) < len(s) {
		s, other = other, s
	}
	for tag := range s {
		if other.Has(tag) {
			return true
		}
	}
	return false
}

// List returns the tags in sorted order
func (s TagSet) List() []IngredientTag {
	tags := make([]IngredientTag, 0, len(s))
	for tag := range s {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// tagRule maps a name substring to the tags it implies
type tagRule struct {
	substring string
	tags      []IngredientTag
}

// tagRules is the static classification table. Matching is substring-based
// and case-insensitive; a name may collect tags from several rules. The
// table ships with the engine and is never mutated after init.
var tagRules = []tagRule{
	// Meat and poultry
	{"chicken", []IngredientTag{TagMeat}},
	{"beef", []IngredientTag{TagMeat}},
	{"steak", []IngredientTag{TagMeat}},
	{"pork", []IngredientTag{TagMeat, TagPork}},
	{"bacon", []IngredientTag{TagMeat, TagPork}},
	{"ham", []IngredientTag{TagMeat, TagPork}},
	{"sausage", []IngredientTag{TagMeat}},
	{"lamb", []IngredientTag{TagMeat}},
	{"turkey", []IngredientTag{TagMeat}},
	{"duck", []IngredientTag{TagMeat}},
	{"veal", []IngredientTag{TagMeat}},
	{"meat", []IngredientTag{TagMeat}},
	{"gelatin", []IngredientTag{TagMeat}},

	// Fish and shellfish
	{"fish", []IngredientTag{TagFish}},
	{"salmon", []IngredientTag{TagFish}},
	{"tuna", []IngredientTag{TagFish}},
	{"cod", []IngredientTag{TagFish}},
	{"anchov", []IngredientTag{TagFish}},
	{"sardine", []IngredientTag{TagFish}},
	{"shrimp", []IngredientTag{TagShellfish}},
	{"prawn", []IngredientTag{TagShellfish}},
	{"crab", []IngredientTag{TagShellfish}},
	{"lobster", []IngredientTag{TagShellfish}},
	{"scallop", []IngredientTag{TagShellfish}},
	{"clam", []IngredientTag{TagShellfish}},
	{"mussel", []IngredientTag{TagShellfish}},
	{"oyster", []IngredientTag{TagShellfish}},

	// Dairy
	{"milk", []IngredientTag{TagDairy}},
	{"cheese", []IngredientTag{TagDairy}},
	{"butter", []IngredientTag{TagDairy}},
	{"cream", []IngredientTag{TagDairy}},
	{"yogurt", []IngredientTag{TagDairy}},
	{"ghee", []IngredientTag{TagDairy}},
	{"whey", []IngredientTag{TagDairy}},
	{"casein", []IngredientTag{TagDairy}},
	{"lactose", []IngredientTag{TagDairy}},

	// Eggs
	{"egg", []IngredientTag{TagEgg}},
	{"mayonnaise", []IngredientTag{TagEgg}},
	{"albumin", []IngredientTag{TagEgg}},
	{"meringue", []IngredientTag{TagEgg}},

	// Gluten grains
	{"wheat", []IngredientTag{TagGluten, TagHighCarb}},
	{"flour", []IngredientTag{TagGluten, TagHighCarb}},
	{"bread", []IngredientTag{TagGluten, TagHighCarb}},
	{"pasta", []IngredientTag{TagGluten, TagHighCarb}},
	{"noodle", []IngredientTag{TagGluten, TagHighCarb}},
	{"barley", []IngredientTag{TagGluten}},
	{"rye", []IngredientTag{TagGluten}},
	{"couscous", []IngredientTag{TagGluten, TagHighCarb}},
	{"soy sauce", []IngredientTag{TagGluten, TagSoy}},
	{"beer", []IngredientTag{TagGluten, TagAlcohol}},

	// Nuts
	{"peanut", []IngredientTag{TagPeanut, TagNut}},
	{"almond", []IngredientTag{TagNut}},
	{"walnut", []IngredientTag{TagNut}},
	{"cashew", []IngredientTag{TagNut}},
	{"pecan", []IngredientTag{TagNut}},
	{"pistachio", []IngredientTag{TagNut}},
	{"hazelnut", []IngredientTag{TagNut}},
	{"macadamia", []IngredientTag{TagNut}},

	// Soy
	{"soy", []IngredientTag{TagSoy}},
	{"tofu", []IngredientTag{TagSoy}},
	{"tempeh", []IngredientTag{TagSoy}},
	{"edamame", []IngredientTag{TagSoy}},
	{"miso", []IngredientTag{TagSoy}},

	// Other allergens and rule targets
	{"sesame", []IngredientTag{TagSesame}},
	{"tahini", []IngredientTag{TagSesame}},
	{"honey", []IngredientTag{TagHoney}},
	{"wine", []IngredientTag{TagAlcohol}},
	{"rum", []IngredientTag{TagAlcohol}},
	{"brandy", []IngredientTag{TagAlcohol}},

	// Carbohydrate-dense staples
	{"rice", []IngredientTag{TagHighCarb}},
	{"potato", []IngredientTag{TagHighCarb}},
	{"sugar", []IngredientTag{TagHighCarb, TagHighSugar}},
	{"syrup", []IngredientTag{TagHighCarb, TagHighSugar}},
	{"corn", []IngredientTag{TagHighCarb}},
	{"oats", []IngredientTag{TagHighCarb}},
}

// Classify maps a free-text ingredient name to its semantic tags. Unknown
// ingredients classify to the empty set. The function is pure and safe for
// concurrent use.
func Classify(name string) TagSet {
	normalized := normalizeName(name)
	tags := make(TagSet)
	if normalized == "" {
		return tags
	}

	for _, rule := range tagRules {
		if !strings.Contains(normalized, rule.substring) {
			continue
		}
		for _, tag := range rule.tags {
			tags[tag] = struct{}{}
		}
	}
	return tags
}
