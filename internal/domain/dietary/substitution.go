package dietary

import (
	"sort"
	"strings"

	"github.com/platewise/v1/internal/domain/recipe"
)

// NutritionalImpact estimates how swapping an ingredient changes the
// nutrition of one serving. Positive values are increases.
type NutritionalImpact struct {
	CalorieChange float64
	ProteinChange float64
	CarbChange    float64
	FatChange     float64
	FiberChange   float64
	SodiumChange  float64
}

// Substitution is one ranked replacement suggestion for an ingredient
type Substitution struct {
	Original    string
	Substitute  string
	Ratio       string
	Impact      NutritionalImpact
	Confidence  float64
	Note        string
}

// substitutionEntry holds the table row for one ingredient key
type substitutionEntry struct {
	key     string
	options []Substitution
}

// substitutionTable is the static lookup table for ingredient
// replacements. Confidence reflects how well the substitute preserves the
// ingredient's role in a recipe. Rows are matched against normalized
// ingredient names by longest-key substring.
var substitutionTable = []substitutionEntry{
	{"chicken", []Substitution{
		{Substitute: "tofu", Ratio: "1:1", Confidence: 0.9, Note: "press and marinate for best texture", Impact: NutritionalImpact{CalorieChange: -90, ProteinChange: -14, FatChange: -3}},
		{Substitute: "tempeh", Ratio: "1:1", Confidence: 0.8, Note: "firmer bite, slightly nutty flavor", Impact: NutritionalImpact{CalorieChange: -40, ProteinChange: -10, FiberChange: 7}},
		{Substitute: "seitan", Ratio: "1:1", Confidence: 0.75, Note: "contains gluten", Impact: NutritionalImpact{CalorieChange: -45, ProteinChange: -6}},
	}},
	{"beef", []Substitution{
		{Substitute: "lentils", Ratio: "1:1", Confidence: 0.8, Note: "works well in sauces and stews", Impact: NutritionalImpact{CalorieChange: -130, ProteinChange: -17, FiberChange: 8}},
		{Substitute: "mushrooms", Ratio: "1:1", Confidence: 0.75, Note: "best for umami-heavy dishes", Impact: NutritionalImpact{CalorieChange: -220, ProteinChange: -23}},
		{Substitute: "black beans", Ratio: "1:1", Confidence: 0.7, Note: "suits burgers and chili", Impact: NutritionalImpact{CalorieChange: -120, ProteinChange: -16, FiberChange: 9}},
	}},
	{"milk", []Substitution{
		{Substitute: "oat milk", Ratio: "1:1", Confidence: 0.95, Note: "closest texture for baking", Impact: NutritionalImpact{CalorieChange: -30, ProteinChange: -5}},
		{Substitute: "almond milk", Ratio: "1:1", Confidence: 0.9, Note: "contains tree nuts", Impact: NutritionalImpact{CalorieChange: -90, ProteinChange: -7}},
		{Substitute: "soy milk", Ratio: "1:1", Confidence: 0.9, Note: "highest protein of the plant milks", Impact: NutritionalImpact{CalorieChange: -50, ProteinChange: -1}},
		{Substitute: "coconut milk", Ratio: "1:1", Confidence: 0.7, Note: "adds coconut flavor", Impact: NutritionalImpact{CalorieChange: 80, FatChange: 12}},
	}},
	{"butter", []Substitution{
		{Substitute: "olive oil", Ratio: "3:4", Confidence: 0.85, Note: "use three parts oil per four parts butter", Impact: NutritionalImpact{CalorieChange: 20, FatChange: 3}},
		{Substitute: "coconut oil", Ratio: "1:1", Confidence: 0.8, Note: "solid at room temperature like butter", Impact: NutritionalImpact{CalorieChange: 15, FatChange: 2}},
		{Substitute: "vegan butter", Ratio: "1:1", Confidence: 0.8, Note: "direct swap in baking", Impact: NutritionalImpact{}},
	}},
	{"cheese", []Substitution{
		{Substitute: "nutritional yeast", Ratio: "1:4", Confidence: 0.7, Note: "for cheesy flavor in sauces", Impact: NutritionalImpact{CalorieChange: -80, SodiumChange: -150}},
		{Substitute: "cashew cheese", Ratio: "1:1", Confidence: 0.65, Note: "contains tree nuts", Impact: NutritionalImpact{CalorieChange: -20}},
	}},
	{"cream", []Substitution{
		{Substitute: "coconut cream", Ratio: "1:1", Confidence: 0.85, Note: "whips like dairy cream when chilled", Impact: NutritionalImpact{CalorieChange: 30, FatChange: 5}},
		{Substitute: "cashew cream", Ratio: "1:1", Confidence: 0.75, Note: "blend soaked cashews with water", Impact: NutritionalImpact{CalorieChange: -40, FatChange: -8}},
	}},
	{"yogurt", []Substitution{
		{Substitute: "coconut yogurt", Ratio: "1:1", Confidence: 0.85, Note: "similar tang and texture", Impact: NutritionalImpact{CalorieChange: 40, FatChange: 6}},
		{Substitute: "soy yogurt", Ratio: "1:1", Confidence: 0.8, Note: "neutral flavor", Impact: NutritionalImpact{CalorieChange: -10}},
	}},
	{"egg", []Substitution{
		{Substitute: "flax egg", Ratio: "1 tbsp flax + 3 tbsp water per egg", Confidence: 0.8, Note: "binder for baking", Impact: NutritionalImpact{CalorieChange: -35, ProteinChange: -4, FiberChange: 2}},
		{Substitute: "chia egg", Ratio: "1 tbsp chia + 3 tbsp water per egg", Confidence: 0.75, Note: "binder for baking", Impact: NutritionalImpact{CalorieChange: -20, ProteinChange: -4, FiberChange: 4}},
		{Substitute: "applesauce", Ratio: "1/4 cup per egg", Confidence: 0.6, Note: "adds moisture and sweetness", Impact: NutritionalImpact{CalorieChange: -45, CarbChange: 6}},
	}},
	{"wheat flour", []Substitution{
		{Substitute: "almond flour", Ratio: "1:1", Confidence: 0.75, Note: "contains tree nuts; denser crumb", Impact: NutritionalImpact{CalorieChange: 60, CarbChange: -18, FatChange: 12}},
		{Substitute: "rice flour", Ratio: "7:8", Confidence: 0.7, Note: "use slightly less than wheat flour", Impact: NutritionalImpact{CarbChange: 3}},
		{Substitute: "oat flour", Ratio: "1:1", Confidence: 0.7, Note: "verify certified gluten-free oats", Impact: NutritionalImpact{FiberChange: 4}},
	}},
	{"flour", []Substitution{
		{Substitute: "gluten-free flour blend", Ratio: "1:1", Confidence: 0.8, Note: "blends with xanthan gum swap cleanest", Impact: NutritionalImpact{}},
		{Substitute: "almond flour", Ratio: "1:1", Confidence: 0.65, Note: "contains tree nuts; denser crumb", Impact: NutritionalImpact{CalorieChange: 60, CarbChange: -18, FatChange: 12}},
	}},
	{"soy sauce", []Substitution{
		{Substitute: "coconut aminos", Ratio: "1:1", Confidence: 0.85, Note: "sweeter and lower sodium", Impact: NutritionalImpact{SodiumChange: -200}},
		{Substitute: "tamari", Ratio: "1:1", Confidence: 0.8, Note: "gluten-free but still soy-based", Impact: NutritionalImpact{}},
	}},
	{"peanut butter", []Substitution{
		{Substitute: "sunflower seed butter", Ratio: "1:1", Confidence: 0.85, Note: "nut-free with similar texture", Impact: NutritionalImpact{CalorieChange: 10}},
		{Substitute: "tahini", Ratio: "1:1", Confidence: 0.6, Note: "contains sesame; less sweet", Impact: NutritionalImpact{CalorieChange: -5, CarbChange: -3}},
	}},
	{"peanut", []Substitution{
		{Substitute: "roasted chickpeas", Ratio: "1:1", Confidence: 0.7, Note: "crunch without nuts", Impact: NutritionalImpact{CalorieChange: -40, FiberChange: 5}},
		{Substitute: "sunflower seeds", Ratio: "1:1", Confidence: 0.65, Note: "nut-free crunch", Impact: NutritionalImpact{CalorieChange: 0}},
	}},
	{"honey", []Substitution{
		{Substitute: "maple syrup", Ratio: "1:1", Confidence: 0.9, Note: "slightly thinner; reduce other liquids", Impact: NutritionalImpact{CalorieChange: -10, CarbChange: -3}},
		{Substitute: "agave nectar", Ratio: "1:1", Confidence: 0.8, Note: "neutral flavor", Impact: NutritionalImpact{CalorieChange: -5}},
	}},
	{"shrimp", []Substitution{
		{Substitute: "king oyster mushrooms", Ratio: "1:1", Confidence: 0.65, Note: "score and sear for similar bite", Impact: NutritionalImpact{CalorieChange: -60, ProteinChange: -17}},
		{Substitute: "hearts of palm", Ratio: "1:1", Confidence: 0.55, Note: "works in cold dishes", Impact: NutritionalImpact{CalorieChange: -70, ProteinChange: -18}},
	}},
	{"fish sauce", []Substitution{
		{Substitute: "coconut aminos", Ratio: "1:1", Confidence: 0.7, Note: "add a pinch of salt to match intensity", Impact: NutritionalImpact{SodiumChange: -400}},
	}},
	{"bread", []Substitution{
		{Substitute: "gluten-free bread", Ratio: "1:1", Confidence: 0.85, Note: "direct swap", Impact: NutritionalImpact{}},
		{Substitute: "lettuce wraps", Ratio: "1:1", Confidence: 0.5, Note: "for sandwiches only", Impact: NutritionalImpact{CalorieChange: -120, CarbChange: -24}},
	}},
	{"pasta", []Substitution{
		{Substitute: "rice noodles", Ratio: "1:1", Confidence: 0.85, Note: "watch cooking time, they soften fast", Impact: NutritionalImpact{}},
		{Substitute: "zucchini noodles", Ratio: "1:1", Confidence: 0.6, Note: "much lower carb; do not boil", Impact: NutritionalImpact{CalorieChange: -180, CarbChange: -40, FiberChange: 1}},
	}},
}

// Suggest returns ranked replacements for every ingredient a violation
// touches. Results are ordered by descending confidence, ties broken by
// table insertion order. Ingredients with no table entry contribute
// nothing; an empty result is a valid answer, not an error.
func Suggest(v Violation) []Substitution {
	var suggestions []Substitution
	for _, name := range v.AffectedIngredients {
		suggestions = append(suggestions, lookupSubstitutions(name)...)
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	return suggestions
}

// SuggestForRecipe evaluates the recipe against the profile and returns
// replacements for every ingredient involved in a violation or warning,
// keyed by normalized ingredient name.
func SuggestForRecipe(rec recipe.Recipe, profile Profile) map[string][]Substitution {
	result := Evaluate(profile, rec)
	suggestions := make(map[string][]Substitution)

	collect := func(names []string) {
		for _, name := range names {
			if _, done := suggestions[name]; done {
				continue
			}
			if subs := lookupSubstitutions(name); len(subs) > 0 {
				suggestions[name] = subs
			}
		}
	}
	for _, v := range result.Violations {
		collect(v.AffectedIngredients)
	}
	for _, w := range result.Warnings {
		collect(w.AffectedIngredients)
	}
	return suggestions
}

// AlternativeNames returns up to max substitute product names for one item
// name, used for shopping-list suggestions.
func AlternativeNames(name string, max int) []string {
	subs := lookupSubstitutions(name)
	if max > 0 && len(subs) > max {
		subs = subs[:max]
	}
	names := make([]string, 0, len(subs))
	for _, s := range subs {
		names = append(names, s.Substitute)
	}
	return names
}

// lookupSubstitutions finds the best-matching table row for a normalized
// ingredient name. An exact key wins; otherwise the longest key contained
// in the name wins. Options come back ordered by confidence, ties in
// insertion order, with Original filled in.
func lookupSubstitutions(name string) []Substitution {
	normalized := normalizeName(name)
	if normalized == "" {
		return nil
	}

	var best *substitutionEntry
	for i := range substitutionTable {
		entry := &substitutionTable[i]
		if entry.key == normalized {
			best = entry
			break
		}
		if strings.Contains(normalized, entry.key) {
			if best == nil || len(entry.key) > len(best.key) {
				best = entry
			}
		}
	}
	if best == nil {
		return nil
	}

	options := make([]Substitution, len(best.options))
	copy(options, best.options)
	for i := range options {
		options[i].Original = normalized
	}
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Confidence > options[j].Confidence
	})
	return options
}
