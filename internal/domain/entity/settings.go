package entity

import "slices"

// MenuSettings is the effective set of constraints passed to menu generation.
// Defaults come from the rules file and are overridden by intake data.
type MenuSettings struct {
	DaysNeeded          int      `yaml:"days_needed" json:"days_needed"`
	AwayDays            []int    `yaml:"away_days" json:"away_days"`
	AvoidIngredients    []string `yaml:"avoid_ingredients" json:"avoid_ingredients"`
	MaxCookingTime      int      `yaml:"max_cooking_time" json:"max_cooking_time"`
	PriorityRecipeSites []string `yaml:"priority_recipe_sites" json:"priority_recipe_sites"`
	CuisinePreferences  []string `yaml:"cuisine_preferences" json:"cuisine_preferences,omitempty"`
	DietaryPreferences  []string `yaml:"dietary_preferences" json:"dietary_preferences"`

	// Set only from intake data
	SpecialMemo      string   `yaml:"-" json:"special_memo,omitempty"`
	GuestsExpected   int      `yaml:"-" json:"guests_expected,omitempty"`
	SpecialOccasions []string `yaml:"-" json:"special_occasions,omitempty"`
}

// MergeSettings overlays intake preferences on the rule defaults.
// A nil intake returns a copy of defaults. Cuisine preferences always come from defaults.
func MergeSettings(defaults MenuSettings, in *Intake) MenuSettings {
	s := defaults.clone()
	if in == nil {
		return s
	}

	s.DaysNeeded = in.DaysNeeded
	s.AwayDays = append([]int{}, in.AwayDays...)
	s.AvoidIngredients = append([]string{}, in.AvoidIngredients...)
	s.MaxCookingTime = in.MaxCookingTime
	s.PriorityRecipeSites = append([]string{}, in.PriorityRecipeSites...)
	s.DietaryPreferences = append([]string{}, in.DietaryRestrictions...)

	if in.Memo != "" {
		s.SpecialMemo = in.Memo
	}
	if in.GuestsExpected > 0 {
		s.GuestsExpected = in.GuestsExpected
	}
	if len(in.SpecialOccasions) > 0 {
		s.SpecialOccasions = append([]string{}, in.SpecialOccasions...)
	}
	return s
}

// clone deep-copies the lists; empty lists stay empty rather than nil.
func (s MenuSettings) clone() MenuSettings {
	c := s
	c.AwayDays = slices.Clone(s.AwayDays)
	c.AvoidIngredients = slices.Clone(s.AvoidIngredients)
	c.PriorityRecipeSites = slices.Clone(s.PriorityRecipeSites)
	c.CuisinePreferences = slices.Clone(s.CuisinePreferences)
	c.DietaryPreferences = slices.Clone(s.DietaryPreferences)
	c.SpecialOccasions = slices.Clone(s.SpecialOccasions)
	return c
}
