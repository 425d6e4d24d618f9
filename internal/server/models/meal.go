package models

import "time"

type Meal struct {
	ID          string     `json:"id"`
	Owner       string     `json:"owner"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Type        string     `json:"type"`
	DateTime    time.Time  `json:"datetime"`
	InDiet      bool       `json:"in_diet"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// MealPatch is a partial update. Nil fields are left unchanged.
type MealPatch struct {
	Title       *string
	Description *string
	Type        *string
	DateTime    *time.Time
	InDiet      *bool
}

// Apply copies the non-nil fields of p onto m.
func (p MealPatch) Apply(m *Meal) {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Description != nil {
		d := *p.Description
		m.Description = &d
	}
	if p.Type != nil {
		m.Type = *p.Type
	}
	if p.DateTime != nil {
		m.DateTime = *p.DateTime
	}
	if p.InDiet != nil {
		m.InDiet = *p.InDiet
	}
}

// Metrics summarises a user's adherence to the diet.
type Metrics struct {
	Total    int `json:"total"`
	In       int `json:"in"`
	Out      int `json:"out"`
	Sequence int `json:"sequence"`
}
