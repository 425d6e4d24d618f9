package api

import "time"

type Account struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Meal struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Type        string    `json:"type"`
	DateTime    time.Time `json:"datetime"`
	InDiet      bool      `json:"in_diet"`
}

// NewMeal is the body of POST /meals.
type NewMeal struct {
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Type        string    `json:"type"`
	DateTime    time.Time `json:"datetime"`
	InDiet      bool      `json:"inDiet"`
}

type Metrics struct {
	Total    int `json:"total"`
	In       int `json:"in"`
	Out      int `json:"out"`
	Sequence int `json:"sequence"`
}

type Export struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type envelope[T any] struct {
	Data T `json:"data"`
}
