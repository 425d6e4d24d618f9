package api

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) SignUp(ctx context.Context, username, email, password string) (*Account, error) {
	var out Account
	in := map[string]string{"username": username, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/register/signup", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*Account, error) {
	var out Account
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/register/signin", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SignOut(ctx context.Context) error {
	if !c.HasSession() {
		return ErrNotSignedIn
	}
	return c.do(ctx, http.MethodPatch, "/register/signout", nil, nil)
}

func (c *Client) CreateMeal(ctx context.Context, m NewMeal) (*Meal, error) {
	var out envelope[Meal]
	if err := c.do(ctx, http.MethodPost, "/meals", m, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) ListMeals(ctx context.Context) ([]Meal, error) {
	var out envelope[[]Meal]
	if err := c.do(ctx, http.MethodGet, "/meals", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) Metrics(ctx context.Context) (*Metrics, error) {
	var out envelope[Metrics]
	if err := c.do(ctx, http.MethodGet, "/meals/metrics", nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) DeleteMeal(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/meals/delete/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Export(ctx context.Context) (*Export, error) {
	var out envelope[Export]
	if err := c.do(ctx, http.MethodPost, "/meals/export", nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}
