package dto

import "errors"

// Comment mirrors a guestbook entry.
type Comment struct {
	ID   int    `json:"id"`
	Name string `json:"name" groups:"content"`
	Text string `json:"text" groups:"content"`
}

func NewComment(id int, name, text string) *Comment {
	return &Comment{ID: id, Name: name, Text: text}
}

// Page carries assorted field shapes.
type Page struct {
	Title    string            `mapper:"name=title"`
	Tags     []string          `json:"tags" default:"[go]"`
	Labels   map[string]string `json:"labels,omitempty"`
	Score    *float64          `json:"score"`
	Extra    any               `json:"extra"`
	Note     string            `json:"note" mapper:",nullable"`
	Author   *Comment          `json:"author" groups:"public"`
	Skipped  string            `json:"-"`
	internal int
}

type Account struct {
	Owner  string `json:"owner"`
	Active bool   `json:"active"`
}

func NewAccount(owner string) (Account, error) {
	if owner == "" {
		return Account{}, errors.New("owner required")
	}
	return Account{Owner: owner, Active: true}, nil
}
