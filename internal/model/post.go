package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Author struct {
	FirstName string `bson:"firstName" json:"firstName" dynamodbav:"firstName"`
	LastName  string `bson:"lastName" json:"lastName" dynamodbav:"lastName"`
}

type Post struct {
	ID      string    `bson:"_id" json:"id" dynamodbav:"id" validate:"required"`
	Title   string    `bson:"title" json:"title" dynamodbav:"title" validate:"required"`
	Content string    `bson:"content" json:"content" dynamodbav:"content"`
	Author  Author    `bson:"author" json:"author" dynamodbav:"author"`
	Created time.Time `bson:"created" json:"created" dynamodbav:"created" validate:"required"`
}

func (Post) GetCollectionName() string {
	return "posts"
}

// WithDefaults assigns the store generated id and, when unset, the creation
// time. Timestamps are kept in UTC at millisecond precision so every backend
// round-trips them unchanged.
func (p Post) WithDefaults(id string, now time.Time) Post {
	p.ID = id
	if p.Created.IsZero() {
		p.Created = now
	}
	p.Created = p.Created.UTC().Truncate(time.Millisecond)
	return p
}

// PostUpdate carries a partial update. Nil fields are left untouched.
type PostUpdate struct {
	Title   *string
	Content *string
	Author  *Author
}

func (u PostUpdate) IsEmpty() bool {
	return u.Title == nil && u.Content == nil && u.Author == nil
}

func (u PostUpdate) Validate() error {
	if u.Title != nil && *u.Title == "" {
		return ValidationError{Field: "title", Tag: "required"}
	}
	return nil
}

// Apply returns p with the supplied fields replaced.
func (u PostUpdate) Apply(p Post) Post {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Content != nil {
		p.Content = *u.Content
	}
	if u.Author != nil {
		p.Author = *u.Author
	}
	return p
}

// ValidationError reports a post field that breaks a storage invariant.
type ValidationError struct {
	Field string
	Tag   string
}

func (e ValidationError) Error() string {
	if e.Tag == "required" {
		return fmt.Sprintf("post %s must not be empty", e.Field)
	}
	return fmt.Sprintf("post %s failed the %q check", e.Field, e.Tag)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the invariants every persisted post must hold.
func (p Post) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return ValidationError{Field: fieldErrs[0].Field(), Tag: fieldErrs[0].Tag()}
	}
	return err
}
