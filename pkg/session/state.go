// Package session holds the authenticated identity of the client and keeps it on disk.
package session

import (
	"reflect"
	"time"

	"dario.cat/mergo"

	"github.com/pasarkampus/pasar/pkg/domain"
)

// State is the whole session. It is only ever replaced as one value.
type State struct {
	User            *domain.User `json:"user"`
	Token           string       `json:"token"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

// normalize enforces IsAuthenticated == (Token != "" && User != nil).
func (s State) normalize() State {
	s.IsAuthenticated = s.Token != "" && s.User != nil
	return s
}

// clone copies the user record so callers can't mutate the store through a snapshot.
func (s State) clone() State {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// Role returns the user's role, "" when nobody is logged in.
func (s State) Role() domain.Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

// mergeUser shallow-merges the non-empty fields of patch over base.
// A nil base merges into an empty record.
func mergeUser(base *domain.User, patch domain.User) (*domain.User, error) {
	var merged domain.User
	if base != nil {
		merged = *base
	}
	if err := mergo.Merge(&merged, patch, mergo.WithOverride, mergo.WithTransformers(timeTransformer{})); err != nil {
		return nil, err
	}
	return &merged, nil
}

// timeTransformer keeps mergo from overwriting a timestamp with the zero time.
type timeTransformer struct{}

func (timeTransformer) Transformer(typ reflect.Type) func(dst, src reflect.Value) error {
	if typ != reflect.TypeOf(time.Time{}) {
		return nil
	}
	return func(dst, src reflect.Value) error {
		if dst.CanSet() && !src.Interface().(time.Time).IsZero() {
			dst.Set(src)
		}
		return nil
	}
}
