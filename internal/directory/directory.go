// Package directory is the inbound edge towards the marketplace's user
// service. The messaging core never stores user profiles; it only resolves
// display names for presentation-facing responses.
package directory

import "context"

// Resolver answers "what do we call this user id".
type Resolver interface {
	ResolveDisplayName(ctx context.Context, userID string) (string, error)
}

// Static resolves from a fixed map and falls back to the raw id. Useful for
// development and tests; production wires the user service client here.
type Static map[string]string

func (s Static) ResolveDisplayName(_ context.Context, userID string) (string, error) {
	if name, ok := s[userID]; ok {
		return name, nil
	}
	return userID, nil
}
