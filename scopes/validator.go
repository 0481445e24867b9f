package scopes

import (
	"fmt"
	"strings"

	"github.com/quillauth/token-engine/clients"
)

// Result is the outcome of checking a requested scope string against a
// client's registration.
type Result struct {
	IsValid      bool
	Scopes       []string
	ErrorMessage string
}

// Validator checks requested scopes against a client's allowed set.
// Unrecognized scopes are rejected, never silently dropped.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// Check validates the space-separated scope string for the client. An empty
// request resolves to the client's full registered scope set.
func (v *Validator) Check(requested string, client *clients.Client) Result {
	if strings.TrimSpace(requested) == "" {
		return Result{IsValid: true, Scopes: append([]string(nil), client.Scopes...)}
	}

	fields := strings.Fields(requested)
	seen := make(map[string]struct{}, len(fields))
	granted := make([]string, 0, len(fields))
	for _, scope := range fields {
		if !client.HasScope(scope) {
			return Result{
				IsValid:      false,
				ErrorMessage: fmt.Sprintf("scope %q is not allowed for client %s", scope, client.ID),
			}
		}
		if _, dup := seen[scope]; dup {
			continue
		}
		seen[scope] = struct{}{}
		granted = append(granted, scope)
	}
	return Result{IsValid: true, Scopes: granted}
}

// ScopeString joins granted scopes back into wire form.
func (r Result) ScopeString() string {
	return strings.Join(r.Scopes, " ")
}
