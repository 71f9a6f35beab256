package service

import "strings"

// OnboardingLink is the public URL a prospective client uses to register
// with ownerID. It only depends on its inputs.
func OnboardingLink(base, ownerID string) string {
	return strings.TrimRight(base, "/") + "/" + ownerID
}
