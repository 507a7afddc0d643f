package main

import "testing"

func TestIdentityLookupResolveKnownUser(t *testing.T) {
	table := identityLookup{
		"jdoe": {Name: "Jane Doe", Email: "jane@example.com"},
	}
	name, email := table.resolve("jdoe")
	if name != "Jane Doe" || email != "jane@example.com" {
		t.Fatalf("resolve(jdoe) = (%q, %q)", name, email)
	}
}

func TestIdentityLookupResolveUnknownUserFallsBackToID(t *testing.T) {
	table := identityLookup{}
	name, email := table.resolve("unknown")
	if name != "unknown" || email != "unknown" {
		t.Fatalf("resolve(unknown) = (%q, %q), want fallback to id", name, email)
	}
}

func TestOperatorIdentityUsesTestOverride(t *testing.T) {
	old := testIdentity
	defer func() { testIdentity = old }()
	testIdentity = &struct{ Name, Email string }{Name: "Test Operator", Email: "op@example.com"}

	name, email := operatorIdentity()
	if name != "Test Operator" || email != "op@example.com" {
		t.Fatalf("operatorIdentity() = (%q, %q)", name, email)
	}
}
