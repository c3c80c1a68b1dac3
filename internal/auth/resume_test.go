package auth

import "testing"

func TestResumeRoundTrip(t *testing.T) {
	m := NewResumeManager("test-secret")
	token, err := m.Issue("client-1", "Alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.ClientID != "client-1" || claims.Name != "Alice" {
		t.Errorf("claims = %q/%q, want client-1/Alice", claims.ClientID, claims.Name)
	}
}

func TestResumeRejectsWrongSecret(t *testing.T) {
	token, err := NewResumeManager("secret-a").Issue("client-1", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewResumeManager("secret-b").Validate(token); err != ErrInvalidTicket {
		t.Errorf("cross-secret validate err = %v, want %v", err, ErrInvalidTicket)
	}
}

func TestResumeRejectsGarbage(t *testing.T) {
	if _, err := NewResumeManager("s").Validate("not-a-token"); err != ErrInvalidTicket {
		t.Errorf("garbage validate err = %v, want %v", err, ErrInvalidTicket)
	}
}
