package app

import (
	"testing"
	"time"
)

func TestIssueAndParseToken(t *testing.T) {
	tok, err := IssueToken("s3cret", 42, "a@b.lk", "sess-1", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	c, err := ParseToken("s3cret", tok)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if c.EmployeeID != 42 || c.Email != "a@b.lk" || c.ID != "sess-1" {
		t.Fatalf("unexpected claims %+v", c)
	}
}

func TestParseTokenRejects(t *testing.T) {
	tok, _ := IssueToken("s3cret", 1, "a@b.lk", "sess-1", time.Hour)
	if _, err := ParseToken("other", tok); err == nil {
		t.Fatal("expected signature error")
	}

	expired, _ := IssueToken("s3cret", 1, "a@b.lk", "sess-1", -time.Minute)
	if _, err := ParseToken("s3cret", expired); err == nil {
		t.Fatal("expected expiry error")
	}

	noJTI, _ := IssueToken("s3cret", 1, "a@b.lk", "", time.Hour)
	if _, err := ParseToken("s3cret", noJTI); err == nil {
		t.Fatal("expected error for token without session id")
	}
}
