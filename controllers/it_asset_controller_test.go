package controllers

import (
	"encoding/json"
	"testing"

	"Gin_postgres_redis_machine_tracker/models"
)

func TestAssignmentDefaults(t *testing.T) {
	var in assignmentReq
	if err := json.Unmarshal([]byte(`{"it_asset_id":"ITMIT001","asset_user_id":2}`), &in); err != nil {
		t.Fatal(err)
	}
	a := in.model()
	if a.IsCurrentUser {
		t.Fatal("is_current_user should default to false")
	}
	if a.AssignedDate.String() != models.Today().String() {
		t.Fatalf("assigned_date = %s, want today", a.AssignedDate)
	}

	in.IsCurrentUser = true
	if !in.model().IsCurrentUser {
		t.Fatal("explicit is_current_user lost")
	}
}
