package portal

import (
	"encoding/json"
	"testing"
)

func TestGroupUnmarshalCanonicalKeys(t *testing.T) {
	payload := `{
		"groupid": "g1",
		"groupname": "Starting a Business",
		"groupdescription": "12-week course",
		"instructorname": "Ana Silva",
		"instructoremail": "ana@example.org",
		"ward": "riverside",
		"startdate": "2026-01-05",
		"enddate": "2026-03-30",
		"maxstudents": 15,
		"currentstudents": 7,
		"status": "active",
		"progress": 42.5
	}`

	var g Group
	if err := json.Unmarshal([]byte(payload), &g); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if g.ID != "g1" || g.Name != "Starting a Business" || g.Ward != "riverside" {
		t.Errorf("group = %+v", g)
	}
	if g.MaxStudents != 15 || g.CurrentStudents != 7 {
		t.Errorf("counts = %d/%d, want 7/15", g.CurrentStudents, g.MaxStudents)
	}
	if g.Progress != 42.5 {
		t.Errorf("Progress = %v, want 42.5", g.Progress)
	}
}

func TestGroupUnmarshalLegacyKeys(t *testing.T) {
	// Older backend versions emitted snake_case keys and numeric ids.
	payload := `{
		"group_id": 7,
		"group_name": "Personal Finances",
		"group_description": "budgeting basics",
		"instructor_name": "Ana Silva",
		"instructor_email": "ana@example.org",
		"start_date": "2026-01-05",
		"end_date": "2026-03-30",
		"max_students": "20",
		"current_students": 3,
		"status": "active"
	}`

	var g Group
	if err := json.Unmarshal([]byte(payload), &g); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if g.ID != "7" {
		t.Errorf("ID = %q, want numeric id stringified to 7", g.ID)
	}
	if g.Name != "Personal Finances" || g.InstructorEmail != "ana@example.org" {
		t.Errorf("group = %+v", g)
	}
	if g.MaxStudents != 20 {
		t.Errorf("MaxStudents = %d, want quoted number parsed to 20", g.MaxStudents)
	}
	if g.StartDate != "2026-01-05" || g.EndDate != "2026-03-30" {
		t.Errorf("dates = %q..%q", g.StartDate, g.EndDate)
	}
}

func TestGroupUnmarshalPrefersCanonicalKey(t *testing.T) {
	payload := `{"groupname": "Canonical", "group_name": "Legacy"}`

	var g Group
	if err := json.Unmarshal([]byte(payload), &g); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if g.Name != "Canonical" {
		t.Errorf("Name = %q, want the canonical key to win", g.Name)
	}
}

func TestGroupUnmarshalMissingFields(t *testing.T) {
	var g Group
	if err := json.Unmarshal([]byte(`{}`), &g); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if g.ID != "" || g.MaxStudents != 0 || g.Progress != 0 {
		t.Errorf("zero payload produced %+v", g)
	}
}
