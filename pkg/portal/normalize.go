package portal

import (
	"encoding/json"
	"strconv"
)

// Group is the canonical client-side group record. Several backend versions
// have shipped with diverging field spellings (groupname vs group_name,
// numeric vs string ids); UnmarshalJSON folds them all into this one shape.
type Group struct {
	ID              string  `json:"groupid"`
	Name            string  `json:"groupname"`
	Description     string  `json:"groupdescription"`
	InstructorName  string  `json:"instructorname"`
	InstructorEmail string  `json:"instructoremail"`
	Ward            string  `json:"ward"`
	StartDate       string  `json:"startdate"`
	EndDate         string  `json:"enddate"`
	MaxStudents     int     `json:"maxstudents"`
	CurrentStudents int     `json:"currentstudents"`
	Status          string  `json:"status"`
	Progress        float64 `json:"progress"`
}

func (g *Group) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	g.ID = pickString(fields, "groupid", "group_id", "id")
	g.Name = pickString(fields, "groupname", "group_name", "name")
	g.Description = pickString(fields, "groupdescription", "group_description", "description")
	g.InstructorName = pickString(fields, "instructorname", "instructor_name")
	g.InstructorEmail = pickString(fields, "instructoremail", "instructor_email")
	g.Ward = pickString(fields, "ward")
	g.StartDate = pickString(fields, "startdate", "start_date")
	g.EndDate = pickString(fields, "enddate", "end_date")
	g.MaxStudents = pickInt(fields, "maxstudents", "max_students")
	g.CurrentStudents = pickInt(fields, "currentstudents", "current_students")
	g.Status = pickString(fields, "status")
	g.Progress = pickFloat(fields, "progress")
	return nil
}

// pickString returns the first present key rendered as a string. Numeric
// values are stringified, so ids survive backends that emit them as numbers.
func pickString(fields map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			return n.String()
		}
	}
	return ""
}

func pickInt(fields map[string]json.RawMessage, keys ...string) int {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var n int
		if err := json.Unmarshal(raw, &n); err == nil {
			return n
		}
		// Some payloads quote their numbers.
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if v, err := strconv.Atoi(s); err == nil {
				return v
			}
		}
	}
	return 0
}

func pickFloat(fields map[string]json.RawMessage, keys ...string) float64 {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var f float64
		if err := json.Unmarshal(raw, &f); err == nil {
			return f
		}
	}
	return 0
}
