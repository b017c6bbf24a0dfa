package model

import "time"

// Spreadsheet columns in the order they are written.
var SurveyColumns = []string{
	"ID", "Age", "Gender", "Glasses", "Upper Wear", "Lower Wear", "Activities", "Image Path", "Timestamp",
}

// Layouts for generated identifiers and stored timestamps.
const (
	RecordIDLayout  = "20060102_150405"
	TimestampLayout = "2006-01-02 15:04:05"
)

// RecordID builds the identifier of a record submitted at ts. Two submissions
// within the same second share an ID.
func RecordID(ts time.Time) string {
	return "record_" + ts.Format(RecordIDLayout)
}

// SurveyRecord is one spreadsheet row.
type SurveyRecord struct {
	ID         string     `json:"id"`
	Attributes Attributes `json:"attributes"`
	Activities string     `json:"activities"`
	ImagePath  string     `json:"imagePath"`
	Timestamp  time.Time  `json:"timestamp"`
}

// Row renders the record as cell values matching SurveyColumns.
func (r SurveyRecord) Row() []string {
	return []string{
		r.ID,
		r.Attributes.Age,
		r.Attributes.Gender,
		r.Attributes.Glasses,
		r.Attributes.UpperWear,
		r.Attributes.LowerWear,
		r.Activities,
		r.ImagePath,
		r.Timestamp.Format(TimestampLayout),
	}
}

// RecordFromRow parses a row written by Row. Short rows leave trailing fields empty.
func RecordFromRow(cells []string) SurveyRecord {
	get := func(i int) string {
		if i < len(cells) {
			return cells[i]
		}
		return ""
	}

	ts, _ := time.ParseInLocation(TimestampLayout, get(8), time.Local)
	return SurveyRecord{
		ID: get(0),
		Attributes: Attributes{
			Age:       get(1),
			Gender:    get(2),
			Glasses:   get(3),
			UpperWear: get(4),
			LowerWear: get(5),
		},
		Activities: get(6),
		ImagePath:  get(7),
		Timestamp:  ts,
	}
}
