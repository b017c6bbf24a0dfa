package storage

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"touristkiosk/internal/model"
)

// SurveySheet is the worksheet name used when the spreadsheet is created.
const SurveySheet = "Survey"

// SurveyStore appends survey records to a single xlsx file.
//
// Each Append loads the whole workbook, adds one row and rewrites the file.
// Nothing guards against other processes writing the same file.
type SurveyStore struct {
	path string
	mu   sync.Mutex
}

// NewSurveyStore creates a store backed by the spreadsheet at path.
func NewSurveyStore(path string) *SurveyStore {
	return &SurveyStore{path: path}
}

// Path returns the spreadsheet location.
func (s *SurveyStore) Path() string {
	return s.path
}

// Append adds record as the last row, creating the file with a header row if needed.
func (s *SurveyStore) Append(record model.SurveyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, sheet, err := s.open()
	if err != nil {
		return err
	}

	addRow(sheet, record.Row())

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return eris.Wrapf(err, "create directory for %s", s.path)
	}
	if err := f.Save(s.path); err != nil {
		return eris.Wrapf(err, "save %s", s.path)
	}
	return nil
}

// Records returns every data row in append order. A missing file yields no records.
func (s *SurveyStore) Records() ([]model.SurveyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil, nil
	}

	f, err := xlsx.OpenFile(s.path)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", s.path)
	}
	if len(f.Sheets) == 0 {
		return nil, nil
	}

	var records []model.SurveyRecord
	for i, row := range f.Sheets[0].Rows {
		if i == 0 || row == nil {
			continue
		}
		cells := make([]string, 0, len(row.Cells))
		for _, cell := range row.Cells {
			cells = append(cells, cell.String())
		}
		records = append(records, model.RecordFromRow(cells))
	}
	return records, nil
}

// open loads the existing workbook or builds a new one with the header row.
func (s *SurveyStore) open() (*xlsx.File, *xlsx.Sheet, error) {
	if _, err := os.Stat(s.path); err == nil {
		f, err := xlsx.OpenFile(s.path)
		if err != nil {
			return nil, nil, eris.Wrapf(err, "open %s", s.path)
		}
		if len(f.Sheets) > 0 {
			return f, f.Sheets[0], nil
		}
		sheet, err := f.AddSheet(SurveySheet)
		if err != nil {
			return nil, nil, eris.Wrap(err, "add sheet")
		}
		addRow(sheet, model.SurveyColumns)
		return f, sheet, nil
	} else if !os.IsNotExist(err) {
		return nil, nil, eris.Wrapf(err, "stat %s", s.path)
	}

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SurveySheet)
	if err != nil {
		return nil, nil, eris.Wrap(err, "add sheet")
	}
	addRow(sheet, model.SurveyColumns)
	return f, sheet, nil
}

func addRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}
