package holiday

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	wterror "github.com/msto63/werktag/foundation/core/error"
	"github.com/msto63/werktag/foundation/utils/timex"
)

// Format is a holiday file encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format by file extension, defaulting to YAML
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// holidayFile is the on-disk layout:
//
//	name: de-be
//	holidays:
//	  - date: 2024-12-25
//	    name: Christmas Day
//	    annual: true
//	  - date: "05-01"
//	    name: Labour Day
//
// A date without a year is annual.
type holidayFile struct {
	Name     string      `yaml:"name" toml:"name"`
	Holidays []fileEntry `yaml:"holidays" toml:"holidays"`
}

type fileEntry struct {
	Date   any    `yaml:"date" toml:"date"`
	Name   string `yaml:"name" toml:"name"`
	Annual bool   `yaml:"annual" toml:"annual"`
}

// LoadFile reads a holiday calendar from a YAML or TOML file. Dates are
// interpreted in loc, time.Local when nil.
func LoadFile(path string, loc *time.Location) (*Calendar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wterror.Wrap(err, "failed to read holiday file").
			WithCode(wterror.CodeConfigError).
			WithDetail("path", path)
	}

	cal, err := Parse(data, FormatFromPath(path), loc)
	if err != nil {
		if e, ok := err.(*wterror.Error); ok {
			return nil, e.WithDetail("path", path)
		}
		return nil, err
	}
	if cal.name == "" {
		cal.name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return cal, nil
}

// Parse decodes a holiday calendar
func Parse(data []byte, format Format, loc *time.Location) (*Calendar, error) {
	if loc == nil {
		loc = time.Local
	}

	var file holidayFile
	var err error
	switch format {
	case FormatTOML:
		_, err = toml.NewDecoder(bytes.NewReader(data)).Decode(&file)
	case FormatYAML:
		err = yaml.Unmarshal(data, &file)
	default:
		return nil, wterror.Newf("unsupported holiday file format %q", format).
			WithCode(wterror.CodeInvalidFormat)
	}
	if err != nil {
		return nil, wterror.Wrap(err, "failed to decode holiday file").
			WithCode(wterror.CodeInvalidFormat).
			WithDetail("format", string(format))
	}

	cal := NewCalendar(file.Name)
	for i, entry := range file.Holidays {
		h, err := entry.holiday(loc)
		if err == nil {
			err = cal.Add(h)
		}
		if err != nil {
			return nil, wterror.Wrap(err, fmt.Sprintf("invalid holiday entry %d", i+1)).
				WithCode(wterror.CodeInvalidInput)
		}
	}
	return cal, nil
}

func (e fileEntry) holiday(loc *time.Location) (Holiday, error) {
	h := Holiday{Name: e.Name, Annual: e.Annual}

	switch v := e.Date.(type) {
	case time.Time:
		h.Date = time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, loc)
	case string:
		if annual, err := time.ParseInLocation(annualKey, v, loc); err == nil {
			h.Date = annual
			h.Annual = true
			break
		}
		t, err := timex.Parse(v, loc)
		if err != nil {
			return h, err
		}
		h.Date = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	case nil:
		return h, fmt.Errorf("missing date for %q", e.Name)
	default:
		return h, fmt.Errorf("unsupported date %v for %q", v, e.Name)
	}
	return h, nil
}

// WriteFile stores a calendar in the format chosen by the file extension
func WriteFile(path string, cal *Calendar) error {
	file := holidayFile{Name: cal.Name()}
	for _, h := range cal.All() {
		date := h.Date.Format(dateKey)
		if h.Annual {
			date = h.Date.Format(annualKey)
		}
		file.Holidays = append(file.Holidays, fileEntry{Date: date, Name: h.Name, Annual: h.Annual})
	}

	var buf bytes.Buffer
	var err error
	if FormatFromPath(path) == FormatTOML {
		err = toml.NewEncoder(&buf).Encode(file)
	} else {
		err = yaml.NewEncoder(&buf).Encode(file)
	}
	if err != nil {
		return wterror.Wrap(err, "failed to encode holiday file").WithCode(wterror.CodeInvalidFormat)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
