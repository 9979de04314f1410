package gedcom

import (
	"sort"
	"time"

	ged "github.com/teranos/kin/gedcom"
)

// GedcomProcessingResult is the outcome of checking one file.
type GedcomProcessingResult struct {
	JobID       string         `json:"job_id"`
	File        string         `json:"file"`
	Digest      string         `json:"blake3,omitempty"`
	Bytes       int64          `json:"bytes"`
	Compression string         `json:"compression,omitempty"`
	Header      Header         `json:"header"`
	Records     map[string]int `json:"records"`
	Dates       DateStats      `json:"dates"`
	Unparsable  []DateRef      `json:"unparsable,omitempty"`

	VersionWarning string `json:"version_warning,omitempty"`

	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	DurationMS int64     `json:"duration_ms"`
}

// RecordCount returns the number of top-level records, HEAD and TRLR
// excluded.
func (r *GedcomProcessingResult) RecordCount() int {
	n := 0
	for tag, c := range r.Records {
		if tag != "HEAD" && tag != "TRLR" {
			n += c
		}
	}
	return n
}

// RecordTags returns the tags of Records in alphabetical order.
func (r *GedcomProcessingResult) RecordTags() []string {
	tags := make([]string, 0, len(r.Records))
	for t := range r.Records {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Header holds the facts of the HEAD record.
type Header struct {
	Source        string `json:"source,omitempty"`
	SourceVersion string `json:"source_version,omitempty"`
	SourceName    string `json:"source_name,omitempty"`
	GedcomVersion string `json:"gedcom_version,omitempty"`
	GedcomForm    string `json:"gedcom_form,omitempty"`
	Charset       string `json:"charset,omitempty"`
	Language      string `json:"language,omitempty"`
	Date          string `json:"date,omitempty"`
	Time          string `json:"time,omitempty"`
	Submitter     string `json:"submitter,omitempty"`
	File          string `json:"file,omitempty"`
}

func readHeader(head *ged.Record) Header {
	if head == nil {
		return Header{}
	}
	h := Header{
		Language:  head.Scalar("LANG"),
		Submitter: head.Scalar("SUBM"),
		File:      head.Scalar("FILE"),
	}
	if sour := head.Child("SOUR"); sour != nil {
		h.Source = sour.Value
		h.SourceVersion = sour.Scalar("VERS")
		h.SourceName = sour.Scalar("NAME")
	}
	if gedc := head.Child("GEDC"); gedc != nil {
		h.GedcomVersion = gedc.Scalar("VERS")
		h.GedcomForm = gedc.Scalar("FORM")
	}
	if char := head.Child("CHAR"); char != nil {
		h.Charset = char.Value
	}
	if date := head.Child("DATE"); date != nil {
		h.Date = date.Value
		h.Time = date.Scalar("TIME")
	}
	return h
}

// DateStats summarizes the DATE values of a file.
type DateStats struct {
	Total       int            `json:"total"`
	Parsed      int            `json:"parsed"`
	Unparsable  int            `json:"unparsable"`
	Approximate int            `json:"approximate"`
	Ranges      int            `json:"ranges"`
	ByCalendar  map[string]int `json:"by_calendar"`
	Earliest    *DateRef       `json:"earliest,omitempty"`
	Latest      *DateRef       `json:"latest,omitempty"`
}

// DateRef locates one DATE value.
type DateRef struct {
	Text    string `json:"text"`
	Display string `json:"display,omitempty"`
	Event   string `json:"event"`  // tag of the structure holding DATE (BIRT, CHAN...)
	Record  string `json:"record"` // xref of the top-level record, or its tag
	Line    int    `json:"line"`
}
