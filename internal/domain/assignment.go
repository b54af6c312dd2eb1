package domain

import (
	"encoding/json"
	"maps"
	"strconv"
)

// Categories are the music categories a curator may assign
var Categories = []string{
	"神楽",
	"舞楽",
	"管弦",
	"歌曲",
	"催馬楽",
	"朗詠",
	"東遊",
	"その他",
}

// MusicAssignment is descriptive metadata for one split
type MusicAssignment struct {
	Title       string `json:"title" yaml:"title"`
	Category    string `json:"category" yaml:"category"`
	Description string `json:"description" yaml:"description"`
	Composer    string `json:"composer" yaml:"composer"`
	Period      string `json:"period" yaml:"period"`
}

// IsEmpty reports whether every field is blank
func (a MusicAssignment) IsEmpty() bool {
	return a.Title == "" && a.Category == "" && a.Description == "" &&
		a.Composer == "" && a.Period == ""
}

// Assignments maps split index to metadata. Like Marks it is copy-on-write.
// Records follow the index, not the page range: a mark added before an
// assigned split shifts every later record onto the next range.
type Assignments struct {
	bySplit map[int]MusicAssignment
}

// Set stores the record for a split, or removes it when the record is empty
func (a Assignments) Set(split int, rec MusicAssignment) Assignments {
	next := Assignments{bySplit: make(map[int]MusicAssignment, len(a.bySplit)+1)}
	maps.Copy(next.bySplit, a.bySplit)
	if rec.IsEmpty() {
		delete(next.bySplit, split)
	} else {
		next.bySplit[split] = rec
	}
	return next
}

// Get returns the record for a split
func (a Assignments) Get(split int) (MusicAssignment, bool) {
	rec, ok := a.bySplit[split]
	return rec, ok
}

// All returns a copy of every stored record
func (a Assignments) All() map[int]MusicAssignment {
	out := make(map[int]MusicAssignment, len(a.bySplit))
	maps.Copy(out, a.bySplit)
	return out
}

// Truncate drops the records of splits that no longer exist when only n remain
func (a Assignments) Truncate(n int) Assignments {
	next := Assignments{bySplit: make(map[int]MusicAssignment, len(a.bySplit))}
	for i, rec := range a.bySplit {
		if i >= 0 && i < n {
			next.bySplit[i] = rec
		}
	}
	return next
}

// Len returns the number of stored records
func (a Assignments) Len() int {
	return len(a.bySplit)
}

// MusicMetadataDocument renders the records keyed by decimal split index,
// the shape the splitter reads through its -m flag
func (a Assignments) MusicMetadataDocument() ([]byte, error) {
	doc := make(map[string]MusicAssignment, len(a.bySplit))
	for i, rec := range a.bySplit {
		doc[strconv.Itoa(i)] = rec
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// DecodeMusicMetadata reads a document written by MusicMetadataDocument
func DecodeMusicMetadata(raw []byte) (Assignments, error) {
	var doc map[string]MusicAssignment
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Assignments{}, &ParseError{Source: "music metadata", Err: err}
	}
	var a Assignments
	for k, rec := range doc {
		i, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		a = a.Set(i, rec)
	}
	return a, nil
}
