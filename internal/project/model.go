package project

import (
	"strconv"
	"strings"
)

// Type is the closed variant shared by chapters and scenes.
type Type int

const (
	TypeNormal Type = iota
	TypeNotes
	TypeTodo
	TypeUnused
)

func (t Type) String() string {
	switch t {
	case TypeNotes:
		return "notes"
	case TypeTodo:
		return "todo"
	case TypeUnused:
		return "unused"
	default:
		return "normal"
	}
}

// Status is the editing status of a scene.
type Status int

const (
	StatusOutline Status = iota + 1
	StatusDraft
	StatusFirstEdit
	StatusSecondEdit
	StatusDone
)

var statusNames = map[Status]string{
	StatusOutline:    "Outline",
	StatusDraft:      "Draft",
	StatusFirstEdit:  "1st Edit",
	StatusSecondEdit: "2nd Edit",
	StatusDone:       "Done",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[StatusOutline]
}

// Valid reports whether s is one of the five known statuses.
func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// ParseStatus matches a status name case-insensitively.
func ParseStatus(name string) (Status, bool) {
	name = strings.TrimSpace(name)
	for status, label := range statusNames {
		if strings.EqualFold(label, name) {
			return status, true
		}
	}
	return StatusOutline, false
}

// Rating bounds. A rating of RatingUnset is never shown in editable lists.
const (
	RatingUnset = 1
	RatingMax   = 6
)

// ParseRating converts a rating cell. Blank cells yield RatingUnset with ok set;
// anything outside 1..RatingMax yields RatingUnset with ok cleared.
func ParseRating(cell string) (int, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return RatingUnset, true
	}
	n, err := strconv.Atoi(cell)
	if err != nil || n < RatingUnset || n > RatingMax {
		return RatingUnset, false
	}
	return n, true
}

// Scene is one unit of narrative text.
type Scene struct {
	ID           string
	Title        string
	Desc         string
	Content      string
	Notes        string
	Tags         []string
	Status       Status
	Ratings      [4]int
	Goal         string
	Conflict     string
	Outcome      string
	IsReaction   bool
	AppendToPrev bool
	DoNotExport  bool
	Type         Type
	Characters   []string
	Locations    []string
	Items        []string
	WordCount    int
	LetterCount  int

	Date        string
	Time        string
	Day         string
	Hour        string
	Minute      string
	LastsDays   string
	LastsHours  string
	LastsMinute string
}

// Viewpoint returns the first referenced character, if any.
func (s *Scene) Viewpoint() string {
	if len(s.Characters) == 0 {
		return ""
	}
	return s.Characters[0]
}

// Chapter groups scenes. A chapter that begins a section acts as a part.
type Chapter struct {
	ID            string
	Title         string
	Desc          string
	Type          Type
	BeginsSection bool
	SuppressTitle bool
	IsTrash       bool
	SceneIDs      []string
}

// Character is a cast member.
type Character struct {
	ID       string
	Title    string
	FullName string
	Aka      string
	Desc     string
	Bio      string
	Goals    string
	Notes    string
	Tags     []string
	IsMajor  bool
}

// WorldElement is a location or an item.
type WorldElement struct {
	ID    string
	Title string
	Aka   string
	Desc  string
	Tags  []string
}

// Var is a project variable. Title is the variable name and Desc its value.
type Var struct {
	ID    string
	Title string
	Desc  string
	Tags  []string
}
