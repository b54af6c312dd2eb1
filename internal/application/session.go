package application

import (
	"path"
	"time"

	"splitmark/internal/domain"
)

// State is everything a marking session knows.
// Marks and Assignments are copy-on-write values, so a State can be passed and returned freely.
type State struct {
	Collection   string
	Volumes      []domain.VolumeEntry
	ManifestPath string
	Pages        []domain.PageDescriptor
	Marks        domain.Marks
	Assignments  domain.Assignments
	Splits       []domain.SplitInfo
}

// Action is a typed event applied to a State by Reduce
type Action interface {
	action()
}

// CollectionSelected replaces the collection and its volume list
type CollectionSelected struct {
	Collection string
	Volumes    []domain.VolumeEntry
}

// VolumeSelected picks a volume of the current collection before its manifest arrives
type VolumeSelected struct {
	Filename string
}

// ManifestLoaded installs the pages of a manifest. Path is "<collection>/<volume>" or a local filename.
type ManifestLoaded struct {
	Path  string
	Pages []domain.PageDescriptor
}

// PageToggled flips the mark on a page
type PageToggled struct {
	Page int
}

// PageCountSet sets the title count of a page; zero unmarks
type PageCountSet struct {
	Page   int
	Titles int
}

// PageUnmarked removes the mark on a page
type PageUnmarked struct {
	Page int
}

// MarksCleared removes every mark
type MarksCleared struct{}

// MarksRestored replaces every mark, as when resuming from an exported sidecar
type MarksRestored struct {
	Marks domain.Marks
}

// SplitsDerived recomputes the split plan from the current marks
type SplitsDerived struct{}

// AssignmentSet stores metadata for one split; an empty record removes it
type AssignmentSet struct {
	Split      int
	Assignment domain.MusicAssignment
}

func (CollectionSelected) action() {}
func (VolumeSelected) action()     {}
func (ManifestLoaded) action()     {}
func (PageToggled) action()        {}
func (PageCountSet) action()       {}
func (PageUnmarked) action()       {}
func (MarksCleared) action()       {}
func (MarksRestored) action()      {}
func (SplitsDerived) action()      {}
func (AssignmentSet) action()      {}

// Reduce applies an action and returns the next state.
// On error the returned state is the unchanged input.
func Reduce(s State, a Action) (State, error) {
	switch a := a.(type) {
	case CollectionSelected:
		if err := ValidateRequired("collection", a.Collection); err != nil {
			return s, err
		}
		return State{
			Collection: a.Collection,
			Volumes:    a.Volumes,
		}, nil

	case VolumeSelected:
		if err := ValidateRequired("volume", a.Filename); err != nil {
			return s, err
		}
		next := resetManifest(s)
		next.ManifestPath = path.Join(s.Collection, a.Filename)
		return next, nil

	case ManifestLoaded:
		if err := ValidateRequired("manifestPath", a.Path); err != nil {
			return s, err
		}
		next := resetManifest(s)
		next.ManifestPath = a.Path
		next.Pages = a.Pages
		return next, nil

	case PageToggled:
		s.Marks = s.Marks.Toggle(a.Page)
		return s, nil

	case PageCountSet:
		if err := ValidateTitleCount(a.Titles); err != nil {
			return s, err
		}
		marks, err := s.Marks.Mark(a.Page, a.Titles)
		if err != nil {
			return s, err
		}
		s.Marks = marks
		return s, nil

	case PageUnmarked:
		s.Marks = s.Marks.Unmark(a.Page)
		return s, nil

	case MarksCleared:
		s.Marks = s.Marks.Clear()
		return s, nil

	case MarksRestored:
		s.Marks = a.Marks
		return s, nil

	case SplitsDerived:
		s.Splits = domain.DeriveSplits(len(s.Pages), s.Marks.Snapshot())
		s.Assignments = s.Assignments.Truncate(len(s.Splits))
		return s, nil

	case AssignmentSet:
		if err := ValidateSplitIndex(a.Split, len(s.Splits)); err != nil {
			return s, err
		}
		s.Assignments = s.Assignments.Set(a.Split, a.Assignment)
		return s, nil
	}
	return s, nil
}

func resetManifest(s State) State {
	return State{
		Collection: s.Collection,
		Volumes:    s.Volumes,
	}
}

// ExportSidecar builds the sidecar for the current marks; an empty mark set is rejected
func (s State) ExportSidecar(now time.Time) (domain.TitlePagesSidecar, error) {
	if err := ValidateRequired("manifestPath", s.ManifestPath); err != nil {
		return domain.TitlePagesSidecar{}, err
	}
	if err := ValidateHasMarks(s.Marks); err != nil {
		return domain.TitlePagesSidecar{}, err
	}
	return domain.ExportSidecar(s.Marks.Snapshot(), s.ManifestPath, now), nil
}

// SplitterCommand builds the downstream command line for the current marks
func (s State) SplitterCommand(opts domain.SplitterOptions) (string, error) {
	if err := ValidateRequired("manifestPath", s.ManifestPath); err != nil {
		return "", err
	}
	if err := ValidateHasMarks(s.Marks); err != nil {
		return "", err
	}
	return domain.SplitterCommand(opts, s.ManifestPath, domain.SidecarFilename(s.ManifestPath)), nil
}
