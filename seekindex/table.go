package seekindex

import (
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

// Entry is a single frame of a Table.
type Entry struct {
	FrameNumber int   `yaml:"frame"`
	PTS         int64 `yaml:"pts"`
	SeekPos     int64 `yaml:"seek_pos"`
	SeekPosPTS  int64 `yaml:"seek_pos_pts"`
	SeekPosDTS  int64 `yaml:"seek_pos_dts"`
}

// Table is an in-memory Index, entries are sorted by FrameNumber.
type Table struct {
	Entries []Entry `yaml:"entries"`
}

var _ Index = (*Table)(nil)

// NewTable returns a Table of the given entries (sorted by frame number).
func NewTable(entries []Entry) (*Table, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("the index is empty")
	}
	entries = append([]Entry(nil), entries...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].FrameNumber < entries[j].FrameNumber
	})
	return &Table{Entries: entries}, nil
}

// LoadTable reads a YAML-encoded Table.
func LoadTable(r io.Reader) (*Table, error) {
	var t Table
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("unable to decode the index: %w", err)
	}
	return NewTable(t.Entries)
}

// Save writes the table as YAML.
func (t *Table) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("unable to encode the index: %w", err)
	}
	return enc.Close()
}

// ScanRegion returns the first entry with a frame number not less than
// frameNumber, clamped to the table.
func (t *Table) ScanRegion(frameNumber int) int {
	idx := sort.Search(len(t.Entries), func(i int) bool {
		return t.Entries[i].FrameNumber >= frameNumber
	})
	if idx >= len(t.Entries) {
		idx = len(t.Entries) - 1
	}
	return max(idx, 0)
}

// CanScanWithoutReseek is true only when moving forward within the same GOP.
func (t *Table) CanScanWithoutReseek(oldRegion, newRegion int) bool {
	if !t.isValid(oldRegion) || !t.isValid(newRegion) {
		return false
	}
	return t.Entries[oldRegion].SeekPos == t.Entries[newRegion].SeekPos && oldRegion < newRegion
}

func (t *Table) SeekAnchor(region int) Anchor {
	e := t.Entries[t.clamp(region)]
	return Anchor{
		ByteOffset: e.SeekPos,
		PTS:        e.SeekPosPTS,
		DTS:        e.SeekPosDTS,
	}
}

func (t *Table) PTS(region int) int64 {
	return t.Entries[t.clamp(region)].PTS
}

func (t *Table) Duration() int {
	if len(t.Entries) == 0 {
		return 0
	}
	return t.Entries[len(t.Entries)-1].FrameNumber + 1
}

func (t *Table) isValid(region int) bool {
	return region >= 0 && region < len(t.Entries)
}

func (t *Table) clamp(region int) int {
	return min(max(region, 0), len(t.Entries)-1)
}
