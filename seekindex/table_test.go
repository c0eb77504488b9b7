package seekindex

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T) *Table {
	var entries []Entry
	for frameNo := 0; frameNo < 10; frameNo++ {
		keyFrame := frameNo - frameNo%5
		entries = append(entries, Entry{
			FrameNumber: frameNo,
			PTS:         int64(frameNo) * 512,
			SeekPos:     int64(keyFrame) * 1000,
			SeekPosPTS:  int64(keyFrame) * 512,
			SeekPosDTS:  int64(keyFrame)*512 - 1024,
		})
	}
	table, err := NewTable(entries)
	require.NoError(t, err)
	return table
}

func TestTable(t *testing.T) {
	table := newTestTable(t)

	require.Equal(t, 10, table.Duration())
	require.Equal(t, 7, table.ScanRegion(7))
	require.Equal(t, 9, table.ScanRegion(100))
	require.Equal(t, 0, table.ScanRegion(-3))
	require.Equal(t, int64(7*512), table.PTS(7))

	require.True(t, table.CanScanWithoutReseek(5, 7))
	require.False(t, table.CanScanWithoutReseek(7, 5), "backwards")
	require.False(t, table.CanScanWithoutReseek(7, 7), "the same frame")
	require.False(t, table.CanScanWithoutReseek(3, 7), "another GOP")
	require.False(t, table.CanScanWithoutReseek(-1, 7))

	require.Equal(t, Anchor{ByteOffset: 5000, PTS: 5 * 512, DTS: 5*512 - 1024}, table.SeekAnchor(7))
}

func TestTableSparseFrameNumbers(t *testing.T) {
	table, err := NewTable([]Entry{
		{FrameNumber: 4, PTS: 400},
		{FrameNumber: 0, PTS: 0},
		{FrameNumber: 2, PTS: 200},
	})
	require.NoError(t, err)
	require.Equal(t, 1, table.ScanRegion(1))
	require.Equal(t, int64(200), table.PTS(table.ScanRegion(1)))
	require.Equal(t, 5, table.Duration())
}

func TestTableLoadSave(t *testing.T) {
	table := newTestTable(t)
	var buf bytes.Buffer
	require.NoError(t, table.Save(&buf))

	loaded, err := LoadTable(&buf)
	require.NoError(t, err)
	require.Equal(t, table.Entries, loaded.Entries)

	_, err = LoadTable(strings.NewReader("entries: []\n"))
	require.Error(t, err)
}
