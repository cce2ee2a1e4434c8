package backuplog

import (
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHash = "0123456789abcdef0123456789abcdef"

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		ok   bool
		want Record
	}{
		{
			name: "AM file",
			line: "I 08/21/18 12:14AM 42 " + testHash + " 0 /my/file.vmdk",
			ok:   true,
			want: Record{
				Kind: KindInclusion,
				Time: time.Date(2018, 8, 21, 0, 14, 0, 0, time.UTC),
				Hash: testHash,
				Path: "/my/file.vmdk",
			},
		},
		{
			name: "PM directory",
			line: "I 08/23/18 02:45PM 0 " + testHash + " 1 /my/dir",
			ok:   true,
			want: Record{
				Kind:  KindInclusion,
				Time:  time.Date(2018, 8, 23, 14, 45, 0, 0, time.UTC),
				Hash:  testHash,
				IsDir: true,
				Path:  "/my/dir",
			},
		},
		{
			name: "path cut at whitespace",
			line: "I 01/02/19 10:00AM 1 " + testHash + " 0 /my/two words",
			ok:   true,
			want: Record{
				Kind: KindInclusion,
				Time: time.Date(2019, 1, 2, 10, 0, 0, 0, time.UTC),
				Hash: testHash,
				Path: "/my/two",
			},
		},
		{name: "other record", line: "W 08/21/18 12:14AM 42 " + testHash + " 0 /my/file"},
		{name: "marker without space", line: "I08/21/18 12:14AM 42 " + testHash + " 0 /my/file"},
		{name: "short hash", line: "I 08/21/18 12:14AM 42 deadbeef 0 /my/file"},
		{name: "too few fields", line: "I 08/21/18 12:14AM 42 " + testHash + " 0"},
		{name: "bad time", line: "I 21/08/2018 12:14 42 " + testHash + " 0 /my/file"},
		{name: "empty", line: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := ParseLine(tt.line)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, rec)
			}
		})
	}
}

func TestParse(t *testing.T) {
	input := strings.Join([]string{
		"W 08/20/18 11:45PM backup started",
		"I 08/20/18 11:50PM 42 " + testHash + " 1 /a",
		"garbage",
		"I 08/20/18 11:51PM 42 " + testHash + " 0 /a/b",
		"I 08/20/18 11:52PM 42 " + testHash + " 0 /a/c",
	}, "\n")

	records, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "/a", records[0].Path)
	assert.True(t, records[0].IsDir)
	assert.Equal(t, "/a/b", records[1].Path)
	assert.Equal(t, "/a/c", records[2].Path)
}

func TestParse_OversizedLine(t *testing.T) {
	input := strings.Join([]string{
		"I 08/20/18 11:50PM 42 " + testHash + " 0 /a/first",
		"W " + strings.Repeat("x", 2*maxLineSize),
		"I 08/20/18 11:51PM 42 " + testHash + " 0 /a/second",
	}, "\n")

	records, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "/a/first", records[0].Path)
	assert.Equal(t, "/a/second", records[1].Path)
}

func TestParse_ReadError(t *testing.T) {
	_, err := Parse(iotest.ErrReader(iotest.ErrTimeout))
	require.ErrorIs(t, err, iotest.ErrTimeout)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "inclusion", KindInclusion.String())
	assert.Equal(t, "other", KindOther.String())
}
