package subtitle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSRT = "1\n00:00:01,000 --> 00:00:02,500\nHello there\n\n2\n00:00:03,000 --> 00:00:04,000\nWorld\n"

func TestParse(t *testing.T) {
	file, err := Parse([]byte(sampleSRT))
	require.NoError(t, err)
	require.Len(t, file.Lines, 2)
	assert.Equal(t, 1, file.Lines[0].Index)
	assert.Equal(t, "Hello there", file.Lines[0].Text)
	assert.Equal(t, time.Second, file.Lines[0].StartTime)
	assert.Equal(t, 2500*time.Millisecond, file.Lines[0].EndTime)
	assert.Equal(t, "World", file.Lines[1].Text)
	assert.Equal(t, "SRT", file.Format)
}

func TestParse_MultilineText(t *testing.T) {
	data := "1\n00:00:01,000 --> 00:00:02,000\nline one\nline two\n"

	file, err := Parse([]byte(data))
	require.NoError(t, err)
	require.Len(t, file.Lines, 1)
	assert.Equal(t, "line one\nline two", file.Lines[0].Text)
}

func TestParse_InvalidTimestamp(t *testing.T) {
	data := "1\n00:00:01.000 -> 00:00:02\ntext\n"

	_, err := Parse([]byte(data))
	require.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse([]byte("   \n\n"))
	require.Error(t, err)
}

func TestRender_RoundTrip(t *testing.T) {
	file, err := Parse([]byte(sampleSRT))
	require.NoError(t, err)

	rendered := file.Render()
	assert.Contains(t, rendered, "00:00:01,000 --> 00:00:02,500")

	again, err := Parse([]byte(rendered))
	require.NoError(t, err)
	assert.Equal(t, file.Lines, again.Lines)
}

func TestPlainText_StripsTimestamps(t *testing.T) {
	file, err := Parse([]byte(sampleSRT))
	require.NoError(t, err)

	text := file.PlainText()
	assert.Equal(t, "Hello there World", text)
	assert.NotContains(t, text, "-->")
}
