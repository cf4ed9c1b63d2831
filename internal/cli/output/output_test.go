package output

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func newBufferRenderer(mode OutputMode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  OutputMode
		isTTY bool
		want  OutputMode
	}{
		{"auto on terminal", ModeAuto, true, ModeText},
		{"auto piped", ModeAuto, false, ModeMarkdown},
		{"explicit json", ModeJSON, true, ModeJSON},
		{"explicit markdown", ModeMarkdown, true, ModeMarkdown},
		{"explicit text piped", ModeText, false, ModeText},
		{"empty defaults to auto", "", false, ModeMarkdown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newBufferRenderer(tt.mode, tt.isTTY)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestJSON(t *testing.T) {
	r, out, _ := newBufferRenderer(ModeJSON, false)

	err := r.JSON(ShowOutput{
		Columns: []string{"Person_Instance_ID", "Ar_Military"},
		Rows: []map[string]string{
			{"Person_Instance_ID": "1001", "Ar_Military": "مؤجل"},
		},
		Summary: ShowSummary{TotalRows: 24, VisibleRows: 1},
	})
	require.NoError(t, err)

	var decoded ShowOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, []string{"Person_Instance_ID", "Ar_Military"}, decoded.Columns)
	assert.Equal(t, "مؤجل", decoded.Rows[0]["Ar_Military"])
	assert.Equal(t, 24, decoded.Summary.TotalRows)

	// Indented output, no ANSI noise.
	assert.Contains(t, out.String(), "  \"columns\"")
	assert.False(t, ansiPattern.MatchString(out.String()))
}

func TestHeaderMarkdown(t *testing.T) {
	r, out, _ := newBufferRenderer(ModeMarkdown, false)

	r.Header(1, "Personnel Military Data")
	r.Header(2, "Columns")

	assert.Contains(t, out.String(), "# Personnel Military Data")
	assert.Contains(t, out.String(), "## Columns")
	assert.False(t, ansiPattern.MatchString(out.String()))
}

func TestHeaderText(t *testing.T) {
	r, out, _ := newBufferRenderer(ModeText, false)

	r.Header(1, "Personnel Military Data")

	got := out.String()
	assert.Contains(t, got, "Personnel Military Data")
	assert.NotContains(t, got, "#")
}

func TestSuccessAndWarning(t *testing.T) {
	r, out, errOut := newBufferRenderer(ModeText, false)

	r.Success("dataset loaded")
	r.Warning("column not found")
	r.Error("connection refused")

	assert.Contains(t, out.String(), "✓ dataset loaded")
	assert.Contains(t, errOut.String(), "! column not found")
	assert.Contains(t, errOut.String(), "✗ connection refused")
}

func TestStatusLine(t *testing.T) {
	r, out, _ := newBufferRenderer(ModeText, false)

	r.StatusLine("milgrid.yaml", "success", "")
	r.StatusLine("demo.duckdb", "success", "24 rows")
	r.StatusLine("source", "failed", "connection refused")

	got := out.String()
	assert.Contains(t, got, "✓ milgrid.yaml")
	assert.Contains(t, got, "✓ demo.duckdb (24 rows)")
	assert.Contains(t, got, "✗ source (connection refused)")
}

func TestMuted(t *testing.T) {
	r, out, _ := newBufferRenderer(ModeText, false)

	r.Muted("Source: demo.duckdb")

	assert.Contains(t, out.String(), "Source: demo.duckdb")
}

func TestFormatHeader(t *testing.T) {
	assert.Equal(t, "# Report", FormatHeader(1, "Report"))
	assert.Equal(t, "## Columns", FormatHeader(2, "Columns"))
	assert.Equal(t, "# Report", FormatHeader(0, "Report"))
}

func TestSpinner(t *testing.T) {
	r, out, _ := newBufferRenderer(ModeText, true)

	spinner := r.NewSpinner("Loading report...")
	spinner.Start()
	time.Sleep(200 * time.Millisecond)
	spinner.Success("Report loaded")

	got := ansiPattern.ReplaceAllString(out.String(), "")
	assert.Contains(t, got, "Loading report...")
	assert.True(t, strings.HasSuffix(strings.TrimRight(got, "\n"), "✓ Report loaded"))
}

func TestSpinnerFail(t *testing.T) {
	r, out, _ := newBufferRenderer(ModeText, true)

	spinner := r.NewSpinner("Connecting...")
	spinner.Start()
	spinner.Fail("Connection failed")

	got := ansiPattern.ReplaceAllString(out.String(), "")
	assert.Contains(t, got, "✗ Connection failed")
}
