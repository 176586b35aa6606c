package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evo/internal/model"
	"evo/internal/reminder"
)

func TestReportFilename(t *testing.T) {
	assert.Equal(t, "citroen-c4-picasso-report.pdf", reportFilename(&model.Vehicle{Brand: "Citroën", Model: "C4 Picasso"}))
	assert.Equal(t, "vehicle-report.pdf", reportFilename(&model.Vehicle{}))
}

func TestPdfText(t *testing.T) {
	assert.Equal(t, "Kocnice i zarulje", pdfText("Kočnice i žarulje"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "kratko", truncate("kratko", 10))
	assert.Equal(t, "dug~", truncate("dugačko", 4))
}

func TestRenderReport_NoCosts(t *testing.T) {
	v := &model.Vehicle{Brand: "Fiat", Model: "Panda"}
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	out, err := renderReport(v, reminder.ComputeAll(v, now), now, time.UTC)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}
