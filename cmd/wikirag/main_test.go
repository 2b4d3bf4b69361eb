package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/wikirag/eval"
)

func TestPrintReport(t *testing.T) {
	report := &eval.Report{
		Plain: eval.ModeReport{
			Label: "plain", Total: 10, Correct: 4, Incorrect: 5, Unclear: 1,
		},
		Grounded: eval.ModeReport{
			Label: "grounded", Total: 10, Correct: 7, Incorrect: 2, Unclear: 1, Degraded: 2,
		},
		Elapsed: 90 * time.Second,
	}

	var buf bytes.Buffer
	printReport(&buf, report)
	out := buf.String()

	assert.Contains(t, out, "plain")
	assert.Contains(t, out, "grounded")
	assert.Contains(t, out, "40.0%")
	assert.Contains(t, out, "70.0%")
	assert.Contains(t, out, "2 degraded")
	assert.Contains(t, out, "improved accuracy by 30.0 points")
	assert.Contains(t, out, "1m30s")
}

func TestPrintReportDecline(t *testing.T) {
	report := &eval.Report{
		Plain:    eval.ModeReport{Label: "plain", Total: 4, Correct: 3},
		Grounded: eval.ModeReport{Label: "grounded", Total: 4, Correct: 2},
	}

	var buf bytes.Buffer
	printReport(&buf, report)

	assert.Contains(t, buf.String(), "reduced accuracy by 25.0 points")
}

func TestPrintReportNoDifference(t *testing.T) {
	report := &eval.Report{
		Plain:    eval.ModeReport{Label: "plain", Total: 2, Correct: 1},
		Grounded: eval.ModeReport{Label: "grounded", Total: 2, Correct: 1},
	}

	var buf bytes.Buffer
	printReport(&buf, report)

	assert.Contains(t, buf.String(), "made no difference")
}
