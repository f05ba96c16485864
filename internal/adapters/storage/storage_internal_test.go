package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentTypeFor(t *testing.T) {
	tests := map[string]string{
		"a/report.XLSX": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"movements.csv": "text/csv",
		"chart.svg":     "image/svg+xml",
		"blob":          "application/octet-stream",
	}
	for key, want := range tests {
		t.Run(key, func(t *testing.T) {
			assert.Equal(t, want, contentTypeFor(key))
		})
	}
}
