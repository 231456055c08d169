package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetadata(t *testing.T) {
	tests := []struct {
		filename string
		source   string
		subject  string
	}{
		{"Biology_2e.pdf", "Biology_2e", "biology"},
		{"Chemistry_2e.pdf", "Chemistry_2e", "chemistry"},
		{"Organic_Chemistry_Vol1.pdf", "Organic_Chemistry_Vol1", "chemistry"},
		{"University_Physics_Volume_1.pdf", "University_Physics_Volume_1", "physics"},
		{"Anatomy_and_Physiology_2e.pdf", "Anatomy_and_Physiology_2e", "medicine"},
		{"Microbiology.pdf", "Microbiology", "microbiology"},
		{"lecture_notes.txt", "lecture_notes", "unknown"},
		{"Biology", "Biology", "biology"},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			source, subject := Metadata(tt.filename)
			assert.Equal(t, tt.source, source)
			assert.Equal(t, tt.subject, subject)
		})
	}
}
