package metadata

import (
	"io"
	"strconv"

	"github.com/dhowden/tag"
)

// Analysis is what the dashboard's song form gets pre-filled with.
type Analysis struct {
	Format string `json:"format"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Year   string `json:"year"`
}

// Analyze extracts embedded tags from an uploaded audio stream. A file with
// no readable tags is not an error; the zero Analysis comes back and the
// form stays blank.
func Analyze(r io.ReadSeeker) (Analysis, error) {
	m, err := tag.ReadFrom(r)
	if err != nil {
		return Analysis{}, err
	}

	yearStr := ""
	if m.Year() != 0 {
		yearStr = strconv.Itoa(m.Year())
	}

	return Analysis{
		Format: string(m.Format()),
		Title:  m.Title(),
		Artist: m.Artist(),
		Album:  m.Album(),
		Year:   yearStr,
	}, nil
}
