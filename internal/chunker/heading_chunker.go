package chunker

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/JuanNavarr0/labster-quiz-generator/internal/domain"
)

const defaultChunkSize = 800

// Fragment is one sealed chunk of body text together with the headings seen
// since the previous seal, joined in encounter order.
type Fragment struct {
	Text    string
	Heading string
}

// HeadingChunker splits cleaned text into heading-annotated chunks. Paragraph
// boundaries are blank lines; heading-like paragraphs annotate the chunks
// around them instead of becoming chunks themselves. The chunk size is a soft
// upper bound: a single paragraph is never split.
type HeadingChunker struct {
	chunkSize int
	splitter  *regexp.Regexp
}

// NewHeadingChunker builds a chunker with the given soft size bound. The
// overlap parameter is nominal and accepted for config shape only: chunks
// overlap by carrying the most recent heading forward, trailing text is
// never duplicated across boundaries.
func NewHeadingChunker(chunkSize, _ int) *HeadingChunker {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &HeadingChunker{
		chunkSize: chunkSize,
		splitter:  regexp.MustCompile(`\n[ \t]*\n`),
	}
}

// Chunk splits the document text and attaches its provenance metadata to
// every chunk. Missing metadata fields default to "unknown". Chunk ids are
// assigned later, at index insertion time.
func (c *HeadingChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	fragments := c.Split(document.Text)
	if len(fragments) == 0 {
		return nil, nil
	}
	chunks := make([]domain.Chunk, 0, len(fragments))
	for _, f := range fragments {
		chunks = append(chunks, domain.Chunk{
			Text:     f.Text,
			Heading:  f.Heading,
			Source:   orUnknown(document.Source),
			Subject:  orUnknown(document.Subject),
			Filename: orUnknown(document.Filename),
		})
	}
	return chunks, nil
}

// Split segments cleaned text into fragments. Body paragraphs accumulate
// until appending the next one would push the buffer past the chunk size,
// at which point the buffer is sealed. Every heading encountered since the
// last seal is joined into the fragment's heading field; only the most
// recent heading carries over into the next buffer.
func (c *HeadingChunker) Split(text string) []Fragment {
	paragraphs := c.paragraphs(text)
	if len(paragraphs) == 0 {
		return nil
	}

	var fragments []Fragment
	var buf []string
	bufLen := 0
	var pending []string
	lastHeading := ""

	seal := func() {
		if len(buf) == 0 {
			return
		}
		fragments = append(fragments, Fragment{
			Text:    strings.Join(buf, "\n\n"),
			Heading: strings.Join(pending, "; "),
		})
		buf = nil
		bufLen = 0
		pending = nil
		if lastHeading != "" {
			pending = []string{lastHeading}
		}
	}

	for _, para := range paragraphs {
		if IsHeading(para) {
			pending = appendHeading(pending, para)
			lastHeading = para
			continue
		}
		n := len([]rune(para))
		if bufLen > 0 && bufLen+n > c.chunkSize {
			seal()
		}
		buf = append(buf, para)
		bufLen += n
	}
	seal()

	return fragments
}

func (c *HeadingChunker) paragraphs(text string) []string {
	parts := c.splitter.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

var (
	chapterRe = regexp.MustCompile(`(?i)^(Chapter|Section)\s+\d+`)
	outlineRe = regexp.MustCompile(`^\d+(\.\d+)*\s+[A-Z]`)
)

// IsHeading classifies a paragraph as a section heading. Heuristics, in
// priority order: short text without terminal punctuation, chapter/section
// numbering, decimal outline numbering, short all-caps lines.
func IsHeading(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	runes := []rune(text)
	if len(runes) < 100 && !strings.HasSuffix(text, ".") && !strings.HasSuffix(text, "?") &&
		!strings.HasSuffix(text, "!") && !strings.HasSuffix(text, ",") {
		return true
	}
	if chapterRe.MatchString(text) {
		return true
	}
	if outlineRe.MatchString(text) {
		return true
	}
	if len(runes) < 80 && isAllUpper(text) {
		return true
	}
	return false
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func appendHeading(headings []string, h string) []string {
	for _, existing := range headings {
		if existing == h {
			return headings
		}
	}
	return append(headings, h)
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}
