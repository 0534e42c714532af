package imagepkg

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/youruser/healthposter/internal/layout"
)

// DejaVu Sans covers Latin and Arabic (including presentation forms), so it
// backs the default families. See fonts/LICENSE.
var (
	//go:embed fonts/DejaVuSans.ttf
	dejaVuSans []byte
	//go:embed fonts/DejaVuSans-Bold.ttf
	dejaVuSansBold []byte
)

// Latin-only Go fonts, kept for callers that want them by name.
const (
	FamilyGo     = "go"
	FamilyGoBold = "go-bold"
)

// FontBook maps font family names onto parsed fonts. Parsed fonts are
// shared; faces are not, so every render builds its own.
type FontBook struct {
	mu       sync.RWMutex
	fonts    map[string]*font.Font
	fallback string
}

// NewFontBook returns a book with the built-in families: sans and
// sans-bold (Arabic capable) plus go and go-bold.
func NewFontBook() (*FontBook, error) {
	b := &FontBook{fonts: make(map[string]*font.Font), fallback: layout.FamilyRegular}
	builtin := []struct {
		family string
		data   []byte
	}{
		{layout.FamilyRegular, dejaVuSans},
		{layout.FamilyBold, dejaVuSansBold},
		{FamilyGo, goregular.TTF},
		{FamilyGoBold, gobold.TTF},
	}
	for _, f := range builtin {
		if err := b.Register(f.family, f.data); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Register parses a TrueType/OpenType font and stores it under family,
// replacing any previous font of that name.
func (b *FontBook) Register(family string, data []byte) error {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parse font %q: %w", family, err)
	}
	b.mu.Lock()
	b.fonts[family] = face.Font
	b.mu.Unlock()
	return nil
}

// LoadFile registers the font file at path under family.
func (b *FontBook) LoadFile(family, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %q: %w", path, err)
	}
	return b.Register(family, data)
}

// Has reports whether family is registered.
func (b *FontBook) Has(family string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.fonts[family]
	return ok
}

// GlyphIndex returns the nominal glyph for r in family (or the fallback
// family). Zero means the font has no glyph and would draw a box.
func (b *FontBook) GlyphIndex(family string, r rune) font.GID {
	gid, ok := b.lookup(family).NominalGlyph(r)
	if !ok {
		return 0
	}
	return gid
}

func (b *FontBook) lookup(family string) *font.Font {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if f, ok := b.fonts[family]; ok {
		return f
	}
	return b.fonts[b.fallback]
}

type faceKey struct {
	family string
	size   float64
}

// faceSet holds the faces opened during one render. Neither go-text faces
// nor the shaper are safe for concurrent use, so a set never leaves its
// goroutine.
type faceSet struct {
	book   *FontBook
	shaper shaping.HarfbuzzShaper
	fonts  map[string]*font.Face
	faces  map[faceKey]*Face
}

// shaperFontCache bounds the shaper's per-font lookup tables; a poster uses
// two or three families.
const shaperFontCache = 8

func newFaceSet(book *FontBook) *faceSet {
	s := &faceSet{
		book:  book,
		fonts: make(map[string]*font.Face),
		faces: make(map[faceKey]*Face),
	}
	s.shaper.SetFontCacheSize(shaperFontCache)
	return s
}

func (s *faceSet) face(family string, size float64) (*Face, error) {
	if size < 1 {
		size = 1
	}
	k := faceKey{family, size}
	if f, ok := s.faces[k]; ok {
		return f, nil
	}
	ft, ok := s.fonts[family]
	if !ok {
		f := s.book.lookup(family)
		if f == nil {
			return nil, fmt.Errorf("open face %s/%.1f: no font registered", family, size)
		}
		ft = font.NewFace(f)
		s.fonts[family] = ft
	}
	face := newFace(ft, &s.shaper, size)
	s.faces[k] = face
	return face, nil
}

func (s *faceSet) close() {
	clear(s.faces)
	clear(s.fonts)
}
