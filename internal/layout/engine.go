package layout

import (
	"image/color"
	"math"
)

const (
	Padding       = 40.0
	HeaderHeight  = 120.0
	FooterHeight  = 100.0
	CentralRadius = 180.0

	titleFontSize     = 34.0
	pointFontSize     = 22.0
	centralFontSize   = 26.0
	satelliteFontSize = 18.0
	footerFontSize    = 16.0

	centralBoxWidth    = 200.0
	centralBoxHeight   = 160.0
	satelliteBoxWidth  = 180.0
	satelliteBoxHeight = 100.0

	boxRadius = 16.0
	boxInset  = 16.0
)

var (
	inkDark   = color.NRGBA{R: 0x1a, G: 0x2b, B: 0x3c, A: 0xff}
	inkLight  = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	titleFill = color.NRGBA{R: 0x14, G: 0x53, B: 0x88, A: 0xeb}
	evenFill  = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xe0}
	oddFill   = color.NRGBA{R: 0xe3, G: 0xf2, B: 0xfd, A: 0xe0}
	gridFill  = color.NRGBA{R: 0xf7, G: 0xfb, B: 0xff, A: 0xd9}
	focusFill = color.NRGBA{R: 0x00, G: 0x69, B: 0x5c, A: 0xeb}
	clearFill = color.NRGBA{}
)

// Compute maps a layout type, canvas size and content onto the ordered
// list of boxes to draw. The title box is always first and the footer box,
// when footer is non-empty, always last. Compute has no side effects and
// returns identical output for identical input.
//
// A canvas too short for header and footer gets a zero content height and
// its boxes overlap instead of failing.
func Compute(t Type, points []string, title, footer string, canvasWidth, canvasHeight int) []TextBox {
	w := math.Max(0, float64(canvasWidth))
	h := math.Max(0, float64(canvasHeight))
	contentHeight := math.Max(0, h-HeaderHeight-FooterHeight)

	boxes := make([]TextBox, 0, len(points)+2)
	boxes = append(boxes, titleBox(title, w))

	if len(points) > 0 {
		switch t {
		case Grid:
			boxes = append(boxes, gridBoxes(points, w, contentHeight)...)
		case Central:
			boxes = append(boxes, centralBoxes(points, w, h)...)
		default:
			boxes = append(boxes, timelineBoxes(points, w, contentHeight)...)
		}
	}

	if footer != "" {
		boxes = append(boxes, footerBox(footer, w, h))
	}
	return boxes
}

func titleBox(title string, w float64) TextBox {
	return TextBox{
		Text:            title,
		X:               Padding,
		Y:               Padding / 2,
		Width:           nonNeg(w - 2*Padding),
		Height:          HeaderHeight - Padding,
		FontSizePx:      titleFontSize,
		FontFamily:      FamilyBold,
		TextColor:       inkLight,
		BackgroundColor: titleFill,
		CornerRadiusPx:  boxRadius,
		PaddingPx:       boxInset,
		Align:           AlignCenter,
	}
}

func timelineBoxes(points []string, w, contentHeight float64) []TextBox {
	slot := contentHeight / float64(len(points))
	out := make([]TextBox, 0, len(points))
	for i, p := range points {
		fill := evenFill
		if i%2 == 1 {
			fill = oddFill
		}
		out = append(out, TextBox{
			Text:            p,
			X:               Padding,
			Y:               HeaderHeight + float64(i)*slot,
			Width:           nonNeg(w - 2*Padding),
			Height:          slot,
			FontSizePx:      pointFontSize,
			FontFamily:      FamilyRegular,
			TextColor:       inkDark,
			BackgroundColor: fill,
			CornerRadiusPx:  boxRadius,
			PaddingPx:       boxInset,
			Align:           AlignRight,
		})
	}
	return out
}

func gridBoxes(points []string, w, contentHeight float64) []TextBox {
	rows := (len(points) + 1) / 2
	cellW := nonNeg((w - 3*Padding) / 2)
	cellH := nonNeg((contentHeight - Padding*float64(rows+1)) / float64(rows))

	out := make([]TextBox, 0, len(points))
	for i, p := range points {
		row, col := i/2, i%2
		out = append(out, TextBox{
			Text:            p,
			X:               Padding + float64(col)*(cellW+Padding),
			Y:               HeaderHeight + Padding + float64(row)*(cellH+Padding),
			Width:           cellW,
			Height:          cellH,
			FontSizePx:      pointFontSize,
			FontFamily:      FamilyRegular,
			TextColor:       inkDark,
			BackgroundColor: gridFill,
			CornerRadiusPx:  boxRadius,
			PaddingPx:       boxInset,
			Align:           AlignCenter,
		})
	}
	return out
}

// centralBoxes puts the first point and the satellite circle on the canvas
// centre. With the taller header that sits 10px above the content midline.
func centralBoxes(points []string, w, h float64) []TextBox {
	cx, cy := w/2, h/2

	mainW := math.Min(centralBoxWidth, nonNeg(w-2*Padding))
	out := make([]TextBox, 0, len(points))
	out = append(out, TextBox{
		Text:            points[0],
		X:               cx - mainW/2,
		Y:               cy - centralBoxHeight/2,
		Width:           mainW,
		Height:          centralBoxHeight,
		FontSizePx:      centralFontSize,
		FontFamily:      FamilyBold,
		TextColor:       inkLight,
		BackgroundColor: focusFill,
		CornerRadiusPx:  boxRadius,
		PaddingPx:       boxInset,
		Align:           AlignCenter,
	})

	rest := points[1:]
	for i, p := range rest {
		angle := float64(i) * 2 * math.Pi / float64(len(rest))
		out = append(out, TextBox{
			Text:            p,
			X:               cx + math.Cos(angle)*CentralRadius - satelliteBoxWidth/2,
			Y:               cy + math.Sin(angle)*CentralRadius - satelliteBoxHeight/2,
			Width:           satelliteBoxWidth,
			Height:          satelliteBoxHeight,
			FontSizePx:      satelliteFontSize,
			FontFamily:      FamilyRegular,
			TextColor:       inkDark,
			BackgroundColor: evenFill,
			CornerRadiusPx:  boxRadius,
			PaddingPx:       boxInset / 2,
			Align:           AlignCenter,
		})
	}
	return out
}

func footerBox(footer string, w, h float64) TextBox {
	return TextBox{
		Text:            footer,
		X:               Padding,
		Y:               h - FooterHeight + Padding/2,
		Width:           nonNeg(w - 2*Padding),
		Height:          FooterHeight - Padding,
		FontSizePx:      footerFontSize,
		FontFamily:      FamilyRegular,
		TextColor:       inkDark,
		BackgroundColor: clearFill,
		PaddingPx:       boxInset / 2,
		Align:           AlignCenter,
	}
}

func nonNeg(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
