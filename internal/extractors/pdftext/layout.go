package pdftext

import (
	"math"
	"sort"
	"strings"
)

// Run is one positioned piece of text as reported by the PDF reader.
// Y grows upwards, so the top line of a page has the largest Y.
type Run struct {
	X, Y, W float64
	Size    float64
	Font    string
	S       string
}

// Line is a row of runs sharing a baseline.
type Line struct {
	Y    float64
	Size float64
	Text string
}

// BuildLines groups runs into lines top to bottom and orders each line
// left to right, inserting spaces at visible gaps.
func BuildLines(runs []Run) []Line {
	if len(runs) == 0 {
		return nil
	}
	sorted := make([]Run, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines []Line
	var cur []Run
	flush := func() {
		if len(cur) > 0 {
			lines = append(lines, joinRuns(cur))
			cur = nil
		}
	}
	// cur[0] is the highest run of the line, so a line never spans more
	// than one tolerance.
	for _, r := range sorted {
		if len(cur) > 0 && !sameBaseline(cur[0], r) {
			flush()
		}
		cur = append(cur, r)
	}
	flush()
	return lines
}

func sameBaseline(a, b Run) bool {
	tol := math.Max(a.Size, b.Size) * 0.4
	if tol < 1 {
		tol = 1
	}
	return math.Abs(a.Y-b.Y) <= tol
}

func joinRuns(runs []Run) Line {
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].X < runs[j].X })

	var b strings.Builder
	var size float64
	for i, r := range runs {
		if r.Size > size {
			size = r.Size
		}
		if i > 0 {
			prev := runs[i-1]
			gap := r.X - (prev.X + prev.W)
			if gap > math.Max(prev.Size, 1)*0.2 &&
				!strings.HasSuffix(b.String(), " ") && !strings.HasPrefix(r.S, " ") {
				b.WriteByte(' ')
			}
		}
		b.WriteString(r.S)
	}
	return Line{Y: runs[0].Y, Size: size, Text: b.String()}
}

// BodySize returns the font size carrying the most characters, rounded to
// half a point. It is the reference for heading detection.
func BodySize(lines []Line) float64 {
	weight := map[float64]int{}
	for _, l := range lines {
		n := len(strings.TrimSpace(l.Text))
		if n == 0 || l.Size <= 0 {
			continue
		}
		weight[math.Round(l.Size*2)/2] += n
	}

	var best float64
	bestN := -1
	for size, n := range weight {
		if n > bestN || (n == bestN && size < best) {
			best, bestN = size, n
		}
	}
	return best
}
