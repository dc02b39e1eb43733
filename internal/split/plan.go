package split

import "fmt"

// Policy decides what happens to the rows left over when the image height
// is not divisible by the band count.
type Policy string

const (
	// RemainderLast extends the final band to the bottom of the image.
	RemainderLast Policy = "last"
	// RemainderDrop discards the leftover rows, matching the historical
	// batch script.
	RemainderDrop Policy = "drop"
)

// ParsePolicy maps a configuration value to a Policy.
func ParsePolicy(value string) (Policy, error) {
	switch Policy(value) {
	case RemainderLast, "":
		return RemainderLast, nil
	case RemainderDrop:
		return RemainderDrop, nil
	default:
		return "", fmt.Errorf("unknown remainder policy %q", value)
	}
}

// Band is a half-open row range [Top, Bottom) of the source image.
type Band struct {
	Index  int `json:"index"`
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
}

// Height returns the number of rows in the band.
func (b Band) Height() int {
	return b.Bottom - b.Top
}

// Count returns how many bands an image of the given height is cut into.
// Heights at or below the threshold are not split and count as 1; at exactly
// the threshold this departs from floor(H/T)+1, which would give 2.
func Count(height, threshold int) int {
	if threshold <= 0 || height <= threshold {
		return 1
	}
	n := height/threshold + 1
	if n > height {
		n = height
	}
	return n
}

// Plan returns the bands for an image of the given height, or nil when the
// image does not need splitting. Every band but the last is floor(height/n)
// rows tall; the last band is the same height under RemainderDrop and
// reaches the bottom of the image under RemainderLast.
func Plan(height, threshold int, policy Policy) []Band {
	n := Count(height, threshold)
	if n <= 1 {
		return nil
	}
	b := height / n
	bands := make([]Band, n)
	for i := range bands {
		bands[i] = Band{Index: i, Top: i * b, Bottom: i*b + b}
	}
	if policy != RemainderDrop {
		bands[n-1].Bottom = height
	}
	return bands
}

// Dropped returns how many trailing rows of an image of the given height the
// bands leave uncovered.
func Dropped(height int, bands []Band) int {
	if len(bands) == 0 {
		return 0
	}
	return height - bands[len(bands)-1].Bottom
}
