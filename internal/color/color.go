package color

import (
	"strconv"
	"strings"
)

// Bucket is a coarse color category for a cell fill
type Bucket string

const (
	None   Bucket = ""
	White  Bucket = "white"
	Black  Bucket = "black"
	Red    Bucket = "red"
	Green  Bucket = "green"
	Blue   Bucket = "blue"
	Yellow Bucket = "yellow"
	Other  Bucket = "other"
)

const (
	brightCutoff = 180
	darkCutoff   = 60
)

var localNames = map[Bucket]string{
	White:  "putih",
	Black:  "hitam",
	Red:    "merah",
	Green:  "hijau",
	Blue:   "biru",
	Yellow: "kuning",
	Other:  "lainnya",
}

// Local returns the Indonesian label used by older exports
func (b Bucket) Local() string {
	return localNames[b]
}

// Kind is the encoding a fill color descriptor uses
type Kind int

const (
	KindRGB Kind = iota
	KindIndexed
	KindTheme
)

// Descriptor is a cell fill color as found in the workbook
type Descriptor struct {
	Kind  Kind
	RGB   string
	Index int
}

// RGB builds a descriptor from a hex RGB or ARGB value
func RGB(hex string) Descriptor {
	return Descriptor{Kind: KindRGB, RGB: hex}
}

// Indexed builds a descriptor from a palette index
func Indexed(i int) Descriptor {
	return Descriptor{Kind: KindIndexed, Index: i}
}

// Theme builds a descriptor from a theme index
func Theme(i int) Descriptor {
	return Descriptor{Kind: KindTheme, Index: i}
}

var indexedColors = map[int]string{
	2:  "FF0000",
	3:  "00FF00",
	4:  "0000FF",
	5:  "FFFF00",
	6:  "FF00FF",
	7:  "00FFFF",
	8:  "000000",
	9:  "FFFFFF",
	10: "800000",
	11: "008000",
	12: "000080",
	13: "808000",
	14: "800080",
	15: "008080",
	16: "C0C0C0",
	17: "808080",
}

var themeColors = map[int]string{
	0: "000000",
	1: "FFFFFF",
	2: "1F497D",
	3: "EEECE1",
	4: "4F81BD",
	5: "F79646",
	6: "9BBB59",
	7: "8064A2",
	8: "4BACC6",
	9: "F8696B",
}

// Hex resolves a descriptor to a six digit RGB value. ok is false for "no color",
// which includes the all-zero and all-one values before any alpha is stripped.
func (d Descriptor) Hex() (string, bool) {
	switch d.Kind {
	case KindIndexed:
		hex, ok := indexedColors[d.Index]
		return hex, ok && !isSentinel(hex)
	case KindTheme:
		hex, ok := themeColors[d.Index]
		return hex, ok && !isSentinel(hex)
	default:
		return normalizeHex(d.RGB)
	}
}

// Classify reduces a descriptor to its bucket; anything unreadable is None
func Classify(d Descriptor) Bucket {
	hex, ok := d.Hex()
	if !ok {
		return None
	}
	r, g, b, ok := channels(hex)
	if !ok {
		return None
	}
	return Bucketize(r, g, b)
}

// ClassifyHex classifies a hex RGB or ARGB string
func ClassifyHex(hex string) Bucket {
	return Classify(RGB(hex))
}

type rule struct {
	bucket Bucket
	match  func(r, g, b int) bool
}

// rules are evaluated top to bottom; the first match wins
var rules = []rule{
	{White, func(r, g, b int) bool { return r > brightCutoff && g > brightCutoff && b > brightCutoff }},
	{Black, func(r, g, b int) bool { return r < darkCutoff && g < darkCutoff && b < darkCutoff }},
	{Red, func(r, g, b int) bool { return r > brightCutoff && g <= brightCutoff && b <= brightCutoff }},
	{Green, func(r, g, b int) bool { return r <= brightCutoff && g > brightCutoff && b <= brightCutoff }},
	{Blue, func(r, g, b int) bool { return r <= brightCutoff && g <= brightCutoff && b > brightCutoff }},
	{Yellow, func(r, g, b int) bool { return r > brightCutoff && g > brightCutoff && b <= brightCutoff }},
}

// Bucketize classifies three 8-bit channels
func Bucketize(r, g, b int) Bucket {
	for _, rl := range rules {
		if rl.match(r, g, b) {
			return rl.bucket
		}
	}
	return Other
}

func normalizeHex(value string) (string, bool) {
	var sb strings.Builder
	for _, c := range strings.ToUpper(value) {
		if (c >= '0' && c <= '9') || (c >= 'A' && c <= 'F') {
			sb.WriteRune(c)
		}
	}
	hex := sb.String()
	if isSentinel(hex) {
		return "", false
	}
	switch len(hex) {
	case 8:
		if strings.HasPrefix(hex, "FF") {
			return hex[2:], true
		}
		return hex[:6], true
	case 6:
		return hex, true
	default:
		return "", false
	}
}

func isSentinel(hex string) bool {
	switch hex {
	case "00000000", "FFFFFFFF", "000000", "FFFFFF":
		return true
	}
	return false
}

func channels(hex string) (r, g, b int, ok bool) {
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	var vals [3]int
	for i := range vals {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return 0, 0, 0, false
		}
		vals[i] = int(v)
	}
	return vals[0], vals[1], vals[2], true
}
