package youtube

import (
	"regexp"
	"strconv"
)

var durationRE = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseDuration converts the Data API's compact ISO-8601 duration (e.g.
// "PT2H5M", "PT45S") into total seconds. Missing components count as zero; a
// string matching no component yields 0, which callers must read as "duration
// unknown" rather than a zero-length video.
func ParseDuration(s string) int {
	m := durationRE.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	return hours*3600 + minutes*60 + seconds
}
