// Package sector maps NAICS industry codes to coarse sector labels.
package sector

import "strings"

// Sector labels.
const (
	Technology    = "Technology (Information)"
	Finance       = "Finance/Insurance"
	Professional  = "Professional/Consulting"
	Management    = "Management of Companies"
	Education     = "Education"
	Healthcare    = "Healthcare/Social Assistance"
	Manufacturing = "Manufacturing"
	Other         = "Other"
)

var byPrefix = map[string]string{
	"51": Technology,
	"52": Finance,
	"54": Professional,
	"55": Management,
	"61": Education,
	"62": Healthcare,
	"31": Manufacturing,
	"32": Manufacturing,
	"33": Manufacturing,
}

// Classify returns the sector for a NAICS code. Exports carry codes as "54",
// "541511" or "54 - Professional, Scientific, and Technical Services"; only the
// leading two digits matter. Anything unrecognized is Other.
func Classify(naics string) string {
	code := strings.TrimSpace(naics)
	if len(code) < 2 || !isDigit(code[0]) || !isDigit(code[1]) {
		return Other
	}
	if s, ok := byPrefix[code[:2]]; ok {
		return s
	}
	return Other
}

// Labels returns every label Classify can produce.
func Labels() []string {
	return []string{Technology, Finance, Professional, Management, Education, Healthcare, Manufacturing, Other}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
