package mrz

import (
	"strconv"
	"strings"
)

// TD3 layout constants: two lines of 44 characters on passport-sized
// documents. The second line is sliced by fixed offsets; the check digits at
// positions 9, 19, 27 and 43 are skipped, not validated.
const (
	td3LineLength = 44
	minLineLength = 30
	emptyDate     = "<<<<<<"
)

// parseTD3 fills rec from MRZ text assuming the TD3 two-line layout. Fields
// that cannot be recovered are left as they were.
func parseTD3(text string, rec *Record) {
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return
	}

	line1 := lines[0]
	if strings.HasPrefix(line1, "P<") && len(line1) >= 5 {
		rec.DocumentType = "P"
		rec.IssuingCountry = strings.ReplaceAll(line1[2:5], "<", "")
		namePart := line1[5:]
		nameParts := strings.SplitN(namePart, "<<", 2)
		if len(nameParts) == 2 {
			surname := strings.TrimSpace(strings.ReplaceAll(nameParts[0], "<", " "))
			given := strings.TrimSpace(strings.ReplaceAll(nameParts[1], "<", " "))
			rec.Names = strings.TrimSpace(given + " " + surname)
		}
	}

	line2 := lines[1]
	if len(line2) < td3LineLength {
		return
	}
	if doc := strings.ReplaceAll(line2[:9], "<", ""); doc != "" {
		rec.PassportNumber = doc
	}
	if birth := line2[13:19]; birth != emptyDate {
		if formatted, ok := FormatYYMMDD(birth); ok {
			rec.DateOfBirth = formatted
		}
	}
	if sex := string(line2[20]); sex == "M" || sex == "F" {
		rec.Sex = sex
	}
	if expiry := line2[21:27]; expiry != emptyDate {
		if formatted, ok := FormatYYMMDD(expiry); ok {
			rec.DateOfExpiry = formatted
		}
	}
}

// FormatYYMMDD converts an MRZ six-digit date to DD-MM-YYYY. The century is
// resolved as 2000+YY when YY < 30, otherwise 1900+YY.
func FormatYYMMDD(s string) (string, bool) {
	if len(s) != 6 {
		return "", false
	}
	yy, err := strconv.Atoi(s[:2])
	if err != nil {
		return "", false
	}
	mm, err := strconv.Atoi(s[2:4])
	if err != nil {
		return "", false
	}
	dd, err := strconv.Atoi(s[4:6])
	if err != nil {
		return "", false
	}
	year := 1900 + yy
	if yy < 30 {
		year = 2000 + yy
	}
	if mm < 1 || mm > 12 || dd < 1 || dd > 31 {
		return "", false
	}
	return pad2(dd) + "-" + pad2(mm) + "-" + strconv.Itoa(year), true
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// cleanLines keeps only lines plausibly belonging to the MRZ band.
func cleanLines(text string) string {
	var valid []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) >= minLineLength {
			valid = append(valid, line)
		}
	}
	return strings.Join(valid, "\n")
}
