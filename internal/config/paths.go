package config

import (
	"path/filepath"
	"regexp"
	"strings"
)

// filenames like "2023_04_17_B.xlsx": a date followed by a run letter
var runNameRe = regexp.MustCompile(`^\d{4}_\d{2}_\d{2}_([A-Za-z])$`)

// OutputPath derives the analysis workbook path from the input path:
// the input stem suffixed with "_analysis", same directory, same
// extension.
func OutputPath(inputFile string) string {
	ext := filepath.Ext(inputFile)
	stem := strings.TrimSuffix(inputFile, ext)
	return stem + "_analysis" + ext
}

// RunLabel extracts the run letter from an input filename of the form
// XXXX_XX_XX_Y.xlsx. The pattern is advisory: files named differently
// are accepted and yield an empty run label, which leaves region
// display labels unprefixed.
func RunLabel(inputFile string) string {
	name := filepath.Base(inputFile)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if m := runNameRe.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return ""
}
