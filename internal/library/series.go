package library

import "fmt"

// Series identifies one podcast series in the archive.
// The set is closed: series are defined here, not at runtime.
type Series string

const (
	FreakonomicsRadio   Series = "FR"
	NoStupidQuestions   Series = "NSQ"
	FreakonomicsMD      Series = "FMD"
	PeopleIMostlyAdmire Series = "PIMA"
	OffLeash            Series = "OL"
)

// AllSeries lists every known series in a stable order.
var AllSeries = []Series{
	FreakonomicsRadio,
	NoStupidQuestions,
	FreakonomicsMD,
	PeopleIMostlyAdmire,
	OffLeash,
}

type seriesInfo struct {
	archiveURL       string
	metadataFilename string
	dirName          string
}

var seriesTable = map[Series]seriesInfo{
	FreakonomicsRadio: {
		archiveURL:       "https://freakonomics.com/series-full/freakonomics-radio/",
		metadataFilename: "fr.json",
		dirName:          "Freakonomics Radio",
	},
	NoStupidQuestions: {
		archiveURL:       "https://freakonomics.com/series-full/nsq/",
		metadataFilename: "nsq.json",
		dirName:          "No Stupid Questions",
	},
	FreakonomicsMD: {
		archiveURL:       "https://freakonomics.com/series-full/bapu/",
		metadataFilename: "fmd.json",
		dirName:          "Freakonomics MD",
	},
	PeopleIMostlyAdmire: {
		archiveURL:       "https://freakonomics.com/series-full/people-i-mostly-admire/",
		metadataFilename: "pima.json",
		dirName:          "People I Mostly Admire",
	},
	OffLeash: {
		archiveURL:       "https://freakonomics.com/series-full/off-leash/",
		metadataFilename: "ol.json",
		dirName:          "Off Leash",
	},
}

// ParseSeries converts a series code (e.g. "FR") into a Series.
func ParseSeries(code string) (Series, error) {
	s := Series(code)
	if _, ok := seriesTable[s]; !ok {
		return "", fmt.Errorf("unknown series %q", code)
	}
	return s, nil
}

// Valid reports whether s is one of the known series.
func (s Series) Valid() bool {
	_, ok := seriesTable[s]
	return ok
}

func (s Series) String() string { return string(s) }

// ArchiveURL returns the listing page for the series' full archive.
func (s Series) ArchiveURL() string { return seriesTable[s].archiveURL }

// MetadataFilename returns the name of the series' metadata record file.
func (s Series) MetadataFilename() string { return seriesTable[s].metadataFilename }

// DirName returns the directory name payload files are stored under.
func (s Series) DirName() string { return seriesTable[s].dirName }
