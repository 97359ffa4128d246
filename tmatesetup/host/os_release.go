package host

import (
	"gopkg.in/ini.v1"
)

const DefaultOSReleasePath = "/etc/os-release"

// Distribution holds the identifying fields of an os-release file.
type Distribution struct {
	ID         string
	IDLike     string
	Name       string
	PrettyName string
	VersionID  string
}

// String returns the most descriptive name available.
func (d Distribution) String() string {
	switch {
	case d.PrettyName != "":
		return d.PrettyName
	case d.Name != "" && d.VersionID != "":
		return d.Name + " " + d.VersionID
	case d.Name != "":
		return d.Name
	default:
		return d.ID
	}
}

// ReadOSRelease parses an os-release(5) file. The format is a flat list of
// shell-style KEY=value assignments, which ini reads as its default section.
func ReadOSRelease(path string) (Distribution, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:     true,
		SkipUnrecognizableLines: true,
	}, path)
	if err != nil {
		return Distribution{}, err
	}

	section := cfg.Section(ini.DefaultSection)
	return Distribution{
		ID:         section.Key("ID").String(),
		IDLike:     section.Key("ID_LIKE").String(),
		Name:       section.Key("NAME").String(),
		PrettyName: section.Key("PRETTY_NAME").String(),
		VersionID:  section.Key("VERSION_ID").String(),
	}, nil
}
