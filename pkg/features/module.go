package features

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

const (
	CustomChannelMCPrefixed    = "customChannelMCPrefixed"
	CustomChannelIdentifier    = "customChannelIdentifier"
	DimensionIsAnInt           = "dimensionIsAnInt"
	DimensionIsAString         = "dimensionIsAString"
	DimensionIsAWorld          = "dimensionIsAWorld"
	DimensionDataIsAvailable   = "dimensionDataIsAvailable"
	DimensionDataInCodec       = "dimensionDataInCodec"
	SegmentedRegistryCodecData = "segmentedRegistryCodecData"
	SpawnRespawnWorldDataField = "spawnRespawnWorldDataField"
	NoAckOnCreateSetSlotPacket = "noAckOnCreateSetSlotPacket"
)

const latest = "latest"

//go:embed features.yaml
var featuresFile []byte

var ErrUnknownVersion = errors.New("unknown protocol version")

type Feature struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Versions    []string `yaml:"versions"`
}

func (f Feature) covers(version string) bool {
	from, to := f.Versions[0], f.Versions[1]
	if semver.Compare(version, canonical(from)) < 0 {
		return false
	}
	return to == latest || semver.Compare(version, canonical(to)) <= 0
}

var table []Feature

func init() {
	err := yaml.Unmarshal(featuresFile, &table)
	if err != nil {
		panic(fmt.Sprintf("invalid features table: %v", err))
	}

	for _, feature := range table {
		if len(feature.Versions) != 2 {
			panic(fmt.Sprintf("feature %s needs a [from, to] version range", feature.Name))
		}
	}
}

// All returns every known feature.
func All() []Feature {
	return append([]Feature(nil), table...)
}

func canonical(version string) string {
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

// Profile is the set of schema variants used by one protocol version.
type Profile struct {
	Version string
	flags   map[string]struct{}
}

// New builds a profile from an explicit list of feature names.
func New(names ...string) Profile {
	flags := make(map[string]struct{}, len(names))
	for _, name := range names {
		flags[name] = struct{}{}
	}
	return Profile{flags: flags}
}

// ForVersion resolves the profile of a game version such as "1.20.4".
func ForVersion(version string) (Profile, error) {
	v := canonical(version)
	if !semver.IsValid(v) || semver.Prerelease(v) != "" || semver.Build(v) != "" {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownVersion, version)
	}

	names := make([]string, 0)
	for _, feature := range table {
		if feature.covers(v) {
			names = append(names, feature.Name)
		}
	}

	// Versions before the oldest range are not understood at all
	if len(names) == 0 {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownVersion, version)
	}

	profile := New(names...)
	profile.Version = version
	return profile, nil
}

func (p Profile) Supports(name string) bool {
	_, ok := p.flags[name]
	return ok
}

// Names returns the supported features in a stable order.
func (p Profile) Names() []string {
	names := make([]string, 0, len(p.flags))
	for name := range p.flags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
