package schema

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// SupportedMajor is the config wire-format major version this interpreter
// understands. Minor and patch bumps are additive and always accepted.
const SupportedMajor = 1

// CheckVersion reports whether a config's version field is compatible with
// this interpreter. Versions are parsed leniently ("1.0" and "1" are fine).
func CheckVersion(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid config version %q: %w", version, err)
	}
	if v.Major() > SupportedMajor {
		return fmt.Errorf("config version %s is newer than supported major %d", version, SupportedMajor)
	}
	return nil
}
