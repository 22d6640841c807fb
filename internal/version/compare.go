package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-backtest/pkg/errors"
)

// CheckCompatibility reports whether results recorded by recordedVersion can be read by currentVersion.
//
// Rules:
//   - a "main" (development) build on either side skips the check
//   - major and minor versions must match
//   - patch versions may differ, since patches never change the stats or parquet layout
//
// Examples:
//   - current 1.2.0, recorded 1.2.7 -> OK
//   - current 1.3.0, recorded 1.2.0 -> ERROR
//   - current main, recorded 0.4.0 -> OK
func CheckCompatibility(currentVersion, recordedVersion string) error {
	currentVersion = strings.TrimPrefix(currentVersion, "v")
	recordedVersion = strings.TrimPrefix(recordedVersion, "v")

	if currentVersion == "main" || recordedVersion == "main" {
		return nil
	}

	current, err := semver.NewVersion(currentVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeIncompatibleVersion, err, "invalid current version '%s'", currentVersion)
	}

	recorded, err := semver.NewVersion(recordedVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeIncompatibleVersion, err, "invalid recorded version '%s'", recordedVersion)
	}

	if current.Major() != recorded.Major() || current.Minor() != recorded.Minor() {
		return errors.Newf(errors.ErrCodeIncompatibleVersion,
			"version mismatch: engine is %d.%d.x but the run was recorded by %d.%d.x",
			current.Major(), current.Minor(), recorded.Major(), recorded.Minor())
	}

	return nil
}
