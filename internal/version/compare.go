package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/cuanbot-engine/pkg/errors"
)

// CheckCompatibility reports whether a config written for the required engine
// version can run on engine. An empty requirement or a development build on
// either side skips the check. Major and minor must match, patch may differ.
func CheckCompatibility(engine, required string) error {
	engine = strings.TrimPrefix(engine, "v")
	required = strings.TrimPrefix(required, "v")

	if required == "" || engine == "main" || required == "main" {
		return nil
	}

	engineVersion, err := semver.NewVersion(engine)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid engine version %q", engine)
	}

	requiredVersion, err := semver.NewVersion(required)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid engine_version %q", required)
	}

	if engineVersion.Major() != requiredVersion.Major() || engineVersion.Minor() != requiredVersion.Minor() {
		return errors.Newf(errors.ErrCodeBacktestConfigError,
			"config targets engine %d.%d.x but this engine is %s",
			requiredVersion.Major(), requiredVersion.Minor(), engineVersion.String())
	}

	return nil
}
