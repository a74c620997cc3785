package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckConfigVersion checks whether a config file written for configVersion
// can be read by a downloader at toolVersion.
//
// Rules:
//   - An empty config version, or a "main" tool build, skips the check
//   - Major versions must match
//   - The config's minor version must not be newer than the tool's
//
// Examples:
//   - Tool 1.2.0, Config 1.2 -> OK
//   - Tool 1.3.0, Config 1.1 -> OK (older config)
//   - Tool 1.1.0, Config 1.2 -> ERROR (config needs a newer tool)
//   - Tool 2.0.0, Config 1.0 -> ERROR (major differs)
func CheckConfigVersion(toolVersion, configVersion string) error {
	toolVersion = strings.TrimPrefix(toolVersion, "v")
	configVersion = strings.TrimPrefix(configVersion, "v")

	if configVersion == "" || toolVersion == "main" {
		return nil
	}

	toolSemver, err := semver.NewVersion(toolVersion)
	if err != nil {
		return fmt.Errorf("invalid tool version '%s': %w", toolVersion, err)
	}

	configSemver, err := semver.NewVersion(configVersion)
	if err != nil {
		return fmt.Errorf("invalid config version '%s': %w", configVersion, err)
	}

	if toolSemver.Major() != configSemver.Major() {
		return fmt.Errorf("major version mismatch: downloader is %d.x.x but config requires %d.x.x",
			toolSemver.Major(), configSemver.Major())
	}

	if configSemver.Minor() > toolSemver.Minor() {
		return fmt.Errorf("config requires downloader %d.%d.x or newer, running %s",
			configSemver.Major(), configSemver.Minor(), toolSemver.String())
	}

	return nil
}
