package homebrew

import (
	"github.com/quantmind-br/brewpkg/internal/syspkg"
)

// Keys are the registry slots the Homebrew provider serves
var Keys = []syspkg.Key{
	{Platform: syspkg.PlatformMacOSXServer, Resource: syspkg.ResourcePackage},
	{Platform: syspkg.PlatformMacOSX, Resource: syspkg.ResourcePackage},
}

// Register binds p to the macOS package slots. Registration is skipped
// entirely when the registry already serves mac_os_x packages with Homebrew.
func Register(reg *syspkg.Registry, p *Provider) bool {
	macOS := syspkg.Key{Platform: syspkg.PlatformMacOSX, Resource: syspkg.ResourcePackage}
	if reg.Provides(macOS, ProviderName) {
		p.logger.Debug().Msg("homebrew provider already registered, skipping")
		return false
	}

	registered := false
	for _, key := range Keys {
		if reg.RegisterIfAbsent(key, p) {
			registered = true
		}
	}
	return registered
}
