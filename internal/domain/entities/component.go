package entities

// Channel is a release track inside a manifest game-version entry.
type Channel string

const (
	ChannelStable   Channel = "stable"
	ChannelUnstable Channel = "unstable"
)

// ChannelFor derives the channel from the component's declared stability.
func ChannelFor(stable bool) Channel {
	if stable {
		return ChannelStable
	}
	return ChannelUnstable
}

// Component describes one updatable mod as supplied by the host.
type Component struct {
	ID             string
	DisplayName    string
	ManifestURL    string
	CurrentVersion string
	Stable         bool
	Scheme         string
}

// Channel returns the release track this component follows.
func (c Component) Channel() Channel {
	return ChannelFor(c.Stable)
}

// Name returns the display name, falling back to the ID.
func (c Component) Name() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.ID
}
