package domain

// Settings holds the fixed filesystem locations a run works against.
type Settings struct {
	ModuleDir    string
	InputPath    string
	OutputPath   string
	ManifestPath string
	ENCPath      string
	PuppetBin    string
	LogLevel     string
}

// DefaultSettings returns the stock /etc/puppet layout
func DefaultSettings() Settings {
	return Settings{
		ModuleDir:    "/etc/puppet/modules",
		InputPath:    "/etc/puppet/input.yaml",
		OutputPath:   "/etc/puppet/node.yaml",
		ManifestPath: "/etc/puppet/manifests/default.pp",
		ENCPath:      "/etc/puppet/enc.sh",
		PuppetBin:    "/usr/bin/puppet",
		LogLevel:     "warn",
	}
}
