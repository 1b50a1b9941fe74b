package menu

// placeholderEntries is shown while no launcher is configured.
func placeholderEntries() []Entry {
	return []Entry{
		{
			ID:       "placeholder",
			Label:    "No launchers configured",
			Disabled: true,
		},
	}
}
