package release

// DowngradeCheck is the outcome of comparing the installed version with the
// update on offer.
type DowngradeCheck struct {
	// Installed is the running version.
	Installed string
	// Next is the version on offer; empty when nothing is offered.
	Next string
	// IsDowngrade tells whether applying the offer goes back a release.
	IsDowngrade bool
	// Notice is the admin warning to show; empty unless IsDowngrade.
	Notice string
}

// NewDowngradeCheck compares installed with next. An empty next is never a downgrade.
func NewDowngradeCheck(installed, next string) *DowngradeCheck {
	return &DowngradeCheck{
		Installed:   installed,
		Next:        next,
		IsDowngrade: next != "" && IsConfiguredDowngrade(installed, next),
	}
}
