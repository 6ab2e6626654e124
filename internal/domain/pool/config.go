package pool

// Config carries the defaults applied when requests omit values.
type Config struct {
	DefaultVolumeGallons float64
	DefaultTDS           float64
	BillingPeriodDays    int
}
