package taskprocessor

// config collects the options applied to a single Get call.
type config struct {
	refIfExists bool
}

// Option configures a call to Get.
type Option func(*config)

// RefIfExists makes Get return ErrNotFound instead of creating a new
// processor when name does not already exist.
func RefIfExists() Option {
	return func(c *config) { c.refIfExists = true }
}
