package store

// Default bucket names for the entity tables.
const (
	DefaultRequestsBucket    = "bandhu-requests"
	DefaultRespondersBucket  = "bandhu-responders"
	DefaultAssignmentsBucket = "bandhu-assignments"
)

// Config configures the NATS-backed record store.
type Config struct {
	// RequestsBucket is the KV bucket name for request records.
	RequestsBucket string `yaml:"requestsBucket"`

	// RespondersBucket is the KV bucket name for responder records.
	RespondersBucket string `yaml:"respondersBucket"`

	// AssignmentsBucket is the KV bucket name for assignment records.
	AssignmentsBucket string `yaml:"assignmentsBucket"`
}

// setDefaults fills unset bucket names with the defaults.
func (c *Config) setDefaults() {
	if c.RequestsBucket == "" {
		c.RequestsBucket = DefaultRequestsBucket
	}
	if c.RespondersBucket == "" {
		c.RespondersBucket = DefaultRespondersBucket
	}
	if c.AssignmentsBucket == "" {
		c.AssignmentsBucket = DefaultAssignmentsBucket
	}
}
